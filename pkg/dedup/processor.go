// Package dedup orchestrates the two-pass record deduplication pipeline:
// exact composite-key grouping, then similarity re-clustering of the
// survivors. The whole pipeline is a pure in-memory transform; results go
// back to the caller for storage.
package dedup

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/fern/pkg/compositekey"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/merging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Config is the constructor-injected configuration for a Processor. There is
// no shared process-wide state; independent processors are safe to use
// concurrently on independent data.
type Config struct {
	// SimilarityThreshold is the inclusive score at which the second pass
	// treats two records as duplicates.
	SimilarityThreshold float64
	// DefaultResolution resolves fields without an explicit merge strategy.
	DefaultResolution models.ResolutionMode
	// MergeWorkerCount bounds parallel group merges in the exact pass.
	MergeWorkerCount int
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.85,
		DefaultResolution:   models.ResolutionMerge,
		MergeWorkerCount:    4,
	}
}

// Processor is the public entry point for deduplication runs.
type Processor struct {
	logger  ectologger.Logger
	config  Config
	matcher *matching.Engine
	merger  *merging.Engine
}

// NewProcessor creates a new deduplication processor
func NewProcessor(config Config, logger ectologger.Logger) *Processor {
	if config.MergeWorkerCount < 1 {
		config.MergeWorkerCount = 1
	}
	return &Processor{
		logger:  logger,
		config:  config,
		matcher: matching.NewEngine(matching.EngineConfig{SimilarityThreshold: config.SimilarityThreshold}),
		merger:  merging.NewEngine(config.DefaultResolution),
	}
}

// DeduplicateEvents collapses duplicate event records. Input order determines
// which value wins under first/last strategies, so callers should pass records
// in a stable order (ingestion order) if merge-winner determinism matters.
//
// Malformed records are never rejected: a record missing all identity fields
// still keys into the shared sentinel bucket and participates like any other.
func (p *Processor) DeduplicateEvents(ctx context.Context, records []models.EventRecord) *models.EventDedupResult {
	ctx, span := tracing.StartSpan(ctx, "dedup.Processor.DeduplicateEvents")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"record_count": len(records),
		"record_kind":  "events",
	})

	result := &models.EventDedupResult{
		UniqueRecords:   []models.EventRecord{},
		DuplicateGroups: []models.EventDuplicateGroup{},
	}
	if len(records) == 0 {
		result.Metrics = buildMetrics(0, 0, 0)
		return result
	}

	// Pass 1: group by composite key, preserving first-seen key order.
	keys := make([]string, 0, len(records))
	groupsByKey := make(map[string][]int, len(records))
	for i := range records {
		key := compositekey.EventKey(&records[i])
		if _, ok := groupsByKey[key]; !ok {
			keys = append(keys, key)
		}
		groupsByKey[key] = append(groupsByKey[key], i)
	}

	type groupOutcome struct {
		merged    models.EventRecord
		group     *models.EventDuplicateGroup
		conflicts int
	}
	outcomes := make([]groupOutcome, len(keys))

	// Each key group merges independently; outcomes land in per-group slots
	// so parallelism never changes the output order.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.config.MergeWorkerCount)
	for gi, key := range keys {
		indices := groupsByKey[key]
		eg.Go(func() error {
			if len(indices) == 1 {
				outcomes[gi] = groupOutcome{merged: records[indices[0]]}
				return nil
			}

			members := make([]models.EventRecord, len(indices))
			for mi, ri := range indices {
				members[mi] = records[ri]
			}
			merged, conflicts := p.mergeEvents(egCtx, members)
			outcomes[gi] = groupOutcome{
				merged: merged,
				group: &models.EventDuplicateGroup{
					Key:       key,
					Records:   members,
					Merged:    merged,
					Conflicts: conflicts,
				},
				conflicts: len(conflicts),
			}
			return nil
		})
	}
	// Group merges are pure and never return errors; Wait only joins the workers.
	_ = eg.Wait()

	conflictCount := 0
	pass1 := make([]models.EventRecord, 0, len(keys))
	for _, outcome := range outcomes {
		pass1 = append(pass1, outcome.merged)
		if outcome.group != nil {
			result.DuplicateGroups = append(result.DuplicateGroups, *outcome.group)
			conflictCount += outcome.conflicts
		}
	}

	// Pass 2: similarity re-clustering over the shrunk survivor set.
	unique := make([]models.EventRecord, 0, len(pass1))
	for _, cluster := range p.matcher.ClusterEvents(pass1) {
		if len(cluster) == 1 {
			unique = append(unique, pass1[cluster[0]])
			continue
		}

		members := make([]models.EventRecord, len(cluster))
		for mi, ri := range cluster {
			members[mi] = pass1[ri]
		}
		merged, conflicts := p.mergeEvents(ctx, members)
		unique = append(unique, merged)
		// No shared composite key caused this grouping, so the audit record
		// gets a synthetic key.
		result.DuplicateGroups = append(result.DuplicateGroups, models.EventDuplicateGroup{
			Key:       "similarity:" + uuid.New().String(),
			Records:   members,
			Merged:    merged,
			Conflicts: conflicts,
		})
		conflictCount += len(conflicts)
	}

	result.UniqueRecords = unique
	result.Metrics = buildMetrics(len(records), len(unique), conflictCount)

	log.WithFields(map[string]any{
		"unique_count":       result.Metrics.UniqueCount,
		"duplicates_removed": result.Metrics.DuplicatesRemoved,
		"conflict_count":     result.Metrics.ConflictCount,
	}).Info("Event deduplication complete")

	return result
}

// DeduplicateContacts collapses duplicate contact records, mirroring the
// event pipeline with contact keys and contact similarity weights.
func (p *Processor) DeduplicateContacts(ctx context.Context, records []models.ContactRecord) *models.ContactDedupResult {
	ctx, span := tracing.StartSpan(ctx, "dedup.Processor.DeduplicateContacts")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"record_count": len(records),
		"record_kind":  "contacts",
	})

	result := &models.ContactDedupResult{
		UniqueRecords:   []models.ContactRecord{},
		DuplicateGroups: []models.ContactDuplicateGroup{},
	}
	if len(records) == 0 {
		result.Metrics = buildMetrics(0, 0, 0)
		return result
	}

	keys := make([]string, 0, len(records))
	groupsByKey := make(map[string][]int, len(records))
	for i := range records {
		key := compositekey.ContactKey(&records[i])
		if _, ok := groupsByKey[key]; !ok {
			keys = append(keys, key)
		}
		groupsByKey[key] = append(groupsByKey[key], i)
	}

	conflictCount := 0
	pass1 := make([]models.ContactRecord, 0, len(keys))
	for _, key := range keys {
		indices := groupsByKey[key]
		if len(indices) == 1 {
			pass1 = append(pass1, records[indices[0]])
			continue
		}

		members := make([]models.ContactRecord, len(indices))
		for mi, ri := range indices {
			members[mi] = records[ri]
		}
		merged, conflicts := p.mergeContacts(ctx, members)
		pass1 = append(pass1, merged)
		result.DuplicateGroups = append(result.DuplicateGroups, models.ContactDuplicateGroup{
			Key:       key,
			Records:   members,
			Merged:    merged,
			Conflicts: conflicts,
		})
		conflictCount += len(conflicts)
	}

	unique := make([]models.ContactRecord, 0, len(pass1))
	for _, cluster := range p.matcher.ClusterContacts(pass1) {
		if len(cluster) == 1 {
			unique = append(unique, pass1[cluster[0]])
			continue
		}

		members := make([]models.ContactRecord, len(cluster))
		for mi, ri := range cluster {
			members[mi] = pass1[ri]
		}
		merged, conflicts := p.mergeContacts(ctx, members)
		unique = append(unique, merged)
		result.DuplicateGroups = append(result.DuplicateGroups, models.ContactDuplicateGroup{
			Key:       "similarity:" + uuid.New().String(),
			Records:   members,
			Merged:    merged,
			Conflicts: conflicts,
		})
		conflictCount += len(conflicts)
	}

	result.UniqueRecords = unique
	result.Metrics = buildMetrics(len(records), len(unique), conflictCount)

	log.WithFields(map[string]any{
		"unique_count":       result.Metrics.UniqueCount,
		"duplicates_removed": result.Metrics.DuplicatesRemoved,
		"conflict_count":     result.Metrics.ConflictCount,
	}).Info("Contact deduplication complete")

	return result
}

func (p *Processor) mergeEvents(ctx context.Context, members []models.EventRecord) (models.EventRecord, []models.MergeConflict) {
	fieldMaps := make([]map[string]any, len(members))
	for i := range members {
		fieldMaps[i] = members[i].Fields()
	}
	merged, conflicts := p.merger.MergeGroup(ctx, fieldMaps, models.EventFieldStrategies())
	return models.EventFromFields(merged), conflicts
}

func (p *Processor) mergeContacts(ctx context.Context, members []models.ContactRecord) (models.ContactRecord, []models.MergeConflict) {
	fieldMaps := make([]map[string]any, len(members))
	for i := range members {
		fieldMaps[i] = members[i].Fields()
	}
	merged, conflicts := p.merger.MergeGroup(ctx, fieldMaps, models.ContactFieldStrategies())
	return models.ContactFromFields(merged), conflicts
}

func buildMetrics(total, unique, conflictCount int) models.DedupMetrics {
	metrics := models.DedupMetrics{
		TotalInput:        total,
		UniqueCount:       unique,
		DuplicatesRemoved: total - unique,
		ConflictCount:     conflictCount,
	}
	if total > 0 {
		metrics.DuplicateRate = float64(metrics.DuplicatesRemoved) / float64(total) * 100
	}
	return metrics
}
