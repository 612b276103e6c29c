// Package merging implements group merge logic and conflict reporting
package merging

import (
	"context"
	"sort"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Engine merges groups of duplicate records field by field. It is a pure
// transform: the merged result and conflict list go back to the caller, and
// nothing is persisted here.
type Engine struct {
	fieldMerger *FieldMerger
	defaultMode models.ResolutionMode
}

// NewEngine creates a merge engine. defaultMode resolves fields that have no
// explicit per-field strategy.
func NewEngine(defaultMode models.ResolutionMode) *Engine {
	return &Engine{
		fieldMerger: NewFieldMerger(),
		defaultMode: defaultMode,
	}
}

// MergeGroup merges an ordered group of record field maps into one, applying
// the given per-field strategies. Fields are processed in sorted name order so
// results and conflict lists are deterministic for a given input order.
//
// Panics on an empty group: the orchestrator never constructs one, so an empty
// group means a caller invariant was violated upstream.
func (e *Engine) MergeGroup(
	ctx context.Context,
	records []map[string]any,
	strategies map[string]models.FieldMergeStrategy,
) (map[string]any, []models.MergeConflict) {
	_, span := tracing.StartSpan(ctx, "merging.Engine.MergeGroup")
	defer span.End()

	if len(records) == 0 {
		panic("merging: MergeGroup called with empty group")
	}

	if len(records) == 1 {
		// Short-circuit: nothing to resolve.
		result := make(map[string]any, len(records[0]))
		for k, v := range records[0] {
			result[k] = v
		}
		return result, nil
	}

	allFields := make(map[string]bool)
	for _, record := range records {
		for field := range record {
			allFields[field] = true
		}
	}

	fields := make([]string, 0, len(allFields))
	for field := range allFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	result := make(map[string]any, len(fields))
	var conflicts []models.MergeConflict

	for _, field := range fields {
		strategy, ok := strategies[field]
		if !ok {
			strategy = e.defaultMode.Strategy()
		}

		merged, conflict := e.fieldMerger.MergeField(field, records, strategy)
		if merged != nil {
			result[field] = merged
		}
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}

	return result, conflicts
}
