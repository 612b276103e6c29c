// Package gaps flags likely missing-data intervals in a contact's event timeline.
package gaps

import (
	"context"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Severity boundaries in hours.
const (
	moderateBoundaryHours = 48
	majorBoundaryHours    = 168 // 7 days
)

// Config is the constructor-injected configuration for an Analyzer.
type Config struct {
	// GapThresholdHours is the minimum interval between consecutive events
	// that counts as a gap (inclusive).
	GapThresholdHours float64
	// ExpectedFrequency drives the likely-deleted suspicion threshold.
	ExpectedFrequency models.FrequencyTier
	// AnalysisPeriodDays is the denominator window for the data-quality score.
	AnalysisPeriodDays int
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() Config {
	return Config{
		GapThresholdHours:  24,
		ExpectedFrequency:  models.FrequencyMedium,
		AnalysisPeriodDays: 30,
	}
}

// Analyzer walks a deduplicated event timeline and reports candidate
// missing-data intervals. Like the dedup processor it is a pure transform.
type Analyzer struct {
	logger ectologger.Logger
	config Config
}

// NewAnalyzer creates a new gap analyzer
func NewAnalyzer(config Config, logger ectologger.Logger) *Analyzer {
	if config.GapThresholdHours <= 0 {
		config.GapThresholdHours = 24
	}
	if config.AnalysisPeriodDays <= 0 {
		config.AnalysisPeriodDays = 30
	}
	return &Analyzer{logger: logger, config: config}
}

// Analyze reports gaps over the time-bearing records in the input. The input
// is expected to be deduplicated and roughly time-sorted; records are
// re-sorted defensively and records without a parseable timestamp are skipped.
// Fewer than 2 time-bearing records yields no gaps and a zero quality score.
func (a *Analyzer) Analyze(ctx context.Context, records []models.EventRecord) *models.GapAnalysis {
	ctx, span := tracing.StartSpan(ctx, "gaps.Analyzer.Analyze")
	defer span.End()

	times := make([]time.Time, 0, len(records))
	for i := range records {
		if t, ok := records[i].ParsedTimestamp(); ok {
			times = append(times, t)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	analysis := &models.GapAnalysis{
		Gaps:       []models.Gap{},
		EventCount: len(times),
	}
	if len(times) < 2 {
		return analysis
	}

	suspicionHours := a.config.ExpectedFrequency.SuspicionThresholdHours()

	for i := 1; i < len(times); i++ {
		hours := times[i].Sub(times[i-1]).Hours()
		if hours < a.config.GapThresholdHours {
			continue
		}

		analysis.Gaps = append(analysis.Gaps, models.Gap{
			Start:         times[i-1],
			End:           times[i],
			DurationHours: hours,
			Severity:      severity(hours),
			LikelyDeleted: hours > suspicionHours,
		})
		analysis.TotalGapHours += hours
	}

	periodHours := float64(a.config.AnalysisPeriodDays) * 24
	score := 100 - analysis.TotalGapHours/periodHours*100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	analysis.DataQualityScore = score

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"event_count":     analysis.EventCount,
		"gap_count":       len(analysis.Gaps),
		"total_gap_hours": analysis.TotalGapHours,
		"quality_score":   analysis.DataQualityScore,
	}).Debug("Gap analysis complete")

	return analysis
}

func severity(hours float64) models.GapSeverity {
	switch {
	case hours < moderateBoundaryHours:
		return models.GapSeverityMinor
	case hours < majorBoundaryHours:
		return models.GapSeverityModerate
	default:
		return models.GapSeverityMajor
	}
}
