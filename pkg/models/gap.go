package models

import "time"

// GapSeverity tiers a gap by its duration
type GapSeverity string

const (
	GapSeverityMinor    GapSeverity = "minor"    // < 48h
	GapSeverityModerate GapSeverity = "moderate" // < 168h (7 days)
	GapSeverityMajor    GapSeverity = "major"
)

// FrequencyTier is the caller's expectation of how often events occur for a
// contact. It drives the likely-deleted suspicion threshold.
type FrequencyTier string

const (
	FrequencyHigh   FrequencyTier = "high"
	FrequencyMedium FrequencyTier = "medium"
	FrequencyLow    FrequencyTier = "low"
)

// SuspicionThresholdHours returns the gap duration beyond which missing data
// looks like a deletion rather than ordinary quiet time.
func (f FrequencyTier) SuspicionThresholdHours() float64 {
	switch f {
	case FrequencyHigh:
		return 12
	case FrequencyLow:
		return 168
	default:
		return 48
	}
}

// Gap is a candidate missing-data interval between two consecutive events.
type Gap struct {
	Start         time.Time   `json:"start"`
	End           time.Time   `json:"end"`
	DurationHours float64     `json:"duration_hours"`
	Severity      GapSeverity `json:"severity"`
	LikelyDeleted bool        `json:"likely_deleted"`
}

// GapAnalysis is the output of a gap analysis run over an event timeline.
type GapAnalysis struct {
	Gaps             []Gap   `json:"gaps"`
	EventCount       int     `json:"event_count"` // time-bearing events analyzed
	TotalGapHours    float64 `json:"total_gap_hours"`
	DataQualityScore float64 `json:"data_quality_score"` // 0-100
}
