package models

// FieldMergeStrategy defines how to resolve a field when grouped records disagree
type FieldMergeStrategy string

const (
	// MergeStrategyFirst keeps the first observed value (identity-bearing fields)
	MergeStrategyFirst FieldMergeStrategy = "first"
	// MergeStrategyLast keeps the most recently observed value (status-like fields)
	MergeStrategyLast FieldMergeStrategy = "last"
	// MergeStrategyMax keeps the maximum numeric value
	MergeStrategyMax FieldMergeStrategy = "max"
	// MergeStrategyLongest keeps the most complete string value
	MergeStrategyLongest FieldMergeStrategy = "longest"
	// MergeStrategyMerge shallow-combines maps and de-duplicates arrays
	MergeStrategyMerge FieldMergeStrategy = "merge"
	// MergeStrategyManual keeps the first value and flags the conflict for review
	MergeStrategyManual FieldMergeStrategy = "manual"
)

// ResolutionMode is the orchestrator-level default for fields without an
// explicit per-field strategy
type ResolutionMode string

const (
	ResolutionKeepFirst ResolutionMode = "keep_first"
	ResolutionKeepLast  ResolutionMode = "keep_last"
	ResolutionMerge     ResolutionMode = "merge"
	ResolutionManual    ResolutionMode = "manual"
)

// Strategy returns the field strategy a resolution mode falls back to.
func (m ResolutionMode) Strategy() FieldMergeStrategy {
	switch m {
	case ResolutionKeepFirst:
		return MergeStrategyFirst
	case ResolutionKeepLast:
		return MergeStrategyLast
	case ResolutionMerge:
		return MergeStrategyMerge
	case ResolutionManual:
		return MergeStrategyManual
	default:
		return MergeStrategyMerge
	}
}

// MergeConflict records a field where grouped records disagreed. Values holds
// every distinct observed value in input order, so nothing is merged away
// without a trace.
type MergeConflict struct {
	Field       string             `json:"field"`
	Values      []any              `json:"values"`
	Resolution  FieldMergeStrategy `json:"resolution"`
	NeedsReview bool               `json:"needs_review,omitempty"`
}

// EventDuplicateGroup is the audit record for a set of events collapsed into one.
type EventDuplicateGroup struct {
	Key       string          `json:"key"`
	Records   []EventRecord   `json:"records"`
	Merged    EventRecord     `json:"merged"`
	Conflicts []MergeConflict `json:"conflicts,omitempty"`
}

// ContactDuplicateGroup is the audit record for a set of contacts collapsed into one.
type ContactDuplicateGroup struct {
	Key       string          `json:"key"`
	Records   []ContactRecord `json:"records"`
	Merged    ContactRecord   `json:"merged"`
	Conflicts []MergeConflict `json:"conflicts,omitempty"`
}

// DedupMetrics summarizes a deduplication run. Informational only; never used
// to reject data.
type DedupMetrics struct {
	TotalInput        int     `json:"total_input"`
	UniqueCount       int     `json:"unique_count"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
	DuplicateRate     float64 `json:"duplicate_rate"` // percentage of input removed
	ConflictCount     int     `json:"conflict_count"`
}

// EventDedupResult is the full output of an event deduplication run.
type EventDedupResult struct {
	UniqueRecords   []EventRecord         `json:"unique_records"`
	DuplicateGroups []EventDuplicateGroup `json:"duplicate_groups"`
	Metrics         DedupMetrics          `json:"metrics"`
}

// ContactDedupResult is the full output of a contact deduplication run.
type ContactDedupResult struct {
	UniqueRecords   []ContactRecord         `json:"unique_records"`
	DuplicateGroups []ContactDuplicateGroup `json:"duplicate_groups"`
	Metrics         DedupMetrics            `json:"metrics"`
}

// EventFieldStrategies are the per-field strategies for event merges. Identity
// fields keep the first value to avoid inventing new identity; duration keeps
// the longest recorded call; content keeps the most complete text.
func EventFieldStrategies() map[string]FieldMergeStrategy {
	return map[string]FieldMergeStrategy{
		FieldID:          MergeStrategyFirst,
		FieldUserID:      MergeStrategyFirst,
		FieldPhoneNumber: MergeStrategyFirst,
		FieldType:        MergeStrategyFirst,
		FieldDirection:   MergeStrategyFirst,
		FieldContactID:   MergeStrategyFirst,
		FieldDuration:    MergeStrategyMax,
		FieldContent:     MergeStrategyLongest,
		FieldStatus:      MergeStrategyLast,
		FieldMetadata:    MergeStrategyMerge,
	}
}

// ContactFieldStrategies are the per-field strategies for contact merges.
func ContactFieldStrategies() map[string]FieldMergeStrategy {
	return map[string]FieldMergeStrategy{
		FieldID:           MergeStrategyFirst,
		FieldUserID:       MergeStrategyFirst,
		FieldPhoneNumber:  MergeStrategyFirst,
		FieldName:         MergeStrategyLongest,
		FieldEmail:        MergeStrategyLongest,
		FieldBlocked:      MergeStrategyLast,
		FieldCallCount:    MergeStrategyMax,
		FieldMessageCount: MergeStrategyMax,
		FieldLastActivity: MergeStrategyLast,
		FieldMetadata:     MergeStrategyMerge,
	}
}
