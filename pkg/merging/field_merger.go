package merging

import (
	"fmt"
	"reflect"

	"github.com/Ramsey-B/fern/pkg/models"
)

// FieldMerger handles field-level merge logic
type FieldMerger struct{}

// NewFieldMerger creates a new FieldMerger
func NewFieldMerger() *FieldMerger {
	return &FieldMerger{}
}

// MergeField merges a single field across a group of record field maps. The
// maps must be in input order; first/last strategies depend on it. Returns the
// resolved value and, when the present values disagreed, a conflict carrying
// every distinct observed value.
func (m *FieldMerger) MergeField(
	field string,
	records []map[string]any,
	strategy models.FieldMergeStrategy,
) (any, *models.MergeConflict) {
	values := make([]any, 0, len(records))
	for _, record := range records {
		if val, ok := record[field]; ok && val != nil {
			values = append(values, val)
		}
	}

	if len(values) == 0 {
		return nil, nil
	}
	if len(values) == 1 {
		return values[0], nil
	}

	conflict := m.detectConflict(field, values)
	if conflict == nil {
		// All present values agree structurally.
		return values[0], nil
	}

	var result any
	switch strategy {
	case models.MergeStrategyFirst:
		result = values[0]
	case models.MergeStrategyLast:
		result = values[len(values)-1]
	case models.MergeStrategyMax:
		result = m.max(values)
	case models.MergeStrategyLongest:
		result = m.longest(values)
	case models.MergeStrategyMerge:
		result = m.merge(values)
	case models.MergeStrategyManual:
		result = values[0]
		conflict.NeedsReview = true
	default:
		result = values[0]
	}

	conflict.Resolution = strategy
	return result, conflict
}

// detectConflict returns a conflict when the values disagree, with the
// distinct observed values in input order. Equality is structural; two
// differently formatted strings are a conflict even if they normalize the same.
func (m *FieldMerger) detectConflict(field string, values []any) *models.MergeConflict {
	distinct := make([]any, 0, len(values))
	for _, v := range values {
		seen := false
		for _, d := range distinct {
			if reflect.DeepEqual(v, d) {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, v)
		}
	}

	if len(distinct) < 2 {
		return nil
	}

	return &models.MergeConflict{
		Field:  field,
		Values: distinct,
	}
}

// max returns the maximum numeric value, or the first value when nothing is numeric.
func (m *FieldMerger) max(values []any) any {
	var maxVal float64
	var found bool

	for _, v := range values {
		num, ok := toNumber(v)
		if !ok {
			continue
		}
		if !found || num > maxVal {
			maxVal = num
			found = true
		}
	}

	if !found {
		return values[0]
	}
	return maxVal
}

// longest returns the most complete string rendering of the values.
func (m *FieldMerger) longest(values []any) any {
	var longest any
	maxLen := -1

	for _, v := range values {
		s := fmt.Sprintf("%v", v)
		if len(s) > maxLen {
			maxLen = len(s)
			longest = v
		}
	}

	return longest
}

// merge shallow-combines maps (later values overwrite) and de-duplicates
// array entries. Scalars cannot be structurally combined and fall back to the
// first value; the conflict still records everything that was observed.
func (m *FieldMerger) merge(values []any) any {
	if allMaps(values) {
		combined := make(map[string]any)
		for _, v := range values {
			for k, val := range v.(map[string]any) {
				combined[k] = val
			}
		}
		return combined
	}

	if allSlices(values) {
		result := make([]any, 0)
		seen := make(map[string]bool)
		for _, v := range values {
			for _, elem := range v.([]any) {
				key := fmt.Sprintf("%v", elem)
				if seen[key] {
					continue
				}
				seen[key] = true
				result = append(result, elem)
			}
		}
		return result
	}

	return values[0]
}

func allMaps(values []any) bool {
	for _, v := range values {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func allSlices(values []any) bool {
	for _, v := range values {
		if _, ok := v.([]any); !ok {
			return false
		}
	}
	return true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
