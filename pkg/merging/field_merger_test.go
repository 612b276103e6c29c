package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestMergeField_NoValues(t *testing.T) {
	m := NewFieldMerger()

	records := []map[string]any{{"other": "x"}, {"other": "y"}}
	value, conflict := m.MergeField("missing", records, models.MergeStrategyFirst)
	assert.Nil(t, value)
	assert.Nil(t, conflict)
}

func TestMergeField_SingleValue(t *testing.T) {
	m := NewFieldMerger()

	records := []map[string]any{{"status": "read"}, {"other": "y"}}
	value, conflict := m.MergeField("status", records, models.MergeStrategyLast)
	assert.Equal(t, "read", value)
	assert.Nil(t, conflict)
}

func TestMergeField_AgreementIsNotAConflict(t *testing.T) {
	m := NewFieldMerger()

	records := []map[string]any{{"phone_number": "5551234567"}, {"phone_number": "5551234567"}}
	value, conflict := m.MergeField("phone_number", records, models.MergeStrategyFirst)
	assert.Equal(t, "5551234567", value)
	assert.Nil(t, conflict)
}

func TestMergeField_Strategies(t *testing.T) {
	m := NewFieldMerger()

	t.Run("first", func(t *testing.T) {
		records := []map[string]any{{"id": "a"}, {"id": "b"}}
		value, conflict := m.MergeField("id", records, models.MergeStrategyFirst)
		assert.Equal(t, "a", value)
		require.NotNil(t, conflict)
		assert.Equal(t, models.MergeStrategyFirst, conflict.Resolution)
	})

	t.Run("last", func(t *testing.T) {
		records := []map[string]any{{"status": "sent"}, {"status": "read"}}
		value, conflict := m.MergeField("status", records, models.MergeStrategyLast)
		assert.Equal(t, "read", value)
		require.NotNil(t, conflict)
	})

	t.Run("max keeps the longest call", func(t *testing.T) {
		records := []map[string]any{{"duration": 30}, {"duration": 90}}
		value, conflict := m.MergeField("duration", records, models.MergeStrategyMax)
		assert.Equal(t, float64(90), value)
		require.NotNil(t, conflict)
		assert.Equal(t, []any{30, 90}, conflict.Values)
	})

	t.Run("longest keeps the most complete text", func(t *testing.T) {
		records := []map[string]any{{"content": "Hi"}, {"content": "Hi there, calling back"}}
		value, conflict := m.MergeField("content", records, models.MergeStrategyLongest)
		assert.Equal(t, "Hi there, calling back", value)
		require.NotNil(t, conflict)
	})

	t.Run("merge combines maps with later values winning", func(t *testing.T) {
		records := []map[string]any{
			{"metadata": map[string]any{"source": "carrier_export", "sim": "1"}},
			{"metadata": map[string]any{"source": "device_sync", "tower": "t9"}},
		}
		value, conflict := m.MergeField("metadata", records, models.MergeStrategyMerge)
		assert.Equal(t, map[string]any{"source": "device_sync", "sim": "1", "tower": "t9"}, value)
		require.NotNil(t, conflict)
	})

	t.Run("merge de-duplicates slices", func(t *testing.T) {
		records := []map[string]any{
			{"tags": []any{"a", "b"}},
			{"tags": []any{"b", "c"}},
		}
		value, _ := m.MergeField("tags", records, models.MergeStrategyMerge)
		assert.Equal(t, []any{"a", "b", "c"}, value)
	})

	t.Run("merge on scalars falls back to first", func(t *testing.T) {
		records := []map[string]any{{"status": "sent"}, {"status": "read"}}
		value, conflict := m.MergeField("status", records, models.MergeStrategyMerge)
		assert.Equal(t, "sent", value)
		require.NotNil(t, conflict)
		assert.Equal(t, []any{"sent", "read"}, conflict.Values)
	})

	t.Run("manual flags for review", func(t *testing.T) {
		records := []map[string]any{{"name": "Bob"}, {"name": "Robert"}}
		value, conflict := m.MergeField("name", records, models.MergeStrategyManual)
		assert.Equal(t, "Bob", value)
		require.NotNil(t, conflict)
		assert.True(t, conflict.NeedsReview)
	})
}

func TestMergeField_ConflictValuesAreDistinctInInputOrder(t *testing.T) {
	m := NewFieldMerger()

	records := []map[string]any{
		{"status": "read"},
		{"status": "sent"},
		{"status": "read"},
		{"status": "delivered"},
	}
	_, conflict := m.MergeField("status", records, models.MergeStrategyLast)
	require.NotNil(t, conflict)
	assert.Equal(t, []any{"read", "sent", "delivered"}, conflict.Values)
}

func TestMergeField_NilValuesAreAbsent(t *testing.T) {
	m := NewFieldMerger()

	records := []map[string]any{
		{"content": nil},
		{"content": "hello"},
	}
	value, conflict := m.MergeField("content", records, models.MergeStrategyLongest)
	assert.Equal(t, "hello", value)
	assert.Nil(t, conflict)
}
