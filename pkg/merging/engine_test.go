package merging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestMergeGroup_PanicsOnEmptyGroup(t *testing.T) {
	e := NewEngine(models.ResolutionMerge)

	assert.Panics(t, func() {
		e.MergeGroup(context.Background(), nil, models.EventFieldStrategies())
	})
}

func TestMergeGroup_SingleRecordShortCircuits(t *testing.T) {
	e := NewEngine(models.ResolutionMerge)

	record := map[string]any{"id": "a", "status": "sent"}
	merged, conflicts := e.MergeGroup(context.Background(), []map[string]any{record}, nil)

	assert.Equal(t, record, merged)
	assert.Empty(t, conflicts)

	// The result is a copy, not the caller's map.
	merged["status"] = "read"
	assert.Equal(t, "sent", record["status"])
}

func TestMergeGroup_AppliesPerFieldStrategies(t *testing.T) {
	e := NewEngine(models.ResolutionMerge)

	records := []map[string]any{
		{"id": "a", "duration": 30, "content": "Hi", "status": "sent"},
		{"id": "b", "duration": 90, "content": "Hi there", "status": "read"},
	}

	merged, conflicts := e.MergeGroup(context.Background(), records, models.EventFieldStrategies())

	assert.Equal(t, "a", merged["id"])
	assert.Equal(t, float64(90), merged["duration"])
	assert.Equal(t, "Hi there", merged["content"])
	assert.Equal(t, "read", merged["status"])
	assert.Len(t, conflicts, 4)
}

func TestMergeGroup_ConflictsAreSortedByField(t *testing.T) {
	e := NewEngine(models.ResolutionMerge)

	records := []map[string]any{
		{"status": "sent", "content": "Hi", "duration": 30},
		{"status": "read", "content": "Hey", "duration": 60},
	}

	_, conflicts := e.MergeGroup(context.Background(), records, models.EventFieldStrategies())

	require.Len(t, conflicts, 3)
	assert.Equal(t, "content", conflicts[0].Field)
	assert.Equal(t, "duration", conflicts[1].Field)
	assert.Equal(t, "status", conflicts[2].Field)
}

func TestMergeGroup_DefaultModeCoversUnknownFields(t *testing.T) {
	records := []map[string]any{
		{"custom": "x"},
		{"custom": "y"},
	}

	t.Run("keep_first", func(t *testing.T) {
		e := NewEngine(models.ResolutionKeepFirst)
		merged, conflicts := e.MergeGroup(context.Background(), records, nil)
		assert.Equal(t, "x", merged["custom"])
		require.Len(t, conflicts, 1)
		assert.Equal(t, models.MergeStrategyFirst, conflicts[0].Resolution)
	})

	t.Run("keep_last", func(t *testing.T) {
		e := NewEngine(models.ResolutionKeepLast)
		merged, _ := e.MergeGroup(context.Background(), records, nil)
		assert.Equal(t, "y", merged["custom"])
	})

	t.Run("manual", func(t *testing.T) {
		e := NewEngine(models.ResolutionManual)
		merged, conflicts := e.MergeGroup(context.Background(), records, nil)
		assert.Equal(t, "x", merged["custom"])
		require.Len(t, conflicts, 1)
		assert.True(t, conflicts[0].NeedsReview)
	})
}

func TestMergeGroup_NothingIsLostSilently(t *testing.T) {
	e := NewEngine(models.ResolutionMerge)

	records := []map[string]any{
		{"id": "a", "phone_number": "5551234567", "status": "sent"},
		{"id": "b", "phone_number": "5551234567", "status": "read"},
	}

	merged, conflicts := e.MergeGroup(context.Background(), records, models.EventFieldStrategies())

	// Every disagreeing value is either in the result or in a conflict.
	byField := make(map[string][]any)
	for _, c := range conflicts {
		byField[c.Field] = c.Values
	}
	assert.Contains(t, byField["id"], "a")
	assert.Contains(t, byField["id"], "b")
	assert.Contains(t, byField["status"], "sent")
	assert.Contains(t, byField["status"], "read")

	// Agreeing fields carry no conflict.
	assert.NotContains(t, byField, "phone_number")
	assert.Equal(t, "5551234567", merged["phone_number"])
}
