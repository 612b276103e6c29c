package gaps

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func eventAt(ts string) models.EventRecord {
	return models.EventRecord{Timestamp: models.Ptr(ts)}
}

func TestAnalyze_FewerThanTwoRecords(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), noopLogger())

	t.Run("empty input", func(t *testing.T) {
		analysis := a.Analyze(context.Background(), nil)
		require.NotNil(t, analysis)
		assert.Empty(t, analysis.Gaps)
		assert.Equal(t, 0, analysis.EventCount)
		assert.Equal(t, 0.0, analysis.DataQualityScore)
	})

	t.Run("single record", func(t *testing.T) {
		analysis := a.Analyze(context.Background(), []models.EventRecord{eventAt("2025-01-15T10:00:00Z")})
		assert.Empty(t, analysis.Gaps)
		assert.Equal(t, 1, analysis.EventCount)
	})

	t.Run("records without timestamps are skipped", func(t *testing.T) {
		records := []models.EventRecord{
			{PhoneNumber: models.Ptr("5551234567")},
			eventAt("garbage"),
			eventAt("2025-01-15T10:00:00Z"),
		}
		analysis := a.Analyze(context.Background(), records)
		assert.Equal(t, 1, analysis.EventCount)
		assert.Empty(t, analysis.Gaps)
	})
}

func TestAnalyze_DetectsGapsAboveThreshold(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), noopLogger())

	records := []models.EventRecord{
		eventAt("2025-01-01T00:00:00Z"),
		eventAt("2025-01-01T23:00:00Z"), // 23h interval, below the 24h threshold
		eventAt("2025-01-03T00:00:00Z"), // 25h interval
	}

	analysis := a.Analyze(context.Background(), records)

	require.Len(t, analysis.Gaps, 1)
	gap := analysis.Gaps[0]
	assert.InDelta(t, 25.0, gap.DurationHours, 1e-9)
	assert.Equal(t, models.GapSeverityMinor, gap.Severity)
	assert.False(t, gap.LikelyDeleted)
	assert.Equal(t, 3, analysis.EventCount)
	assert.InDelta(t, 25.0, analysis.TotalGapHours, 1e-9)
}

func TestAnalyze_SortsDefensively(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), noopLogger())

	records := []models.EventRecord{
		eventAt("2025-01-03T00:00:00Z"),
		eventAt("2025-01-01T00:00:00Z"),
	}

	analysis := a.Analyze(context.Background(), records)

	require.Len(t, analysis.Gaps, 1)
	assert.True(t, analysis.Gaps[0].Start.Before(analysis.Gaps[0].End))
	assert.InDelta(t, 48.0, analysis.Gaps[0].DurationHours, 1e-9)
}

func TestAnalyze_SeverityTiers(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), noopLogger())

	records := []models.EventRecord{
		eventAt("2025-01-01T00:00:00Z"),
		eventAt("2025-01-02T01:00:00Z"), // 25h: minor
		eventAt("2025-01-04T11:00:00Z"), // 58h: moderate
		eventAt("2025-01-13T11:00:00Z"), // 216h: major
	}

	analysis := a.Analyze(context.Background(), records)

	require.Len(t, analysis.Gaps, 3)
	assert.Equal(t, models.GapSeverityMinor, analysis.Gaps[0].Severity)
	assert.Equal(t, models.GapSeverityModerate, analysis.Gaps[1].Severity)
	assert.Equal(t, models.GapSeverityMajor, analysis.Gaps[2].Severity)

	// Medium frequency flags anything past 48h as a likely deletion.
	assert.False(t, analysis.Gaps[0].LikelyDeleted)
	assert.True(t, analysis.Gaps[1].LikelyDeleted)
	assert.True(t, analysis.Gaps[2].LikelyDeleted)
}

func TestAnalyze_FrequencyDrivesSuspicion(t *testing.T) {
	records := []models.EventRecord{
		eventAt("2025-01-01T00:00:00Z"),
		eventAt("2025-01-02T01:00:00Z"), // 25h gap
	}

	t.Run("high frequency", func(t *testing.T) {
		config := DefaultConfig()
		config.ExpectedFrequency = models.FrequencyHigh
		analysis := NewAnalyzer(config, noopLogger()).Analyze(context.Background(), records)
		require.Len(t, analysis.Gaps, 1)
		assert.True(t, analysis.Gaps[0].LikelyDeleted)
	})

	t.Run("low frequency", func(t *testing.T) {
		config := DefaultConfig()
		config.ExpectedFrequency = models.FrequencyLow
		analysis := NewAnalyzer(config, noopLogger()).Analyze(context.Background(), records)
		require.Len(t, analysis.Gaps, 1)
		assert.False(t, analysis.Gaps[0].LikelyDeleted)
	})
}

func TestAnalyze_DataQualityScore(t *testing.T) {
	t.Run("gap hours discount the score", func(t *testing.T) {
		a := NewAnalyzer(DefaultConfig(), noopLogger())
		records := []models.EventRecord{
			eventAt("2025-01-01T00:00:00Z"),
			eventAt("2025-01-04T00:00:00Z"), // 72h gap against a 720h period
		}
		analysis := a.Analyze(context.Background(), records)
		assert.InDelta(t, 90.0, analysis.DataQualityScore, 1e-9)
	})

	t.Run("no gaps is a perfect score", func(t *testing.T) {
		a := NewAnalyzer(DefaultConfig(), noopLogger())
		records := []models.EventRecord{
			eventAt("2025-01-01T00:00:00Z"),
			eventAt("2025-01-01T12:00:00Z"),
		}
		analysis := a.Analyze(context.Background(), records)
		assert.Equal(t, 100.0, analysis.DataQualityScore)
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		config := DefaultConfig()
		config.AnalysisPeriodDays = 1
		a := NewAnalyzer(config, noopLogger())
		records := []models.EventRecord{
			eventAt("2025-01-01T00:00:00Z"),
			eventAt("2025-01-05T00:00:00Z"), // 96h gap against a 24h period
		}
		analysis := a.Analyze(context.Background(), records)
		assert.Equal(t, 0.0, analysis.DataQualityScore)
	})
}
