package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"formatted domestic", "(555) 123-4567", "15551234567"},
		{"dotted domestic", "555.123.4567", "15551234567"},
		{"plus country code", "+1 555 123 4567", "15551234567"},
		{"bare eleven digits", "15551234567", "15551234567"},
		{"short code passes through", "88202", "88202"},
		{"international stays unprefixed", "+44 20 7946 0958", "442079460958"},
		{"empty", "", ""},
		{"no digits", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and trims", "  Bob Smith  ", "bob smith"},
		{"strips jr suffix", "Bob Smith Jr.", "bob smith"},
		{"strips roman numeral suffix", "Robert Smith III", "robert smith"},
		{"removes punctuation", "O'Brien, Mary-Anne", "obrien maryanne"},
		{"collapses whitespace", "Bob   Smith", "bob smith"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestTimeBucket(t *testing.T) {
	t.Run("rounds down within first half of bucket", func(t *testing.T) {
		assert.Equal(t, "2025-01-15T10:30", TimeBucket("2025-01-15T10:31:00Z"))
		assert.Equal(t, "2025-01-15T10:30", TimeBucket("2025-01-15T10:32:10Z"))
	})

	t.Run("rounds up past the midpoint", func(t *testing.T) {
		assert.Equal(t, "2025-01-15T10:35", TimeBucket("2025-01-15T10:33:00Z"))
	})

	t.Run("exact bucket boundary is stable", func(t *testing.T) {
		assert.Equal(t, "2025-01-15T10:30", TimeBucket("2025-01-15T10:30:00Z"))
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		assert.Equal(t, "2025-01-15T15:30", TimeBucket("2025-01-15T10:31:00-05:00"))
	})

	t.Run("unparseable degrades to sentinel", func(t *testing.T) {
		assert.Equal(t, UnknownBucket, TimeBucket("not-a-timestamp"))
		assert.Equal(t, UnknownBucket, TimeBucket(""))
	})
}

func TestDurationBucket(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected int
	}{
		{"zero", 0, 0},
		{"rounds down below midpoint", 14, 0},
		{"rounds up at midpoint", 15, 30},
		{"exact bucket", 30, 30},
		{"rounds to nearest", 44, 30},
		{"rounds up", 45, 60},
		{"negative clamps to zero", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DurationBucket(tt.seconds))
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("applies registered normalizer", func(t *testing.T) {
		assert.Equal(t, "15551234567", Apply("(555) 123-4567", "nphone"))
		assert.Equal(t, "bob", Apply("BOB", "lowercase"))
	})

	t.Run("unknown normalizer passes value through", func(t *testing.T) {
		assert.Equal(t, "Bob", Apply("Bob", "does-not-exist"))
	})
}
