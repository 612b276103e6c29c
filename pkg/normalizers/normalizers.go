// Package normalizers provides field canonicalization for key generation and matching
package normalizers

import (
	"strings"
	"time"
	"unicode"

	"github.com/Ramsey-B/fern/pkg/models"
)

// UnknownBucket is the sentinel time bucket for absent or unparseable timestamps.
// Records carrying it collapse into a shared bucket by design.
const UnknownBucket = "unknown"

// countryPrefix is prepended to bare 10-digit numbers. Best-effort heuristic for
// domestic numbers, not phone validation.
const countryPrefix = "1"

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", strings.ToLower)
	Register("trim", strings.TrimSpace)
	Register("nphone", NormalizePhone)
	Register("nname", NormalizeName)
	Register("ntimebucket", TimeBucket)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// NormalizePhone strips all non-digit characters and applies the domestic
// prefix heuristic: a 10-digit result gets the country prefix, an 11-digit
// result already carrying it is kept, and anything else passes through as a
// digit-only string (international numbers stay unprefixed).
func NormalizePhone(s string) string {
	digits := DigitsOnly(s)
	switch {
	case len(digits) == 10:
		return countryPrefix + digits
	case len(digits) == 11 && strings.HasPrefix(digits, countryPrefix):
		return digits
	default:
		return digits
	}
}

// NormalizeName normalizes a person's name for matching
// - Lowercase and trim
// - Remove common suffixes (Jr., Sr., III, etc.)
// - Remove punctuation
// - Collapse whitespace runs to single spaces
func NormalizeName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	suffixes := []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv"}
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// TimeBucket rounds a timestamp to its 5-minute bucket so records within the
// same window collapse to the same key component. Unparseable input degrades
// to the unknown sentinel rather than erroring.
func TimeBucket(s string) string {
	t, ok := models.ParseTimestamp(s)
	if !ok {
		return UnknownBucket
	}
	// Zero seconds first so rounding only ever moves the minute component.
	bucket := t.UTC().Truncate(time.Minute).Round(5 * time.Minute)
	return bucket.Format("2006-01-02T15:04")
}

// DurationBucket rounds a call duration in seconds to its nearest 30-second
// bucket for key generation.
func DurationBucket(seconds int) int {
	if seconds < 0 {
		seconds = 0
	}
	return ((seconds + 15) / 30) * 30
}
