// Package compositekey builds deterministic record fingerprints for exact-duplicate grouping.
package compositekey

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// keyLength is the truncated digest length in hex characters. Collision risk
// is accepted in exchange for key compactness.
const keyLength = 16

// separator joins key components; it cannot appear in any normalized component.
const separator = "|"

// EventKey fingerprints an event record from its normalized identity fields.
// Two events with the same key are treated as certain duplicates: same user,
// same normalized phone, same 5-minute bucket, same type and direction, and
// for calls the same 30-second duration bucket.
//
// The key is a pure function of the normalized fields; missing optional fields
// are omitted from the component list rather than padded.
func EventKey(record *models.EventRecord) string {
	components := make([]string, 0, 6)

	if record.UserID != nil {
		components = append(components, *record.UserID)
	}
	if record.PhoneNumber != nil {
		components = append(components, normalizers.NormalizePhone(*record.PhoneNumber))
	} else {
		components = append(components, "")
	}
	if record.Timestamp != nil {
		components = append(components, normalizers.TimeBucket(*record.Timestamp))
	} else {
		components = append(components, normalizers.UnknownBucket)
	}
	if record.Type != nil {
		components = append(components, *record.Type)
	}
	if record.Direction != nil {
		components = append(components, *record.Direction)
	}
	if record.Type != nil && *record.Type == models.EventTypeCall && record.Duration != nil {
		components = append(components, strconv.Itoa(normalizers.DurationBucket(*record.Duration)))
	}

	return hash(components)
}

// ContactKey fingerprints a contact record from its normalized phone and,
// when present, its normalized name.
func ContactKey(record *models.ContactRecord) string {
	components := make([]string, 0, 3)

	if record.UserID != nil {
		components = append(components, *record.UserID)
	}
	if record.PhoneNumber != nil {
		components = append(components, normalizers.NormalizePhone(*record.PhoneNumber))
	} else {
		components = append(components, "")
	}
	if record.Name != nil {
		if name := normalizers.NormalizeName(*record.Name); name != "" {
			components = append(components, name)
		}
	}

	return hash(components)
}

func hash(components []string) string {
	sum := sha256.Sum256([]byte(strings.Join(components, separator)))
	return hex.EncodeToString(sum[:])[:keyLength]
}
