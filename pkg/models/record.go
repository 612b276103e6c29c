// Package models defines the record, conflict and analysis types shared across fern.
package models

import "time"

// Event type values
const (
	EventTypeCall    = "call"
	EventTypeMessage = "message"
)

// Event direction values
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Event record field names, used for per-field merge strategies and conflicts
const (
	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldTimestamp   = "timestamp"
	FieldPhoneNumber = "phone_number"
	FieldDirection   = "direction"
	FieldType        = "type"
	FieldDuration    = "duration"
	FieldContent     = "content"
	FieldContactID   = "contact_id"
	FieldStatus      = "status"
	FieldMetadata    = "metadata"
)

// Contact record field names
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldBlocked      = "blocked"
	FieldCallCount    = "call_count"
	FieldMessageCount = "message_count"
	FieldLastActivity = "last_activity"
)

// EventRecord is a partial call/message event as produced by the upstream parsers.
// Every field is optional: parsers emit whatever they could extract, and timestamps
// travel as raw strings because they may not have been validated yet.
type EventRecord struct {
	ID          *string        `json:"id,omitempty"`
	UserID      *string        `json:"user_id,omitempty"`
	Timestamp   *string        `json:"timestamp,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	Direction   *string        `json:"direction,omitempty"`
	Type        *string        `json:"type,omitempty"`
	Duration    *int           `json:"duration,omitempty"` // seconds, calls only
	Content     *string        `json:"content,omitempty"`  // messages only
	ContactID   *string        `json:"contact_id,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ContactRecord is a partial contact as produced by the upstream parsers.
type ContactRecord struct {
	ID           *string        `json:"id,omitempty"`
	UserID       *string        `json:"user_id,omitempty"`
	PhoneNumber  *string        `json:"phone_number,omitempty"`
	Name         *string        `json:"name,omitempty"`
	Email        *string        `json:"email,omitempty"`
	Blocked      *bool          `json:"blocked,omitempty"`
	CallCount    *int           `json:"call_count,omitempty"`
	MessageCount *int           `json:"message_count,omitempty"`
	LastActivity *string        `json:"last_activity,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ParsedTimestamp parses the record timestamp, accepting the formats the upstream
// parsers are known to emit. ok is false when the timestamp is absent or unparseable.
func (r *EventRecord) ParsedTimestamp() (time.Time, bool) {
	if r.Timestamp == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*r.Timestamp)
}

// ParseTimestamp is the shared best-effort timestamp parser.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Fields returns the record as an ordered-agnostic field map holding only the
// fields that are present. The merge engine operates on these maps so unknown
// metadata can participate in merging alongside the typed slots.
func (r *EventRecord) Fields() map[string]any {
	fields := make(map[string]any)
	putString(fields, FieldID, r.ID)
	putString(fields, FieldUserID, r.UserID)
	putString(fields, FieldTimestamp, r.Timestamp)
	putString(fields, FieldPhoneNumber, r.PhoneNumber)
	putString(fields, FieldDirection, r.Direction)
	putString(fields, FieldType, r.Type)
	if r.Duration != nil {
		fields[FieldDuration] = *r.Duration
	}
	putString(fields, FieldContent, r.Content)
	putString(fields, FieldContactID, r.ContactID)
	putString(fields, FieldStatus, r.Status)
	if len(r.Metadata) > 0 {
		fields[FieldMetadata] = r.Metadata
	}
	return fields
}

// EventFromFields rebuilds a typed record from a merged field map.
func EventFromFields(fields map[string]any) EventRecord {
	var r EventRecord
	r.ID = takeString(fields, FieldID)
	r.UserID = takeString(fields, FieldUserID)
	r.Timestamp = takeString(fields, FieldTimestamp)
	r.PhoneNumber = takeString(fields, FieldPhoneNumber)
	r.Direction = takeString(fields, FieldDirection)
	r.Type = takeString(fields, FieldType)
	r.Duration = takeInt(fields, FieldDuration)
	r.Content = takeString(fields, FieldContent)
	r.ContactID = takeString(fields, FieldContactID)
	r.Status = takeString(fields, FieldStatus)
	r.Metadata = takeMap(fields, FieldMetadata)
	return r
}

// Fields returns the contact as a field map holding only present fields.
func (r *ContactRecord) Fields() map[string]any {
	fields := make(map[string]any)
	putString(fields, FieldID, r.ID)
	putString(fields, FieldUserID, r.UserID)
	putString(fields, FieldPhoneNumber, r.PhoneNumber)
	putString(fields, FieldName, r.Name)
	putString(fields, FieldEmail, r.Email)
	if r.Blocked != nil {
		fields[FieldBlocked] = *r.Blocked
	}
	if r.CallCount != nil {
		fields[FieldCallCount] = *r.CallCount
	}
	if r.MessageCount != nil {
		fields[FieldMessageCount] = *r.MessageCount
	}
	putString(fields, FieldLastActivity, r.LastActivity)
	if len(r.Metadata) > 0 {
		fields[FieldMetadata] = r.Metadata
	}
	return fields
}

// ContactFromFields rebuilds a typed contact from a merged field map.
func ContactFromFields(fields map[string]any) ContactRecord {
	var r ContactRecord
	r.ID = takeString(fields, FieldID)
	r.UserID = takeString(fields, FieldUserID)
	r.PhoneNumber = takeString(fields, FieldPhoneNumber)
	r.Name = takeString(fields, FieldName)
	r.Email = takeString(fields, FieldEmail)
	r.Blocked = takeBool(fields, FieldBlocked)
	r.CallCount = takeInt(fields, FieldCallCount)
	r.MessageCount = takeInt(fields, FieldMessageCount)
	r.LastActivity = takeString(fields, FieldLastActivity)
	r.Metadata = takeMap(fields, FieldMetadata)
	return r
}

func putString(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

func takeString(fields map[string]any, key string) *string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func takeInt(fields map[string]any, key string) *int {
	if v, ok := fields[key]; ok {
		switch n := v.(type) {
		case int:
			return &n
		case int64:
			i := int(n)
			return &i
		case float64:
			// Numeric merge strategies normalize to float64.
			i := int(n)
			return &i
		}
	}
	return nil
}

func takeBool(fields map[string]any, key string) *bool {
	if v, ok := fields[key]; ok {
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

func takeMap(fields map[string]any, key string) map[string]any {
	if v, ok := fields[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// Ptr returns a pointer to v. Convenience for building partial records.
func Ptr[T any](v T) *T {
	return &v
}
