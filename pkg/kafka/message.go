package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
)

// BatchMessage is a parsed record batch from the upstream format parsers.
// A batch carries events, contacts, or both for a single user.
type BatchMessage struct {
	BatchID  string                 `json:"batch_id"`
	UserID   string                 `json:"user_id"`
	Source   string                 `json:"source,omitempty"` // carrier_export, manual_entry, device_sync
	Events   []models.EventRecord   `json:"events,omitempty"`
	Contacts []models.ContactRecord `json:"contacts,omitempty"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Batch *BatchMessage
}

// ParseBatch parses the message value as a record batch
func (m *IncomingMessage) ParseBatch() error {
	var batch BatchMessage
	if err := json.Unmarshal(m.Value, &batch); err != nil {
		return err
	}
	m.Batch = &batch
	return nil
}

// GetBatchID returns the batch ID, falling back to the message header
func (m *IncomingMessage) GetBatchID() string {
	if m.Batch != nil && m.Batch.BatchID != "" {
		return m.Batch.BatchID
	}
	return m.Headers["batch_id"]
}

// GetUserID returns the owning user ID, falling back to the message header
func (m *IncomingMessage) GetUserID() string {
	if m.Batch != nil && m.Batch.UserID != "" {
		return m.Batch.UserID
	}
	return m.Headers["user_id"]
}
