package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Producer publishes deduplication results for the storage writer
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// DedupResultEvent carries a completed deduplication run back to the pipeline.
// Persistence is the consumer's job; fern holds nothing after publishing.
type DedupResultEvent struct {
	BatchID   string                     `json:"batch_id"`
	UserID    string                     `json:"user_id"`
	Source    string                     `json:"source,omitempty"`
	Events    *models.EventDedupResult   `json:"events,omitempty"`
	Contacts  *models.ContactDedupResult `json:"contacts,omitempty"`
	Timestamp time.Time                  `json:"timestamp"`
}

// PublishResult publishes a deduplication result event, keyed by user so a
// user's batches stay ordered within a partition.
func (p *Producer) PublishResult(ctx context.Context, event *DedupResultEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishResult")
	defer span.End()

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "batch_id", Value: []byte(event.BatchID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"batch_id": event.BatchID,
		}).Error("Failed to publish dedup result")
		return err
	}

	return nil
}

// Health returns the producer health status
func (p *Producer) Health() bool {
	return p.writer != nil
}
