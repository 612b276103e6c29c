package dedup

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Pipeline glues the Kafka batch stream to the deduplication processor and
// publishes results for the storage writer.
type Pipeline struct {
	logger    ectologger.Logger
	processor *Processor
	producer  *kafka.Producer
}

// NewPipeline creates a new batch pipeline
func NewPipeline(logger ectologger.Logger, processor *Processor, producer *kafka.Producer) *Pipeline {
	return &Pipeline{
		logger:    logger,
		processor: processor,
		producer:  producer,
	}
}

// HandleMessage deduplicates an incoming record batch and publishes the
// result. Individual malformed records never fail the batch; only a publish
// failure returns an error so the message is redelivered.
func (pl *Pipeline) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "dedup.Pipeline.HandleMessage")
	defer span.End()

	batch := msg.Batch
	if batch == nil {
		pl.logger.WithContext(ctx).Warn("Skipping message without a parsed batch")
		return nil
	}

	log := pl.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_id":      batch.BatchID,
		"user_id":       batch.UserID,
		"event_count":   len(batch.Events),
		"contact_count": len(batch.Contacts),
	})

	event := &kafka.DedupResultEvent{
		BatchID:   batch.BatchID,
		UserID:    batch.UserID,
		Source:    batch.Source,
		Timestamp: time.Now().UTC(),
	}

	if len(batch.Events) > 0 {
		event.Events = pl.processor.DeduplicateEvents(ctx, batch.Events)
	}
	if len(batch.Contacts) > 0 {
		event.Contacts = pl.processor.DeduplicateContacts(ctx, batch.Contacts)
	}

	if event.Events == nil && event.Contacts == nil {
		log.Debug("Batch carried no records; nothing to publish")
		return nil
	}

	if err := pl.producer.PublishResult(ctx, event); err != nil {
		return err
	}

	log.Info("Batch deduplicated")
	return nil
}
