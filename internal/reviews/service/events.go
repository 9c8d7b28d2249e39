package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"courtfinder/pkg/contracts"
	"courtfinder/pkg/kafka"
	"courtfinder/pkg/logger"
)

// EventPublisher is the slice of the Kafka producer the services need.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// publishReviewEvent emits one mutation event keyed by review id so all
// events for a review land on the same partition in order. A publish
// failure is logged but never fails the completed mutation; the producer's
// DLQ covers broker-side losses.
func publishReviewEvent(ctx context.Context, publisher EventPublisher, log *logger.Logger, event contracts.ReviewEvent) {
	if publisher == nil {
		return
	}

	event.EventID = uuid.New().String()
	event.OccurredAt = time.Now().UTC()

	msg := kafka.NewMessage().
		WithKey(event.ReviewID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(event.Type).
		WithSource("reviews-service").
		WithSchemaVersion("1").
		Build()

	if err := publisher.Publish(ctx, msg); err != nil {
		log.Error("Failed to publish review event",
			"event_type", event.Type,
			"review_id", event.ReviewID,
			"error", err,
		)
	}
}
