package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"courtfinder/pkg/kafka"
)

// Metrics holds Kafka operation counters. All fields are updated atomically.
type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // nanoseconds

	MessagesConsumed       int64
	MessagesConsumedFailed int64
	ConsumeDurationTotal   int64 // nanoseconds
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() Metrics {
	return Metrics{
		MessagesPublished:       atomic.LoadInt64(&m.MessagesPublished),
		MessagesPublishedFailed: atomic.LoadInt64(&m.MessagesPublishedFailed),
		PublishDurationTotal:    atomic.LoadInt64(&m.PublishDurationTotal),
		MessagesConsumed:        atomic.LoadInt64(&m.MessagesConsumed),
		MessagesConsumedFailed:  atomic.LoadInt64(&m.MessagesConsumedFailed),
		ConsumeDurationTotal:    atomic.LoadInt64(&m.ConsumeDurationTotal),
	}
}

// MetricsProducerMiddleware counts publishes and their latency.
func MetricsProducerMiddleware(metrics *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		atomic.AddInt64(&metrics.PublishDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&metrics.MessagesPublishedFailed, 1)
		} else {
			atomic.AddInt64(&metrics.MessagesPublished, 1)
		}

		return err
	}
}

// MetricsConsumerMiddleware counts handled messages and their latency.
func MetricsConsumerMiddleware(metrics *Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		atomic.AddInt64(&metrics.ConsumeDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&metrics.MessagesConsumedFailed, 1)
		} else {
			atomic.AddInt64(&metrics.MessagesConsumed, 1)
		}

		return err
	}
}
