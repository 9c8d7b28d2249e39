// Package trust consumes review events and maintains per-user trust scores.
package trust

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"courtfinder/internal/trust/repository"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	"courtfinder/pkg/kafka"
)

const (
	ConsumerGroup = "trust-worker"
)

// Worker folds the trust delta of each review event into the review
// author's score. Processing is idempotent per event id because the topic
// is delivered at-least-once.
type Worker struct {
	repo repository.TrustRepository
	cfg  *config.Config
}

func NewWorker(repo repository.TrustRepository, cfg *config.Config) *Worker {
	return &Worker{
		repo: repo,
		cfg:  cfg,
	}
}

// Handle is the consumer's message handler.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	var event contracts.ReviewEvent
	if err := msg.DecodeValue(&event); err != nil {
		// A payload that never decodes will never decode on retry.
		return kafka.NewPermanentError("failed to decode review event", err)
	}

	if event.EventID == "" {
		return kafka.NewPermanentError("review event has no event id", nil)
	}

	if event.TrustDelta == 0 {
		return nil
	}
	if event.AuthorID == "" {
		return kafka.NewPermanentError(fmt.Sprintf("event %s carries a delta but no author", event.EventID), nil)
	}

	// The event id record and the score change commit together so a retry
	// after a partial failure can neither skip nor double-apply the delta.
	var duplicate bool
	err := w.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		first, err := w.repo.MarkProcessed(sessCtx, event.EventID)
		if err != nil {
			return err
		}
		if !first {
			duplicate = true
			return nil
		}
		return w.repo.ApplyDelta(sessCtx, event.AuthorID, event.TrustDelta, w.cfg.TrustMin, w.cfg.TrustMax)
	})
	if err != nil {
		return kafka.NewTransientError("failed to apply trust delta", err)
	}
	if duplicate {
		w.cfg.Log.Debug("Skipping already processed event",
			"event_id", event.EventID,
			"event_type", event.Type,
		)
		return nil
	}

	w.cfg.Log.Info("Trust delta applied",
		"event_id", event.EventID,
		"event_type", event.Type,
		"author_id", event.AuthorID,
		"delta", event.TrustDelta,
	)

	return nil
}
