package trust

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	mongotx "courtfinder/pkg/db/mongo"
	"courtfinder/pkg/kafka"
	"courtfinder/pkg/logger"
)

type mockTrustRepository struct {
	markProcessedFunc func(ctx context.Context, eventID string) (bool, error)
	applyDeltaFunc    func(ctx context.Context, userID string, delta, min, max int) error
}

func (m *mockTrustRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if m.markProcessedFunc != nil {
		return m.markProcessedFunc(ctx, eventID)
	}
	return true, nil
}

func (m *mockTrustRepository) ApplyDelta(ctx context.Context, userID string, delta, min, max int) error {
	if m.applyDeltaFunc != nil {
		return m.applyDeltaFunc(ctx, userID, delta, min, max)
	}
	return nil
}

func (m *mockTrustRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.SessionContext(nil))
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		TrustMin:     -100,
		TrustMax:     100,
	}
}

func eventMessage(t *testing.T, event contracts.ReviewEvent) kafka.Message {
	t.Helper()
	msg := kafka.NewMessage().
		WithKey(event.ReviewID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(event.Type).
		Build()
	if len(msg.Value) == 0 {
		t.Fatal("failed to encode event")
	}
	return msg
}

func TestHandle_AppliesDelta(t *testing.T) {
	var gotUser string
	var gotDelta, gotMin, gotMax int

	repo := &mockTrustRepository{
		applyDeltaFunc: func(ctx context.Context, userID string, delta, min, max int) error {
			gotUser, gotDelta, gotMin, gotMax = userID, delta, min, max
			return nil
		},
	}
	worker := NewWorker(repo, testConfig())

	msg := eventMessage(t, contracts.ReviewEvent{
		EventID:    "evt-1",
		Type:       contracts.EventVoteApplied,
		ReviewID:   "65b000000000000000000001",
		AuthorID:   "author",
		ActorID:    "voter",
		TrustDelta: 2,
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUser != "author" {
		t.Errorf("expected delta applied to author, got %q", gotUser)
	}
	if gotDelta != 2 {
		t.Errorf("expected delta 2, got %d", gotDelta)
	}
	if gotMin != -100 || gotMax != 100 {
		t.Errorf("expected clamp bounds [-100, 100], got [%d, %d]", gotMin, gotMax)
	}
}

func TestHandle_DuplicateEventSkipped(t *testing.T) {
	repo := &mockTrustRepository{
		markProcessedFunc: func(ctx context.Context, eventID string) (bool, error) {
			return false, nil
		},
		applyDeltaFunc: func(ctx context.Context, userID string, delta, min, max int) error {
			t.Error("delta must not be applied twice for the same event id")
			return nil
		},
	}
	worker := NewWorker(repo, testConfig())

	msg := eventMessage(t, contracts.ReviewEvent{
		EventID:    "evt-1",
		Type:       contracts.EventVoteApplied,
		ReviewID:   "65b000000000000000000001",
		AuthorID:   "author",
		TrustDelta: 1,
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_ZeroDeltaIgnored(t *testing.T) {
	repo := &mockTrustRepository{
		markProcessedFunc: func(ctx context.Context, eventID string) (bool, error) {
			t.Error("zero-delta events should not touch storage")
			return true, nil
		},
	}
	worker := NewWorker(repo, testConfig())

	msg := eventMessage(t, contracts.ReviewEvent{
		EventID:  "evt-1",
		Type:     contracts.EventReviewCreated,
		ReviewID: "65b000000000000000000001",
		AuthorID: "author",
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_MalformedPayloadPermanent(t *testing.T) {
	worker := NewWorker(&mockTrustRepository{}, testConfig())

	msg := kafka.NewMessage().
		WithKey("k").
		WithRawValue([]byte("{not json")).
		Build()

	err := worker.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}

	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsPermanent() {
		t.Errorf("expected a permanent error, got %v", err)
	}
}

func TestHandle_MissingEventIDPermanent(t *testing.T) {
	worker := NewWorker(&mockTrustRepository{}, testConfig())

	msg := kafka.NewMessage().
		WithKey("k").
		WithRawValue([]byte(`{"type":"vote.applied","trust_delta":1,"author_id":"a"}`)).
		Build()

	err := worker.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for missing event id")
	}

	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsPermanent() {
		t.Errorf("expected a permanent error, got %v", err)
	}
}

func TestHandle_StorageFailureTransient(t *testing.T) {
	repo := &mockTrustRepository{
		applyDeltaFunc: func(ctx context.Context, userID string, delta, min, max int) error {
			return errors.New("connection reset")
		},
	}
	worker := NewWorker(repo, testConfig())

	msg := eventMessage(t, contracts.ReviewEvent{
		EventID:    "evt-1",
		Type:       contracts.EventVoteApplied,
		ReviewID:   "65b000000000000000000001",
		AuthorID:   "author",
		TrustDelta: -1,
	})

	err := worker.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error when storage fails")
	}

	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsTransient() {
		t.Errorf("expected a transient error, got %v", err)
	}
}
