package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtfinder/pkg/config"
	mongotx "courtfinder/pkg/db/mongo"
)

const (
	UserCollectionName      = "Users"
	ProcessedCollectionName = "ProcessedEvents"
)

// TrustRepository folds vote deltas into user trust scores. MarkProcessed
// backs the consumer's idempotency: the topic is consumed at-least-once, so
// the same event id may arrive more than once.
type TrustRepository interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	ApplyDelta(ctx context.Context, userID string, delta, min, max int) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoTrustRepository struct {
	cfg       *config.Config
	users     *mongo.Collection
	processed *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoTrustRepository(cfg *config.Config) TrustRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTrustRepository{
		cfg:       cfg,
		users:     db.Collection(UserCollectionName),
		processed: db.Collection(ProcessedCollectionName),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoTrustRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// MarkProcessed records the event id and reports whether this delivery is
// the first one. The unique _id makes the check race free across worker
// instances.
func (r *mongoTrustRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.processed.InsertOne(ctx, bson.M{
		"_id":          eventID,
		"processed_at": time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record event id: %w", err)
	}

	return true, nil
}

// ApplyDelta adds the delta to the user's trust, clamped to [min, max]. The
// user document is created on first touch.
func (r *mongoTrustRepository) ApplyDelta(ctx context.Context, userID string, delta, min, max int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"trust": bson.M{
				"$max": bson.A{min, bson.M{
					"$min": bson.A{max, bson.M{
						"$add": bson.A{bson.M{"$ifNull": bson.A{"$trust", 0}}, delta},
					}},
				}},
			},
			"updated_at": time.Now().UTC(),
		}}},
	}

	_, err := r.users.UpdateOne(ctx,
		bson.M{"user_id": userID},
		pipeline,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to apply trust delta: %w", err)
	}

	return nil
}

func (r *mongoTrustRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
