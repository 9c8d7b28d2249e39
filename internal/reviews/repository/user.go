package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtfinder/pkg/config"
	"courtfinder/pkg/model"
)

const (
	UserCollectionName = "Users"
)

// UserRepository reads author records for review decoration. The trust
// worker owns the write side of the trust field.
type UserRepository interface {
	FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.User, error)
	EnsureUser(ctx context.Context, userID, name string) error
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(UserCollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoUserRepository) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.User, error) {
	if len(userIDs) == 0 {
		return map[string]*model.User{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	byID := make(map[string]*model.User, len(users))
	for _, user := range users {
		byID[user.UserID] = user
	}
	return byID, nil
}

// EnsureUser upserts the author record so the trust worker always has a
// document to fold deltas into. Trust is only initialized on insert.
func (r *mongoUserRepository) EnsureUser(ctx context.Context, userID, name string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$setOnInsert": bson.M{
			"user_id": userID,
			"trust":   0,
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}
