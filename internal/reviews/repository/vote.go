package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/pkg/config"
	"courtfinder/pkg/model"
)

const (
	VoteCollectionName = "Votes"
)

type VoteRepository interface {
	FindByUserAndReview(ctx context.Context, userID, reviewID string) (*model.Vote, error)
	FindByUserAndReviews(ctx context.Context, userID string, reviewIDs []string) (map[string]*model.Vote, error)
	Insert(ctx context.Context, vote *model.Vote) error
	Replace(ctx context.Context, vote *model.Vote) error
	Delete(ctx context.Context, userID, reviewID string) error
}

type mongoVoteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoVoteRepository(cfg *config.Config) VoteRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVoteRepository{
		cfg:        cfg,
		collection: db.Collection(VoteCollectionName),
	}
}

func (r *mongoVoteRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoVoteRepository) FindByUserAndReview(ctx context.Context, userID, reviewID string) (*model.Vote, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var vote model.Vote
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "review_id": reviewID}).Decode(&vote)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}

	return &vote, nil
}

// FindByUserAndReviews returns the user's standing votes keyed by review id,
// used to decorate a review page with the caller's vote flags.
func (r *mongoVoteRepository) FindByUserAndReviews(ctx context.Context, userID string, reviewIDs []string) (map[string]*model.Vote, error) {
	if len(reviewIDs) == 0 {
		return map[string]*model.Vote{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{
		"user_id":   userID,
		"review_id": bson.M{"$in": reviewIDs},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer cursor.Close(ctx)

	var found []*model.Vote
	if err = cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode votes: %w", err)
	}

	byReview := make(map[string]*model.Vote, len(found))
	for _, vote := range found {
		byReview[vote.ReviewID] = vote
	}
	return byReview, nil
}

func (r *mongoVoteRepository) Insert(ctx context.Context, vote *model.Vote) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	vote.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, vote)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: user %s review %s", reviewserrors.ErrDuplicateVote, vote.UserID, vote.ReviewID)
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		vote.ID = oid.Hex()
	}
	return nil
}

// Replace overwrites the direction of an existing vote, used when a user
// switches sides.
func (r *mongoVoteRepository) Replace(ctx context.Context, vote *model.Vote) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": vote.UserID, "review_id": vote.ReviewID},
		bson.M{"$set": bson.M{
			"direction":  vote.Direction,
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to replace vote: %w", err)
	}

	if result.MatchedCount == 0 {
		return reviewserrors.ErrVoteNotFound
	}

	return nil
}

func (r *mongoVoteRepository) Delete(ctx context.Context, userID, reviewID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "review_id": reviewID})
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	if result.DeletedCount == 0 {
		return reviewserrors.ErrVoteNotFound
	}

	return nil
}
