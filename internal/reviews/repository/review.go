package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reviewserrors "courtfinder/internal/reviews/errors"
	"courtfinder/pkg/config"
	"courtfinder/pkg/model"
)

const (
	ReviewCollectionName = "Reviews"
)

// ReviewSort names the supported orderings of a court's review page.
type ReviewSort string

const (
	SortNewest  ReviewSort = "newest"
	SortHighest ReviewSort = "highest"
	SortLowest  ReviewSort = "lowest"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByCourtAndUser(ctx context.Context, courtID, userID string) (*model.Review, error)
	FindPageByCourt(ctx context.Context, courtID, excludeUserID string, sort ReviewSort, page, perPage int) ([]*model.Review, error)
	CountByCourt(ctx context.Context, courtID, excludeUserID string) (int64, error)
	ApplyUpdate(ctx context.Context, id string, updates *model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id string) error
	IncVoteCount(ctx context.Context, id string, delta int) error
	RatingByCourt(ctx context.Context, courtID string) (*model.RatingSummary, error)
}

type mongoReviewRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReviewRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(ReviewCollectionName),
	}
}

// withTimeout wraps the context with a timeout unless one is already set
// or we are inside a transaction, where wrapping a SessionContext would
// break transaction semantics.
func (r *mongoReviewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	review.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: court %s user %s", reviewserrors.ErrDuplicateReview, review.CourtID, review.UserID)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	var review model.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) FindByCourtAndUser(ctx context.Context, courtID, userID string) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"court_id": courtID, "user_id": userID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

func sortSpec(sort ReviewSort) bson.D {
	switch sort {
	case SortHighest:
		return bson.D{{Key: "rating", Value: -1}, {Key: "created_at", Value: -1}}
	case SortLowest:
		return bson.D{{Key: "rating", Value: 1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func pageFilter(courtID, excludeUserID string) bson.M {
	filter := bson.M{"court_id": courtID}
	if excludeUserID != "" {
		filter["user_id"] = bson.M{"$ne": excludeUserID}
	}
	return filter
}

func (r *mongoReviewRepository) FindPageByCourt(ctx context.Context, courtID, excludeUserID string, sort ReviewSort, page, perPage int) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(sortSpec(sort)).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	cursor, err := r.collection.Find(ctx, pageFilter(courtID, excludeUserID), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *mongoReviewRepository) CountByCourt(ctx context.Context, courtID, excludeUserID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, pageFilter(courtID, excludeUserID))
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *mongoReviewRepository) ApplyUpdate(ctx context.Context, id string, updates *model.ReviewUpdate) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"edited":     true,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if updates.Rating != nil {
		set["rating"] = *updates.Rating
	}
	if updates.Comment != nil {
		set["comment"] = *updates.Comment
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review model.Review
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.DeletedCount == 0 {
		return reviewserrors.ErrNotFound
	}

	return nil
}

// IncVoteCount folds a vote delta into the review's running total. A zero
// delta is a no-op so removals of nonexistent votes never touch storage.
func (r *mongoReviewRepository) IncVoteCount(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"vote_count": delta}},
	)
	if err != nil {
		return fmt.Errorf("failed to update vote count: %w", err)
	}

	if result.MatchedCount == 0 {
		return reviewserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReviewRepository) RatingByCourt(ctx context.Context, courtID string) (*model.RatingSummary, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"court_id": courtID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$court_id",
			"average":      bson.M{"$avg": "$rating"},
			"review_count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*model.RatingSummary
	if err = cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}

	if len(summaries) == 0 {
		return &model.RatingSummary{CourtID: courtID}, nil
	}
	return summaries[0], nil
}
