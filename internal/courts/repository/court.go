package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	courterrors "courtfinder/internal/courts/errors"
	"courtfinder/pkg/config"
	"courtfinder/pkg/model"
)

const (
	CollectionName = "Courts"
)

type CourtRepository interface {
	FindByCourtID(ctx context.Context, courtID string) (*model.Court, error)
	FindByCourtIDs(ctx context.Context, courtIDs []string) ([]*model.Court, error)
	UpsertMany(ctx context.Context, courts []*model.Court) error
	ApplyUpdate(ctx context.Context, courtID string, updates *model.CourtUpdate) (*model.Court, error)
	Count(ctx context.Context) (int64, error)
}

type mongoCourtRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoCourtRepository(cfg *config.Config) CourtRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCourtRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless one is already set
// or we are inside a transaction, where wrapping a SessionContext would
// break transaction semantics.
func (r *mongoCourtRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoCourtRepository) FindByCourtID(ctx context.Context, courtID string) (*model.Court, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var court model.Court
	err := r.collection.FindOne(ctx, bson.M{"court_id": courtID}).Decode(&court)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", courterrors.ErrNotFound, courtID)
		}
		return nil, fmt.Errorf("failed to find court: %w", err)
	}
	return &court, nil
}

func (r *mongoCourtRepository) FindByCourtIDs(ctx context.Context, courtIDs []string) ([]*model.Court, error) {
	if len(courtIDs) == 0 {
		return []*model.Court{}, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"court_id": bson.M{"$in": courtIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query courts: %w", err)
	}
	defer cursor.Close(ctx)

	var courts []*model.Court
	if err = cursor.All(ctx, &courts); err != nil {
		return nil, fmt.Errorf("failed to decode courts: %w", err)
	}

	// Preserve the caller's ordering, which carries distance ranking.
	byID := make(map[string]*model.Court, len(courts))
	for _, c := range courts {
		byID[c.CourtID] = c
	}
	ordered := make([]*model.Court, 0, len(courts))
	for _, id := range courtIDs {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}

	return ordered, nil
}

// UpsertMany refreshes the OSM snapshot of each court. Attribute fields are
// only written on first insert so user edits survive refreshes.
func (r *mongoCourtRepository) UpsertMany(ctx context.Context, courts []*model.Court) error {
	if len(courts) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(courts))
	for _, court := range courts {
		update := bson.M{
			"$set": bson.M{
				"lat":        court.Lat,
				"lon":        court.Lon,
				"fetched_at": court.FetchedAt,
			},
			"$setOnInsert": bson.M{
				"court_id":      court.CourtID,
				"name":          court.Name,
				"hoops":         court.Hoops,
				"surface":       court.Surface,
				"netting":       court.Netting,
				"rim_type":      court.RimType,
				"rim_height":    court.RimHeight,
				"address":       court.Address,
				"amenity":       court.Amenity,
				"leisure":       court.Leisure,
				"website":       court.Website,
				"phone":         court.Phone,
				"opening_hours": court.OpeningHours,
			},
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"court_id": court.CourtID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	_, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert courts: %w", err)
	}

	return nil
}

func (r *mongoCourtRepository) ApplyUpdate(ctx context.Context, courtID string, updates *model.CourtUpdate) (*model.Court, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if updates.Name != nil {
		set["name"] = *updates.Name
	}
	if updates.Hoops != nil {
		set["hoops"] = *updates.Hoops
	}
	if updates.Surface != nil {
		set["surface"] = *updates.Surface
	}
	if updates.Netting != nil {
		set["netting"] = *updates.Netting
	}
	if updates.RimType != nil {
		set["rim_type"] = *updates.RimType
	}
	if updates.RimHeight != nil {
		set["rim_height"] = *updates.RimHeight
	}
	if updates.Address != nil {
		set["address"] = *updates.Address
	}
	if updates.Amenity != nil {
		set["amenity"] = *updates.Amenity
	}
	if updates.Website != nil {
		set["website"] = *updates.Website
	}
	if updates.Phone != nil {
		set["phone"] = *updates.Phone
	}
	if updates.OpeningHours != nil {
		set["opening_hours"] = *updates.OpeningHours
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var court model.Court
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"court_id": courtID}, bson.M{"$set": set}, opts).Decode(&court)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", courterrors.ErrNotFound, courtID)
		}
		return nil, fmt.Errorf("failed to update court: %w", err)
	}

	return &court, nil
}

func (r *mongoCourtRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count courts: %w", err)
	}
	return count, nil
}
