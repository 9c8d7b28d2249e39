package service

import (
	"context"
	"errors"

	courterrors "courtfinder/internal/courts/errors"
	"courtfinder/internal/courts/overpass"
	"courtfinder/internal/courts/repository"
	"courtfinder/internal/courts/validator"
	"courtfinder/pkg/config"
	apperrors "courtfinder/pkg/errors"
	"courtfinder/pkg/geo"
	"courtfinder/pkg/model"
	"courtfinder/pkg/sanitizer"
)

type CourtService interface {
	Get(ctx context.Context, courtID string) (*model.Court, error)
	Around(ctx context.Context, lat, lon float64, radiusKm int) ([]*model.Court, error)
	Nearby(ctx context.Context, lat, lon float64) ([]*model.Court, error)
	Update(ctx context.Context, courtID string, updates *model.CourtUpdate) (*model.Court, error)
}

type courtService struct {
	repo      repository.CourtRepository
	index     repository.GeoIndex
	upstream  overpass.Client
	validator *validator.CourtValidator
	cfg       *config.Config
}

func NewCourtService(
	repo repository.CourtRepository,
	index repository.GeoIndex,
	upstream overpass.Client,
	validator *validator.CourtValidator,
	cfg *config.Config,
) CourtService {
	return &courtService{
		repo:      repo,
		index:     index,
		upstream:  upstream,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *courtService) Get(ctx context.Context, courtID string) (*model.Court, error) {
	if courtID == "" {
		return nil, apperrors.InvalidInput("Court ID cannot be empty")
	}

	court, err := s.repo.FindByCourtID(ctx, courtID)
	if err == nil {
		return court, nil
	}
	if !errors.Is(err, courterrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to get court",
			"court_id", courtID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to get court", err)
	}

	return s.fetchCourt(ctx, courtID)
}

// fetchCourt fills a store miss from the upstream so a court can be linked
// to directly before any area around it has been browsed.
func (s *courtService) fetchCourt(ctx context.Context, courtID string) (*model.Court, error) {
	court, err := s.upstream.FetchCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, courterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Court", courtID)
		}
		s.cfg.Log.Warn("Upstream lookup failed for court",
			"court_id", courtID,
			"error", err,
		)
		return nil, apperrors.NotFoundWithID("Court", courtID)
	}

	if err := s.repo.UpsertMany(ctx, []*model.Court{court}); err != nil {
		s.cfg.Log.Error("Failed to store fetched court", "court_id", courtID, "error", err)
		return nil, apperrors.Internal("Failed to store court", err)
	}
	if err := s.index.Add(ctx, []*model.Court{court}); err != nil {
		s.cfg.Log.Warn("Failed to index fetched court", "court_id", courtID, "error", err)
	}

	return court, nil
}

// Around returns every court within radiusKm of the point, refreshing the
// area from the upstream when the cache marker has expired.
func (s *courtService) Around(ctx context.Context, lat, lon float64, radiusKm int) ([]*model.Court, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return nil, apperrors.InvalidInput("Coordinates out of range")
	}

	radiusKm = sanitizer.ClampInt(radiusKm, 1, s.cfg.MaxRadiusKm)

	if err := s.ensureAreaFresh(ctx, lat, lon, radiusKm); err != nil {
		return nil, err
	}

	ids, err := s.index.Radius(ctx, lat, lon, radiusKm)
	if err != nil {
		s.cfg.Log.Error("Failed to query court index",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to query courts", err)
	}

	courts, err := s.repo.FindByCourtIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to load courts", err)
	}

	annotateDistance(courts, lat, lon)
	return courts, nil
}

// Nearby returns the closest courts regardless of radius, seeding the index
// from the upstream if the area has never been fetched.
func (s *courtService) Nearby(ctx context.Context, lat, lon float64) ([]*model.Court, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return nil, apperrors.InvalidInput("Coordinates out of range")
	}

	if err := s.ensureAreaFresh(ctx, lat, lon, s.cfg.DefaultRadiusKm); err != nil {
		return nil, err
	}

	ids, err := s.index.Nearest(ctx, lat, lon, s.cfg.NearbyCourtCount)
	if err != nil {
		return nil, apperrors.Internal("Failed to query courts", err)
	}

	courts, err := s.repo.FindByCourtIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("Failed to load courts", err)
	}

	annotateDistance(courts, lat, lon)
	return courts, nil
}

func annotateDistance(courts []*model.Court, lat, lon float64) {
	for _, court := range courts {
		court.DistanceKm = geo.HaversineKm(lat, lon, court.Lat, court.Lon)
	}
}

func (s *courtService) ensureAreaFresh(ctx context.Context, lat, lon float64, radiusKm int) error {
	fresh, err := s.index.IsFresh(ctx, lat, lon, radiusKm)
	if err != nil {
		s.cfg.Log.Warn("Freshness check failed, refetching",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
	}
	if fresh {
		return nil
	}

	courts, err := s.upstream.FetchCourts(ctx, lat, lon, radiusKm)
	if err != nil {
		if errors.Is(err, courterrors.ErrUpstream) {
			// Serve whatever the cache has rather than failing the request.
			s.cfg.Log.Warn("Upstream unavailable, serving cached courts",
				"lat", lat,
				"lon", lon,
				"error", err,
			)
			return nil
		}
		return apperrors.Internal("Failed to fetch courts", err)
	}

	if err := s.repo.UpsertMany(ctx, courts); err != nil {
		s.cfg.Log.Error("Failed to store fetched courts", "error", err)
		return apperrors.Internal("Failed to store courts", err)
	}

	if err := s.index.Add(ctx, courts); err != nil {
		s.cfg.Log.Error("Failed to index fetched courts", "error", err)
		return apperrors.Internal("Failed to index courts", err)
	}

	if err := s.index.MarkFetched(ctx, lat, lon, radiusKm); err != nil {
		s.cfg.Log.Warn("Failed to mark area fetched", "error", err)
	}

	return nil
}

func (s *courtService) Update(ctx context.Context, courtID string, updates *model.CourtUpdate) (*model.Court, error) {
	if courtID == "" {
		return nil, apperrors.InvalidInput("Court ID cannot be empty")
	}
	if updates == nil || updates.IsEmpty() {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	s.sanitize(updates)

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Court update validation failed",
			"court_id", courtID,
			"error", err,
		)
		return nil, apperrors.Validation("Court update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	court, err := s.repo.ApplyUpdate(ctx, courtID, updates)
	if err != nil {
		if errors.Is(err, courterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Court", courtID)
		}
		s.cfg.Log.Error("Failed to update court",
			"court_id", courtID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update court", err)
	}

	s.cfg.Log.Info("Court updated successfully",
		"court_id", courtID,
	)

	return court, nil
}

func (s *courtService) sanitize(updates *model.CourtUpdate) {
	if updates.Name != nil {
		clean := sanitizer.NormalizeName(*updates.Name)
		updates.Name = &clean
	}
	if updates.Surface != nil {
		clean := sanitizer.NormalizeSurface(*updates.Surface)
		updates.Surface = &clean
	}
	if updates.Address != nil {
		clean := sanitizer.NormalizeAddress(*updates.Address)
		updates.Address = &clean
	}
	if updates.Website != nil {
		clean := sanitizer.NormalizeURL(*updates.Website)
		updates.Website = &clean
	}
	if updates.Phone != nil {
		clean := sanitizer.NormalizePhone(*updates.Phone)
		updates.Phone = &clean
	}
	if updates.OpeningHours != nil {
		clean := sanitizer.TrimAndNormalize(*updates.OpeningHours)
		updates.OpeningHours = &clean
	}
}
