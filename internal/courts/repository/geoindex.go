package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"courtfinder/pkg/config"
	"courtfinder/pkg/model"
)

const (
	geoKey         = "courts:geo"
	freshKeyFormat = "courts:fresh:%.2f:%.2f:%d"
)

// GeoIndex answers spatial queries over the court set. Freshness markers
// record which areas were fetched recently enough to skip the upstream.
type GeoIndex interface {
	Add(ctx context.Context, courts []*model.Court) error
	Radius(ctx context.Context, lat, lon float64, radiusKm int) ([]string, error)
	Nearest(ctx context.Context, lat, lon float64, count int) ([]string, error)
	MarkFetched(ctx context.Context, lat, lon float64, radiusKm int) error
	IsFresh(ctx context.Context, lat, lon float64, radiusKm int) (bool, error)
}

type redisGeoIndex struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeoIndex(cfg *config.Config) GeoIndex {
	return &redisGeoIndex{
		client: cfg.Client.Redis,
		ttl:    cfg.CourtCacheTTL,
	}
}

func (g *redisGeoIndex) Add(ctx context.Context, courts []*model.Court) error {
	if len(courts) == 0 {
		return nil
	}

	locations := make([]*redis.GeoLocation, 0, len(courts))
	for _, court := range courts {
		locations = append(locations, &redis.GeoLocation{
			Name:      court.CourtID,
			Latitude:  court.Lat,
			Longitude: court.Lon,
		})
	}

	if err := g.client.GeoAdd(ctx, geoKey, locations...).Err(); err != nil {
		return fmt.Errorf("failed to index courts: %w", err)
	}
	return nil
}

func (g *redisGeoIndex) Radius(ctx context.Context, lat, lon float64, radiusKm int) ([]string, error) {
	results, err := g.client.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius: float64(radiusKm),
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query court index: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, loc := range results {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}

func (g *redisGeoIndex) Nearest(ctx context.Context, lat, lon float64, count int) ([]string, error) {
	results, err := g.client.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius: 20000, // spans any two points on earth
		Unit:   "km",
		Sort:   "ASC",
		Count:  count,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query court index: %w", err)
	}

	ids := make([]string, 0, len(results))
	for _, loc := range results {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}

// freshKey quantizes the query point to ~1km so nearby queries share a
// freshness marker.
func freshKey(lat, lon float64, radiusKm int) string {
	return fmt.Sprintf(freshKeyFormat, lat, lon, radiusKm)
}

func (g *redisGeoIndex) MarkFetched(ctx context.Context, lat, lon float64, radiusKm int) error {
	if err := g.client.Set(ctx, freshKey(lat, lon, radiusKm), "1", g.ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark area fetched: %w", err)
	}
	return nil
}

func (g *redisGeoIndex) IsFresh(ctx context.Context, lat, lon float64, radiusKm int) (bool, error) {
	n, err := g.client.Exists(ctx, freshKey(lat, lon, radiusKm)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check area freshness: %w", err)
	}
	return n > 0, nil
}
