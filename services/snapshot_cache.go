package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	venueKeyPrefix = "venue:"
	venuesGeoKey   = "venues:geo"
	recentLimit    = 50
)

// RecentVenue is a venue surfaced by an earlier search, with its distance
// from the point it was looked up around.
type RecentVenue struct {
	Venue      models.Venue `json:"venue"`
	DistanceKm float64      `json:"distance_km"`
}

// SnapshotCache keeps render-ready copies of surfaced venues in Redis so a
// details view can be opened by id after the search that produced it. Each
// venue lives in its own hash with a TTL; a geo index lists recent ones.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// Ping checks the connection.
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// Record stores venues and adds them to the geo index. Venues that fail the
// activity check are never stored.
func (c *SnapshotCache) Record(ctx context.Context, venues []models.Venue) error {
	pipe := c.client.Pipeline()
	stored := 0
	for _, v := range venues {
		if !v.Surfaceable() {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			c.logger.Warnw("failed to marshal venue", "id", v.ID, "error", err)
			continue
		}
		key := venueKeyPrefix + v.ID
		pipe.HSet(ctx, key, "data", data)
		pipe.Expire(ctx, key, c.ttl)
		pipe.GeoAdd(ctx, venuesGeoKey, &redis.GeoLocation{
			Name:      v.ID,
			Longitude: v.Location.Longitude,
			Latitude:  v.Location.Latitude,
		})
		stored++
	}
	if stored == 0 {
		return nil
	}
	pipe.Expire(ctx, venuesGeoKey, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record venue snapshots: %w", err)
	}
	c.logger.Debugw("recorded venue snapshots", "count", stored)
	return nil
}

// Get returns the stored snapshot of a venue, or ErrNotFound once it has
// expired or was never surfaced.
func (c *SnapshotCache) Get(ctx context.Context, id string) (models.Venue, error) {
	data, err := c.client.HGet(ctx, venueKeyPrefix+id, "data").Result()
	if errors.Is(err, redis.Nil) {
		return models.Venue{}, apierrors.ErrNotFound
	}
	if err != nil {
		return models.Venue{}, apierrors.WithDetails(apierrors.ErrUnavailable, err)
	}
	var venue models.Venue
	if err := json.Unmarshal([]byte(data), &venue); err != nil {
		return models.Venue{}, apierrors.WithDetails(apierrors.ErrInternal, err)
	}
	return venue, nil
}

// Recent lists stored venues within radiusMeters of origin, nearest first.
// Index entries whose snapshot expired are pruned on the way.
func (c *SnapshotCache) Recent(ctx context.Context, origin models.Coordinate, radiusMeters float64) ([]RecentVenue, error) {
	geoResults, err := c.client.GeoRadius(ctx, venuesGeoKey, origin.Longitude, origin.Latitude, &redis.GeoRadiusQuery{
		Radius:   radiusMeters / 1000,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
		Count:    recentLimit,
	}).Result()
	if err != nil {
		return nil, apierrors.WithDetails(apierrors.ErrUnavailable, err)
	}

	results := make([]RecentVenue, 0, len(geoResults))
	var expired []any
	for _, geoResult := range geoResults {
		venue, err := c.Get(ctx, geoResult.Name)
		if errors.Is(err, apierrors.ErrNotFound) {
			expired = append(expired, geoResult.Name)
			continue
		}
		if err != nil {
			c.logger.Warnw("failed to load venue snapshot", "id", geoResult.Name, "error", err)
			continue
		}
		results = append(results, RecentVenue{Venue: venue, DistanceKm: geoResult.Dist})
	}

	if len(expired) > 0 {
		if err := c.client.ZRem(ctx, venuesGeoKey, expired...).Err(); err != nil {
			c.logger.Warnw("failed to prune expired venues", "error", err)
		}
	}
	return results, nil
}
