package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"service-dispatch/internal/domain"
)

const (
	courierGeoKey       = "dispatch:couriers:geo"
	courierPositionKeyF = "dispatch:courier:%d:position"
)

// PositionStore keeps live courier positions in Redis.
type PositionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewPositionStore creates a new PositionStore. Positions expire after ttl.
func NewPositionStore(client *redis.Client, ttl time.Duration) *PositionStore {
	return &PositionStore{redis: client, ttl: ttl}
}

// Save records the position and refreshes its expiry.
func (s *PositionStore) Save(ctx context.Context, courierID int64, pos domain.LivePosition) error {
	key := positionKey(courierID)

	pipe := s.redis.TxPipeline()
	pipe.GeoAdd(ctx, courierGeoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(courierID, 10),
		Longitude: pos.Coordinate.Lng,
		Latitude:  pos.Coordinate.Lat,
	})
	pipe.HSet(ctx, key,
		"lat", strconv.FormatFloat(pos.Coordinate.Lat, 'f', -1, 64),
		"lng", strconv.FormatFloat(pos.Coordinate.Lng, 'f', -1, 64),
		"at", pos.At.UTC().Format(time.RFC3339Nano),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save position %d: %w", courierID, err)
	}
	return nil
}

// Get returns the stored position or nil when it is missing or expired.
func (s *PositionStore) Get(ctx context.Context, courierID int64) (*domain.LivePosition, error) {
	vals, err := s.redis.HGetAll(ctx, positionKey(courierID)).Result()
	if err == redis.Nil || (err == nil && len(vals) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get position %d: %w", courierID, err)
	}

	lat, err := strconv.ParseFloat(vals["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat for %d: %w", courierID, err)
	}
	lng, err := strconv.ParseFloat(vals["lng"], 64)
	if err != nil {
		return nil, fmt.Errorf("parse lng for %d: %w", courierID, err)
	}
	at, err := time.Parse(time.RFC3339Nano, vals["at"])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp for %d: %w", courierID, err)
	}
	return &domain.LivePosition{Coordinate: domain.Coordinate{Lat: lat, Lng: lng}, At: at}, nil
}

// Remove drops the courier from the live set, e.g. when going offline.
func (s *PositionStore) Remove(ctx context.Context, courierID int64) error {
	pipe := s.redis.TxPipeline()
	pipe.ZRem(ctx, courierGeoKey, strconv.FormatInt(courierID, 10))
	pipe.Del(ctx, positionKey(courierID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove position %d: %w", courierID, err)
	}
	return nil
}

// Nearby returns ids of couriers with a live position within radiusKm, nearest first.
func (s *PositionStore) Nearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]int64, error) {
	members, err := s.redis.GeoSearch(ctx, courierGeoKey, &redis.GeoSearchQuery{
		Longitude:  c.Lng,
		Latitude:   c.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	return s.dropExpired(ctx, ids)
}

// dropExpired keeps ids whose position hash is still alive. GEO members have
// no TTL of their own, so members left behind by an expired hash are removed.
func (s *PositionStore) dropExpired(ctx context.Context, ids []int64) ([]int64, error) {
	pipe := s.redis.Pipeline()
	exists := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, positionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("check live positions: %w", err)
	}

	live := ids[:0]
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
			continue
		}
		stale = append(stale, strconv.FormatInt(id, 10))
	}
	if len(stale) > 0 {
		if err := s.redis.ZRem(ctx, courierGeoKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("drop expired positions: %w", err)
		}
	}
	return live, nil
}

func positionKey(courierID int64) string {
	return fmt.Sprintf(courierPositionKeyF, courierID)
}
