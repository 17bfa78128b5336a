// README: Geocode cache backed by Redis.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"vtc/internal/types"
)

type GeocodeCache interface {
	Get(ctx context.Context, key string) (types.Coordinates, bool, error)
	Set(ctx context.Context, key string, c types.Coordinates) error
}

type RedisGeocodeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{redis: client, ttl: ttl}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, key string) (types.Coordinates, bool, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Coordinates{}, false, nil
	}
	if err != nil {
		return types.Coordinates{}, false, err
	}
	var coords types.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return types.Coordinates{}, false, err
	}
	return coords, true, nil
}

func (c *RedisGeocodeCache) Set(ctx context.Context, key string, coords types.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, c.ttl).Err()
}
