// README: Redis read-through caches for the tariff catalog and the holiday calendar.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"vtc/internal/logging"
	"vtc/internal/types"
)

const (
	keyTariffs     = "pricing:tariffs"
	keySupplements = "pricing:supplements"
	keyHolidayPfx  = "pricing:holiday:"
)

// Cache stores JSON values. Load reports a miss as (false, nil).
type Cache interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Store(ctx context.Context, key string, v any) error
}

type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Store(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, c.ttl).Err()
}

// CachedCatalog fronts any CatalogSource. Empty lists are not cached, since the
// backend source reports failures as empty.
type CachedCatalog struct {
	next  CatalogSource
	cache Cache
	log   *slog.Logger
}

func NewCachedCatalog(next CatalogSource, cache Cache, log *slog.Logger) *CachedCatalog {
	return &CachedCatalog{next: next, cache: cache, log: logging.OrDiscard(log)}
}

func (c *CachedCatalog) Tariffs(ctx context.Context) ([]Tariff, error) {
	var out []Tariff
	if c.load(ctx, keyTariffs, &out) {
		return out, nil
	}
	out, err := c.next.Tariffs(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyTariffs, out, len(out))
	return out, nil
}

func (c *CachedCatalog) Supplements(ctx context.Context) ([]Supplement, error) {
	var out []Supplement
	if c.load(ctx, keySupplements, &out) {
		return out, nil
	}
	out, err := c.next.Supplements(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keySupplements, out, len(out))
	return out, nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	hit, err := c.cache.Load(ctx, key, dst)
	if err != nil {
		c.log.Warn("catalog cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (c *CachedCatalog) store(ctx context.Context, key string, v any, n int) {
	if n == 0 {
		return
	}
	if err := c.cache.Store(ctx, key, v); err != nil {
		c.log.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

// CachedHolidays memoizes answers per date. Checker errors are never cached.
type CachedHolidays struct {
	next  HolidayChecker
	cache Cache
	log   *slog.Logger
}

func NewCachedHolidays(next HolidayChecker, cache Cache, log *slog.Logger) *CachedHolidays {
	return &CachedHolidays{next: next, cache: cache, log: logging.OrDiscard(log)}
}

func (c *CachedHolidays) IsHoliday(ctx context.Context, date types.Date) (bool, error) {
	key := keyHolidayPfx + date.String()
	var holiday bool
	hit, err := c.cache.Load(ctx, key, &holiday)
	if err != nil {
		c.log.Warn("holiday cache read failed", "date", date.String(), "error", err)
	} else if hit {
		return holiday, nil
	}

	holiday, err = c.next.IsHoliday(ctx, date)
	if err != nil {
		return false, err
	}
	if err := c.cache.Store(ctx, key, holiday); err != nil {
		c.log.Warn("holiday cache write failed", "date", date.String(), "error", err)
	}
	return holiday, nil
}
