package cache

import (
	"context"
	"errors"
	"time"

	repo "messapp/internal/repository"

	"github.com/redis/go-redis/v9"
)

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

type catalogRedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// ttl <= 0 falls back to TTLCatalog.
func NewCatalogRedisCache(rdb *redis.Client, ttl time.Duration) repo.CatalogCache {
	if ttl <= 0 {
		ttl = TTLCatalog
	}
	return &catalogRedisCache{rdb: rdb, ttl: ttl}
}

func (c *catalogRedisCache) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, KeyCatalog).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *catalogRedisCache) Set(ctx context.Context, data []byte) error {
	return c.rdb.Set(ctx, KeyCatalog, data, c.ttl).Err()
}

func (c *catalogRedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, KeyCatalog).Err()
}

// Noop is used when REDIS_ADDR is unset; every read misses.
type Noop struct{}

func (Noop) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, []byte) error         { return nil }
func (Noop) Invalidate(context.Context) error          { return nil }
