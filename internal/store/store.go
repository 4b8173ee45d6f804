// internal/store/store.go

// Package store persists profiles, catalog data, recommendations, check-ins
// and notifications in Postgres, with Redis cache-aside reads for profiles
// and the catalog.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// jsonCache stores JSON values in Redis. A nil client disables caching.
// Cache failures are logged and never returned.
type jsonCache struct {
	rdb    *redis.Client
	name   string
	ttl    time.Duration
	logger logger.Logger
}

func (c *jsonCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c.rdb == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		metrics.CacheMiss(c.name)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.logger.Warn("cache entry corrupt", map[string]interface{}{"key": key, "error": err})
		metrics.CacheMiss(c.name)
		return false
	}
	metrics.CacheHit(c.name)
	return true
}

func (c *jsonCache) set(ctx context.Context, key string, v interface{}) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (c *jsonCache) del(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{"keys": keys, "error": err})
	}
}
