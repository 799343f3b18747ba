// Package cache provides a small Redis-backed cache for read-only queue
// summaries. Callers must treat every method as best-effort: when Redis is
// not configured or unreachable the cache silently misses and the caller
// falls back to the database.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"station-dispatch/pkg/utils"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New connects to Redis when an address is configured. A nil client (no
// address, or ping failure) disables caching entirely.
func New(config utils.RedisConfig, log *zap.Logger) *Cache {
	c := &Cache{
		ttl: time.Duration(config.TTLSecs) * time.Second,
		log: log.With(zap.String("component", "cache")),
	}

	if config.Addr == "" {
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Warn("Redis unreachable, summary caching disabled", zap.Error(err))
		return c
	}

	c.client = client
	return c
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Cache get failed", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if !c.Enabled() {
		return
	}

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.Error(err), zap.String("key", key))
	}
}

// Invalidate drops a key after a mutation so the next summary read is fresh.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache invalidate failed", zap.Error(err), zap.String("key", key))
	}
}

func (c *Cache) Close() {
	if c.Enabled() {
		c.client.Close()
	}
}
