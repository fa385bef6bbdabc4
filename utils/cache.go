package utils

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fms-tools/calendly-insights/config"
)

const reportKeyPrefix = "reports:"

// Cache is a thin JSON cache over Redis. A nil *Cache is a valid no-op
// cache, so callers never have to branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache connects to Redis when an address is configured and returns nil
// otherwise. Connection problems are logged, not fatal; the app degrades to
// uncached responses.
func NewCache(cfg *config.Config, logger *slog.Logger) *Cache {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
		return nil
	}
	return &Cache{client: client, logger: logger}
}

// GetJSON reads a cached value into out, reporting whether it was present.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("dropping unreadable cache entry", "key", key, "error", err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores a value under key for ttl. Failures are logged and ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("failed to write cache entry", "key", key, "error", err)
	}
}

// FlushReports drops all cached report payloads. Called after a successful
// sync so dashboards never serve pre-sync numbers for a full TTL.
func (c *Cache) FlushReports(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, reportKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("failed to flush report cache", "error", err)
	}
}
