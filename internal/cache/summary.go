// Package cache memoizes the composite dashboard summary in Redis.
// It caches only that one aggregation; every other metric is always
// computed live.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"trackline/internal/apperrors"
	"trackline/internal/config"
)

// ErrMiss reports that no fresh entry exists for the key. TTL expiry
// and a never-written key are indistinguishable to callers.
var ErrMiss = errors.New("summary cache miss")

// Key maps a (days, topLimit) pair to its canonical cache key.
func Key(days, topLimit int) string {
	return fmt.Sprintf("dashboard:summary:%d:%d", days, topLimit)
}

// NewRedisClient connects to the Redis backend configured in cfg and
// verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// SummaryCache is the TTL'd key/value store for serialized summaries.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache wraps a Redis client with the summary TTL policy.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// TTL returns the freshness window applied by Put.
func (c *SummaryCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached summary for the key, ErrMiss when absent or
// expired, or ErrCacheUnavailable when the backend cannot be reached.
func (c *SummaryCache) Get(ctx context.Context, days, topLimit int) ([]byte, error) {
	data, err := c.client.Get(ctx, Key(days, topLimit)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", apperrors.ErrCacheUnavailable, Key(days, topLimit), err)
	}
	return data, nil
}

// Put replaces the entry for the key with value and restarts its TTL.
// Entries are never partially updated.
func (c *SummaryCache) Put(ctx context.Context, days, topLimit int, value []byte) error {
	if err := c.client.Set(ctx, Key(days, topLimit), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: put %s: %v", apperrors.ErrCacheUnavailable, Key(days, topLimit), err)
	}
	return nil
}

// Invalidate removes the entry for the key, if present.
func (c *SummaryCache) Invalidate(ctx context.Context, days, topLimit int) error {
	if err := c.client.Del(ctx, Key(days, topLimit)).Err(); err != nil {
		return fmt.Errorf("%w: invalidate %s: %v", apperrors.ErrCacheUnavailable, Key(days, topLimit), err)
	}
	return nil
}
