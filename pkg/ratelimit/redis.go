package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed window limiter backed by Redis.
//
// Counters live under one key per client with an expiry equal to the window,
// so state is shared across service instances and stale entries expire on
// their own.
type RedisLimiter struct {
	client *redis.Client
	config Config
	prefix string
}

// RedisOption customizes a RedisLimiter.
type RedisOption func(*RedisLimiter)

// WithKeyPrefix overrides the key prefix (default "ratelimit").
func WithKeyPrefix(prefix string) RedisOption {
	return func(l *RedisLimiter) { l.prefix = prefix }
}

// NewRedisLimiter creates a Redis-backed fixed window limiter.
func NewRedisLimiter(client *redis.Client, config Config, opts ...RedisOption) *RedisLimiter {
	l := &RedisLimiter{
		client: client,
		config: config.withDefaults(),
		prefix: "ratelimit",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow implements Limiter.
//
// The counter is incremented and, for the first request of a window, given
// an expiry of one window. Requests beyond the quota still increment the
// counter; the surplus is irrelevant because the key expires with the
// window.
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	key := fmt.Sprintf("%s:%s", l.prefix, clientID)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit backend error: %w", err)
	}

	return incr.Val() <= int64(l.config.MaxRequests), nil
}

// Window returns the fixed window length.
func (l *RedisLimiter) Window() time.Duration {
	return l.config.Window
}

// Limit returns the per-window quota.
func (l *RedisLimiter) Limit() int {
	return l.config.MaxRequests
}
