// Package ratelimit throttles repeated attempts per key with a fixed window
// counter kept in Redis, so every API replica shares the same budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of a single attempt.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether another attempt for key is allowed. Reset
// forgets the attempts recorded for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Reset(ctx context.Context, key string) error
}

// fixedWindow increments the counter, starts the window on the first hit
// and returns the new count with the remaining window in milliseconds.
var fixedWindow = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

// RedisLimiter allows at most limit attempts per key within each window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a RedisLimiter. Keys are stored under prefix.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// Allow records an attempt for key and reports whether it is within budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	values, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("unexpected result length: %d", len(values))
	}

	count, ttlMs := values[0], values[1]
	res := &Result{
		Allowed:   count <= int64(l.limit),
		Remaining: max(l.limit-int(count), 0),
	}
	if !res.Allowed && ttlMs > 0 {
		res.RetryAfter = time.Duration(ttlMs) * time.Millisecond
	}
	return res, nil
}

// Reset clears the counter for key, e.g. after a successful login.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}

// Noop allows every attempt. It is used when no Redis is configured.
type Noop struct{}

// Allow always succeeds.
func (Noop) Allow(context.Context, string) (*Result, error) {
	return &Result{Allowed: true}, nil
}

// Reset has nothing to clear.
func (Noop) Reset(context.Context, string) error {
	return nil
}

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
