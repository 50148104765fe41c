// Package ratelimit tracks per-credential request counts over rolling
// windows backed by Redis, so limits hold across server instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes one rate-limit decision and the window it was made in.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a request against a bucket may be admitted.
// Implementations must be safe for concurrent use.
type Limiter interface {
	// CheckAndConsume admits and counts the request, or rejects it without
	// incrementing. The check and the increment are atomic per bucket.
	CheckAndConsume(ctx context.Context, bucket string, limit int, window time.Duration) (*Result, error)
	Ping(ctx context.Context) error
	Close() error
}

// The counter is only incremented while below the limit, so concurrent
// requests cannot both be admitted on the same remaining slot and the
// stored count never exceeds the limit.
var checkAndConsumeScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
    return {0, tonumber(current), redis.call("PTTL", KEYS[1])}
end
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {1, count, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter implements Limiter using go-redis/v9.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a RedisLimiter from a Redis URL.
func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisLimiter{client: redis.NewClient(opts)}, nil
}

func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

func (l *RedisLimiter) CheckAndConsume(ctx context.Context, bucket string, limit int, window time.Duration) (*Result, error) {
	vals, err := checkAndConsumeScript.Run(ctx, l.client,
		[]string{bucket}, limit, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}

	allowed, count, pttl := vals[0] == 1, vals[1], vals[2]

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	reset := time.Now().Add(window)
	if pttl > 0 {
		reset = time.Now().Add(time.Duration(pttl) * time.Millisecond)
	}

	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// BucketKey builds the Redis key for a credential's current window.
func BucketKey(keyID string) string {
	return fmt.Sprintf("ratelimit:%s", keyID)
}
