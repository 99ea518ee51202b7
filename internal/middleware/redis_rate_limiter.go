package middleware

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed one-second window shared by every replica.
// Redis failures let the request through.
type RedisLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	prefix  string
	timeout time.Duration
}

func NewRedisLimiter(client *redis.Client, rps int) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		limit:   rps,
		window:  time.Second,
		prefix:  "miniapp:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l.limit <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	redisKey := l.prefix + key
	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		slog.Error("redis rate limiter", "op", "incr", "err", err)
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			slog.Error("redis rate limiter", "op", "expire", "err", err)
		}
	}
	return n <= int64(l.limit)
}
