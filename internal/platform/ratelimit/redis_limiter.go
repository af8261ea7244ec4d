package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter backs the fixed window with a shared Redis INCR counter, so
// every API instance behind a load balancer enforces the same limit
// instead of each tracking its own in-memory count.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

func NewRedisLimiter(client *redis.Client, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisLimiter{client: client, prefix: keyPrefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (int, time.Time, bool, error) {
	fullKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	ttl := pipe.TTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, false, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	if count == 1 || remaining < 0 {
		if err := l.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, time.Time{}, false, fmt.Errorf("rate limit set expiry: %w", err)
		}
		remaining = window
	}

	return count, time.Now().Add(remaining), count <= limit, nil
}
