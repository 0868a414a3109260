package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles failed PIN attempts per client, backed by Redis.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewLimiter constructs a Limiter allowing max failures per window.
func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow reports whether the client may attempt a login.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Get(ctx, l.redisKey(key)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("auth: limiter get: %w", err)
	}
	return count < l.max, nil
}

// RecordFailure increments the failure counter, starting the window on the
// first miss.
func (l *Limiter) RecordFailure(ctx context.Context, key string) error {
	rk := l.redisKey(key)
	count, err := l.client.Incr(ctx, rk).Result()
	if err != nil {
		return fmt.Errorf("auth: limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, rk, l.window).Err(); err != nil {
			return fmt.Errorf("auth: limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("auth: limiter reset: %w", err)
	}
	return nil
}

func (l *Limiter) redisKey(key string) string {
	return "login_attempts:" + key
}
