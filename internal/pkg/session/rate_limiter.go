// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed Redis windows. It guards the
// refresh endpoints so one session cannot hammer the upstream API.
type RateLimiter struct {
	client redis.UniversalClient
	max    int64
	window time.Duration
}

func NewRateLimiter(client redis.UniversalClient, max int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window}
}

// Allow increments the counter for key and reports whether the request is
// within the limit, along with the remaining allowance.
func (r *RateLimiter) Allow(ctx context.Context, scope, key string) (bool, int64, error) {
	if r == nil || r.max <= 0 {
		return true, 0, nil
	}
	k := fmt.Sprintf("ratelimit:%s:%s", scope, key)

	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// Set expiration on first hit
	if count == 1 {
		r.client.Expire(ctx, k, r.window)
	}

	remaining := r.max - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= r.max, remaining, nil
}

// Reset clears the counter for key.
func (r *RateLimiter) Reset(ctx context.Context, scope, key string) error {
	return r.client.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", scope, key)).Err()
}

// Remaining returns the allowance left in the current window.
func (r *RateLimiter) Remaining(ctx context.Context, scope, key string) (int64, error) {
	count, err := r.client.Get(ctx, fmt.Sprintf("ratelimit:%s:%s", scope, key)).Int64()
	if err == redis.Nil {
		return r.max, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rate limit: %w", err)
	}
	remaining := r.max - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
