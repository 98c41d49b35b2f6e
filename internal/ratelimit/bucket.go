package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the subset of Redis commands the bucket needs
type Store interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Decr(ctx context.Context, key string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// TokenBucket caps outbound provider calls. The bucket key expires after
// one refill period and is recreated full on the next call.
type TokenBucket struct {
	store        Store
	key          string
	maxTokens    int
	refillPeriod time.Duration
}

// NewTokenBucket creates a bucket holding maxTokens per minute
func NewTokenBucket(store Store, key string, maxTokens int) *TokenBucket {
	return &TokenBucket{
		store:        store,
		key:          key,
		maxTokens:    maxTokens,
		refillPeriod: time.Minute,
	}
}

// Allow consumes a token, reporting false when the bucket is empty
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	if err := tb.store.SetNX(ctx, tb.key, tb.maxTokens, tb.refillPeriod).Err(); err != nil {
		return false, fmt.Errorf("initialize bucket: %w", err)
	}

	tokens, err := tb.store.Decr(ctx, tb.key).Result()
	if err != nil {
		return false, fmt.Errorf("decrement tokens: %w", err)
	}

	if tokens < 0 {
		// put back the token we could not take
		tb.store.Incr(ctx, tb.key)
		return false, nil
	}

	return true, nil
}

// Tokens returns the current token count
func (tb *TokenBucket) Tokens(ctx context.Context) (int, error) {
	tokens, err := tb.store.Get(ctx, tb.key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return tb.maxTokens, nil
		}
		return 0, fmt.Errorf("get tokens: %w", err)
	}
	return tokens, nil
}
