package ratelimiter

import (
	"context"
	"fmt"
)

// Bucket is a token bucket rate limiter over a pluggable Store.
type Bucket struct {
	store  Store
	config Config
}

// NewBucket validates the configuration and builds a limiter.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

// Allow consumes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens for key in one operation.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, err
	}

	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset restores a full bucket for key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}
