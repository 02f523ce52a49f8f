package ratelimiter

import (
	"context"
	"time"
)

// Store persists bucket state. Implementations must be safe for concurrent
// use; the memory store covers single-instance deployments, the Redis store
// shares buckets across instances.
type Store interface {
	// ConsumeTokens takes tokens from the bucket for key, refilling it first
	// according to config. A negative remaining count means the request must
	// be denied; resetAt is when the bucket next gains tokens.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset drops all state for key, restoring a full bucket.
	Reset(ctx context.Context, key string) error
}
