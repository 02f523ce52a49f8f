package ratelimiter

import "time"

// Config describes a token bucket: it holds at most Capacity tokens and
// gains RefillRate tokens every RefillInterval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// Result is the outcome of a single bucket check.
type Result struct {
	// Limit echoes the bucket capacity, for response headers.
	Limit int

	// Remaining is the token count after this check. Negative means denied.
	Remaining int

	// ResetAt is when the bucket next gains tokens.
	ResetAt time.Time
}

// Allowed reports whether the checked request may proceed.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long a denied caller should wait, or zero when the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}
