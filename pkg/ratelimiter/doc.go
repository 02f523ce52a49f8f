// Package ratelimiter implements token bucket rate limiting with pluggable
// storage: an in-process store for single-instance deployments and a Redis
// store for shared state across replicas. The HTTP middleware fails open when
// the store is unavailable.
package ratelimiter
