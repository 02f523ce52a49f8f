// Package redis wraps go-redis connection setup with env-based configuration,
// startup retries, and a health check helper.
package redis
