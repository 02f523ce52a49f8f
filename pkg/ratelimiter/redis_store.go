package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript implements the token bucket atomically on the Redis side so
// that concurrent instances sharing a bucket cannot race between read and
// write. KEYS[1] is the bucket key; ARGV carries capacity, refill rate,
// refill interval (ms), tokens to consume, and current time (ms).
// Returns {remaining, lastRefillMillis}.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local refill_interval = tonumber(ARGV[3])
local consume = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil then
  tokens = capacity
  last_refill = now
end

local elapsed = now - last_refill
local max_intervals = math.floor(capacity / refill_rate) + 1
local intervals = math.floor(elapsed / refill_interval)
if intervals > max_intervals then
  intervals = max_intervals
end

if intervals > 0 then
  tokens = math.min(tokens + intervals * refill_rate, capacity)
  last_refill = now
end

tokens = tokens - consume

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill', last_refill)
local ttl = math.ceil((capacity / refill_rate + 1) * refill_interval / 1000)
redis.call('EXPIRE', KEYS[1], ttl)

return {tokens, last_refill}
`)

// RedisStore implements Store on top of Redis, allowing multiple application
// instances to share rate limit state.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Redis-backed store. The prefix namespaces bucket
// keys so several limiters can share one Redis database.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// ConsumeTokens attempts to consume tokens from the shared bucket.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	now := time.Now()

	res, err := consumeScript.Run(ctx, rs.client, []string{rs.key(key)},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		now.UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	remaining := int(res[0])
	lastRefill := time.UnixMilli(res[1])
	resetAt := lastRefill.Add(config.RefillInterval)

	return remaining, resetAt, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (rs *RedisStore) key(key string) string {
	return rs.keyPrefix + ":" + key
}
