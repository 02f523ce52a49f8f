package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/ratelimiter"
)

func newBucket(t *testing.T, cfg ratelimiter.Config) *ratelimiter.Bucket {
	t.Helper()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	bucket, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return bucket
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid config", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		_, err := ratelimiter.NewBucket(store, ratelimiter.Config{})
		require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("allows up to capacity", func(t *testing.T) {
		bucket := newBucket(t, ratelimiter.Config{
			Capacity:       3,
			RefillRate:     3,
			RefillInterval: time.Hour,
		})

		for i := 0; i < 3; i++ {
			result, err := bucket.Allow(ctx, "client")
			require.NoError(t, err)
			assert.True(t, result.Allowed())
		}

		result, err := bucket.Allow(ctx, "client")
		require.NoError(t, err)
		assert.False(t, result.Allowed())
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		bucket := newBucket(t, ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: time.Hour,
		})

		result, err := bucket.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, result.Allowed())

		result, err = bucket.Allow(ctx, "b")
		require.NoError(t, err)
		assert.True(t, result.Allowed())

		result, err = bucket.Allow(ctx, "a")
		require.NoError(t, err)
		assert.False(t, result.Allowed())
	})

	t.Run("refills after interval", func(t *testing.T) {
		bucket := newBucket(t, ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: 10 * time.Millisecond,
		})

		result, err := bucket.Allow(ctx, "client")
		require.NoError(t, err)
		require.True(t, result.Allowed())

		result, err = bucket.Allow(ctx, "client")
		require.NoError(t, err)
		require.False(t, result.Allowed())

		time.Sleep(15 * time.Millisecond)

		result, err = bucket.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})

	t.Run("reset restores the bucket", func(t *testing.T) {
		bucket := newBucket(t, ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: time.Hour,
		})

		_, err := bucket.Allow(ctx, "client")
		require.NoError(t, err)

		require.NoError(t, bucket.Reset(ctx, "client"))

		result, err := bucket.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})

	t.Run("rejects non-positive token count", func(t *testing.T) {
		bucket := newBucket(t, ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: time.Hour,
		})

		_, err := bucket.AllowN(ctx, "client", 0)
		require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	bucket := newBucket(t, ratelimiter.Config{
		Capacity:       2,
		RefillRate:     2,
		RefillInterval: time.Hour,
	})

	handler := ratelimiter.Middleware(bucket, ratelimiter.ClientIP)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	w := do("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = do("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client is not affected.
	w = do("10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	t.Run("remote addr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		assert.Equal(t, "10.0.0.1", ratelimiter.ClientIP(r))
	})

	t.Run("x-forwarded-for wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", ratelimiter.ClientIP(r))
	})
}
