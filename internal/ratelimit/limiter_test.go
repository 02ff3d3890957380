package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatavachnadze/URL-Shortener/internal/ratelimit"
	"github.com/tatavachnadze/URL-Shortener/internal/store"
)

type failingRateLimitStore struct {
	err error
}

func (s *failingRateLimitStore) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, s.err
}

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore(), 3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, err := limiter.Allow(context.Background(), "client-a")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, err := limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are limited independently", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore(), 1, time.Minute)

		allowed, err := limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.False(t, allowed)

		allowed, err = limiter.Allow(context.Background(), "client-b")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("window expiry frees the budget", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore(), 1, 50*time.Millisecond)

		allowed, err := limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.False(t, allowed)

		// Denied attempts count against the window too, so wait it out
		// entirely before probing again.
		time.Sleep(60 * time.Millisecond)

		allowed, err = limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("store failure denies the request", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(
			&failingRateLimitStore{err: errors.New("redis down")}, 10, time.Minute)

		allowed, err := limiter.Allow(context.Background(), "client-a")

		require.Error(t, err)
		assert.False(t, allowed)
	})
}
