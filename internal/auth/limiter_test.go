package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client, max, window), srv
}

func TestLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok, "attempt %d should be allowed", i+1)
		require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiterResetClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))
	require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, srv := newTestLimiter(t, 1, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)

	srv.FastForward(16 * time.Minute)

	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)
}
