package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clock := time.UnixMilli(1_700_000_000_000)
	l := NewRateLimiter(NewClientFromRedis(rdb))
	l.now = func() time.Time { return clock }
	return l, mr, &clock
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 3, d.Limit)
}

func TestRateLimiterRejectedRequestsDoNotConsumeQuota(t *testing.T) {
	l, mr, clock := newTestLimiter(t)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		*clock = clock.Add(time.Second)
		d, err := l.Allow(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	}

	members, err := mr.ZMembers("k")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	l, _, clock := newTestLimiter(t)
	ctx := context.Background()

	first := *clock
	_, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)

	*clock = clock.Add(30 * time.Second)
	d, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, first.Add(time.Minute), d.ResetAt)
	assert.Equal(t, 30*time.Second, d.RetryAfter(*clock))

	*clock = clock.Add(31 * time.Second)
	d, err = l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiterReset(t *testing.T) {
	l, mr, _ := newTestLimiter(t)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, l.Reset(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRateLimiterRedisDown(t *testing.T) {
	l, mr, _ := newTestLimiter(t)
	mr.Close()

	_, err := l.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestLocalRateLimiter(t *testing.T) {
	l := NewLocalRateLimiter()
	clock := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = l.Allow(ctx, "other", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	clock = clock.Add(time.Minute + time.Millisecond)
	d, err = l.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	require.NoError(t, l.Reset(ctx, "k"))
}

func TestBuildRateLimitKey(t *testing.T) {
	assert.Equal(t, "jenga:ratelimit:v1:1.2.3.4", BuildRateLimitKey("jenga:ratelimit:", "1.2.3.4", "v1"))
	assert.Equal(t, "ratelimit:v1:x", BuildRateLimitKey("", "x", "v1"))
}
