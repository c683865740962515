package ratelimit

import (
	"context"
	"testing"
	"time"

	"lead-funnel/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewLimiter(rdb, cfg, logger.NewTestLogger(t)), mr
}

func TestAllow_FixedWindow(t *testing.T) {
	l, _ := setup(t, Config{Requests: 5, Window: time.Minute})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d := l.Allow(ctx, "1.2.3.4")
		require.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 5-i, d.Remaining)
	}

	d := l.Allow(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.ResetIn > 0 && d.ResetIn <= time.Minute)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := setup(t, Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "a").Allowed)
	assert.False(t, l.Allow(ctx, "a").Allowed)
	assert.True(t, l.Allow(ctx, "b").Allowed)
}

func TestAllow_WindowExpires(t *testing.T) {
	l, mr := setup(t, Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "ip").Allowed)
	assert.False(t, l.Allow(ctx, "ip").Allowed)

	mr.FastForward(61 * time.Second)

	assert.True(t, l.Allow(ctx, "ip").Allowed)
}

func TestAllow_ExpirySetOnFirstHitOnly(t *testing.T) {
	l, mr := setup(t, Config{Requests: 10, Window: time.Minute})
	ctx := context.Background()

	l.Allow(ctx, "ip")
	mr.FastForward(40 * time.Second)
	l.Allow(ctx, "ip")

	assert.Equal(t, 20*time.Second, mr.TTL(keyPrefix+"ip"))
}

func TestAllow_FailsOpen(t *testing.T) {
	l, mr := setup(t, Config{Requests: 1, Window: time.Minute})
	mr.Close()

	d := l.Allow(context.Background(), "ip")
	assert.True(t, d.Allowed)
}
