package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()

	var (
		ctx    = context.Background()
		quotes = []*types.Quote{{Source: "https://example.com", Region: types.RegionAR}}
	)

	t.Run("empty cache misses", func(t *testing.T) {
		t.Parallel()

		c := NewCache(time.Minute)

		got, ok, err := c.Get(ctx, types.RegionAR)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("fresh entry hits", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(0, 0)}
		c := NewCache(time.Minute, WithClock(clock.Now))

		require.NoError(t, c.Set(ctx, types.RegionAR, quotes))
		clock.Advance(59 * time.Second)

		got, ok, err := c.Get(ctx, types.RegionAR)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, quotes, got)
	})

	t.Run("expired entry misses", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(0, 0)}
		c := NewCache(time.Minute, WithClock(clock.Now))

		require.NoError(t, c.Set(ctx, types.RegionAR, quotes))
		clock.Advance(time.Minute)

		_, ok, err := c.Get(ctx, types.RegionAR)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("regions are independent", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(0, 0)}
		c := NewCache(time.Minute, WithClock(clock.Now))

		require.NoError(t, c.Set(ctx, types.RegionAR, quotes))
		clock.Advance(30 * time.Second)

		brQuotes := []*types.Quote{{Source: "https://example.com.br", Region: types.RegionBR}}
		require.NoError(t, c.Set(ctx, types.RegionBR, brQuotes))

		clock.Advance(45 * time.Second)

		// AR is 75s old, BR is 45s old
		_, ok, err := c.Get(ctx, types.RegionAR)
		require.NoError(t, err)
		assert.False(t, ok)

		got, ok, err := c.Get(ctx, types.RegionBR)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, brQuotes, got)
	})
}
