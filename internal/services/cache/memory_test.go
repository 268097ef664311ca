package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(1)

	_, ok := mc.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, mc.Set(ctx, "script:1", []byte("one"), time.Minute))
	v, ok := mc.Get(ctx, "script:1")
	require.True(t, ok)
	assert.Equal(t, []byte("one"), v)

	// Overwrite replaces the value and keeps the size accurate
	require.NoError(t, mc.Set(ctx, "script:1", []byte("uno"), time.Minute))
	v, _ = mc.Get(ctx, "script:1")
	assert.Equal(t, []byte("uno"), v)
	assert.Equal(t, int64(len("script:1")+len("uno")), mc.Stats().Bytes)

	require.NoError(t, mc.Delete(ctx, "script:1"))
	_, ok = mc.Get(ctx, "script:1")
	assert.False(t, ok)

	stats := mc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 0, stats.Entries)
	assert.Zero(t, stats.Bytes)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mc := NewMemoryCache(1)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "short", []byte("x"), time.Second))
	require.NoError(t, mc.Set(ctx, "default", []byte("y"), 0))

	now = now.Add(2 * time.Second)
	_, ok := mc.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = mc.Get(ctx, "default")
	assert.True(t, ok)

	now = now.Add(DefaultTTL)
	_, ok = mc.Get(ctx, "default")
	assert.False(t, ok)
	assert.Equal(t, 0, mc.Stats().Entries)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(1)
	mc.maxBytes = 30

	value := []byte(strings.Repeat("v", 8))
	require.NoError(t, mc.Set(ctx, "k1", value, time.Minute)) // 10 bytes
	require.NoError(t, mc.Set(ctx, "k2", value, time.Minute))
	require.NoError(t, mc.Set(ctx, "k3", value, time.Minute))

	// Touch k1 so k2 becomes the oldest
	_, ok := mc.Get(ctx, "k1")
	require.True(t, ok)

	require.NoError(t, mc.Set(ctx, "k4", value, time.Minute))

	_, ok = mc.Get(ctx, "k2")
	assert.False(t, ok)
	for _, k := range []string{"k1", "k3", "k4"} {
		_, ok := mc.Get(ctx, k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, int64(1), mc.Stats().Evictions)
	assert.LessOrEqual(t, mc.Stats().Bytes, int64(30))
}

func TestMemoryCache_IgnoresOversizedValues(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(1)
	mc.maxBytes = 10

	require.NoError(t, mc.Set(ctx, "big", []byte(strings.Repeat("x", 20)), time.Minute))
	_, ok := mc.Get(ctx, "big")
	assert.False(t, ok)
}

func TestMemoryCache_Unbounded(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(0)

	for i := 0; i < 100; i++ {
		require.NoError(t, mc.Set(ctx, strings.Repeat("k", i+1), []byte("v"), time.Minute))
	}
	assert.Equal(t, 100, mc.Stats().Entries)
	assert.Zero(t, mc.Stats().Evictions)
}
