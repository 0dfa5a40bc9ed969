package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	value := []byte("hello")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'j'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got), "stored value is a copy")
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, c.Len(), "expired entries are evicted on read")
}

func TestMemoryCache_ExpiredReadKeepsFreshSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Minute))

	now = now.Add(2 * time.Minute)
	// Replace the entry between the expired read and the eviction.
	replaced := false
	c.now = func() time.Time {
		if !replaced {
			replaced = true
			require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Hour))
		}
		return now
	}

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err, "the fresh entry must survive")
	assert.Equal(t, "new", string(got))
}

func TestMemoryCache_SweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Second))
	}
	require.NoError(t, c.Set(ctx, "keep", []byte("v"), 0))
	assert.Equal(t, 4, c.Len())

	now = now.Add(sweepInterval)
	require.NoError(t, c.Set(ctx, "d", []byte("d"), time.Hour))
	assert.Equal(t, 2, c.Len(), "expired entries are swept on write")

	_, err := c.Get(ctx, "keep")
	assert.NoError(t, err)
}

func TestKey(t *testing.T) {
	type req struct {
		Seed   int64 `json:"seed"`
		Trials int   `json:"trials"`
	}
	a, err := Key("simulation", req{Seed: 42, Trials: 100})
	require.NoError(t, err)
	b, err := Key("simulation", req{Seed: 42, Trials: 100})
	require.NoError(t, err)
	c, err := Key("simulation", req{Seed: 43, Trials: 100})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "simulation:")

	_, err = Key("bad", func() {})
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, SetJSON(ctx, c, "k", map[string]int{"months": 31}, time.Hour))

	var out map[string]int
	require.NoError(t, GetJSON(ctx, c, "k", &out))
	assert.Equal(t, 31, out["months"])

	assert.ErrorIs(t, GetJSON(ctx, c, "absent", &out), ErrMiss)
}
