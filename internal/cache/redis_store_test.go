package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealflow/internal/redis"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient(&redis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("value"), time.Minute))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), value)

	mr.FastForward(2 * time.Minute)

	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "entry must expire with its TTL")
}

func TestRedisStore_KeysAndDelete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "market:a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "market:b", []byte("2"), time.Minute))
	require.NoError(t, store.Set(ctx, "health:c", []byte("3"), time.Minute))

	keys, err := store.Keys(ctx, "market:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"market:a", "market:b"}, keys)

	require.NoError(t, store.Delete(ctx, keys...))

	keys, err = store.Keys(ctx, "market:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCache_OverRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	c := New(store, time.Minute, nil)
	ctx := context.Background()

	var calls int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("computed"), nil
	}

	value, err := c.GetOrFetch(ctx, "k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("computed"), value)

	value, err = c.GetOrFetch(ctx, "k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("computed"), value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
