package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&Config{
		Address:  mr.Addr(),
		PoolSize: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("nil config rejected", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.Error(t, err)
	})

	t.Run("unreachable server rejected", func(t *testing.T) {
		_, err := NewClient(&Config{Address: "localhost:1"})
		assert.Error(t, err)
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		assert.NoError(t, client.Health())
	})
}

func TestClient_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k1", []byte("hello"), time.Minute))

		val, found, err := client.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("hello"), val)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		val, found, err := client.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, val)
	})

	t.Run("expired key is a miss", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "k2", []byte("soon gone"), time.Second))
		mr.FastForward(2 * time.Second)

		_, found, err := client.Get(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_DeleteKeys(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "market:a", []byte("1"), 0))
	require.NoError(t, client.Set(ctx, "market:b", []byte("2"), 0))
	require.NoError(t, client.Set(ctx, "other:c", []byte("3"), 0))

	keys, err := client.Keys(ctx, "market:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"market:a", "market:b"}, keys)

	require.NoError(t, client.Delete(ctx, "market:a", "market:b"))

	keys, err = client.Keys(ctx, "market:*")
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Deleting nothing is a no-op
	assert.NoError(t, client.Delete(ctx))
}

func TestClient_CheckRateLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	limit := 3
	window := time.Minute

	for i := 0; i < limit; i++ {
		allowed, count, err := client.CheckRateLimit(ctx, "rl:test", limit, window)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, i, count)
	}

	allowed, count, err := client.CheckRateLimit(ctx, "rl:test", limit, window)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, limit, count)
}
