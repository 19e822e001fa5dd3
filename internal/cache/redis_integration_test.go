//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexjj/wen-goat/internal/cache"
	"github.com/alexjj/wen-goat/internal/testsupport"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, addr := testsupport.StartRedis(ctx, t)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	client := cache.NewRedisClient(cache.RedisConfig{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.Eventually(t, func() bool { return client.Ping(ctx).Err() == nil }, 30*time.Second, 500*time.Millisecond)

	store := cache.NewRedisStore(client, "wengoat:test:")

	_, ok, err := store.Get(ctx, "callsign:M0ABC")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "callsign:M0ABC", []byte(`42`)))

	value, ok, err := store.Get(ctx, "callsign:M0ABC")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`42`), value)

	ttl, err := client.TTL(ctx, "wengoat:test:callsign:M0ABC").Result()
	require.NoError(t, err)
	require.Equal(t, time.Duration(-1), ttl)

	loads := 0
	load := func(context.Context) (int64, error) {
		loads++
		return 7, nil
	}
	_, hit, err := cache.Memoize(ctx, store, "callsign:G4XYZ", load)
	require.NoError(t, err)
	require.False(t, hit)
	id, hit, err := cache.Memoize(ctx, store, "callsign:G4XYZ", load)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, int64(7), id)
	require.Equal(t, 1, loads)
}
