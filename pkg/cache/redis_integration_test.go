//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fileinput-locales/pkg/cache"
	"github.com/dmitrymomot/fileinput-locales/pkg/redis"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("test-miss"))

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("round trips raw bytes", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("test-roundtrip"))
		ctx := context.Background()
		t.Cleanup(func() { _ = c.Clear(ctx) })

		want := entry(`$.fn.fileinputLocales["uk"] = {"msgNo": "ні"};`)
		require.NoError(t, c.Set(ctx, "script:uk", want, time.Minute))

		got, err := c.Get(ctx, "script:uk")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("expires entries", func(t *testing.T) {
		t.Parallel()

		c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("test-expire"))
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "k", entry("v"), 50*time.Millisecond))
		time.Sleep(100 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative TTL persists", func(t *testing.T) {
		t.Parallel()

		client := newTestRedisClient(t)
		c := cache.NewRedis(client, cache.WithPrefix("test-persist"))
		ctx := context.Background()
		t.Cleanup(func() { _ = c.Clear(ctx) })

		require.NoError(t, c.Set(ctx, "k", entry("v"), -1))

		ttl, err := client.TTL(ctx, "test-persist:k").Result()
		require.NoError(t, err)
		require.Equal(t, time.Duration(-1), ttl)
	})
}

func TestRedis_DeleteClear(t *testing.T) {
	t.Parallel()

	client := newTestRedisClient(t)
	c := cache.NewRedis(client, cache.WithPrefix("test-clear"))
	other := cache.NewRedis(client, cache.WithPrefix("test-clear-other"))
	ctx := context.Background()
	t.Cleanup(func() { _ = other.Clear(ctx) })

	for _, k := range []string{"en", "uk", "ru"} {
		require.NoError(t, c.Set(ctx, k, entry(k), time.Minute))
	}
	require.NoError(t, other.Set(ctx, "en", entry("en"), time.Minute))

	require.NoError(t, c.Delete(ctx, "ru"))
	ok, err := c.Has(ctx, "ru")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Clear(ctx))
	ok, err = c.Has(ctx, "en")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = other.Has(ctx, "en")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedis_GetOrSet(t *testing.T) {
	t.Parallel()

	c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("test-getorset"))
	ctx := context.Background()
	t.Cleanup(func() { _ = c.Clear(ctx) })

	calls := 0
	render := func(context.Context) (cache.Entry, time.Duration, error) {
		calls++
		return entry("rendered"), time.Minute, nil
	}

	for range 3 {
		got, err := cache.GetOrSet(ctx, c, "k", render)
		require.NoError(t, err)
		require.Equal(t, "rendered", string(got.Body))
	}
	require.Equal(t, 1, calls)
}
