package fallback

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedis(context.Background(), "redis://"+mr.Addr(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisGetMiss(t *testing.T) {
	store, _ := newTestRedis(t, 0)

	res, ok, err := store.Get(context.Background(), resource.Games)
	require.NoError(t, err, "redis.Nil is a miss, not a failure")
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestRedisSetGetRoundTrip(t *testing.T) {
	store, _ := newTestRedis(t, 0)
	ctx := context.Background()
	fetchedAt := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)

	require.NoError(t, store.Set(ctx, &resource.Result{
		Resource:  resource.Games,
		Data:      json.RawMessage(`[{"id":"g1"}]`),
		Source:    "espn",
		FetchedAt: fetchedAt,
	}))

	got, ok, err := store.Get(ctx, resource.Games)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resource.Games, got.Resource)
	assert.Equal(t, "espn", got.Source)
	assert.True(t, got.FetchedAt.Equal(fetchedAt))
	assert.JSONEq(t, `[{"id":"g1"}]`, string(got.Data))
}

func TestRedisTTLExpiry(t *testing.T) {
	store, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &resource.Result{
		Resource: resource.Teams, Data: json.RawMessage(`[]`), Source: "espn", FetchedAt: time.Now(),
	}))

	_, ok, err := store.Get(ctx, resource.Teams)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = store.Get(ctx, resource.Teams)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after ttl")
}

func TestRedisCorruptEntry(t *testing.T) {
	store, mr := newTestRedis(t, 0)
	require.NoError(t, mr.Set(redisKeyPrefix+resource.Games, "not json"))

	_, ok, err := store.Get(context.Background(), resource.Games)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStats(t *testing.T) {
	store, _ := newTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &resource.Result{Resource: resource.Games, Data: json.RawMessage(`[]`), FetchedAt: time.Now()}))
	require.NoError(t, store.Set(ctx, &resource.Result{Resource: resource.Odds, Data: json.RawMessage(`[]`), FetchedAt: time.Now()}))

	stats := store.Stats(ctx)
	assert.Equal(t, "redis", stats["backend"])
	assert.Equal(t, 2, stats["total_keys"])
}
