package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/orderstore"
	"github.com/tradewind-labs/orderstore-go/orderstore/rediscache"
)

func newTestCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache, err := rediscache.New(client)
	require.NoError(t, err)

	return cache, server
}

func Test_GetMissingKey_ReturnsCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
}

func Test_SetThenGet_RoundTrips(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute, orderstore.TagOrders))

	value, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func Test_EntryExpiresAfterTTL(t *testing.T) {
	cache, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))

	server.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
}

func Test_Invalidate_RemovesOnlyTaggedEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "orders:a", []byte("a"), time.Minute, orderstore.TagOrders))
	require.NoError(t, cache.Set(ctx, "orders:b", []byte("b"), time.Minute, orderstore.TagOrders))
	require.NoError(t, cache.Set(ctx, "counts", []byte("c"), time.Minute, orderstore.TagStatusCounts))

	require.NoError(t, cache.Invalidate(ctx, orderstore.TagOrders))

	_, err := cache.Get(ctx, "orders:a")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
	_, err = cache.Get(ctx, "orders:b")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)

	value, err := cache.Get(ctx, "counts")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), value)
}

func Test_Invalidate_MultipleTags(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "orders:a", []byte("a"), time.Minute, orderstore.TagOrders))
	require.NoError(t, cache.Set(ctx, "status-counts", []byte("s"), time.Minute, orderstore.TagStatusCounts))

	require.NoError(t, cache.Invalidate(ctx, orderstore.TagOrders, orderstore.TagStatusCounts))

	_, err := cache.Get(ctx, "orders:a")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
	_, err = cache.Get(ctx, "status-counts")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
}

func Test_Invalidate_UnknownTagIsNoOp(t *testing.T) {
	cache, _ := newTestCache(t)

	assert.NoError(t, cache.Invalidate(context.Background(), "never-used"))
}

func Test_EntryCanCarryMultipleTags(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute, orderstore.TagOrders, orderstore.TagStatusCounts))

	require.NoError(t, cache.Invalidate(ctx, orderstore.TagStatusCounts))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, orderstore.ErrCacheMiss)
}
