package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/testhelpers"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

func TestRedisListingCacheRoundTrip(t *testing.T) {
	client, mr := testhelpers.SetupRedis(t)
	cache := NewRedisListingCache(client, time.Minute)
	ctx := context.Background()

	d := query.Compile(query.FilterSpec{Search: "soup"}, query.SortTitleAsc, 2, 6)
	_, key, ok := cache.Get(ctx, d)
	assert.False(t, ok)
	require.NotEmpty(t, key)

	want := &types.ListResult{
		Items:      []types.RecipeSummary{{Title: "Soup", Categories: []types.TermRef{}}},
		Pagination: query.Paginate(7, 6, 2),
	}
	cache.Set(ctx, key, want)

	got, _, ok := cache.Get(ctx, d)
	require.True(t, ok)
	assert.Equal(t, want.Pagination, got.Pagination)
	assert.Equal(t, "Soup", got.Items[0].Title)

	other := query.Compile(query.FilterSpec{Search: "soup"}, query.SortTitleAsc, 1, 6)
	_, _, ok = cache.Get(ctx, other)
	assert.False(t, ok)

	cache.Invalidate(ctx)
	_, _, ok = cache.Get(ctx, d)
	assert.False(t, ok)

	gen, err := mr.Get(generationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestRedisListingCacheDegradesWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	cache := NewRedisListingCache(client, time.Minute)
	ctx := context.Background()

	d := query.Compile(query.FilterSpec{}, query.SortDateDesc, 1, 6)
	for i := 0; i < 10; i++ {
		_, key, ok := cache.Get(ctx, d)
		assert.False(t, ok)
		assert.Empty(t, key)
		cache.Set(ctx, key, &types.ListResult{})
	}
	cache.Invalidate(ctx)
}

func TestRedisListingCacheKeyFromBeforeInvalidateIsOrphaned(t *testing.T) {
	client, _ := testhelpers.SetupRedis(t)
	cache := NewRedisListingCache(client, time.Minute)
	ctx := context.Background()

	d := query.Compile(query.FilterSpec{}, query.SortDateDesc, 1, 6)
	_, key, ok := cache.Get(ctx, d)
	require.False(t, ok)

	cache.Invalidate(ctx)
	cache.Set(ctx, key, &types.ListResult{Items: []types.RecipeSummary{{Title: "stale"}}})

	_, fresh, ok := cache.Get(ctx, d)
	assert.False(t, ok, "a page loaded before the write must not be served after it")
	assert.NotEqual(t, key, fresh)
}
