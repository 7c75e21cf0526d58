package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/testhelpers"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

type countingCache struct {
	NoopCache
	mu            sync.Mutex
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
}

func TestSubmitRatingSameUserOverwrites(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	user := uuid.New()

	_, err := svc.SubmitRating(context.Background(), recipe.ID, user, 3)
	require.NoError(t, err)
	res, err := svc.SubmitRating(context.Background(), recipe.ID, user, 5)
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.Average)
	assert.Equal(t, int64(1), res.Count)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, 5.0, stored.RatingAverage)
	assert.Equal(t, int64(1), stored.RatingCount)
}

func TestSubmitRatingAveragesAcrossUsers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	ctx := context.Background()

	for _, r := range []int{5, 4, 4} {
		_, err := svc.SubmitRating(ctx, recipe.ID, uuid.New(), r)
		require.NoError(t, err)
	}
	res, err := svc.SubmitRating(ctx, recipe.ID, uuid.New(), 4)
	require.NoError(t, err)

	// 17 / 4 = 4.25, rounded for display.
	assert.Equal(t, 4.3, res.Average)
	assert.Equal(t, int64(4), res.Count)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.InDelta(t, 4.25, stored.RatingAverage, 1e-9)
}

func TestSubmitRatingClamps(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	ctx := context.Background()

	res, err := svc.SubmitRating(ctx, recipe.ID, uuid.New(), 9)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Average)

	res, err = svc.SubmitRating(ctx, recipe.ID, uuid.New(), -2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Average)
	assert.Equal(t, int64(2), res.Count)
}

func TestToggleLike(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	cache := &countingCache{}
	svc := NewFeedbackService(db, cache)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	user := uuid.New()
	ctx := context.Background()

	res, err := svc.ToggleLike(ctx, recipe.ID, user)
	require.NoError(t, err)
	assert.Equal(t, &types.LikeResult{LikeCount: 1, Liked: true}, res)

	res, err = svc.ToggleLike(ctx, recipe.ID, user)
	require.NoError(t, err)
	assert.Equal(t, &types.LikeResult{LikeCount: 0, Liked: false}, res)

	// The record survives un-liking.
	var records int64
	require.NoError(t, db.Model(&models.FeedbackRecord{}).Where("recipe_id = ?", recipe.ID).Count(&records).Error)
	assert.Equal(t, int64(1), records)
	assert.Equal(t, 2, cache.invalidations)
}

func TestToggleLikeKeepsRating(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	user := uuid.New()
	ctx := context.Background()

	_, err := svc.SubmitRating(ctx, recipe.ID, user, 4)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, recipe.ID, user)
	require.NoError(t, err)

	var record models.FeedbackRecord
	require.NoError(t, db.Where("recipe_id = ? AND user_id = ?", recipe.ID, user).First(&record).Error)
	require.NotNil(t, record.Rating)
	assert.Equal(t, 4, *record.Rating)
	assert.True(t, record.Liked)
}

func TestConcurrentLikesFromTwoUsers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(context.Background(), recipe.ID, uuid.New())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Equal(t, int64(2), stored.LikeCount)
}

func TestFeedbackRequiresUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)
	recipe := testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})

	_, err := svc.ToggleLike(context.Background(), recipe.ID, uuid.Nil)
	var authErr *types.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Please log in to react.", authErr.Message)

	_, err = svc.SubmitRating(context.Background(), recipe.ID, uuid.Nil, 3)
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Please log in to rate.", authErr.Message)
}

func TestFeedbackUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewFeedbackService(db, nil)

	_, err := svc.ToggleLike(context.Background(), uuid.New(), uuid.New())
	var nf *types.NotFoundError
	assert.True(t, errors.As(err, &nf))

	_, err = svc.SubmitRating(context.Background(), uuid.New(), uuid.New(), 4)
	assert.True(t, errors.As(err, &nf))
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(0))
	assert.Equal(t, 1, ClampRating(-10))
	assert.Equal(t, 3, ClampRating(3))
	assert.Equal(t, 5, ClampRating(6))
}
