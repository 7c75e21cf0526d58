package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/testhelpers"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

func TestRecipeLifecycle(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	cache := &countingCache{}
	svc := NewRecipeService(store.NewRecipeStore(db), cache, nil)
	ctx := context.Background()
	author := uuid.New()

	created, err := svc.CreateRecipe(ctx, author, &types.CreateRecipeRequest{
		Title:      "<b>Pad</b> Thai",
		Body:       `<p>Fry.</p><script>alert(1)</script>`,
		Difficulty: "medium",
		PrepTime:   20,
		Gallery:    []string{" noodles.jpg ", ""},
		Categories: []string{"dinner"},
		Cuisines:   []string{"thai"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", created.Title)
	assert.Equal(t, "<p>Fry.</p>", created.Body)
	assert.Equal(t, "Medium", created.Difficulty)
	assert.Equal(t, []string{"noodles.jpg"}, created.Gallery)
	assert.Equal(t, models.StatusPublish, created.Status)
	require.Len(t, created.Cuisines, 1)
	assert.Equal(t, int64(1), created.Cuisines[0].Count)

	diets := []string{"vegan"}
	title := "Vegan Pad Thai"
	updated, err := svc.UpdateRecipe(ctx, created.ID, &types.UpdateRecipeRequest{Title: &title, Diets: &diets})
	require.NoError(t, err)
	assert.Equal(t, "Vegan Pad Thai", updated.Title)
	assert.Len(t, updated.Categories, 1, "untouched taxonomies keep their terms")
	assert.Len(t, updated.Cuisines, 1)
	require.Len(t, updated.Diets, 1)
	assert.Equal(t, "vegan", updated.Diets[0].Slug)

	draft := models.StatusDraft
	_, err = svc.UpdateRecipe(ctx, created.ID, &types.UpdateRecipeRequest{Status: &draft})
	require.NoError(t, err)

	_, err = svc.GetRecipe(ctx, created.ID, false)
	var nf *types.NotFoundError
	assert.True(t, errors.As(err, &nf), "drafts are hidden from the public")

	_, err = svc.GetRecipe(ctx, created.ID, true)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, created.ID))
	_, err = svc.GetRecipe(ctx, created.ID, true)
	assert.True(t, errors.As(err, &nf))

	assert.Equal(t, 4, cache.invalidations)
}

func TestCreateRecipeValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(store.NewRecipeStore(db), nil, nil)

	_, err := svc.CreateRecipe(context.Background(), uuid.New(), &types.CreateRecipeRequest{Title: "<i></i>"})
	var vErr *types.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "title", vErr.Field)

	_, err = svc.CreateRecipe(context.Background(), uuid.New(), &types.CreateRecipeRequest{Title: "Ok", Cuisines: []string{"martian"}})
	assert.True(t, errors.As(err, &vErr))
}

func TestTaxonomyService(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateTestRecipe(t, db, testhelpers.RecipeFixture{})
	s := store.NewRecipeStore(db)
	require.NoError(t, s.Create(context.Background(), &models.Recipe{Title: "Toast"}, store.TermAssignment{
		models.TaxonomyCategory: {"breakfast"},
	}))
	svc := NewTaxonomyService(s)

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "breakfast", cats[0].Slug)
	assert.Equal(t, "Morning meal recipes", cats[0].Description)
	assert.Equal(t, int64(1), cats[0].Count)

	cuisines, err := svc.Terms(context.Background(), models.TaxonomyCuisine, false)
	require.NoError(t, err)
	assert.Len(t, cuisines, 9)

	_, err = svc.Terms(context.Background(), "tags", false)
	var nf *types.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
