package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBStringArrayRoundTrip(t *testing.T) {
	v, err := JSONBStringArray{"a.jpg", "b.jpg"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a.jpg","b.jpg"]`, v)

	var out JSONBStringArray
	require.NoError(t, out.Scan([]byte(`["a.jpg","b.jpg"]`)))
	assert.Equal(t, JSONBStringArray{"a.jpg", "b.jpg"}, out)

	empty, err := JSONBStringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
	assert.Error(t, out.Scan(42))
}

func TestRecipeTermsIn(t *testing.T) {
	r := Recipe{Terms: []Term{
		{Taxonomy: TaxonomyCategory, Slug: "dinner"},
		{Taxonomy: TaxonomyCuisine, Slug: "thai"},
		{Taxonomy: TaxonomyCategory, Slug: "lunch"},
	}}
	cats := r.TermsIn(TaxonomyCategory)
	require.Len(t, cats, 2)
	assert.Equal(t, "dinner", cats[0].Slug)
	assert.Equal(t, "lunch", cats[1].Slug)
}

func TestUserCanAuthor(t *testing.T) {
	assert.True(t, (&User{Role: RoleEditor}).CanAuthor())
	assert.True(t, (&User{Role: RoleAdmin}).CanAuthor())
	assert.False(t, (&User{Role: RoleSubscriber}).CanAuthor())
	assert.True(t, IsTaxonomy(TaxonomyDiet))
	assert.False(t, IsTaxonomy("tag"))
}
