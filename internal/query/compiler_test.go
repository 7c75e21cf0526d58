package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-carousel/backend/internal/models"
)

func TestCompileTaxonomyClauseCount(t *testing.T) {
	tests := []struct {
		name     string
		terms    TermFilter
		clauses  int
		relation string
	}{
		{"none", TermFilter{}, 0, ""},
		{"one", TermFilter{Cuisines: []string{"thai"}}, 1, ""},
		{"two", TermFilter{Categories: []string{"dinner"}, Diets: []string{"vegan"}}, 2, "AND"},
		{"three", TermFilter{Categories: []string{"a"}, Cuisines: []string{"b"}, Diets: []string{"c"}}, 3, "AND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compile(FilterSpec{Terms: tt.terms}, SortDateDesc, 1, 6)
			assert.Len(t, d.Taxonomy, tt.clauses)
			assert.Equal(t, tt.relation, d.TaxonomyRelation)
		})
	}
}

func TestCompileCategoryIncludesChildren(t *testing.T) {
	d := Compile(FilterSpec{Terms: TermFilter{Categories: []string{"dinner"}, Cuisines: []string{"thai"}}}, SortDateDesc, 1, 6)
	assert.Equal(t, models.TaxonomyCategory, d.Taxonomy[0].Taxonomy)
	assert.True(t, d.Taxonomy[0].IncludeChildren)
	assert.False(t, d.Taxonomy[1].IncludeChildren)
}

func TestCompilePageSizeClamp(t *testing.T) {
	assert.Equal(t, 24, Compile(FilterSpec{}, SortDateDesc, 1, 100).Limit)
	assert.Equal(t, 1, Compile(FilterSpec{}, SortDateDesc, 1, 0).Limit)
	assert.Equal(t, 1, Compile(FilterSpec{}, SortDateDesc, 1, -5).Limit)
	assert.Equal(t, 6, Compile(FilterSpec{}, SortDateDesc, 1, 6).Limit)
}

func TestCompileOffset(t *testing.T) {
	d := Compile(FilterSpec{}, SortDateDesc, 3, 6)
	assert.Equal(t, 12, d.Offset)
	assert.Equal(t, 3, d.Page)

	d = Compile(FilterSpec{}, SortDateDesc, -2, 6)
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, 1, d.Page)
}

func TestCompileHugePageDoesNotOverflow(t *testing.T) {
	for _, page := range []int{math.MaxInt / 2, math.MaxInt, MaxPage + 1} {
		d := Compile(FilterSpec{}, SortDateDesc, page, MaxPageSize)
		assert.Equal(t, MaxPage, d.Page)
		assert.Positive(t, d.Offset, "page %d", page)
	}
	assert.Equal(t, MaxPage, ClampPage(math.MaxInt))
}

func TestCompileSearchAndRanges(t *testing.T) {
	d := Compile(FilterSpec{Search: "garlic", PrepMin: 10, PrepMax: 30, Difficulty: "easy"}, SortDateDesc, 1, 6)

	if assert.NotNil(t, d.Text) {
		assert.Equal(t, "garlic", d.Text.Term)
		assert.Contains(t, d.Text.Fields, FieldIngredients)
		assert.Contains(t, d.Text.Fields, FieldInstructions)
	}
	assert.Equal(t, []RangeClause{
		{Field: FieldPrepTime, Op: OpGTE, Value: 10},
		{Field: FieldPrepTime, Op: OpLTE, Value: 30},
	}, d.Ranges)
	assert.Equal(t, []EqualityClause{{Field: FieldDifficulty, Value: "Easy"}}, d.Equals)
	assert.Equal(t, models.StatusPublish, d.Status)
}

func TestCompileZeroBoundsIgnored(t *testing.T) {
	d := Compile(FilterSpec{PrepMin: 0, PrepMax: -1, Difficulty: "  "}, SortDateDesc, 1, 6)
	assert.Empty(t, d.Ranges)
	assert.Empty(t, d.Equals)
	assert.Nil(t, d.Text)
}

func TestCompileSortTable(t *testing.T) {
	tests := []struct {
		key   SortKey
		field string
		desc  bool
	}{
		{SortDateDesc, FieldCreatedAt, true},
		{SortDateAsc, FieldCreatedAt, false},
		{SortTitleAsc, FieldTitle, false},
		{SortTitleDesc, FieldTitle, true},
		{SortRatingDesc, FieldRatingAverage, true},
		{SortRatingAsc, FieldRatingAverage, false},
		{SortLikesDesc, FieldLikeCount, true},
		{SortLikesAsc, FieldLikeCount, false},
		{SortKey("bogus"), FieldCreatedAt, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			d := Compile(FilterSpec{}, tt.key, 1, 6)
			assert.Len(t, d.Order, 2)
			assert.Equal(t, OrderClause{Field: tt.field, Desc: tt.desc}, d.Order[0])
			assert.Equal(t, OrderClause{Field: FieldID}, d.Order[1])
		})
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortTitleAsc, ParseSortKey(" TITLE_ASC "))
	assert.Equal(t, SortDateDesc, ParseSortKey(""))
	assert.Equal(t, SortDateDesc, ParseSortKey("random"))
}

func TestCanonicalDifficulty(t *testing.T) {
	assert.Equal(t, "Medium", CanonicalDifficulty("MEDIUM"))
	assert.Equal(t, "Expert", CanonicalDifficulty("Expert"))
}
