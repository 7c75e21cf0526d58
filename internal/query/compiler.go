package query

import (
	"math"
	"strings"

	"github.com/pageza/recipe-carousel/backend/internal/models"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 24
	// MaxPage keeps (page-1)*MaxPageSize within int.
	MaxPage = math.MaxInt / MaxPageSize
)

// SortKey names one entry of the fixed sort table.
type SortKey string

const (
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortTitleAsc   SortKey = "title_asc"
	SortTitleDesc  SortKey = "title_desc"
	SortRatingDesc SortKey = "rating_desc"
	SortRatingAsc  SortKey = "rating_asc"
	SortLikesDesc  SortKey = "likes_desc"
	SortLikesAsc   SortKey = "likes_asc"
)

// Logical field names understood by the store.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldBody          = "body"
	FieldExcerpt       = "excerpt"
	FieldIngredients   = "ingredients"
	FieldInstructions  = "instructions"
	FieldPrepTime      = "prep_time"
	FieldDifficulty    = "difficulty"
	FieldCreatedAt     = "created_at"
	FieldRatingAverage = "rating_average"
	FieldLikeCount     = "like_count"
)

// SearchFields are matched by the free-text clause, any one sufficing.
var SearchFields = []string{FieldTitle, FieldBody, FieldExcerpt, FieldIngredients, FieldInstructions}

var sortTable = map[SortKey]OrderClause{
	SortDateDesc:   {Field: FieldCreatedAt, Desc: true},
	SortDateAsc:    {Field: FieldCreatedAt},
	SortTitleAsc:   {Field: FieldTitle},
	SortTitleDesc:  {Field: FieldTitle, Desc: true},
	SortRatingDesc: {Field: FieldRatingAverage, Desc: true},
	SortRatingAsc:  {Field: FieldRatingAverage},
	SortLikesDesc:  {Field: FieldLikeCount, Desc: true},
	SortLikesAsc:   {Field: FieldLikeCount},
}

// ParseSortKey maps a client sort value onto the table, falling back to
// date_desc for anything unknown.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortTable[key]; ok {
		return key
	}
	return SortDateDesc
}

// FilterSpec is the normalised filter half of a listing request.
type FilterSpec struct {
	Terms        TermFilter
	Search       string
	PrepMin      int
	PrepMax      int
	Difficulty   string
	FeaturedOnly bool
}

// TaxonomyClause matches recipes carrying any of Slugs in Taxonomy.
type TaxonomyClause struct {
	Taxonomy        string
	Slugs           []string
	IncludeChildren bool
}

// TextClause matches when any of Fields contains Term, case-insensitively.
type TextClause struct {
	Term   string
	Fields []string
}

type RangeOp string

const (
	OpGTE RangeOp = ">="
	OpLTE RangeOp = "<="
)

// RangeClause is an inclusive numeric bound.
type RangeClause struct {
	Field string
	Op    RangeOp
	Value int
}

type EqualityClause struct {
	Field string
	Value string
}

type OrderClause struct {
	Field string
	Desc  bool
}

// Descriptor is the backend-neutral query the store executes. All clauses are
// ANDed; taxonomy clauses are joined by TaxonomyRelation.
type Descriptor struct {
	Status           string
	Taxonomy         []TaxonomyClause
	TaxonomyRelation string
	Text             *TextClause
	Ranges           []RangeClause
	Equals           []EqualityClause
	FeaturedOnly     bool
	Sort             SortKey
	Order            []OrderClause
	Page             int
	PageSize         int
	Limit            int
	Offset           int
}

// Compile builds the descriptor for one page of a filtered, sorted listing.
func Compile(filter FilterSpec, sort SortKey, page, pageSize int) Descriptor {
	page = ClampPage(page)
	pageSize = ClampPageSize(pageSize)

	d := Descriptor{
		Status:       models.StatusPublish,
		FeaturedOnly: filter.FeaturedOnly,
		Page:         page,
		PageSize:     pageSize,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}

	for _, ts := range filter.Terms.ByTaxonomy() {
		d.Taxonomy = append(d.Taxonomy, TaxonomyClause{
			Taxonomy:        ts.Taxonomy,
			Slugs:           append([]string(nil), ts.Slugs...),
			IncludeChildren: ts.Taxonomy == models.TaxonomyCategory,
		})
	}
	if len(d.Taxonomy) > 1 {
		d.TaxonomyRelation = "AND"
	}

	if filter.Search != "" {
		d.Text = &TextClause{Term: filter.Search, Fields: SearchFields}
	}

	if filter.PrepMin > 0 {
		d.Ranges = append(d.Ranges, RangeClause{Field: FieldPrepTime, Op: OpGTE, Value: filter.PrepMin})
	}
	if filter.PrepMax > 0 {
		d.Ranges = append(d.Ranges, RangeClause{Field: FieldPrepTime, Op: OpLTE, Value: filter.PrepMax})
	}

	if difficulty := strings.TrimSpace(filter.Difficulty); difficulty != "" {
		d.Equals = append(d.Equals, EqualityClause{Field: FieldDifficulty, Value: CanonicalDifficulty(difficulty)})
	}

	if _, ok := sortTable[sort]; !ok {
		sort = SortDateDesc
	}
	d.Sort = sort
	d.Order = []OrderClause{sortTable[sort], {Field: FieldID}}

	return d
}

// CanonicalDifficulty maps easy/medium/hard in any case onto the stored
// spelling. Other values are returned unchanged.
func CanonicalDifficulty(s string) string {
	for _, level := range []string{"Easy", "Medium", "Hard"} {
		if strings.EqualFold(s, level) {
			return level
		}
	}
	return s
}

// ClampPage keeps page within [1, MaxPage].
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// ClampPageSize keeps pageSize within [1, MaxPageSize].
func ClampPageSize(pageSize int) int {
	switch {
	case pageSize < 1:
		return 1
	case pageSize > MaxPageSize:
		return MaxPageSize
	default:
		return pageSize
	}
}
