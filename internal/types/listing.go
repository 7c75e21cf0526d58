package types

import (
	"time"

	"github.com/google/uuid"
)

// Listing entry points, used for metrics and logging.
const (
	EntryJSON     = "json"
	EntryRefresh  = "refresh"
	EntryPage     = "page"
	EntryFeatured = "featured"
	EntrySearch   = "search"
	EntryCarousel = "carousel"
	EntryCLI      = "cli"
)

// ListRecipesRequest is the parsed, defaulted input shared by every listing
// surface. Slug slices hold raw values; each may itself be comma separated.
type ListRecipesRequest struct {
	Page         int
	PageSize     int
	Search       string
	CategorySlug []string
	CuisineSlug  []string
	DietSlug     []string
	PrepMin      int
	PrepMax      int
	Difficulty   string
	Sort         string
	FeaturedOnly bool
	EntryPoint   string
}

// Pagination describes where a page sits in a result set.
type Pagination struct {
	Total         int64 `json:"total"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	RequestedPage int   `json:"requestedPage"`
	PageSize      int   `json:"pageSize"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
	OutOfRange    bool  `json:"outOfRange"`
}

// TermRef is the short form of a term shown on cards.
type TermRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RecipeSummary is one card in a listing.
type RecipeSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Excerpt       string    `json:"excerpt"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	PrepTime      int       `json:"prepTime"`
	CookTime      int       `json:"cookTime"`
	Difficulty    string    `json:"difficulty,omitempty"`
	Categories    []TermRef `json:"categories"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int64     `json:"ratingCount"`
	LikeCount     int64     `json:"likeCount"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListResult is a page of summaries with its pagination state.
type ListResult struct {
	Items      []RecipeSummary `json:"items"`
	Pagination Pagination      `json:"pagination"`
}
