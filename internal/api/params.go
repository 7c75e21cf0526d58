package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// param reads a single value from the query string or, for POST forms, the
// body.
func param(c *gin.Context, key string) string {
	if v, ok := c.GetQuery(key); ok {
		return strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm(key); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// params collects every value of key, accepting both `key` and `key[]`.
func params(c *gin.Context, key string) []string {
	var out []string
	for _, k := range []string{key, key + "[]"} {
		out = append(out, c.QueryArray(k)...)
		out = append(out, c.PostFormArray(k)...)
	}
	return out
}

// intParam parses an integer parameter; missing or malformed values yield 0.
func intParam(c *gin.Context, key string) int {
	n, err := strconv.Atoi(param(c, key))
	if err != nil {
		return 0
	}
	return n
}

// parseListRequest builds the listing request from query and form values.
// Page and page size left at zero are defaulted by the listing service.
func parseListRequest(c *gin.Context, entry string) types.ListRecipesRequest {
	return types.ListRecipesRequest{
		Page:         intParam(c, "page"),
		PageSize:     intParam(c, "pageSize"),
		Search:       param(c, "search"),
		CategorySlug: params(c, "categorySlugs"),
		CuisineSlug:  params(c, "cuisineSlugs"),
		DietSlug:     params(c, "dietSlugs"),
		PrepMin:      intParam(c, "prepMin"),
		PrepMax:      intParam(c, "prepMax"),
		Difficulty:   param(c, "difficulty"),
		Sort:         param(c, "sort"),
		EntryPoint:   entry,
	}
}

// carouselSort maps block attributes onto a sort key. A ratingOrder other
// than "none" wins over orderby.
func carouselSort(orderby, order, ratingOrder string) string {
	asc := strings.EqualFold(order, "asc")
	switch r := strings.ToLower(ratingOrder); r {
	case "asc":
		return string(query.SortRatingAsc)
	case "desc":
		return string(query.SortRatingDesc)
	}
	pick := func(ascKey, descKey query.SortKey) string {
		if asc {
			return string(ascKey)
		}
		return string(descKey)
	}
	switch strings.ToLower(orderby) {
	case "title":
		return pick(query.SortTitleAsc, query.SortTitleDesc)
	case "rating":
		return pick(query.SortRatingAsc, query.SortRatingDesc)
	case "likes":
		return pick(query.SortLikesAsc, query.SortLikesDesc)
	default:
		return pick(query.SortDateAsc, query.SortDateDesc)
	}
}
