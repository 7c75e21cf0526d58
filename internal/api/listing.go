package api

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/render"
	"github.com/pageza/recipe-carousel/backend/internal/service"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// pagePath is the full-page listing; refreshPath serves its async updates.
const (
	pagePath    = "/recipes"
	refreshPath = "/api/v1/recipes/query"
)

// ListingHandler serves every listing surface. Each one builds a
// ListRecipesRequest and hands it to the listing service.
type ListingHandler struct {
	listing  service.IListingService
	taxonomy service.ITaxonomyService
	renderer *render.Renderer
	cfg      config.ListingConfig
}

func NewListingHandler(listing service.IListingService, taxonomy service.ITaxonomyService, renderer *render.Renderer, cfg config.ListingConfig) *ListingHandler {
	return &ListingHandler{listing: listing, taxonomy: taxonomy, renderer: renderer, cfg: cfg}
}

func (h *ListingHandler) RegisterRoutes(router *gin.Engine, v1 *gin.RouterGroup) {
	router.GET(pagePath, h.Page)

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.POST("/query", h.Refresh)
		recipes.GET("/featured", h.Featured)
		recipes.GET("/search", h.Search)
		recipes.GET("/carousel", h.Carousel)
	}
}

// listResponse flattens pagination next to the items.
type listResponse struct {
	Items []types.RecipeSummary `json:"items"`
	types.Pagination
}

type refreshResponse struct {
	listResponse
	HTML           string `json:"html"`
	PaginationHTML string `json:"pagination"`
}

func newListResponse(res *types.ListResult) listResponse {
	return listResponse{Items: res.Items, Pagination: res.Pagination}
}

// List handles GET /api/v1/recipes.
func (h *ListingHandler) List(c *gin.Context) {
	res, err := h.listing.List(c.Request.Context(), parseListRequest(c, types.EntryJSON))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(res))
}

// Refresh handles the async refresh of the listing page. It returns the same
// page as JSON together with the rendered grid and pagination fragments.
func (h *ListingHandler) Refresh(c *gin.Context) {
	res, err := h.listing.List(c.Request.Context(), parseListRequest(c, types.EntryRefresh))
	if err != nil {
		respondError(c, err)
		return
	}

	grid, err := h.renderer.Grid(res.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	pager, err := h.renderer.Pagination(res.Pagination, pagePath, linkQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse{
		listResponse:   newListResponse(res),
		HTML:           grid,
		PaginationHTML: pager,
	})
}

// Page handles GET /recipes, the full server-rendered listing.
func (h *ListingHandler) Page(c *gin.Context) {
	ctx := c.Request.Context()
	req := parseListRequest(c, types.EntryPage)

	res, err := h.listing.List(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	data := render.PageData{
		Title:      "Recipes",
		Action:     pagePath,
		RefreshURL: refreshPath,
		Result:     res,
		Query:      linkQuery(c),
		Form: render.FormState{
			Search:     req.Search,
			Category:   first(req.CategorySlug),
			Cuisine:    first(req.CuisineSlug),
			Diet:       first(req.DietSlug),
			Difficulty: query.CanonicalDifficulty(req.Difficulty),
			PrepMin:    req.PrepMin,
			PrepMax:    req.PrepMax,
			Sort:       string(query.ParseSortKey(req.Sort)),
			PageSize:   res.Pagination.PageSize,
		},
	}
	for taxonomy, dst := range map[string]*[]types.TermView{
		models.TaxonomyCategory: &data.Categories,
		models.TaxonomyCuisine:  &data.Cuisines,
		models.TaxonomyDiet:     &data.Diets,
	} {
		terms, err := h.taxonomy.Terms(ctx, taxonomy, true)
		if err != nil {
			respondError(c, err)
			return
		}
		*dst = terms
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Featured handles GET /api/v1/recipes/featured.
func (h *ListingHandler) Featured(c *gin.Context) {
	res, err := h.listing.List(c.Request.Context(), types.ListRecipesRequest{
		Page:         1,
		PageSize:     h.cfg.FeaturedLimit,
		Sort:         string(query.SortDateDesc),
		FeaturedOnly: true,
		EntryPoint:   types.EntryFeatured,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Items)
}

// Search handles GET /api/v1/recipes/search?s=&category=.
func (h *ListingHandler) Search(c *gin.Context) {
	req := types.ListRecipesRequest{
		Page:       intParam(c, "page"),
		PageSize:   h.cfg.SearchPageSize,
		Search:     param(c, "s"),
		EntryPoint: types.EntrySearch,
	}
	if category := param(c, "category"); category != "" {
		req.CategorySlug = []string{category}
	}

	res, err := h.listing.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SearchResult{Found: res.Pagination.Total, Recipes: res.Items})
}

// Carousel handles GET /api/v1/recipes/carousel, mapping slider block
// attributes onto a listing request.
func (h *ListingHandler) Carousel(c *gin.Context) {
	perPage := intParam(c, "postsPerPage")
	if perPage == 0 {
		perPage = query.DefaultPageSize
	}
	req := types.ListRecipesRequest{
		Page:         intParam(c, "page"),
		PageSize:     perPage,
		CategorySlug: params(c, "category"),
		CuisineSlug:  params(c, "cuisine"),
		DietSlug:     params(c, "diet"),
		Sort:         carouselSort(param(c, "orderby"), param(c, "order"), param(c, "ratingOrder")),
		EntryPoint:   types.EntryCarousel,
	}

	res, err := h.listing.List(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(res))
}

// linkQuery is the request's parameters, carried into pagination links.
func linkQuery(c *gin.Context) url.Values {
	q := c.Request.URL.Query()
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range c.Request.PostForm {
				q[k] = v
			}
		}
	}
	q.Del("page")
	return q
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
