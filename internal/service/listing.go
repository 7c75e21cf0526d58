package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/metrics"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// RecipeQuerier executes compiled listing queries.
type RecipeQuerier interface {
	Query(ctx context.Context, d query.Descriptor) (*store.QueryResult, error)
}

// ListingService builds, runs and paginates recipe listings.
type ListingService struct {
	store           RecipeQuerier
	cache           ListingCache
	media           MediaResolver
	defaultPageSize int
	group           singleflight.Group
}

// NewListingService wires the pipeline. A nil cache or media resolver
// disables that stage.
func NewListingService(s RecipeQuerier, cache ListingCache, media MediaResolver, defaultPageSize int) *ListingService {
	if cache == nil {
		cache = NoopCache{}
	}
	if media == nil {
		media = NewMediaService(nil, "")
	}
	if defaultPageSize < 1 {
		defaultPageSize = query.DefaultPageSize
	}
	return &ListingService{store: s, cache: cache, media: media, defaultPageSize: defaultPageSize}
}

// DefaultPageSize is used when a request carries no page size.
func (s *ListingService) DefaultPageSize() int {
	return s.defaultPageSize
}

// List runs the listing pipeline. Pages past the end yield no items and a
// clamped current page rather than an error.
func (s *ListingService) List(ctx context.Context, req types.ListRecipesRequest) (*types.ListResult, error) {
	filter, err := query.BuildTermFilter(query.RawTermInput{
		Categories: req.CategorySlug,
		Cuisines:   req.CuisineSlug,
		Diets:      req.DietSlug,
	})
	if err != nil {
		return nil, err
	}
	search, err := query.NormalizeSearch(req.Search)
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.defaultPageSize
	}

	d := query.Compile(query.FilterSpec{
		Terms:        filter,
		Search:       search,
		PrepMin:      req.PrepMin,
		PrepMax:      req.PrepMax,
		Difficulty:   req.Difficulty,
		FeaturedOnly: req.FeaturedOnly,
	}, query.ParseSortKey(req.Sort), req.Page, pageSize)

	entry := req.EntryPoint
	if entry == "" {
		entry = types.EntryJSON
	}
	metrics.ListingRequests.WithLabelValues(entry).Inc()

	cached, cacheKey, ok := s.cache.Get(ctx, d)
	if ok {
		return cached, nil
	}

	// Callers share a flight only within one cache generation.
	flight := cacheKey
	if flight == "" {
		if flight, err = descriptorKey(d); err != nil {
			return nil, err
		}
	}
	// The shared load must outlive any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flight, func() (interface{}, error) {
		return s.load(loadCtx, d, cacheKey)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*types.ListResult), nil
	}
}

func (s *ListingService) load(ctx context.Context, d query.Descriptor, cacheKey string) (*types.ListResult, error) {
	start := time.Now()
	res, err := s.store.Query(ctx, d)
	metrics.ListingQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("listing query failed")
		return nil, err
	}

	result := &types.ListResult{
		Items:      make([]types.RecipeSummary, 0, len(res.Recipes)),
		Pagination: query.Paginate(res.Total, d.PageSize, d.Page),
	}
	for i := range res.Recipes {
		result.Items = append(result.Items, s.summarize(ctx, &res.Recipes[i]))
	}

	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

func (s *ListingService) summarize(ctx context.Context, r *models.Recipe) types.RecipeSummary {
	summary := types.RecipeSummary{
		ID:            r.ID,
		Title:         PlainText(r.Title),
		URL:           RecipeURL(r),
		Excerpt:       Excerpt(r.Excerpt, r.Body),
		PrepTime:      r.PrepTime,
		CookTime:      r.CookTime,
		Difficulty:    r.Difficulty,
		Categories:    []types.TermRef{},
		RatingAverage: RoundRating(r.RatingAverage),
		RatingCount:   r.RatingCount,
		LikeCount:     r.LikeCount,
		Featured:      r.Featured,
		CreatedAt:     r.CreatedAt,
	}
	if len(r.Gallery) > 0 {
		summary.ImageURL = s.media.URL(ctx, r.Gallery[0])
	}
	for _, t := range r.TermsIn(models.TaxonomyCategory) {
		summary.Categories = append(summary.Categories, types.TermRef{Name: t.Name, Slug: t.Slug})
	}
	return summary
}

// RecipeURL is the public API path of a recipe.
func RecipeURL(r *models.Recipe) string {
	return "/api/v1/recipes/" + r.ID.String()
}
