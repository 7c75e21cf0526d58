package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/query"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// RecipeService serves recipe detail and editor writes.
type RecipeService struct {
	store *store.RecipeStore
	cache ListingCache
	media MediaResolver
}

func NewRecipeService(s *store.RecipeStore, cache ListingCache, media MediaResolver) *RecipeService {
	if cache == nil {
		cache = NoopCache{}
	}
	if media == nil {
		media = NewMediaService(nil, "")
	}
	return &RecipeService{store: s, cache: cache, media: media}
}

// GetRecipe returns one recipe. Drafts are reported as not found unless
// includeDrafts is set.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID, includeDrafts bool) (*types.RecipeDetail, error) {
	recipe, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.Status != models.StatusPublish && !includeDrafts {
		return nil, &types.NotFoundError{Resource: "recipe", ID: id.String()}
	}
	return s.detail(ctx, recipe), nil
}

func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeDetail, error) {
	recipe := &models.Recipe{
		Title:        PlainText(req.Title),
		Body:         SanitizeRich(req.Body),
		Excerpt:      PlainText(req.Excerpt),
		Status:       req.Status,
		Ingredients:  PlainText(req.Ingredients),
		Instructions: SanitizeRich(req.Instructions),
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   normalizeDifficulty(req.Difficulty),
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		Gallery:      models.JSONBStringArray(cleanKeys(req.Gallery)),
		Featured:     req.Featured,
		AuthorID:     authorID,
	}
	if recipe.Title == "" {
		return nil, types.NewValidationError("title", "is required")
	}
	if recipe.Status == "" {
		recipe.Status = models.StatusPublish
	}

	terms := store.TermAssignment{
		models.TaxonomyCategory: req.Categories,
		models.TaxonomyCuisine:  req.Cuisines,
		models.TaxonomyDiet:     req.Diets,
	}
	if err := s.store.Create(ctx, recipe, terms); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	logging.Ctx(ctx).Info().Str("recipe_id", recipe.ID.String()).Str("author_id", authorID.String()).Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID, true)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeDetail, error) {
	if req.Title != nil && PlainText(*req.Title) == "" {
		return nil, types.NewValidationError("title", "must not be empty")
	}

	var terms store.TermAssignment
	if req.Categories != nil || req.Cuisines != nil || req.Diets != nil {
		terms = store.TermAssignment{}
	}

	mutate := func(r *models.Recipe) {
		if req.Title != nil {
			r.Title = PlainText(*req.Title)
		}
		if req.Body != nil {
			r.Body = SanitizeRich(*req.Body)
		}
		if req.Excerpt != nil {
			r.Excerpt = PlainText(*req.Excerpt)
		}
		if req.Status != nil {
			r.Status = *req.Status
		}
		if req.Ingredients != nil {
			r.Ingredients = PlainText(*req.Ingredients)
		}
		if req.Instructions != nil {
			r.Instructions = SanitizeRich(*req.Instructions)
		}
		if req.PrepTime != nil {
			r.PrepTime = *req.PrepTime
		}
		if req.CookTime != nil {
			r.CookTime = *req.CookTime
		}
		if req.Servings != nil {
			r.Servings = *req.Servings
		}
		if req.Difficulty != nil {
			r.Difficulty = normalizeDifficulty(*req.Difficulty)
		}
		if req.Calories != nil {
			r.Calories = *req.Calories
		}
		if req.Protein != nil {
			r.Protein = *req.Protein
		}
		if req.Carbs != nil {
			r.Carbs = *req.Carbs
		}
		if req.Fat != nil {
			r.Fat = *req.Fat
		}
		if req.Gallery != nil {
			r.Gallery = models.JSONBStringArray(cleanKeys(*req.Gallery))
		}
		if req.Featured != nil {
			r.Featured = *req.Featured
		}
	}

	// Taxonomies left out of the request keep their current terms.
	if terms != nil {
		current, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, taxonomy := range models.Taxonomies {
			for _, t := range current.TermsIn(taxonomy) {
				terms[taxonomy] = append(terms[taxonomy], t.Slug)
			}
		}
		if req.Categories != nil {
			terms[models.TaxonomyCategory] = *req.Categories
		}
		if req.Cuisines != nil {
			terms[models.TaxonomyCuisine] = *req.Cuisines
		}
		if req.Diets != nil {
			terms[models.TaxonomyDiet] = *req.Diets
		}
	}

	if _, err := s.store.Update(ctx, id, mutate, terms); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, id, true)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) detail(ctx context.Context, r *models.Recipe) *types.RecipeDetail {
	gallery := make([]string, 0, len(r.Gallery))
	for _, key := range r.Gallery {
		if url := s.media.URL(ctx, key); url != "" {
			gallery = append(gallery, url)
		}
	}
	return &types.RecipeDetail{
		ID:           r.ID,
		Title:        r.Title,
		Body:         r.Body,
		Excerpt:      Excerpt(r.Excerpt, r.Body),
		Status:       r.Status,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Carbs:        r.Carbs,
		Fat:          r.Fat,
		Gallery:      gallery,
		Featured:     r.Featured,
		Categories:   termViews(r.TermsIn(models.TaxonomyCategory)),
		Cuisines:     termViews(r.TermsIn(models.TaxonomyCuisine)),
		Diets:        termViews(r.TermsIn(models.TaxonomyDiet)),
		Ratings:      types.RatingSummary{Average: RoundRating(r.RatingAverage), Count: r.RatingCount},
		Likes:        r.LikeCount,
		AuthorID:     r.AuthorID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func normalizeDifficulty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return query.CanonicalDifficulty(s)
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func termViews(terms []models.Term) []types.TermView {
	out := make([]types.TermView, 0, len(terms))
	for _, t := range terms {
		out = append(out, types.TermView{
			ID:          t.ID,
			Name:        t.Name,
			Slug:        t.Slug,
			Count:       t.Count,
			Description: t.Description,
		})
	}
	return out
}
