package service

import (
	"context"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

type TaxonomyService struct {
	store *store.RecipeStore
}

func NewTaxonomyService(s *store.RecipeStore) *TaxonomyService {
	return &TaxonomyService{store: s}
}

// Categories lists recipe categories that have at least one published recipe.
func (s *TaxonomyService) Categories(ctx context.Context) ([]types.TermView, error) {
	return s.Terms(ctx, models.TaxonomyCategory, true)
}

func (s *TaxonomyService) Terms(ctx context.Context, taxonomy string, hideEmpty bool) ([]types.TermView, error) {
	if !models.IsTaxonomy(taxonomy) {
		return nil, &types.NotFoundError{Resource: "taxonomy", ID: taxonomy}
	}
	terms, err := s.store.ListTerms(ctx, taxonomy, hideEmpty)
	if err != nil {
		return nil, err
	}
	return termViews(terms), nil
}
