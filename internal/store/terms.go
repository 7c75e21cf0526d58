package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// TermAssignment maps a taxonomy to the slugs a recipe should carry.
type TermAssignment map[string][]string

// ListTerms returns the terms of taxonomy ordered by name.
func (s *RecipeStore) ListTerms(ctx context.Context, taxonomy string, hideEmpty bool) ([]models.Term, error) {
	tx := s.db.WithContext(ctx).Where("taxonomy = ?", taxonomy)
	if hideEmpty {
		tx = tx.Where("count > 0")
	}
	var terms []models.Term
	if err := tx.Order("name ASC").Find(&terms).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s terms: %w", taxonomy, err)
	}
	return terms, nil
}

// resolveAssignment loads the terms named by a, rejecting unknown slugs.
func resolveAssignment(tx *gorm.DB, a TermAssignment) ([]models.Term, error) {
	var out []models.Term
	for _, taxonomy := range models.Taxonomies {
		slugs := a[taxonomy]
		if len(slugs) == 0 {
			continue
		}
		var terms []models.Term
		if err := tx.Where("taxonomy = ? AND slug IN ?", taxonomy, slugs).Find(&terms).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve terms: %w", err)
		}
		found := make(map[string]bool, len(terms))
		for _, t := range terms {
			found[t.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, types.NewValidationError(taxonomy, fmt.Sprintf("unknown term %q", slug))
			}
		}
		out = append(out, terms...)
	}
	return out, nil
}

// recountTerms recomputes the published-recipe count of each term from the
// link table.
func recountTerms(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := tx.Exec(`
		UPDATE terms SET count = (
			SELECT COUNT(*) FROM recipe_terms
			JOIN recipes ON recipes.id = recipe_terms.recipe_id
			WHERE recipe_terms.term_id = terms.id AND recipes.status = ?
		)
		WHERE id IN ?`, models.StatusPublish, ids).Error
	if err != nil {
		return fmt.Errorf("failed to recount terms: %w", err)
	}
	return nil
}

func termIDs(groups ...[]models.Term) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, terms := range groups {
		for _, t := range terms {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t.ID)
		}
	}
	return out
}
