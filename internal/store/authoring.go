package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// Create inserts recipe with the given terms and refreshes their counts.
func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe, terms TermAssignment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := resolveAssignment(tx, terms)
		if err != nil {
			return err
		}
		recipe.Terms = resolved
		if err := tx.Omit("Terms.*").Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return recountTerms(tx, termIDs(resolved))
	})
}

// Update applies mutate to the stored recipe. When terms is non-nil the
// recipe's terms are replaced. Counts are refreshed for old and new terms.
func (s *RecipeStore) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Recipe), terms TermAssignment) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockRecipe(tx, id, &recipe); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Terms").Find(&recipe.Terms); err != nil {
			return fmt.Errorf("failed to load recipe terms: %w", err)
		}
		before := recipe.Terms

		mutate(&recipe)
		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}

		after := before
		if terms != nil {
			resolved, err := resolveAssignment(tx, terms)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Terms").Replace(resolved); err != nil {
				return fmt.Errorf("failed to replace recipe terms: %w", err)
			}
			after = resolved
		}
		recipe.Terms = after
		return recountTerms(tx, termIDs(before, after))
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe, its term links and its feedback rows.
func (s *RecipeStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := LockRecipe(tx, id, &recipe); err != nil {
			return err
		}
		var linked []models.Term
		if err := tx.Model(&recipe).Association("Terms").Find(&linked); err != nil {
			return fmt.Errorf("failed to load recipe terms: %w", err)
		}
		if err := tx.Model(&recipe).Association("Terms").Clear(); err != nil {
			return fmt.Errorf("failed to unlink terms: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.FeedbackRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete feedback: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return recountTerms(tx, termIDs(linked))
	})
}

// LockRecipe loads the recipe row, holding a row lock on Postgres until the
// transaction ends.
func LockRecipe(tx *gorm.DB, id uuid.UUID, recipe *models.Recipe) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.NotFoundError{Resource: "recipe", ID: id.String()}
	}
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	return nil
}
