package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/metrics"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/store"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackService records per-user likes and ratings. Every write runs in one
// transaction that locks the recipe row, upserts the user's record and
// recomputes the recipe aggregate from all records.
type FeedbackService struct {
	db    *gorm.DB
	cache ListingCache
}

func NewFeedbackService(db *gorm.DB, cache ListingCache) *FeedbackService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &FeedbackService{db: db, cache: cache}
}

// ToggleLike flips the caller's like on a recipe.
func (s *FeedbackService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (*types.LikeResult, error) {
	if userID == uuid.Nil {
		return nil, &types.AuthError{Message: "Please log in to react."}
	}

	var result types.LikeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := store.LockRecipe(tx, recipeID, &recipe); err != nil {
			return err
		}

		current, err := findFeedback(tx, recipeID, userID)
		if err != nil {
			return err
		}
		liked := current == nil || !current.Liked

		record := models.FeedbackRecord{RecipeID: recipeID, UserID: userID, Liked: liked}
		if err := upsertFeedback(tx, &record, "liked"); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.FeedbackRecord{}).
			Where("recipe_id = ? AND liked = ?", recipeID, true).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			UpdateColumn("like_count", count).Error; err != nil {
			return fmt.Errorf("failed to store like count: %w", err)
		}

		result = types.LikeResult{LikeCount: count, Liked: liked}
		return nil
	})
	metrics.RecordFeedback("like", err)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	logging.Ctx(ctx).Info().
		Str("recipe_id", recipeID.String()).
		Bool("liked", result.Liked).
		Int64("like_count", result.LikeCount).
		Msg("like toggled")
	return &result, nil
}

// SubmitRating stores the caller's rating, clamped into [1,5], and returns
// the new average rounded to one decimal.
func (s *FeedbackService) SubmitRating(ctx context.Context, recipeID, userID uuid.UUID, rating int) (*types.RatingResult, error) {
	if userID == uuid.Nil {
		return nil, &types.AuthError{Message: "Please log in to rate."}
	}
	rating = ClampRating(rating)

	var agg struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := store.LockRecipe(tx, recipeID, &recipe); err != nil {
			return err
		}

		record := models.FeedbackRecord{RecipeID: recipeID, UserID: userID, Rating: &rating}
		if err := upsertFeedback(tx, &record, "rating"); err != nil {
			return err
		}

		if err := tx.Model(&models.FeedbackRecord{}).
			Select("COALESCE(AVG(rating), 0) AS average, COUNT(rating) AS count").
			Where("recipe_id = ? AND rating IS NOT NULL", recipeID).
			Scan(&agg).Error; err != nil {
			return fmt.Errorf("failed to aggregate ratings: %w", err)
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			UpdateColumns(map[string]interface{}{
				"rating_average": agg.Average,
				"rating_count":   agg.Count,
			}).Error; err != nil {
			return fmt.Errorf("failed to store rating aggregate: %w", err)
		}
		return nil
	})
	metrics.RecordFeedback("rating", err)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	logging.Ctx(ctx).Info().
		Str("recipe_id", recipeID.String()).
		Int("rating", rating).
		Float64("average", agg.Average).
		Msg("rating submitted")
	return &types.RatingResult{Average: RoundRating(agg.Average), Count: agg.Count}, nil
}

// ClampRating forces a rating into [MinRating, MaxRating].
func ClampRating(r int) int {
	switch {
	case r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	default:
		return r
	}
}

func findFeedback(tx *gorm.DB, recipeID, userID uuid.UUID) (*models.FeedbackRecord, error) {
	var record models.FeedbackRecord
	err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	return &record, nil
}

// upsertFeedback inserts record or, when the (recipe, user) row exists,
// overwrites only column.
func upsertFeedback(tx *gorm.DB, record *models.FeedbackRecord, column string) error {
	record.UpdatedAt = time.Now()
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}
