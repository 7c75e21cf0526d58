package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Body         string   `json:"body"`
	Excerpt      string   `json:"excerpt"`
	Status       string   `json:"status" binding:"omitempty,oneof=publish draft"`
	Ingredients  string   `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prepTime" binding:"min=0"`
	CookTime     int      `json:"cookTime" binding:"min=0"`
	Servings     int      `json:"servings" binding:"min=0"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,difficulty"`
	Calories     float64  `json:"calories" binding:"min=0"`
	Protein      float64  `json:"protein" binding:"min=0"`
	Carbs        float64  `json:"carbs" binding:"min=0"`
	Fat          float64  `json:"fat" binding:"min=0"`
	Gallery      []string `json:"gallery"`
	Featured     bool     `json:"featured"`
	Categories   []string `json:"categories" binding:"dive,slug"`
	Cuisines     []string `json:"cuisines" binding:"dive,slug"`
	Diets        []string `json:"diets" binding:"dive,slug"`
}

// UpdateRecipeRequest replaces only the fields that are present.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title" binding:"omitempty,max=255"`
	Body         *string   `json:"body"`
	Excerpt      *string   `json:"excerpt"`
	Status       *string   `json:"status" binding:"omitempty,oneof=publish draft"`
	Ingredients  *string   `json:"ingredients"`
	Instructions *string   `json:"instructions"`
	PrepTime     *int      `json:"prepTime" binding:"omitempty,min=0"`
	CookTime     *int      `json:"cookTime" binding:"omitempty,min=0"`
	Servings     *int      `json:"servings" binding:"omitempty,min=0"`
	Difficulty   *string   `json:"difficulty" binding:"omitempty,difficulty"`
	Calories     *float64  `json:"calories" binding:"omitempty,min=0"`
	Protein      *float64  `json:"protein" binding:"omitempty,min=0"`
	Carbs        *float64  `json:"carbs" binding:"omitempty,min=0"`
	Fat          *float64  `json:"fat" binding:"omitempty,min=0"`
	Gallery      *[]string `json:"gallery"`
	Featured     *bool     `json:"featured"`
	Categories   *[]string `json:"categories" binding:"omitempty,dive,slug"`
	Cuisines     *[]string `json:"cuisines" binding:"omitempty,dive,slug"`
	Diets        *[]string `json:"diets" binding:"omitempty,dive,slug"`
}

// TermView is a term as exposed over the API.
type TermView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Count       int64     `json:"count"`
	Description string    `json:"description"`
}

// RatingSummary is the rounded public form of a recipe's rating aggregate.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RecipeDetail is the full public form of one recipe.
type RecipeDetail struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	Excerpt      string        `json:"excerpt"`
	Status       string        `json:"status"`
	Ingredients  string        `json:"ingredients"`
	Instructions string        `json:"instructions"`
	PrepTime     int           `json:"prepTime"`
	CookTime     int           `json:"cookTime"`
	Servings     int           `json:"servings"`
	Difficulty   string        `json:"difficulty"`
	Calories     float64       `json:"calories"`
	Protein      float64       `json:"protein"`
	Carbs        float64       `json:"carbs"`
	Fat          float64       `json:"fat"`
	Gallery      []string      `json:"gallery"`
	Featured     bool          `json:"featured"`
	Categories   []TermView    `json:"categories"`
	Cuisines     []TermView    `json:"cuisines"`
	Diets        []TermView    `json:"diets"`
	Ratings      RatingSummary `json:"ratings"`
	Likes        int64         `json:"likes"`
	AuthorID     uuid.UUID     `json:"authorId"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// SearchResult is the payload of the legacy search endpoint.
type SearchResult struct {
	Found   int64           `json:"found"`
	Recipes []RecipeSummary `json:"recipes"`
}
