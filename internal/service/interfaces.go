package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// IListingService is the single listing pipeline shared by every surface.
type IListingService interface {
	List(ctx context.Context, req types.ListRecipesRequest) (*types.ListResult, error)
}

// IFeedbackService records likes and ratings and maintains recipe aggregates.
type IFeedbackService interface {
	ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (*types.LikeResult, error)
	SubmitRating(ctx context.Context, recipeID, userID uuid.UUID, rating int) (*types.RatingResult, error)
}

// IRecipeService covers recipe detail and authoring.
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uuid.UUID, includeDrafts bool) (*types.RecipeDetail, error)
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeDetail, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeDetail, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// ITaxonomyService lists terms.
type ITaxonomyService interface {
	Categories(ctx context.Context) ([]types.TermView, error)
	Terms(ctx context.Context, taxonomy string, hideEmpty bool) ([]types.TermView, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// MediaResolver turns a stored gallery key into a URL a browser can load.
type MediaResolver interface {
	URL(ctx context.Context, key string) string
}
