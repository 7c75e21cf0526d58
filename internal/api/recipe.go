package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-carousel/backend/internal/middleware"
	"github.com/pageza/recipe-carousel/backend/internal/models"
	"github.com/pageza/recipe-carousel/backend/internal/service"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// RecipeHandler serves recipe detail and editor writes.
type RecipeHandler struct {
	recipeService service.IRecipeService
	validator     middleware.TokenValidator
}

func NewRecipeHandler(recipeService service.IRecipeService, validator middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, validator: validator}
}

func (h *RecipeHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	recipes := v1.Group("/recipes")
	{
		recipes.GET("/:id", middleware.OptionalAuth(h.validator), h.GetRecipe)

		authors := recipes.Group("", middleware.AuthMiddleware(h.validator), middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
		authors.POST("", h.CreateRecipe)
		authors.PUT("/:id", h.UpdateRecipe)
		authors.DELETE("/:id", h.DeleteRecipe)
	}
}

// GetRecipe returns one recipe. Editors and admins may also read drafts.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	role := c.GetString(middleware.RoleKey)
	includeDrafts := role == models.RoleEditor || role == models.RoleAdmin

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id, includeDrafts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses :id, answering 404 for anything that is not a uuid.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &types.NotFoundError{Resource: "recipe", ID: c.Param("id")})
		return uuid.Nil, false
	}
	return id, true
}
