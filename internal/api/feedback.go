package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-carousel/backend/internal/middleware"
	"github.com/pageza/recipe-carousel/backend/internal/service"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// FeedbackHandler serves likes and ratings. Anonymous callers reach the
// service, which answers with a log-in prompt.
type FeedbackHandler struct {
	feedbackService service.IFeedbackService
	validator       middleware.TokenValidator
	limiter         *middleware.RateLimiter
}

func NewFeedbackHandler(feedbackService service.IFeedbackService, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validator:       validator,
		limiter:         limiter,
	}
}

func (h *FeedbackHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	chain := []gin.HandlerFunc{middleware.OptionalAuth(h.validator)}
	if h.limiter != nil {
		chain = append(chain, h.limiter.RateLimitMiddleware())
	}
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, chain...), fn)
	}

	feedback := v1.Group("/feedback")
	{
		feedback.POST("/like", with(h.Like)...)
		feedback.POST("/rate", with(h.Rate)...)
	}
	v1.POST("/recipes/:id/like", with(h.Like)...)
	v1.POST("/recipes/:id/rate", with(h.Rate)...)
}

// Like toggles the caller's like.
func (h *FeedbackHandler) Like(c *gin.Context) {
	var req types.LikeRequest
	if err := bindOptional(c, &req); err != nil {
		bindError(c, err)
		return
	}
	recipeID, err := recipeIDFrom(c, req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.feedbackService.ToggleLike(c.Request.Context(), recipeID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Rate records the caller's rating. Out-of-range values are clamped by the
// service; a missing or non-numeric rating is rejected here.
func (h *FeedbackHandler) Rate(c *gin.Context) {
	var req types.RateRequest
	if err := bindOptional(c, &req); err != nil {
		respondError(c, types.NewValidationError("rating", "must be a number"))
		return
	}
	recipeID, err := recipeIDFrom(c, req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Rating == nil {
		if middleware.UserID(c) == uuid.Nil {
			respondError(c, &types.AuthError{Message: "Please log in to rate."})
			return
		}
		respondError(c, types.NewValidationError("rating", "is required"))
		return
	}

	res, err := h.feedbackService.SubmitRating(c.Request.Context(), recipeID, middleware.UserID(c), *req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindOptional binds a JSON or form body, tolerating an empty one.
func bindOptional(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// recipeIDFrom prefers the :id path segment over the body value. A malformed
// path id names no recipe and is reported as not found.
func recipeIDFrom(c *gin.Context, fromBody string) (uuid.UUID, error) {
	if raw := c.Param("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, &types.NotFoundError{Resource: "recipe", ID: raw}
		}
		return id, nil
	}
	if fromBody == "" {
		return uuid.Nil, types.NewValidationError("recipeId", "is required")
	}
	id, err := uuid.Parse(fromBody)
	if err != nil {
		return uuid.Nil, types.NewValidationError("recipeId", "must be a valid id")
	}
	return id, nil
}
