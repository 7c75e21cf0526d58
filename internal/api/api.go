package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/middleware"
	"github.com/pageza/recipe-carousel/backend/internal/render"
	"github.com/pageza/recipe-carousel/backend/internal/service"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Listing         service.IListingService
	Feedback        service.IFeedbackService
	Recipes         service.IRecipeService
	Taxonomy        service.ITaxonomyService
	Auth            service.IAuthService
	Renderer        *render.Renderer
	FeedbackLimiter *middleware.RateLimiter
	ListingConfig   config.ListingConfig
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	RegisterValidators()

	router.GET("/health", healthCheck(deps.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	NewListingHandler(deps.Listing, deps.Taxonomy, deps.Renderer, deps.ListingConfig).RegisterRoutes(router, v1)
	NewRecipeHandler(deps.Recipes, deps.Auth).RegisterRoutes(v1)
	NewFeedbackHandler(deps.Feedback, deps.Auth, deps.FeedbackLimiter).RegisterRoutes(v1)
	NewTaxonomyHandler(deps.Taxonomy).RegisterRoutes(v1)
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
}

func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
