package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/middleware"
)

// SetupRouter returns an engine with the middleware every route shares.
// Routes are registered on it by the api package.
func SetupRouter(cfg config.ServerConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.HandleMethodNotAllowed = true
	return router
}
