package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/api"
	"github.com/pageza/recipe-carousel/backend/internal/database"
	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/middleware"
	"github.com/pageza/recipe-carousel/backend/internal/render"
	"github.com/pageza/recipe-carousel/backend/internal/router"
	"github.com/pageza/recipe-carousel/backend/internal/service"
	"github.com/pageza/recipe-carousel/backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	cfg    *config.Config
}

// New wires services and routes. redisClient and s3 may be nil, in which case
// listings are not cached, feedback is not rate limited and gallery keys are
// served as stored (or under the public media base URL).
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3 *config.S3Config) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	var (
		cache   service.ListingCache = service.NoopCache{}
		limiter *middleware.RateLimiter
	)
	if redisClient != nil {
		cache = service.NewRedisListingCache(redisClient, cfg.Redis.CacheTTL)
		limiter = middleware.NewFeedbackRateLimiter(redisClient, cfg.RateLimit.FeedbackLimit, cfg.RateLimit.FeedbackWindow)
	}

	recipes := store.NewRecipeStore(db)
	media := service.NewMediaService(s3, cfg.Storage.PublicBaseURL)
	auth := service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	engine := router.SetupRouter(cfg.Server)
	api.RegisterRoutes(engine, api.Dependencies{
		Listing:         service.NewListingService(recipes, cache, media, cfg.Listing.DefaultPageSize),
		Feedback:        service.NewFeedbackService(db, cache),
		Recipes:         service.NewRecipeService(recipes, cache, media),
		Taxonomy:        service.NewTaxonomyService(recipes),
		Auth:            auth,
		Renderer:        renderer,
		FeedbackLimiter: limiter,
		ListingConfig:   cfg.Listing,
		Health: func(ctx context.Context) error {
			if err := database.HealthCheck(ctx, db); err != nil {
				return err
			}
			if redisClient != nil {
				if err := redisClient.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	})

	return &Server{
		router: engine,
		db:     db,
		redis:  redisClient,
		cfg:    cfg,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, nil
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logging.Info().Msg("shutting down server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
