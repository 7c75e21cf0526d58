package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/database"
	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	format := cfg.Logging.Format
	if config.GetEnvironment().UsesConsoleLogs() && os.Getenv("LOG_FORMAT") == "" {
		format = "console"
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: format, Caller: cfg.Logging.Caller})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}
	if n, err := database.SeedDefaultTerms(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed default terms")
	} else if n > 0 {
		logging.Info().Int64("terms", n).Msg("seeded default terms")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// Listings fall back to the database without a cache.
			logging.Warn().Err(err).Msg("redis unavailable, running without cache and rate limits")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	s3, err := config.NewS3Config(ctx, cfg.Storage)
	if err != nil {
		logging.Warn().Err(err).Msg("s3 presigning unavailable")
		s3 = nil
	}

	srv, err := server.New(cfg, db, redisClient, s3)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build server")
	}
	if err := srv.Start(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
	logging.Info().Msg("server stopped")
}
