package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/threadnest-api/internal/api"
	"github.com/threadnest-api/internal/auth"
	"github.com/threadnest-api/internal/config"
	"github.com/threadnest-api/internal/database"
	"github.com/threadnest-api/internal/rate"
	"github.com/threadnest-api/internal/repository"
	"github.com/threadnest-api/internal/service"
	"github.com/threadnest-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting ThreadNest API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Rate limiter for signup/login
	var limiter rate.Limiter = rate.NewMemory()
	if cfg.RateLimit.RedisURL != "" {
		redisLimiter, err := rate.NewRedis(cfg.RateLimit.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
		log.Info().Msg("Using Redis rate limiter")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Auth collaborators share the immutable signing secret
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	creds := auth.NewCredentials(repos.User, cfg.Auth.BcryptCost)

	// Initialize services
	services := service.NewServices(repos, tokens, creds, log)

	// Initialize router
	router := api.NewRouter(api.Dependencies{
		Services: services,
		Tokens:   tokens,
		Creds:    creds,
		Limiter:  limiter,
		Health:   db,
	}, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
