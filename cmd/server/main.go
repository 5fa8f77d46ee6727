package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/league-draft-engine/internal/api"
	"github.com/dom/league-draft-engine/internal/config"
	"github.com/dom/league-draft-engine/internal/oracle"
	"github.com/dom/league-draft-engine/internal/repository/postgres"
	"github.com/dom/league-draft-engine/internal/service"
	"github.com/dom/league-draft-engine/internal/session"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize the oracle client
	provider := oracle.NewClient(cfg.OracleBaseURL, cfg.OracleTimeout)

	// Initialize session hub
	hub := session.NewHub(provider, repos.Champion, cfg, logger)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Sync the champion catalogue on startup so drafts validate against a
	// fresh list. Failure is not fatal; the sync endpoint can retry.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		count, version, err := services.Champion.SyncFromDataDragon(ctx)
		if err != nil {
			logger.Warnw("champion sync failed on startup", "error", err)
			return
		}
		logger.Infow("champion catalogue synced", "count", count, "version", version)
	}()

	// Initialize router
	router := api.NewRouter(services, hub, cfg, logger)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infow("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("server forced to shutdown", "error", err)
	}

	hub.Stop()
	logger.Info("server stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
