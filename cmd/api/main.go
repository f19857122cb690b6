// Package main is the entry point for the dispatch auth API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dispatch-hub/backend/config"
	"github.com/dispatch-hub/backend/internal/infra/db"
	"github.com/dispatch-hub/backend/internal/infra/dependency"
	"github.com/dispatch-hub/backend/internal/infra/logging"
	"github.com/dispatch-hub/backend/internal/infra/workerpool"
	"github.com/dispatch-hub/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(logging.NewLogger(os.Stdout, logging.ParseLevel(cfg.Server.LogLevel)))

	slog.Info("Starting dispatch auth API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// The session cache is optional; without Redis sessions are read from the database
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = db.NewRedisClient(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without session cache", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	pool := workerpool.New(workerpool.Config{Size: cfg.Workers.PoolSize})

	injector := dependency.NewInjector(cfg, database.DB(), redisClient, pool)
	engine := injector.Router.Setup(cfg.Server.Environment)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if injector.LoginRateLimiter != nil {
		go injector.LoginRateLimiter.StartCleanup(bgCtx)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	if err := pool.Shutdown(ctx); err != nil {
		slog.Error("Worker pool did not drain", "error", err)
	}

	slog.Info("Server exited properly")
}
