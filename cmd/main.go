package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/squadfolio/squadfolio_service/internal/api/routes"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/cache"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/config"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/database"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/di"
	"github.com/squadfolio/squadfolio_service/pkg/jobqueue"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
	"github.com/squadfolio/squadfolio_service/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.Environment)

	// Install trace-context propagation
	tracing.Init()

	// Initialize database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	// Redis is optional: without it the service runs uncached.
	redisCache, err := cache.New(cfg.Redis)
	if err != nil {
		log.Warnw("Redis unavailable, running without cache", "error", err)
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build dependency injection container
	container := di.NewContainer(cfg, db, redisCache, log)

	// Initialize router with DI container
	router := routes.SetupRoutes(container)

	// Schedule the daily snapshot sync
	scheduler := jobqueue.NewJobScheduler(log.Zap())
	if cfg.Snapshots.SyncEnabled {
		err := scheduler.AddJob(jobqueue.ScheduledJob{
			Name:     "snapshot_sync",
			Schedule: cfg.Snapshots.SyncCron,
			Timeout:  15 * time.Minute,
			Handler:  container.SnapshotSyncWorker.RunOnce,
		})
		if err != nil {
			log.Fatal("Failed to schedule snapshot sync", "error", err)
		}
		scheduler.Start()
	}

	// Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Infow("Server starting", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down")
	if cfg.Snapshots.SyncEnabled {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Forced shutdown", "error", err)
	}
	log.Infow("Server stopped")
}
