// Package di wires the application's dependency graph.
package di

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/squadfolio/squadfolio_service/internal/adapters/brokerage"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/insights"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/cache"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/config"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/repositories"
	"github.com/squadfolio/squadfolio_service/internal/workers/snapshotsync"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Cache  *cache.Cache
	Logger *logger.Logger

	// Repositories
	WorkspaceRepo *repositories.WorkspaceRepository
	PrivacyRepo   *repositories.PrivacyRepository
	SnapshotRepo  *repositories.SnapshotRepository
	ActivityRepo  *repositories.ActivityRepository

	// External adapters
	BrokerageAdapter *brokerage.Adapter

	// Domain services
	InsightsService *insights.Service

	// Workers
	SnapshotSyncWorker *snapshotsync.Worker
}

// NewContainer creates a new dependency injection container. redisCache may
// be nil when Redis is unavailable; the insights service then serves
// everything uncached.
func NewContainer(cfg *config.Config, db *sqlx.DB, redisCache *cache.Cache, log *logger.Logger) *Container {
	workspaceRepo := repositories.NewWorkspaceRepository(db, log)
	privacyRepo := repositories.NewPrivacyRepository(db, log)
	snapshotRepo := repositories.NewSnapshotRepository(db, log)
	activityRepo := repositories.NewActivityRepository(db, log)

	brokerageClient := brokerage.NewClient(cfg.Brokerage, log)
	brokerageAdapter := brokerage.NewAdapter(brokerageClient)

	// Cache is optional; a nil interface value keeps the service cache-free.
	var insightsCache insights.Cache
	if redisCache != nil {
		insightsCache = redisCache
	}
	insightsService := insights.NewService(
		workspaceRepo,
		privacyRepo,
		snapshotRepo,
		activityRepo,
		insightsCache,
		time.Duration(cfg.Insights.CacheTTLSeconds)*time.Second,
		log,
	)

	syncWorker := snapshotsync.NewWorker(brokerageAdapter, snapshotRepo, log)

	return &Container{
		Config:             cfg,
		DB:                 db,
		Cache:              redisCache,
		Logger:             log,
		WorkspaceRepo:      workspaceRepo,
		PrivacyRepo:        privacyRepo,
		SnapshotRepo:       snapshotRepo,
		ActivityRepo:       activityRepo,
		BrokerageAdapter:   brokerageAdapter,
		InsightsService:    insightsService,
		SnapshotSyncWorker: syncWorker,
	}
}
