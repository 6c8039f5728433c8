// Package routes configures the HTTP router.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/squadfolio/squadfolio_service/internal/api/handlers"
	"github.com/squadfolio/squadfolio_service/internal/api/middleware"
	"github.com/squadfolio/squadfolio_service/internal/infrastructure/di"
	"github.com/squadfolio/squadfolio_service/pkg/tracing"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()
	registerValidators()

	// Global middleware - order matters for security
	router.Use(tracing.HTTPMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(middleware.RateLimit(container.Config.Server.RateLimitPerMin))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.DB, container.Logger)
	privacyHandler := handlers.NewPrivacyHandler(container.InsightsService, container.Logger)
	workspaceHandler := handlers.NewWorkspaceHandler(container.InsightsService, container.Logger)
	portfolioHandler := handlers.NewPortfolioHandler(container.InsightsService, container.Logger)

	// Health checks and metrics (no auth required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authentication(container.Config, container.Logger))
	{
		portfolio := v1.Group("/portfolio")
		{
			portfolio.GET("/history", portfolioHandler.GetOwnHistory)
		}

		privacy := v1.Group("/privacy")
		{
			privacy.GET("/settings", privacyHandler.GetUserSettings)
			privacy.PUT("/settings", privacyHandler.UpdateUserSettings)
		}

		workspaces := v1.Group("/workspaces")
		{
			workspaces.GET("/:id/history", workspaceHandler.GetSquadHistory)
			workspaces.GET("/:id/leaderboard", workspaceHandler.GetLeaderboard)
			workspaces.GET("/:id/members/:memberId/portfolio", workspaceHandler.GetMemberPortfolio)
			workspaces.GET("/:id/activity", workspaceHandler.GetActivityFeed)
			workspaces.POST("/:id/activity", workspaceHandler.RecordActivity)

			workspaces.GET("/:id/privacy/effective", privacyHandler.GetEffectivePrivacy)
			workspaces.GET("/:id/privacy/override", privacyHandler.GetWorkspaceOverride)
			workspaces.PUT("/:id/privacy/override", privacyHandler.UpdateWorkspaceOverride)
			workspaces.DELETE("/:id/privacy/override", privacyHandler.DeleteWorkspaceOverride)
			workspaces.GET("/:id/privacy/policy", privacyHandler.GetWorkspacePolicy)
			workspaces.PUT("/:id/privacy/policy", privacyHandler.UpdateWorkspacePolicy)
		}
	}

	return router
}
