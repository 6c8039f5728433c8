package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/insights"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// WorkspaceHandler handles squad aggregate, leaderboard, member portfolio
// and activity endpoints.
type WorkspaceHandler struct {
	service *insights.Service
	logger  *logger.Logger
}

func NewWorkspaceHandler(service *insights.Service, log *logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{service: service, logger: log}
}

// queryPeriod reads the period query parameter, defaulting to 1M.
func queryPeriod(c *gin.Context) entities.HistoryPeriod {
	return entities.HistoryPeriod(c.DefaultQuery("period", string(entities.Period1M)))
}

// GetSquadHistory returns the aggregated squad performance series
// GET /workspaces/:id/history?period=1M
func (h *WorkspaceHandler) GetSquadHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.service.GetSquadHistory(c.Request.Context(), workspaceID, userID, queryPeriod(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetLeaderboard ranks eligible members by return percent
// GET /workspaces/:id/leaderboard?period=1M
func (h *WorkspaceHandler) GetLeaderboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.service.GetLeaderboard(c.Request.Context(), workspaceID, userID, queryPeriod(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetMemberPortfolio returns another member's portfolio as the caller may
// see it
// GET /workspaces/:id/members/:memberId/portfolio
func (h *WorkspaceHandler) GetMemberPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	response, err := h.service.GetMemberPortfolio(c.Request.Context(), workspaceID, userID, memberID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetActivityFeed returns the redacted workspace activity feed
// GET /workspaces/:id/activity?limit=50
func (h *WorkspaceHandler) GetActivityFeed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	response, err := h.service.GetActivityFeed(c.Request.Context(), workspaceID, userID, limit)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// RecordActivity stores a new activity event for the caller
// POST /workspaces/:id/activity
func (h *WorkspaceHandler) RecordActivity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req insights.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid activity event", map[string]interface{}{"error": err.Error()})
		return
	}

	event, err := h.service.RecordActivity(c.Request.Context(), workspaceID, userID, req)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
