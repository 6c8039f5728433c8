package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squadfolio/squadfolio_service/internal/domain/services/insights"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// PortfolioHandler handles the caller's own portfolio endpoints
type PortfolioHandler struct {
	service *insights.Service
	logger  *logger.Logger
}

func NewPortfolioHandler(service *insights.Service, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, logger: log}
}

// GetOwnHistory returns the caller's sampled portfolio series. Self-view is
// never redacted.
// GET /portfolio/history?period=1M
func (h *PortfolioHandler) GetOwnHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}

	response, err := h.service.GetOwnHistory(c.Request.Context(), userID, queryPeriod(c))
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
