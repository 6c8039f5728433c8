// Package handlers contains the HTTP handlers for the API surface.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
)

// getUserID extracts and validates user ID from context
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, fmt.Errorf("user ID not found in context")
	}

	switch v := userIDVal.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	default:
		return uuid.Nil, fmt.Errorf("invalid user ID type in context")
	}
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("invalid %s", name), nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondError sends a standardized error response
func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, entities.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondAppError maps a domain error onto the wire shape. Unknown errors
// become opaque 500s so internals never leak.
func respondAppError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		respondError(c, appErr.StatusCode(), appErr.Code, appErr.Message, appErr.Details)
		return
	}
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// respondUnauthorized sends an unauthorized error
func respondUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// respondBadRequest sends a bad request error
func respondBadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message, details)
}
