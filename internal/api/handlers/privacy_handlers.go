package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/insights"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
)

// PrivacyHandler handles privacy settings and policy endpoints
type PrivacyHandler struct {
	service *insights.Service
	logger  *logger.Logger
}

func NewPrivacyHandler(service *insights.Service, log *logger.Logger) *PrivacyHandler {
	return &PrivacyHandler{service: service, logger: log}
}

// GetUserSettings returns the caller's default privacy settings
// GET /privacy/settings
func (h *PrivacyHandler) GetUserSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}

	settings, err := h.service.GetUserSettings(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateUserSettings replaces the caller's default privacy settings
// PUT /privacy/settings
func (h *PrivacyHandler) UpdateUserSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}

	var req entities.UpdatePrivacySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid privacy settings", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := h.service.UpdateUserSettings(c.Request.Context(), userID, req.Settings()); err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.Settings())
}

// GetWorkspaceOverride returns the caller's override for a workspace
// GET /workspaces/:id/privacy/override
func (h *PrivacyHandler) GetWorkspaceOverride(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	override, err := h.service.GetWorkspaceOverride(c.Request.Context(), workspaceID, userID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"override": override})
}

// UpdateWorkspaceOverride replaces the caller's override for a workspace
// PUT /workspaces/:id/privacy/override
func (h *PrivacyHandler) UpdateWorkspaceOverride(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req entities.UpdatePrivacySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid privacy settings", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := h.service.UpdateWorkspaceOverride(c.Request.Context(), workspaceID, userID, req.Settings()); err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, req.Settings())
}

// DeleteWorkspaceOverride removes the caller's override for a workspace
// DELETE /workspaces/:id/privacy/override
func (h *PrivacyHandler) DeleteWorkspaceOverride(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteWorkspaceOverride(c.Request.Context(), workspaceID, userID); err != nil {
		respondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetEffectivePrivacy returns the caller's resolved privacy in a workspace
// GET /workspaces/:id/privacy/effective
func (h *PrivacyHandler) GetEffectivePrivacy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	effective, err := h.service.GetEffectivePrivacy(c.Request.Context(), workspaceID, userID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, effective)
}

// GetWorkspacePolicy returns the workspace privacy policy
// GET /workspaces/:id/privacy/policy
func (h *PrivacyHandler) GetWorkspacePolicy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	policy, err := h.service.GetWorkspacePolicy(c.Request.Context(), workspaceID, userID)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// UpdateWorkspacePolicyRequest is the admin policy write shape. A partial or
// invalid minimum is sanitized to the documented defaults server side.
type UpdateWorkspacePolicyRequest struct {
	MinimumSharing       *entities.PrivacySettings `json:"minimumSharing,omitempty"`
	EnforcedTransparency bool                      `json:"enforcedTransparency"`
	AllowAnonymousMode   bool                      `json:"allowAnonymousMode"`
}

// UpdateWorkspacePolicy replaces the workspace privacy policy
// PUT /workspaces/:id/privacy/policy
func (h *PrivacyHandler) UpdateWorkspacePolicy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondUnauthorized(c, "Authentication required")
		return
	}
	workspaceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkspacePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid policy", map[string]interface{}{"error": err.Error()})
		return
	}

	policy := entities.WorkspacePrivacyPolicy{
		MinimumSharing:       req.MinimumSharing,
		EnforcedTransparency: req.EnforcedTransparency,
		AllowAnonymousMode:   req.AllowAnonymousMode,
	}
	if err := h.service.UpdateWorkspacePolicy(c.Request.Context(), workspaceID, userID, policy); err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}
