package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/services"
)

// SettingsHandler serves the caller's settings.
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateSettingsRequest holds the settings to change.
type UpdateSettingsRequest struct {
	Notifications *bool   `json:"notifications"`
	Theme         *string `json:"theme" binding:"omitempty,not_blank,max=20"`
	Language      *string `json:"language" binding:"omitempty,not_blank,max=10"`
}

// GetSettings returns the caller's settings
// @Summary     Get settings
// @Description Return the caller's settings, creating the defaults on first access
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.UserSettings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /user_settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings changes the supplied settings
// @Summary     Update settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings to change"
// @Success     200 {object} map[string]models.UserSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /user_settings [post]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.UpdateSettings(userID, req.Notifications, req.Theme, req.Language)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateSettings, "user_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{
			"notifications": settings.Notifications,
			"theme":         settings.Theme,
			"language":      settings.Language,
		})

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
