package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "plutus/internal/errors"
	"plutus/internal/services"
)

// SettingsHandler handles settings-related requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the request payload for updating settings.
type UpdateSettingsRequest struct {
	Currency     *string `json:"currency" binding:"omitempty,iso4217"`
	Locale       *string `json:"locale" binding:"omitempty,min=2,max=20"`
	FirstWeekday *int    `json:"first_weekday" binding:"omitempty,min=0,max=6"`
	Theme        *string `json:"theme" binding:"omitempty,oneof=light dark system"`
}

// GetSettings handles fetching the workspace settings.
// @Summary     Get settings
// @Description Get the workspace's settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Settings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Settings not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.Get(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles updating the workspace settings.
// @Summary     Update settings
// @Description Update the workspace's settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Fields to update"
// @Success     200 {object} models.Settings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Settings not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [patch]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	settings, err := h.settingsService.Update(workspaceID, services.SettingsPatch{
		Currency:     req.Currency,
		Locale:       req.Locale,
		FirstWeekday: req.FirstWeekday,
		Theme:        req.Theme,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
