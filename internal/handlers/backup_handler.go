package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "plutus/internal/errors"
	"plutus/internal/services"
)

// BackupHandler handles snapshot export and import requests.
type BackupHandler struct {
	backupService services.BackupServicer
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService services.BackupServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// ImportRequest represents the request payload for importing a snapshot.
// Replace mode destroys the workspace's current data, so it must be
// explicitly confirmed.
type ImportRequest struct {
	Mode           string          `json:"mode" binding:"required,import_mode"`
	ConfirmReplace bool            `json:"confirm_replace"`
	Snapshot       json.RawMessage `json:"snapshot" binding:"required"`
}

// Export handles exporting the workspace snapshot.
// @Summary     Export a snapshot
// @Description Export the workspace's portable backup document
// @Tags        backup
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Snapshot "Snapshot document"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snap, err := h.backupService.Export(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Import handles applying a snapshot to the workspace.
// @Summary     Import a snapshot
// @Description Apply a snapshot in replace or merge mode
// @Tags        backup
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ImportRequest true "Snapshot and mode"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Invalid input or unrecognized snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /backup/import [post]
func (h *BackupHandler) Import(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	mode := services.ImportMode(req.Mode)
	if mode == services.ImportModeReplace && !req.ConfirmReplace {
		respondWithError(c, apperrors.ErrReplaceUnconfirmed)
		return
	}

	result, err := h.backupService.Import(workspaceID, req.Snapshot, mode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
