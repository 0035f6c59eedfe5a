package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "plutus/internal/errors"
	"plutus/internal/middleware"
	"plutus/internal/services"
)

// WorkspaceHandler handles workspace-related requests.
type WorkspaceHandler struct {
	workspaceService services.WorkspaceServicer
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService services.WorkspaceServicer) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// CreateWorkspaceRequest represents the request payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Passphrase string `json:"passphrase" binding:"omitempty,min=4,max=128"`
}

// UnlockWorkspaceRequest represents the request payload for unlocking a workspace.
type UnlockWorkspaceRequest struct {
	Passphrase string `json:"passphrase"`
}

// CreateWorkspace handles the creation of a new workspace.
// @Summary     Create a workspace
// @Description Create a new workspace with optional passphrase protection
// @Tags        workspaces
// @Accept      json
// @Produce     json
// @Param       request body CreateWorkspaceRequest true "Workspace details"
// @Success     201 {object} models.Workspace "Workspace created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	ws, err := h.workspaceService.Create(req.Name, req.Passphrase)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": ws})
}

// ListWorkspaces handles listing the workspaces on this device.
// @Summary     List workspaces
// @Description List all workspaces on this device
// @Tags        workspaces
// @Produce     json
// @Success     200 {array} models.Workspace "Workspaces"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces [get]
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	ws, err := h.workspaceService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": ws})
}

// UnlockWorkspace handles passphrase verification and session token issuance.
// @Summary     Unlock a workspace
// @Description Verify the passphrase and receive a session token
// @Tags        workspaces
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Workspace ID"
// @Param       request body UnlockWorkspaceRequest true "Passphrase"
// @Success     200 {object} map[string]interface{} "Token and workspace"
// @Failure     401 {object} ErrorResponse "Invalid passphrase"
// @Failure     404 {object} ErrorResponse "Workspace not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /workspaces/{id}/unlock [post]
func (h *WorkspaceHandler) UnlockWorkspace(c *gin.Context) {
	var req UnlockWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	ws, err := h.workspaceService.Unlock(c.Param("id"), req.Passphrase)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateWorkspaceToken(ws)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "workspace": ws})
}
