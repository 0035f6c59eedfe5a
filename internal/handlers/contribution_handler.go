package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "plutus/internal/errors"
	"plutus/internal/services"
)

// ContributionHandler handles goal contribution requests.
type ContributionHandler struct {
	contributionService services.GoalContributionServicer
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(contributionService services.GoalContributionServicer) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// AddContributionRequest represents the request payload for adding a contribution.
type AddContributionRequest struct {
	AmountMinor       int64   `json:"amount_minor" binding:"required,gt=0"`
	Currency          string  `json:"currency" binding:"required,iso4217"`
	DateKey           string  `json:"date_key" binding:"required,date_key"`
	Note              *string `json:"note" binding:"omitempty,max=500"`
	CreateTransaction bool    `json:"create_transaction"`
	CategoryID        *string `json:"category_id"`
}

// UpdateContributionRequest represents the request payload for updating a contribution.
type UpdateContributionRequest struct {
	AmountMinor *int64  `json:"amount_minor" binding:"omitempty,gt=0"`
	DateKey     *string `json:"date_key" binding:"omitempty,date_key"`
	Note        *string `json:"note" binding:"omitempty,max=500"`
}

// AddContribution handles adding a contribution to a goal.
// @Summary     Add a contribution
// @Description Add a contribution, optionally creating a linked expense transaction
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Goal ID"
// @Param       request body AddContributionRequest true "Contribution details"
// @Success     201 {object} models.GoalContribution "Contribution created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/contributions [post]
func (h *ContributionHandler) AddContribution(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	contribution, err := h.contributionService.Add(workspaceID, c.Param("id"), services.ContributionInput{
		AmountMinor:       req.AmountMinor,
		Currency:          req.Currency,
		DateKey:           req.DateKey,
		Note:              req.Note,
		CreateTransaction: req.CreateTransaction,
		CategoryID:        req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contribution": contribution})
}

// GetContributions handles listing a goal's contributions.
// @Summary     Get contributions
// @Description Get a goal's live contributions, newest first
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {array} models.GoalContribution "Contributions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/contributions [get]
func (h *ContributionHandler) GetContributions(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contributions, err := h.contributionService.ListByGoal(workspaceID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contributions": contributions})
}

// GetContribution handles fetching a single contribution.
// @Summary     Get a contribution
// @Description Get a live contribution by id
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contribution ID"
// @Success     200 {object} models.GoalContribution "Contribution"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id} [get]
func (h *ContributionHandler) GetContribution(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contribution, err := h.contributionService.GetByID(workspaceID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// GetContributionForTransaction handles resolving the contribution mirrored
// by a transaction.
// @Summary     Get the contribution for a transaction
// @Description Get the live contribution whose linked transaction is the given id
// @Tags        contributions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.GoalContribution "Contribution"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No contribution links this transaction"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/contribution [get]
func (h *ContributionHandler) GetContributionForTransaction(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	contribution, err := h.contributionService.FindByLinkedTransactionID(workspaceID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contribution": contribution})
}

// UpdateContribution handles updating a contribution.
// @Summary     Update a contribution
// @Description Update a contribution; the edit propagates to its linked transaction
// @Tags        contributions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Contribution ID"
// @Param       request body UpdateContributionRequest true "Fields to update"
// @Success     200 {object} services.ContributionUpdateResult "Updated contribution with optional sync warning"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contributions/{id} [patch]
func (h *ContributionHandler) UpdateContribution(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.contributionService.Update(workspaceID, c.Param("id"), services.ContributionPatch{
		AmountMinor: req.AmountMinor,
		DateKey:     req.DateKey,
		Note:        req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteContribution handles deleting a contribution.
// @Summary     Delete a contribution
// @Description Delete a contribution and its linked transaction; idempotent
// @Tags        contributions
// @Security    BearerAuth
// @Param       id path string true "Contribution ID"
// @Success     204 "Contribution deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Linked transaction could not be removed"
// @Router      /contributions/{id} [delete]
func (h *ContributionHandler) DeleteContribution(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.contributionService.Delete(workspaceID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
