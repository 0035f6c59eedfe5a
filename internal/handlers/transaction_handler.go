package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "plutus/internal/errors"
	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/repository"
	"plutus/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	AmountMinor int64                  `json:"amount_minor" binding:"required,gt=0"`
	Currency    string                 `json:"currency" binding:"required,iso4217"`
	DateKey     string                 `json:"date_key" binding:"required,date_key"`
	CategoryID  *string                `json:"category_id"`
	Note        *string                `json:"note" binding:"omitempty,max=500"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
type UpdateTransactionRequest struct {
	Type          *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	AmountMinor   *int64                  `json:"amount_minor" binding:"omitempty,gt=0"`
	Currency      *string                 `json:"currency" binding:"omitempty,iso4217"`
	DateKey       *string                 `json:"date_key" binding:"omitempty,date_key"`
	CategoryID    *string                 `json:"category_id"`
	ClearCategory bool                    `json:"clear_category"`
	Note          *string                 `json:"note" binding:"omitempty,max=500"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Create a new transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	transaction, err := h.transactionService.Create(workspaceID, services.TransactionInput{
		Type:        req.Type,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		DateKey:     req.DateKey,
		CategoryID:  req.CategoryID,
		Note:        req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles listing transactions with filters and paging.
// @Summary     Get transactions
// @Description Get a filtered, paginated list of transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from        query string false "Earliest date key (YYYY-MM-DD)"
// @Param       to          query string false "Latest date key (YYYY-MM-DD)"
// @Param       type        query string false "Filter by type"
// @Param       category_id query string false "Filter by category"
// @Param       min_amount  query int    false "Minimum amount in minor units"
// @Param       max_amount  query int    false "Maximum amount in minor units"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.List(workspaceID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter

	if v := c.Query("from"); v != "" {
		if !models.ValidDateKey(v) {
			return filter, apperrors.WithField(apperrors.ErrValidation, "from", "from must be a valid YYYY-MM-DD day")
		}
		filter.FromDateKey = &v
	}
	if v := c.Query("to"); v != "" {
		if !models.ValidDateKey(v) {
			return filter, apperrors.WithField(apperrors.ErrValidation, "to", "to must be a valid YYYY-MM-DD day")
		}
		filter.ToDateKey = &v
	}
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		switch t {
		case models.TransactionTypeExpense, models.TransactionTypeIncome, models.TransactionTypeTransfer:
			filter.Type = &t
		default:
			return filter, apperrors.WithField(apperrors.ErrValidation, "type", "type must be expense, income, or transfer")
		}
	}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("min_amount"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithField(apperrors.ErrValidation, "min_amount", "min_amount must be an integer")
		}
		filter.MinAmountMinor = &n
	}
	if v := c.Query("max_amount"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithField(apperrors.ErrValidation, "max_amount", "max_amount must be an integer")
		}
		filter.MaxAmountMinor = &n
	}
	return filter, nil
}

// GetTransaction handles fetching one transaction.
// @Summary     Get a transaction
// @Description Get a live transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.Get(workspaceID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating a transaction.
// @Summary     Update a transaction
// @Description Update a transaction's fields
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	transaction, err := h.transactionService.Update(workspaceID, c.Param("id"), services.TransactionPatch{
		Type:          req.Type,
		AmountMinor:   req.AmountMinor,
		Currency:      req.Currency,
		DateKey:       req.DateKey,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Note:          req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction; a mirroring contribution is unlinked
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.Delete(workspaceID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTransactionDefaults handles fetching the remembered form defaults.
// @Summary     Get transaction defaults
// @Description Get the form defaults remembered from the last created transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.TransactionDefaults "Defaults"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/defaults [get]
func (h *TransactionHandler) GetTransactionDefaults(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	defaults, ok, err := h.transactionService.LastDefaults(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"defaults": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"defaults": defaults})
}
