package services

import (
	"encoding/json"
	"errors"

	"plutus/internal/currency"
	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/metakey"
	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/repository"
)

// transactionService handles transaction business logic.
type transactionService struct {
	store repository.Store
	cache *MetaCache
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(store repository.Store, cache *MetaCache) TransactionServicer {
	return &transactionService{store: store, cache: cache}
}

// Create validates and stores a transaction, then remembers its type,
// currency, and category as form defaults for the next one.
func (s *transactionService) Create(workspaceID string, in TransactionInput) (*models.Transaction, error) {
	if !validTransactionType(in.Type) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "type", "type must be expense, income, or transfer")
	}
	if in.AmountMinor <= 0 {
		return nil, apperrors.WithField(apperrors.ErrValidation, "amount_minor", "transaction amount must be positive")
	}
	if !currency.Valid(in.Currency) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
	}
	if !models.ValidDateKey(in.DateKey) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "date_key", "date must be a valid YYYY-MM-DD day")
	}
	if in.CategoryID != nil {
		if _, err := s.store.Categories().GetByID(workspaceID, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	transaction := &models.Transaction{
		WorkspaceID: workspaceID,
		Type:        in.Type,
		AmountMinor: in.AmountMinor,
		Currency:    in.Currency,
		DateKey:     in.DateKey,
		CategoryID:  in.CategoryID,
		Note:        normalizeNote(in.Note),
	}
	if err := s.store.Transactions().Create(transaction); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	s.rememberDefaults(workspaceID, transaction)
	return transaction, nil
}

// List returns a filtered, paginated page of live transactions.
func (s *transactionService) List(workspaceID string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	ts, totalItems, err := s.store.Transactions().ListLive(workspaceID, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	result := pagination.NewPageResponse(ts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Get returns a live transaction by id.
func (s *transactionService) Get(workspaceID, id string) (*models.Transaction, error) {
	t, err := s.store.Transactions().GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return t, nil
}

// Update applies the patch to a live transaction.
func (s *transactionService) Update(workspaceID, id string, patch TransactionPatch) (*models.Transaction, error) {
	if _, err := s.Get(workspaceID, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Type != nil {
		if !validTransactionType(*patch.Type) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "type", "type must be expense, income, or transfer")
		}
		updates["type"] = string(*patch.Type)
	}
	if patch.AmountMinor != nil {
		if *patch.AmountMinor <= 0 {
			return nil, apperrors.WithField(apperrors.ErrValidation, "amount_minor", "transaction amount must be positive")
		}
		updates["amount_minor"] = *patch.AmountMinor
	}
	if patch.Currency != nil {
		if !currency.Valid(*patch.Currency) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
		}
		updates["currency"] = *patch.Currency
	}
	if patch.DateKey != nil {
		if !models.ValidDateKey(*patch.DateKey) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "date_key", "date must be a valid YYYY-MM-DD day")
		}
		updates["date_key"] = *patch.DateKey
	}
	if patch.ClearCategory {
		updates["category_id"] = nil
	} else if patch.CategoryID != nil {
		if _, err := s.store.Categories().GetByID(workspaceID, *patch.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Note != nil {
		updates["note"] = normalizeNote(patch.Note)
	}
	if len(updates) == 0 {
		return s.Get(workspaceID, id)
	}

	if err := s.store.Transactions().Update(workspaceID, id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.Get(workspaceID, id)
}

// Delete soft-deletes a transaction. If a live contribution mirrors it, the
// contribution is unlinked in the same atomic write so it does not point at
// a deleted row.
func (s *transactionService) Delete(workspaceID, id string) error {
	if _, err := s.Get(workspaceID, id); err != nil {
		return err
	}

	err := s.store.Atomic(func(tx repository.Store) error {
		c, err := tx.Contributions().FindByLinkedTransactionID(workspaceID, id)
		if err == nil {
			if err := tx.Contributions().Update(workspaceID, c.ID, map[string]interface{}{"linked_transaction_id": nil}); err != nil {
				return err
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return tx.Transactions().SoftDelete(workspaceID, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// LastDefaults returns the remembered form defaults, if any.
func (s *transactionService) LastDefaults(workspaceID string) (*TransactionDefaults, bool, error) {
	key := metakey.LastTransaction(workspaceID).String()
	value, ok, err := s.cache.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	var defaults TransactionDefaults
	if err := json.Unmarshal([]byte(value), &defaults); err != nil {
		logger.Get().Warnw("discarding malformed transaction defaults",
			"workspace_id", workspaceID, "error", err)
		return nil, false, nil
	}
	return &defaults, true, nil
}

// rememberDefaults is best-effort; a failed write only loses a convenience.
func (s *transactionService) rememberDefaults(workspaceID string, t *models.Transaction) {
	defaults := TransactionDefaults{
		Type:       t.Type,
		Currency:   t.Currency,
		CategoryID: t.CategoryID,
	}
	payload, err := json.Marshal(defaults)
	if err != nil {
		return
	}
	key := metakey.LastTransaction(workspaceID).String()
	if err := s.cache.Set(key, string(payload)); err != nil {
		logger.Get().Warnw("failed to remember transaction defaults",
			"workspace_id", workspaceID, "error", err)
	}
}

func validTransactionType(t models.TransactionType) bool {
	switch t {
	case models.TransactionTypeExpense, models.TransactionTypeIncome, models.TransactionTypeTransfer:
		return true
	}
	return false
}
