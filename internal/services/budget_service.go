package services

import (
	"errors"

	"plutus/internal/currency"
	apperrors "plutus/internal/errors"
	"plutus/internal/metakey"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// budgetService handles budget business logic. A budget is either overall
// (no category, no month), category-scoped, month-scoped, or both.
type budgetService struct {
	store repository.Store
	cache *MetaCache
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(store repository.Store, cache *MetaCache) BudgetServicer {
	return &budgetService{store: store, cache: cache}
}

// Create adds a budget.
func (s *budgetService) Create(workspaceID string, in BudgetInput) (*models.Budget, error) {
	if in.LimitMinor <= 0 {
		return nil, apperrors.WithField(apperrors.ErrValidation, "limit_minor", "budget limit must be positive")
	}
	if !currency.Valid(in.Currency) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
	}
	if in.Month != nil && !models.ValidMonthKey(*in.Month) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "month", "month must be a valid YYYY-MM value")
	}
	if in.CategoryID != nil {
		if _, err := s.store.Categories().GetByID(workspaceID, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	budget := &models.Budget{
		WorkspaceID: workspaceID,
		CategoryID:  in.CategoryID,
		Month:       in.Month,
		Currency:    in.Currency,
		LimitMinor:  in.LimitMinor,
	}
	if err := s.store.Budgets().Create(budget); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return budget, nil
}

// List returns the workspace's live budgets.
func (s *budgetService) List(workspaceID string) ([]models.Budget, error) {
	bs, err := s.store.Budgets().ListLive(workspaceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return bs, nil
}

// Get returns a live budget by id.
func (s *budgetService) Get(workspaceID, id string) (*models.Budget, error) {
	b, err := s.store.Budgets().GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return b, nil
}

// Update applies the patch to a live budget.
func (s *budgetService) Update(workspaceID, id string, patch BudgetPatch) (*models.Budget, error) {
	if _, err := s.Get(workspaceID, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.LimitMinor != nil {
		if *patch.LimitMinor <= 0 {
			return nil, apperrors.WithField(apperrors.ErrValidation, "limit_minor", "budget limit must be positive")
		}
		updates["limit_minor"] = *patch.LimitMinor
	}
	if patch.Month != nil {
		if !models.ValidMonthKey(*patch.Month) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "month", "month must be a valid YYYY-MM value")
		}
		updates["month"] = *patch.Month
	}
	if len(updates) == 0 {
		return s.Get(workspaceID, id)
	}

	if err := s.store.Budgets().Update(workspaceID, id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.Get(workspaceID, id)
}

// Delete soft-deletes a budget.
func (s *budgetService) Delete(workspaceID, id string) error {
	if err := s.store.Budgets().SoftDelete(workspaceID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// MarkLimitNotified records that the limit notification fired for a budget
// and month. The marker is portable and survives export/import.
func (s *budgetService) MarkLimitNotified(workspaceID, budgetID, month string) error {
	if !models.ValidMonthKey(month) {
		return apperrors.WithField(apperrors.ErrValidation, "month", "month must be a valid YYYY-MM value")
	}
	if _, err := s.Get(workspaceID, budgetID); err != nil {
		return err
	}
	key := metakey.BudgetNotified(workspaceID, budgetID, month).String()
	return s.cache.Set(key, "1")
}

// LimitNotified reports whether the limit notification fired for a budget
// and month.
func (s *budgetService) LimitNotified(workspaceID, budgetID, month string) (bool, error) {
	key := metakey.BudgetNotified(workspaceID, budgetID, month).String()
	_, ok, err := s.cache.Get(key)
	return ok, err
}
