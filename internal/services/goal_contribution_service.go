package services

import (
	"errors"
	"strings"

	"plutus/internal/currency"
	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// goalContributionService owns the contribution side of the
// contribution/transaction pair. The contribution is authoritative; the
// mirrored transaction follows it.
type goalContributionService struct {
	store repository.Store
}

// NewGoalContributionService creates a new GoalContributionServicer.
func NewGoalContributionService(store repository.Store) GoalContributionServicer {
	return &goalContributionService{store: store}
}

// Add records a contribution and, when requested, the mirroring expense
// transaction, linked both ways within the same atomic write. The goal's
// running total is recomputed from its live contributions before the write
// commits.
func (s *goalContributionService) Add(workspaceID, goalID string, in ContributionInput) (*models.GoalContribution, error) {
	if in.AmountMinor <= 0 {
		return nil, apperrors.WithField(apperrors.ErrValidation, "amount_minor", "contribution amount must be positive")
	}
	if !currency.Valid(in.Currency) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
	}
	if !models.ValidDateKey(in.DateKey) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "date_key", "date must be a valid YYYY-MM-DD day")
	}
	note := normalizeNote(in.Note)

	goal, err := s.store.Goals().GetByID(workspaceID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	if in.CategoryID != nil {
		if _, err := s.store.Categories().GetByID(workspaceID, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrStorage, err)
		}
	}

	contribution := &models.GoalContribution{
		WorkspaceID: workspaceID,
		GoalID:      goal.ID,
		AmountMinor: in.AmountMinor,
		Currency:    in.Currency,
		DateKey:     in.DateKey,
		Note:        note,
	}

	err = s.store.Atomic(func(tx repository.Store) error {
		if in.CreateTransaction {
			mirror := &models.Transaction{
				WorkspaceID:  workspaceID,
				Type:         models.TransactionTypeExpense,
				AmountMinor:  in.AmountMinor,
				Currency:     in.Currency,
				DateKey:      in.DateKey,
				CategoryID:   in.CategoryID,
				Note:         note,
				LinkedGoalID: &goal.ID,
			}
			if err := tx.Transactions().Create(mirror); err != nil {
				return err
			}
			contribution.LinkedTransactionID = &mirror.ID
		}
		if err := tx.Contributions().Create(contribution); err != nil {
			return err
		}
		return recomputeGoalAmount(tx, workspaceID, goal.ID)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	return contribution, nil
}

// Update persists the contribution edit, recomputes the goal total, and then
// propagates the changed fields to the linked transaction. The propagation
// happens after the contribution's own write committed: a failure there
// never loses the user's edit, it surfaces as a SyncWarning instead.
func (s *goalContributionService) Update(workspaceID, contributionID string, patch ContributionPatch) (*ContributionUpdateResult, error) {
	if patch.AmountMinor != nil && *patch.AmountMinor <= 0 {
		return nil, apperrors.WithField(apperrors.ErrValidation, "amount_minor", "contribution amount must be positive")
	}
	if patch.DateKey != nil && !models.ValidDateKey(*patch.DateKey) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "date_key", "date must be a valid YYYY-MM-DD day")
	}

	contribution, err := s.store.Contributions().GetByID(workspaceID, contributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	updates := map[string]interface{}{}
	if patch.AmountMinor != nil {
		updates["amount_minor"] = *patch.AmountMinor
	}
	if patch.DateKey != nil {
		updates["date_key"] = *patch.DateKey
	}
	if patch.Note != nil {
		updates["note"] = normalizeNote(patch.Note)
	}
	if len(updates) == 0 {
		return &ContributionUpdateResult{Contribution: contribution}, nil
	}

	err = s.store.Atomic(func(tx repository.Store) error {
		if err := tx.Contributions().Update(workspaceID, contributionID, updates); err != nil {
			return err
		}
		return recomputeGoalAmount(tx, workspaceID, contribution.GoalID)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	contribution, err = s.store.Contributions().GetByID(workspaceID, contributionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	result := &ContributionUpdateResult{Contribution: contribution}
	if contribution.LinkedTransactionID != nil {
		result.SyncWarning = s.propagateToTransaction(workspaceID, contribution, updates)
	}
	return result, nil
}

// propagateToTransaction pushes the changed fields onto the mirrored
// transaction. A vanished transaction drops the link; any other failure
// leaves the transaction stale and reports it.
func (s *goalContributionService) propagateToTransaction(workspaceID string, c *models.GoalContribution, updates map[string]interface{}) *SyncWarning {
	txID := *c.LinkedTransactionID
	txUpdates := map[string]interface{}{}
	for _, col := range []string{"amount_minor", "date_key", "note"} {
		if v, ok := updates[col]; ok {
			txUpdates[col] = v
		}
	}
	if len(txUpdates) == 0 {
		return nil
	}

	err := s.store.Transactions().Update(workspaceID, txID, txUpdates)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		if unlinkErr := s.store.Contributions().Update(workspaceID, c.ID, map[string]interface{}{"linked_transaction_id": nil}); unlinkErr != nil {
			logger.Get().Warnw("failed to drop dangling transaction link",
				"contribution_id", c.ID, "transaction_id", txID, "error", unlinkErr)
		}
		c.LinkedTransactionID = nil
		return &SyncWarning{
			TransactionID: txID,
			Message:       "linked transaction no longer exists; the link was removed",
		}
	}
	logger.Get().Errorw("failed to propagate contribution edit to linked transaction",
		"contribution_id", c.ID, "transaction_id", txID, "error", err)
	return &SyncWarning{
		TransactionID: txID,
		Message:       "linked transaction could not be updated and is now stale",
	}
}

// Delete removes a contribution and its mirrored transaction. Deleting an
// absent contribution is a no-op. The transaction goes first: if it cannot
// be removed the contribution is kept so the pair stays consistent, and the
// caller gets STORAGE_ERROR.
func (s *goalContributionService) Delete(workspaceID, contributionID string) error {
	contribution, err := s.store.Contributions().GetByID(workspaceID, contributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}

	if contribution.LinkedTransactionID != nil {
		txID := *contribution.LinkedTransactionID
		linked, err := s.store.Transactions().GetByIDAny(workspaceID, txID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// already gone, nothing to remove
		case err != nil:
			return apperrors.Wrap(apperrors.ErrStorage, err)
		case !linked.DeletedAt.Valid:
			if err := s.store.Transactions().SoftDelete(workspaceID, txID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				// The delete may have failed after the row was already
				// removed by a concurrent path. Re-fetch: only a transaction
				// that is still live makes the failure genuine.
				recheck, refetchErr := s.store.Transactions().GetByIDAny(workspaceID, txID)
				gone := errors.Is(refetchErr, repository.ErrNotFound) ||
					(refetchErr == nil && recheck.DeletedAt.Valid)
				if !gone {
					storageErr := apperrors.WithField(apperrors.ErrStorage, "transaction_id", "linked transaction "+txID+" could not be deleted")
					storageErr.Internal = err
					return storageErr
				}
			}
		}
	}

	err = s.store.Atomic(func(tx repository.Store) error {
		if err := tx.Contributions().SoftDelete(workspaceID, contributionID); err != nil {
			return err
		}
		return recomputeGoalAmount(tx, workspaceID, contribution.GoalID)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// GetByID returns a live contribution.
func (s *goalContributionService) GetByID(workspaceID, contributionID string) (*models.GoalContribution, error) {
	c, err := s.store.Contributions().GetByID(workspaceID, contributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return c, nil
}

// FindByLinkedTransactionID returns the live contribution whose mirror is
// the given transaction.
func (s *goalContributionService) FindByLinkedTransactionID(workspaceID, transactionID string) (*models.GoalContribution, error) {
	c, err := s.store.Contributions().FindByLinkedTransactionID(workspaceID, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrContributionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return c, nil
}

// ListByGoal returns the goal's live contributions, newest first.
func (s *goalContributionService) ListByGoal(workspaceID, goalID string) ([]models.GoalContribution, error) {
	if _, err := s.store.Goals().GetByID(workspaceID, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	cs, err := s.store.Contributions().ListByGoalID(workspaceID, goalID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return cs, nil
}

// recomputeGoalAmount rewrites the goal's running total from its live
// contributions. It runs inside the same atomic write as the contribution
// mutation that made it necessary.
func recomputeGoalAmount(tx repository.Store, workspaceID, goalID string) error {
	cs, err := tx.Contributions().ListByGoalID(workspaceID, goalID)
	if err != nil {
		return err
	}
	var total int64
	for i := range cs {
		total += cs[i].AmountMinor
	}
	return tx.Goals().Update(workspaceID, goalID, map[string]interface{}{"current_amount_minor": total})
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
