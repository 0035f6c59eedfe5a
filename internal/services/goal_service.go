package services

import (
	"errors"
	"strings"

	"plutus/internal/currency"
	apperrors "plutus/internal/errors"
	"plutus/internal/metakey"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// goalService handles savings goal business logic.
type goalService struct {
	store repository.Store
	cache *MetaCache
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(store repository.Store, cache *MetaCache) GoalServicer {
	return &goalService{store: store, cache: cache}
}

// Create adds an active goal.
func (s *goalService) Create(workspaceID string, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrValidation, "name", "goal name is required")
	}
	if in.TargetAmountMinor <= 0 {
		return nil, apperrors.WithField(apperrors.ErrValidation, "target_amount_minor", "target amount must be positive")
	}
	if !currency.Valid(in.Currency) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
	}
	if in.Deadline != nil && !models.ValidDateKey(*in.Deadline) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "deadline", "deadline must be a valid YYYY-MM-DD day")
	}

	goal := &models.Goal{
		WorkspaceID:       workspaceID,
		Name:              name,
		TargetAmountMinor: in.TargetAmountMinor,
		Currency:          in.Currency,
		Deadline:          in.Deadline,
		Status:            models.GoalStatusActive,
		Note:              normalizeNote(in.Note),
	}
	if err := s.store.Goals().Create(goal); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return goal, nil
}

// List returns the workspace's live goals.
func (s *goalService) List(workspaceID string) ([]models.Goal, error) {
	gs, err := s.store.Goals().ListLive(workspaceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return gs, nil
}

// Get returns a live goal by id.
func (s *goalService) Get(workspaceID, id string) (*models.Goal, error) {
	g, err := s.store.Goals().GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return g, nil
}

// Update applies the patch to a live goal.
func (s *goalService) Update(workspaceID, id string, patch GoalPatch) (*models.Goal, error) {
	if _, err := s.Get(workspaceID, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithField(apperrors.ErrValidation, "name", "goal name is required")
		}
		updates["name"] = name
	}
	if patch.TargetAmountMinor != nil {
		if *patch.TargetAmountMinor <= 0 {
			return nil, apperrors.WithField(apperrors.ErrValidation, "target_amount_minor", "target amount must be positive")
		}
		updates["target_amount_minor"] = *patch.TargetAmountMinor
	}
	if patch.Deadline != nil {
		if !models.ValidDateKey(*patch.Deadline) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "deadline", "deadline must be a valid YYYY-MM-DD day")
		}
		updates["deadline"] = *patch.Deadline
	}
	if patch.Status != nil {
		if !validGoalStatus(*patch.Status) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "status", "status must be active, completed, or archived")
		}
		updates["status"] = string(*patch.Status)
	}
	if patch.Note != nil {
		updates["note"] = normalizeNote(patch.Note)
	}
	if len(updates) == 0 {
		return s.Get(workspaceID, id)
	}

	if err := s.store.Goals().Update(workspaceID, id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.Get(workspaceID, id)
}

// Delete soft-deletes a goal and its live contributions. Mirrored
// transactions survive; they remain ordinary expenses once the goal is gone.
func (s *goalService) Delete(workspaceID, id string) error {
	if _, err := s.Get(workspaceID, id); err != nil {
		return err
	}

	err := s.store.Atomic(func(tx repository.Store) error {
		cs, err := tx.Contributions().ListByGoalID(workspaceID, id)
		if err != nil {
			return err
		}
		for i := range cs {
			if err := tx.Contributions().SoftDelete(workspaceID, cs[i].ID); err != nil {
				return err
			}
		}
		return tx.Goals().SoftDelete(workspaceID, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

// MarkReachedNotified records that the goal-reached notification fired. The
// marker is portable and survives export/import.
func (s *goalService) MarkReachedNotified(workspaceID, goalID string) error {
	if _, err := s.Get(workspaceID, goalID); err != nil {
		return err
	}
	key := metakey.GoalNotified(workspaceID, goalID).String()
	return s.cache.Set(key, "1")
}

// ReachedNotified reports whether the goal-reached notification fired.
func (s *goalService) ReachedNotified(workspaceID, goalID string) (bool, error) {
	key := metakey.GoalNotified(workspaceID, goalID).String()
	_, ok, err := s.cache.Get(key)
	return ok, err
}

func validGoalStatus(st models.GoalStatus) bool {
	switch st {
	case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusArchived:
		return true
	}
	return false
}
