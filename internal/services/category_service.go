package services

import (
	"errors"
	"strings"

	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// categoryService handles category business logic.
type categoryService struct {
	store repository.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store repository.Store) CategoryServicer {
	return &categoryService{store: store}
}

// Create adds a category. The (type, normalized name) pair must not collide
// with any live category in the workspace.
func (s *categoryService) Create(workspaceID, name string, ctype models.CategoryType, sortOrder int) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrValidation, "name", "category name is required")
	}
	if !validCategoryType(ctype) {
		return nil, apperrors.WithField(apperrors.ErrValidation, "type", "type must be expense, income, or both")
	}

	category := &models.Category{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        ctype,
		SortOrder:   sortOrder,
	}
	taken, err := s.nameTaken(workspaceID, category.DedupKey(), "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrCategoryNameTaken
	}

	if err := s.store.Categories().Create(category); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return category, nil
}

// List returns the workspace's live categories in display order.
func (s *categoryService) List(workspaceID string) ([]models.Category, error) {
	cs, err := s.store.Categories().ListLive(workspaceID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return cs, nil
}

// Get returns a live category by id.
func (s *categoryService) Get(workspaceID, id string) (*models.Category, error) {
	c, err := s.store.Categories().GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return c, nil
}

// Update applies the patch. Renames and type changes re-check uniqueness
// against the live set, excluding the category itself.
func (s *categoryService) Update(workspaceID, id string, patch CategoryPatch) (*models.Category, error) {
	current, err := s.Get(workspaceID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	candidate := *current
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithField(apperrors.ErrValidation, "name", "category name is required")
		}
		candidate.Name = name
		updates["name"] = name
	}
	if patch.Type != nil {
		if !validCategoryType(*patch.Type) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "type", "type must be expense, income, or both")
		}
		candidate.Type = *patch.Type
		updates["type"] = string(*patch.Type)
	}
	if patch.SortOrder != nil {
		updates["sort_order"] = *patch.SortOrder
	}
	if patch.IsArchived != nil {
		updates["is_archived"] = *patch.IsArchived
	}
	if len(updates) == 0 {
		return current, nil
	}

	if candidate.DedupKey() != current.DedupKey() {
		taken, err := s.nameTaken(workspaceID, candidate.DedupKey(), id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrCategoryNameTaken
		}
	}

	if err := s.store.Categories().Update(workspaceID, id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return s.Get(workspaceID, id)
}

// Delete soft-deletes a category. Live transactions referencing it become
// uncategorized in the same atomic write.
func (s *categoryService) Delete(workspaceID, id string) error {
	if _, err := s.Get(workspaceID, id); err != nil {
		return err
	}

	err := s.store.Atomic(func(tx repository.Store) error {
		count, err := tx.Transactions().CountByCategory(workspaceID, id)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Get().Infow("unsetting category on transactions before delete",
				"workspace_id", workspaceID, "category_id", id, "transactions", count)
			if err := tx.Transactions().UnsetCategory(workspaceID, id); err != nil {
				return err
			}
		}
		return tx.Categories().SoftDelete(workspaceID, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

func (s *categoryService) nameTaken(workspaceID string, key models.CategoryKey, excludeID string) (bool, error) {
	live, err := s.store.Categories().ListLive(workspaceID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	for i := range live {
		if live[i].ID == excludeID {
			continue
		}
		if live[i].DedupKey() == key {
			return true, nil
		}
	}
	return false, nil
}

func validCategoryType(t models.CategoryType) bool {
	switch t {
	case models.CategoryTypeExpense, models.CategoryTypeIncome, models.CategoryTypeBoth:
		return true
	}
	return false
}
