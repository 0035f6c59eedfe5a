package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "plutus/internal/errors"
	"plutus/internal/logger"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// workspaceService handles workspace creation and unlock.
type workspaceService struct {
	store     repository.Store
	migration MigrationServicer
}

// NewWorkspaceService creates a new WorkspaceServicer.
func NewWorkspaceService(store repository.Store, migration MigrationServicer) WorkspaceServicer {
	return &workspaceService{store: store, migration: migration}
}

// Create adds a workspace with default settings. The passphrase is optional;
// when empty the workspace opens without one.
func (s *workspaceService) Create(name, passphrase string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrValidation, "name", "workspace name is required")
	}

	ws := &models.Workspace{Name: name}
	if passphrase != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		ws.PassphraseHash = string(hash)
	}

	err := s.store.Atomic(func(tx repository.Store) error {
		if err := tx.Workspaces().Create(ws); err != nil {
			return err
		}
		return tx.Settings().Upsert(&models.Settings{
			WorkspaceID:  ws.ID,
			Currency:     "USD",
			Locale:       "en-US",
			FirstWeekday: 1,
			Theme:        "system",
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return ws, nil
}

// Unlock verifies the passphrase and runs the back-reference migration. The
// migration is best-effort here: an unlock never fails because old data
// needs fixing, it just logs and moves on.
func (s *workspaceService) Unlock(workspaceID, passphrase string) (*models.Workspace, error) {
	ws, err := s.Get(workspaceID)
	if err != nil {
		return nil, err
	}

	if ws.PassphraseHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(ws.PassphraseHash), []byte(passphrase)); err != nil {
			return nil, apperrors.ErrInvalidPassphrase
		}
	}

	check, err := s.migration.Check(workspaceID)
	if err != nil {
		logger.Get().Warnw("back-reference check failed during unlock",
			"workspace_id", workspaceID, "error", err)
	} else if check.Needed {
		if _, err := s.migration.Migrate(workspaceID); err != nil {
			logger.Get().Warnw("back-reference migration failed during unlock",
				"workspace_id", workspaceID, "error", err)
		}
	}

	return ws, nil
}

// List returns all workspaces on this device.
func (s *workspaceService) List() ([]models.Workspace, error) {
	ws, err := s.store.Workspaces().List()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return ws, nil
}

// Get returns a workspace by id.
func (s *workspaceService) Get(workspaceID string) (*models.Workspace, error) {
	ws, err := s.store.Workspaces().GetByID(workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return ws, nil
}
