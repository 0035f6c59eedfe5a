package services

import (
	"errors"

	"plutus/internal/currency"
	apperrors "plutus/internal/errors"
	"plutus/internal/models"
	"plutus/internal/repository"
)

// settingsService handles per-workspace preferences.
type settingsService struct {
	store repository.Store
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(store repository.Store) SettingsServicer {
	return &settingsService{store: store}
}

// Get returns the workspace's settings row.
func (s *settingsService) Get(workspaceID string) (*models.Settings, error) {
	settings, err := s.store.Settings().GetByWorkspace(workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrSettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return settings, nil
}

// Update applies the patch to the settings row.
func (s *settingsService) Update(workspaceID string, patch SettingsPatch) (*models.Settings, error) {
	settings, err := s.Get(workspaceID)
	if err != nil {
		return nil, err
	}

	if patch.Currency != nil {
		if !currency.Valid(*patch.Currency) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "currency", "unknown currency code")
		}
		settings.Currency = *patch.Currency
	}
	if patch.Locale != nil {
		settings.Locale = *patch.Locale
	}
	if patch.FirstWeekday != nil {
		if *patch.FirstWeekday < 0 || *patch.FirstWeekday > 6 {
			return nil, apperrors.WithField(apperrors.ErrValidation, "first_weekday", "first weekday must be between 0 and 6")
		}
		settings.FirstWeekday = *patch.FirstWeekday
	}
	if patch.Theme != nil {
		switch *patch.Theme {
		case "light", "dark", "system":
			settings.Theme = *patch.Theme
		default:
			return nil, apperrors.WithField(apperrors.ErrValidation, "theme", "theme must be light, dark, or system")
		}
	}

	if err := s.store.Settings().Upsert(settings); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return settings, nil
}
