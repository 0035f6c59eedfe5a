package services

import (
	"testing"

	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func TestUpdateSettings(t *testing.T) {
	t.Run("patch_applies", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewSettingsService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		testutil.CreateTestSettings(t, store, ws.ID)

		currency := "EUR"
		theme := "dark"
		updated, err := svc.Update(ws.ID, SettingsPatch{Currency: &currency, Theme: &theme})
		testutil.AssertNoError(t, err)
		if updated.Currency != "EUR" || updated.Theme != "dark" {
			t.Errorf("patch not applied: %+v", updated)
		}
	})

	t.Run("validation", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewSettingsService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		testutil.CreateTestSettings(t, store, ws.ID)

		bad := "ZZZ"
		_, err := svc.Update(ws.ID, SettingsPatch{Currency: &bad})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		weekday := 9
		_, err = svc.Update(ws.ID, SettingsPatch{FirstWeekday: &weekday})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		theme := "solarized"
		_, err = svc.Update(ws.ID, SettingsPatch{Theme: &theme})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing_settings_row", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewSettingsService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Get(ws.ID)
		testutil.AssertAppError(t, err, "SETTINGS_NOT_FOUND")
	})
}
