package services

import (
	"testing"

	"plutus/internal/models"
	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		cat, err := svc.Create(ws.ID, "Groceries", models.CategoryTypeExpense, 3)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected generated category id")
		}
		if cat.Name != "Groceries" || cat.Type != models.CategoryTypeExpense || cat.SortOrder != 3 {
			t.Errorf("unexpected category: %+v", cat)
		}
	})

	t.Run("duplicate_name_same_type", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, "Food", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)

		_, err = svc.Create(ws.ID, "  food  ", models.CategoryTypeExpense, 0)
		testutil.AssertAppError(t, err, "CATEGORY_NAME_TAKEN")
	})

	t.Run("same_name_different_type", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, "Other", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)

		_, err = svc.Create(ws.ID, "Other", models.CategoryTypeIncome, 0)
		testutil.AssertNoError(t, err)
	})

	t.Run("name_free_after_delete", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		cat, err := svc.Create(ws.ID, "Food", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.Delete(ws.ID, cat.ID))

		_, err = svc.Create(ws.ID, "Food", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid_input", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, "   ", models.CategoryTypeExpense, 0)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Create(ws.ID, "Stuff", models.CategoryType("weird"), 0)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("rename_checks_uniqueness", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, "Food", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)
		cat, err := svc.Create(ws.ID, "Travel", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)

		name := "FOOD"
		_, err = svc.Update(ws.ID, cat.ID, CategoryPatch{Name: &name})
		testutil.AssertAppError(t, err, "CATEGORY_NAME_TAKEN")
	})

	t.Run("rename_to_own_name_allowed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		cat, err := svc.Create(ws.ID, "Food", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)

		name := "food"
		updated, err := svc.Update(ws.ID, cat.ID, CategoryPatch{Name: &name})
		testutil.AssertNoError(t, err)
		if updated.Name != "food" {
			t.Errorf("expected rename applied, got %s", updated.Name)
		}
	})

	t.Run("archive", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		cat, err := svc.Create(ws.ID, "Old Stuff", models.CategoryTypeExpense, 0)
		testutil.AssertNoError(t, err)

		archived := true
		updated, err := svc.Update(ws.ID, cat.ID, CategoryPatch{IsArchived: &archived})
		testutil.AssertNoError(t, err)
		if !updated.IsArchived {
			t.Error("expected category archived")
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unsets_category_on_transactions", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		cat := testutil.CreateTestCategory(t, store, ws.ID)

		tx := testutil.CreateTestTransaction(t, store, ws.ID, 1000)
		testutil.AssertNoError(t, store.Transactions().Update(ws.ID, tx.ID, map[string]interface{}{"category_id": cat.ID}))

		testutil.AssertNoError(t, svc.Delete(ws.ID, cat.ID))

		got, err := store.Transactions().GetByID(ws.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.CategoryID != nil {
			t.Errorf("expected transaction uncategorized, got %v", got.CategoryID)
		}
		if _, err := svc.Get(ws.ID, cat.ID); err == nil {
			t.Error("expected category gone")
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCategoryService(store)
		ws := testutil.CreateTestWorkspace(t, store)

		err := svc.Delete(ws.ID, "nope")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
