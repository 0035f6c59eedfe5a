package services

import (
	"testing"
	"time"

	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func newBudgetFixture(t *testing.T) (repository.Store, BudgetServicer) {
	t.Helper()
	store := repository.NewMemoryStore()
	return store, NewBudgetService(store, NewMetaCache(store, time.Minute))
}

func TestCreateBudget(t *testing.T) {
	t.Run("category_scoped", func(t *testing.T) {
		store, svc := newBudgetFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		cat := testutil.CreateTestCategory(t, store, ws.ID)

		month := "2024-06"
		b, err := svc.Create(ws.ID, BudgetInput{CategoryID: &cat.ID, Month: &month, Currency: "USD", LimitMinor: 50000})
		testutil.AssertNoError(t, err)
		if b.CategoryID == nil || *b.CategoryID != cat.ID {
			t.Errorf("expected category %s, got %v", cat.ID, b.CategoryID)
		}
	})

	t.Run("validation", func(t *testing.T) {
		store, svc := newBudgetFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, BudgetInput{Currency: "USD", LimitMinor: 0})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		badMonth := "2024-6"
		_, err = svc.Create(ws.ID, BudgetInput{Currency: "USD", LimitMinor: 100, Month: &badMonth})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		missing := "nope"
		_, err = svc.Create(ws.ID, BudgetInput{Currency: "USD", LimitMinor: 100, CategoryID: &missing})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestBudgetLimitNotified(t *testing.T) {
	store, svc := newBudgetFixture(t)
	ws := testutil.CreateTestWorkspace(t, store)
	budget := testutil.CreateTestBudget(t, store, ws.ID, 50000)

	notified, err := svc.LimitNotified(ws.ID, budget.ID, "2024-06")
	testutil.AssertNoError(t, err)
	if notified {
		t.Error("expected not yet notified")
	}

	testutil.AssertNoError(t, svc.MarkLimitNotified(ws.ID, budget.ID, "2024-06"))

	notified, err = svc.LimitNotified(ws.ID, budget.ID, "2024-06")
	testutil.AssertNoError(t, err)
	if !notified {
		t.Error("expected notified after marking")
	}

	// The marker is per month.
	notified, err = svc.LimitNotified(ws.ID, budget.ID, "2024-07")
	testutil.AssertNoError(t, err)
	if notified {
		t.Error("expected next month unmarked")
	}

	err = svc.MarkLimitNotified(ws.ID, budget.ID, "June 2024")
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}
