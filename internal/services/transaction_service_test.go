package services

import (
	"testing"
	"time"

	"plutus/internal/metakey"
	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func newTransactionFixture(t *testing.T) (repository.Store, TransactionServicer) {
	t.Helper()
	store := repository.NewMemoryStore()
	return store, NewTransactionService(store, NewMetaCache(store, time.Minute))
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		note := "  weekly shop  "

		tx, err := svc.Create(ws.ID, TransactionInput{
			Type:        models.TransactionTypeExpense,
			AmountMinor: 4599,
			Currency:    "USD",
			DateKey:     "2024-06-15",
			Note:        &note,
		})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected generated transaction id")
		}
		if tx.Note == nil || *tx.Note != "weekly shop" {
			t.Errorf("expected trimmed note, got %v", tx.Note)
		}
	})

	t.Run("validation", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, TransactionInput{Type: "loan", AmountMinor: 100, Currency: "USD", DateKey: "2024-06-15"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Create(ws.ID, TransactionInput{Type: models.TransactionTypeExpense, AmountMinor: -5, Currency: "USD", DateKey: "2024-06-15"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Create(ws.ID, TransactionInput{Type: models.TransactionTypeExpense, AmountMinor: 100, Currency: "USD", DateKey: "2024-02-30"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_category", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		catID := "nope"

		_, err := svc.Create(ws.ID, TransactionInput{
			Type: models.TransactionTypeExpense, AmountMinor: 100, Currency: "USD", DateKey: "2024-06-15", CategoryID: &catID,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("remembers_defaults", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		cat := testutil.CreateTestCategory(t, store, ws.ID)

		_, err := svc.Create(ws.ID, TransactionInput{
			Type: models.TransactionTypeIncome, AmountMinor: 100, Currency: "EUR", DateKey: "2024-06-15", CategoryID: &cat.ID,
		})
		testutil.AssertNoError(t, err)

		defaults, ok, err := svc.LastDefaults(ws.ID)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("expected remembered defaults")
		}
		if defaults.Type != models.TransactionTypeIncome || defaults.Currency != "EUR" {
			t.Errorf("unexpected defaults: %+v", defaults)
		}
		if defaults.CategoryID == nil || *defaults.CategoryID != cat.ID {
			t.Errorf("expected category default %s, got %v", cat.ID, defaults.CategoryID)
		}
	})
}

func TestLastDefaults(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		_, ok, err := svc.LastDefaults(ws.ID)
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("expected no defaults for a fresh workspace")
		}
	})

	t.Run("malformed_payload_discarded", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		testutil.SetTestMeta(t, store, metakey.LastTransaction(ws.ID).String(), "{not json")

		_, ok, err := svc.LastDefaults(ws.ID)
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("expected malformed defaults discarded")
		}
	})
}

func TestListTransactions(t *testing.T) {
	store, svc := newTransactionFixture(t)
	ws := testutil.CreateTestWorkspace(t, store)
	for i, amount := range []int64{100, 200, 300} {
		tx := testutil.CreateTestTransaction(t, store, ws.ID, amount)
		dateKey := "2024-06-1" + string(rune('0'+i))
		testutil.AssertNoError(t, store.Transactions().Update(ws.ID, tx.ID, map[string]interface{}{"date_key": dateKey}))
	}

	min := int64(150)
	page, err := svc.List(ws.ID, repository.TransactionFilter{MinAmountMinor: &min}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 || len(page.Data) != 2 {
		t.Fatalf("expected 2 matching rows, got total=%d len=%d", page.TotalItems, len(page.Data))
	}
	if page.Data[0].DateKey < page.Data[1].DateKey {
		t.Errorf("expected newest first, got %s before %s", page.Data[0].DateKey, page.Data[1].DateKey)
	}
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("clear_category", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		cat := testutil.CreateTestCategory(t, store, ws.ID)
		tx := testutil.CreateTestTransaction(t, store, ws.ID, 100)
		testutil.AssertNoError(t, store.Transactions().Update(ws.ID, tx.ID, map[string]interface{}{"category_id": cat.ID}))

		updated, err := svc.Update(ws.ID, tx.ID, TransactionPatch{ClearCategory: true})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %v", updated.CategoryID)
		}
	})

	t.Run("unknown_transaction", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		amount := int64(100)
		_, err := svc.Update(ws.ID, "nope", TransactionPatch{AmountMinor: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("unlinks_mirroring_contribution", func(t *testing.T) {
		store := repository.NewMemoryStore()
		txSvc := NewTransactionService(store, NewMetaCache(store, time.Minute))
		contribSvc := NewGoalContributionService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)

		c, err := contribSvc.Add(ws.ID, goal.ID, ContributionInput{
			AmountMinor: 1000, Currency: "USD", DateKey: "2024-06-01", CreateTransaction: true,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, txSvc.Delete(ws.ID, *c.LinkedTransactionID))

		stored, err := store.Contributions().GetByID(ws.ID, c.ID)
		testutil.AssertNoError(t, err)
		if stored.LinkedTransactionID != nil {
			t.Errorf("expected contribution unlinked, got %v", stored.LinkedTransactionID)
		}
	})

	t.Run("unknown_transaction", func(t *testing.T) {
		store, svc := newTransactionFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		err := svc.Delete(ws.ID, "nope")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
