package repository_test

import (
	"errors"
	"testing"

	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/repository"
	"plutus/internal/testutil"
)

// The suite below runs against both Store implementations. Any behavior a
// service relies on belongs here so the two stores cannot drift apart.

func TestGormStoreContract(t *testing.T) {
	runStoreSuite(t, testutil.NewTestStore)
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) repository.Store {
		return repository.NewMemoryStore()
	})
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("CategoryLifecycle", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		c := testutil.CreateTestCategoryNamed(t, store, ws.ID, "Groceries", models.CategoryTypeExpense)
		if c.ID == "" {
			t.Fatal("expected category id to be assigned on create")
		}

		got, err := store.Categories().GetByID(ws.ID, c.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %q", got.Name)
		}

		err = store.Categories().Update(ws.ID, c.ID, map[string]interface{}{"name": "Food"})
		testutil.AssertNoError(t, err)
		got, err = store.Categories().GetByID(ws.ID, c.ID)
		testutil.AssertNoError(t, err)
		if got.Name != "Food" {
			t.Errorf("expected name Food after update, got %q", got.Name)
		}

		testutil.AssertNoError(t, store.Categories().SoftDelete(ws.ID, c.ID))

		if _, err := store.Categories().GetByID(ws.ID, c.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound for soft-deleted category, got %v", err)
		}
		if err := store.Categories().Update(ws.ID, c.ID, map[string]interface{}{"name": "x"}); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound updating soft-deleted category, got %v", err)
		}

		live, err := store.Categories().ListLive(ws.ID)
		testutil.AssertNoError(t, err)
		if len(live) != 0 {
			t.Errorf("expected no live categories, got %d", len(live))
		}
		all, err := store.Categories().ListAll(ws.ID)
		testutil.AssertNoError(t, err)
		if len(all) != 1 {
			t.Errorf("expected 1 category including deleted, got %d", len(all))
		}
	})

	t.Run("CategoryOrdering", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		for i, name := range []string{"Zebra", "Apple", "Mango"} {
			c := &models.Category{
				WorkspaceID: ws.ID,
				Name:        name,
				Type:        models.CategoryTypeExpense,
				SortOrder:   3 - i,
			}
			testutil.AssertNoError(t, store.Categories().Create(c))
		}

		live, err := store.Categories().ListLive(ws.ID)
		testutil.AssertNoError(t, err)
		if len(live) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(live))
		}
		for i, want := range []string{"Mango", "Apple", "Zebra"} {
			if live[i].Name != want {
				t.Errorf("position %d: expected %q, got %q", i, want, live[i].Name)
			}
		}
	})

	t.Run("WorkspaceScoping", func(t *testing.T) {
		store := newStore(t)
		ws1 := testutil.CreateTestWorkspace(t, store)
		ws2 := testutil.CreateTestWorkspace(t, store)

		c := testutil.CreateTestCategory(t, store, ws1.ID)

		if _, err := store.Categories().GetByID(ws2.ID, c.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound across workspaces, got %v", err)
		}
		live, err := store.Categories().ListLive(ws2.ID)
		testutil.AssertNoError(t, err)
		if len(live) != 0 {
			t.Errorf("expected empty list for other workspace, got %d", len(live))
		}
	})

	t.Run("TransactionFilterAndPaging", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		dates := []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04"}
		for i, d := range dates {
			tx := &models.Transaction{
				WorkspaceID: ws.ID,
				Type:        models.TransactionTypeExpense,
				AmountMinor: int64((i + 1) * 100),
				Currency:    "USD",
				DateKey:     d,
			}
			testutil.AssertNoError(t, store.Transactions().Create(tx))
		}
		income := &models.Transaction{
			WorkspaceID: ws.ID,
			Type:        models.TransactionTypeIncome,
			AmountMinor: 5000,
			Currency:    "USD",
			DateKey:     "2024-06-05",
		}
		testutil.AssertNoError(t, store.Transactions().Create(income))

		all, total, err := store.Transactions().ListLive(ws.ID, repository.TransactionFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
		if all[0].DateKey != "2024-06-05" {
			t.Errorf("expected newest date key first, got %q", all[0].DateKey)
		}

		from, to := "2024-06-02", "2024-06-03"
		ranged, total, err := store.Transactions().ListLive(ws.ID, repository.TransactionFilter{
			FromDateKey: &from,
			ToDateKey:   &to,
		}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 2 || len(ranged) != 2 {
			t.Errorf("expected 2 transactions in range, got total=%d len=%d", total, len(ranged))
		}

		expType := models.TransactionTypeExpense
		minAmt := int64(300)
		filtered, total, err := store.Transactions().ListLive(ws.ID, repository.TransactionFilter{
			Type:           &expType,
			MinAmountMinor: &minAmt,
		}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if total != 2 || len(filtered) != 2 {
			t.Errorf("expected 2 expenses >= 300, got total=%d len=%d", total, len(filtered))
		}

		page2, total, err := store.Transactions().ListLive(ws.ID, repository.TransactionFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if total != 5 {
			t.Errorf("expected total 5 on page 2, got %d", total)
		}
		if len(page2) != 2 {
			t.Fatalf("expected 2 items on page 2, got %d", len(page2))
		}
		if page2[0].DateKey != "2024-06-03" {
			t.Errorf("expected page 2 to start at 2024-06-03, got %q", page2[0].DateKey)
		}
	})

	t.Run("TransactionSoftDeleteAndAnyLookup", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		tx := testutil.CreateTestTransaction(t, store, ws.ID, 1500)
		testutil.AssertNoError(t, store.Transactions().SoftDelete(ws.ID, tx.ID))

		if _, err := store.Transactions().GetByID(ws.ID, tx.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound for soft-deleted transaction, got %v", err)
		}
		got, err := store.Transactions().GetByIDAny(ws.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if !got.DeletedAt.Valid {
			t.Error("expected GetByIDAny to surface the deletion marker")
		}
		if err := store.Transactions().SoftDelete(ws.ID, tx.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})

	t.Run("TransactionCategoryCascade", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)
		c := testutil.CreateTestCategory(t, store, ws.ID)

		for i := 0; i < 3; i++ {
			tx := &models.Transaction{
				WorkspaceID: ws.ID,
				Type:        models.TransactionTypeExpense,
				AmountMinor: 100,
				Currency:    "USD",
				DateKey:     "2024-06-10",
				CategoryID:  &c.ID,
			}
			testutil.AssertNoError(t, store.Transactions().Create(tx))
		}

		count, err := store.Transactions().CountByCategory(ws.ID, c.ID)
		testutil.AssertNoError(t, err)
		if count != 3 {
			t.Errorf("expected 3 transactions in category, got %d", count)
		}

		testutil.AssertNoError(t, store.Transactions().UnsetCategory(ws.ID, c.ID))
		count, err = store.Transactions().CountByCategory(ws.ID, c.ID)
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0 transactions after unset, got %d", count)
		}
	})

	t.Run("TransactionUpsertBatchPreservesIDs", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		tx := testutil.CreateTestTransaction(t, store, ws.ID, 1000)
		updated := *tx
		updated.AmountMinor = 2500
		testutil.AssertNoError(t, store.Transactions().UpsertBatch([]models.Transaction{updated}))

		got, err := store.Transactions().GetByID(ws.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.AmountMinor != 2500 {
			t.Errorf("expected upsert to overwrite amount, got %d", got.AmountMinor)
		}

		all, err := store.Transactions().ListAll(ws.ID)
		testutil.AssertNoError(t, err)
		if len(all) != 1 {
			t.Errorf("expected upsert to keep a single row, got %d", len(all))
		}
	})

	t.Run("ContributionLookups", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)
		tx := testutil.CreateTestTransaction(t, store, ws.ID, 700)

		linked := &models.GoalContribution{
			WorkspaceID:         ws.ID,
			GoalID:              goal.ID,
			AmountMinor:         700,
			Currency:            "USD",
			DateKey:             "2024-06-15",
			LinkedTransactionID: &tx.ID,
		}
		testutil.AssertNoError(t, store.Contributions().Create(linked))
		testutil.CreateTestContribution(t, store, ws.ID, goal.ID, 300)

		got, err := store.Contributions().FindByLinkedTransactionID(ws.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.ID != linked.ID {
			t.Errorf("expected linked contribution %s, got %s", linked.ID, got.ID)
		}

		all, err := store.Contributions().ListByGoalID(ws.ID, goal.ID)
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Errorf("expected 2 contributions for goal, got %d", len(all))
		}

		linkedOnly, err := store.Contributions().ListLiveLinked(ws.ID)
		testutil.AssertNoError(t, err)
		if len(linkedOnly) != 1 {
			t.Errorf("expected 1 linked contribution, got %d", len(linkedOnly))
		}

		testutil.AssertNoError(t, store.Contributions().SoftDelete(ws.ID, linked.ID))
		if _, err := store.Contributions().FindByLinkedTransactionID(ws.ID, tx.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound after soft delete, got %v", err)
		}
	})

	t.Run("SettingsOverwrite", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		testutil.CreateTestSettings(t, store, ws.ID)
		incoming := &models.Settings{
			WorkspaceID: ws.ID,
			Currency:    "EUR",
			Locale:      "de-DE",
			Theme:       "dark",
		}
		testutil.AssertNoError(t, store.Settings().Upsert(incoming))

		got, err := store.Settings().GetByWorkspace(ws.ID)
		testutil.AssertNoError(t, err)
		if got.Currency != "EUR" {
			t.Errorf("expected settings to be overwritten, got currency %q", got.Currency)
		}

		testutil.AssertNoError(t, store.Settings().DeleteByWorkspace(ws.ID))
		if _, err := store.Settings().GetByWorkspace(ws.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("MetaSetAndDelete", func(t *testing.T) {
		store := newStore(t)

		testutil.SetTestMeta(t, store, "k1", "v1")
		testutil.SetTestMeta(t, store, "k1", "v2")
		testutil.SetTestMeta(t, store, "k2", "x")

		got, err := store.Meta().Get("k1")
		testutil.AssertNoError(t, err)
		if got.Value != "v2" {
			t.Errorf("expected Set to overwrite, got %q", got.Value)
		}

		testutil.AssertNoError(t, store.Meta().DeleteKeys([]string{"k1"}))
		if _, err := store.Meta().Get("k1"); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound after DeleteKeys, got %v", err)
		}
		if _, err := store.Meta().Get("k2"); err != nil {
			t.Errorf("expected k2 to survive, got %v", err)
		}
	})

	t.Run("AtomicRollback", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		boom := errors.New("boom")
		err := store.Atomic(func(tx repository.Store) error {
			c := &models.Category{WorkspaceID: ws.ID, Name: "Doomed", Type: models.CategoryTypeExpense}
			if err := tx.Categories().Create(c); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected Atomic to surface the callback error, got %v", err)
		}

		live, err := store.Categories().ListLive(ws.ID)
		testutil.AssertNoError(t, err)
		if len(live) != 0 {
			t.Errorf("expected rollback to discard the category, got %d rows", len(live))
		}
	})

	t.Run("AtomicCommit", func(t *testing.T) {
		store := newStore(t)
		ws := testutil.CreateTestWorkspace(t, store)

		err := store.Atomic(func(tx repository.Store) error {
			g := &models.Goal{
				WorkspaceID:       ws.ID,
				Name:              "Committed",
				TargetAmountMinor: 5000,
				Currency:          "USD",
				Status:            models.GoalStatusActive,
			}
			return tx.Goals().Create(g)
		})
		testutil.AssertNoError(t, err)

		gs, err := store.Goals().ListLive(ws.ID)
		testutil.AssertNoError(t, err)
		if len(gs) != 1 {
			t.Errorf("expected committed goal to be visible, got %d rows", len(gs))
		}
	})
}
