package services

import (
	"strings"
	"testing"

	"plutus/internal/metakey"
	"plutus/internal/repository"
	"plutus/internal/testutil"
)

// linkPair creates a contribution linked to a transaction that lacks the
// goal back-reference, the shape older data carries.
func linkPair(t *testing.T, store repository.Store, workspaceID, goalID string) (contributionID, transactionID string) {
	t.Helper()
	tx := testutil.CreateTestTransaction(t, store, workspaceID, 1000)
	c := testutil.CreateTestContribution(t, store, workspaceID, goalID, 1000)
	if err := store.Contributions().Update(workspaceID, c.ID, map[string]interface{}{"linked_transaction_id": tx.ID}); err != nil {
		t.Fatalf("failed to link contribution: %v", err)
	}
	return c.ID, tx.ID
}

func TestMigrationCheck(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewMigrationService(store)
	ws := testutil.CreateTestWorkspace(t, store)
	goal := testutil.CreateTestGoal(t, store, ws.ID)

	check, err := svc.Check(ws.ID)
	testutil.AssertNoError(t, err)
	if check.Needed || check.Unmigrated != 0 {
		t.Fatalf("empty workspace must not need migration: %+v", check)
	}

	linkPair(t, store, ws.ID, goal.ID)
	linkPair(t, store, ws.ID, goal.ID)

	// A contribution whose transaction vanished is not counted by the check.
	_, goneTxID := linkPair(t, store, ws.ID, goal.ID)
	testutil.AssertNoError(t, store.Transactions().SoftDelete(ws.ID, goneTxID))

	check, err = svc.Check(ws.ID)
	testutil.AssertNoError(t, err)
	if !check.Needed || check.Unmigrated != 2 {
		t.Errorf("expected 2 unmigrated, got %+v", check)
	}
}

func TestMigrate(t *testing.T) {
	t.Run("backfills_and_is_idempotent", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewMigrationService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)
		_, txID := linkPair(t, store, ws.ID, goal.ID)

		report, err := svc.Migrate(ws.ID)
		testutil.AssertNoError(t, err)
		if !report.Success || report.Migrated != 1 {
			t.Fatalf("unexpected report: %+v", report)
		}

		tx, err := store.Transactions().GetByID(ws.ID, txID)
		testutil.AssertNoError(t, err)
		if tx.LinkedGoalID == nil || *tx.LinkedGoalID != goal.ID {
			t.Errorf("expected back-reference to %s, got %v", goal.ID, tx.LinkedGoalID)
		}

		m, err := store.Meta().Get(metakey.SchemaVersion(ws.ID).String())
		testutil.AssertNoError(t, err)
		if m.Value != "1" {
			t.Errorf("expected schema version marker 1, got %s", m.Value)
		}

		report, err = svc.Migrate(ws.ID)
		testutil.AssertNoError(t, err)
		if !report.Success || report.Migrated != 0 {
			t.Errorf("second run must be a no-op, got %+v", report)
		}

		check, err := svc.Check(ws.ID)
		testutil.AssertNoError(t, err)
		if check.Needed {
			t.Errorf("expected nothing left to migrate, got %+v", check)
		}
	})

	t.Run("missing_transaction_reported_without_blocking", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewMigrationService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)

		_, okTxID := linkPair(t, store, ws.ID, goal.ID)
		_, goneTxID := linkPair(t, store, ws.ID, goal.ID)
		testutil.AssertNoError(t, store.Transactions().SoftDelete(ws.ID, goneTxID))

		report, err := svc.Migrate(ws.ID)
		testutil.AssertNoError(t, err)
		if report.Success {
			t.Error("expected Success false when a linked transaction is missing")
		}
		if report.Migrated != 1 {
			t.Errorf("expected the healthy pair migrated anyway, got %d", report.Migrated)
		}
		if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], goneTxID) {
			t.Errorf("expected one error naming %s, got %v", goneTxID, report.Errors)
		}

		tx, err := store.Transactions().GetByID(ws.ID, okTxID)
		testutil.AssertNoError(t, err)
		if tx.LinkedGoalID == nil {
			t.Error("expected healthy transaction backfilled")
		}

		// Schema version marker is only advanced on a clean run.
		if _, err := store.Meta().Get(metakey.SchemaVersion(ws.ID).String()); err != repository.ErrNotFound {
			t.Errorf("expected no schema version marker, got %v", err)
		}
	})

	t.Run("already_correct_links_skipped", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewMigrationService(store)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)
		_, txID := linkPair(t, store, ws.ID, goal.ID)

		goalID := goal.ID
		testutil.AssertNoError(t, store.Transactions().Update(ws.ID, txID, map[string]interface{}{"linked_goal_id": &goalID}))

		report, err := svc.Migrate(ws.ID)
		testutil.AssertNoError(t, err)
		if report.Migrated != 0 {
			t.Errorf("expected nothing to migrate, got %d", report.Migrated)
		}
	})
}
