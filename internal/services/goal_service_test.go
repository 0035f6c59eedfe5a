package services

import (
	"testing"
	"time"

	"plutus/internal/models"
	"plutus/internal/repository"
	"plutus/internal/testutil"
)

func newGoalFixture(t *testing.T) (repository.Store, GoalServicer) {
	t.Helper()
	store := repository.NewMemoryStore()
	return store, NewGoalService(store, NewMetaCache(store, time.Minute))
}

func TestCreateGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		store, svc := newGoalFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		g, err := svc.Create(ws.ID, GoalInput{Name: "  New Car  ", TargetAmountMinor: 500000, Currency: "USD"})
		testutil.AssertNoError(t, err)
		if g.Name != "New Car" {
			t.Errorf("expected trimmed name, got %q", g.Name)
		}
		if g.Status != models.GoalStatusActive {
			t.Errorf("expected active status, got %s", g.Status)
		}
		if g.CurrentAmountMinor != 0 {
			t.Errorf("expected zero starting total, got %d", g.CurrentAmountMinor)
		}
	})

	t.Run("validation", func(t *testing.T) {
		store, svc := newGoalFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		_, err := svc.Create(ws.ID, GoalInput{Name: "   ", TargetAmountMinor: 1000, Currency: "USD"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Create(ws.ID, GoalInput{Name: "Car", TargetAmountMinor: 0, Currency: "USD"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		deadline := "2024-13-01"
		_, err = svc.Create(ws.ID, GoalInput{Name: "Car", TargetAmountMinor: 1000, Currency: "USD", Deadline: &deadline})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestUpdateGoal(t *testing.T) {
	t.Run("status_transition", func(t *testing.T) {
		store, svc := newGoalFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)
		goal := testutil.CreateTestGoal(t, store, ws.ID)

		completed := models.GoalStatusCompleted
		g, err := svc.Update(ws.ID, goal.ID, GoalPatch{Status: &completed})
		testutil.AssertNoError(t, err)
		if g.Status != models.GoalStatusCompleted {
			t.Errorf("expected completed, got %s", g.Status)
		}

		bogus := models.GoalStatus("paused")
		_, err = svc.Update(ws.ID, goal.ID, GoalPatch{Status: &bogus})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_goal", func(t *testing.T) {
		store, svc := newGoalFixture(t)
		ws := testutil.CreateTestWorkspace(t, store)

		name := "Renamed"
		_, err := svc.Update(ws.ID, "nope", GoalPatch{Name: &name})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteGoal(t *testing.T) {
	store, svc := newGoalFixture(t)
	ws := testutil.CreateTestWorkspace(t, store)
	goal := testutil.CreateTestGoal(t, store, ws.ID)
	c := testutil.CreateTestContribution(t, store, ws.ID, goal.ID, 1500)

	testutil.AssertNoError(t, svc.Delete(ws.ID, goal.ID))

	if _, err := store.Goals().GetByID(ws.ID, goal.ID); err != repository.ErrNotFound {
		t.Errorf("expected goal gone, got %v", err)
	}
	if _, err := store.Contributions().GetByID(ws.ID, c.ID); err != repository.ErrNotFound {
		t.Errorf("expected contribution gone with its goal, got %v", err)
	}
}

func TestGoalReachedNotified(t *testing.T) {
	store, svc := newGoalFixture(t)
	ws := testutil.CreateTestWorkspace(t, store)
	goal := testutil.CreateTestGoal(t, store, ws.ID)

	notified, err := svc.ReachedNotified(ws.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if notified {
		t.Error("expected not yet notified")
	}

	testutil.AssertNoError(t, svc.MarkReachedNotified(ws.ID, goal.ID))

	notified, err = svc.ReachedNotified(ws.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if !notified {
		t.Error("expected notified after marking")
	}

	err = svc.MarkReachedNotified(ws.ID, "nope")
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}
