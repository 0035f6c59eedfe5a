package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"plutus/internal/models"
	"plutus/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestWorkspace creates a workspace with a hashed passphrase.
func CreateTestWorkspace(t *testing.T, store repository.Store) *models.Workspace {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("passphrase123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash passphrase: %v", err)
	}

	ws := &models.Workspace{
		Name:           fmt.Sprintf("Test Workspace %d", nextID()),
		PassphraseHash: string(hash),
	}
	if err := store.Workspaces().Create(ws); err != nil {
		t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// CreateTestSettings creates the settings row for a workspace.
func CreateTestSettings(t *testing.T, store repository.Store, workspaceID string) *models.Settings {
	t.Helper()

	s := &models.Settings{
		WorkspaceID:  workspaceID,
		Currency:     "USD",
		Locale:       "en-US",
		FirstWeekday: 1,
		Theme:        "system",
	}
	if err := store.Settings().Upsert(s); err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return s
}

// CreateTestCategory creates an expense category with a unique name.
func CreateTestCategory(t *testing.T, store repository.Store, workspaceID string) *models.Category {
	t.Helper()
	name := fmt.Sprintf("Test Category %d", nextID())
	return CreateTestCategoryNamed(t, store, workspaceID, name, models.CategoryTypeExpense)
}

// CreateTestCategoryNamed creates a category with the given name and type.
func CreateTestCategoryNamed(t *testing.T, store repository.Store, workspaceID, name string, ctype models.CategoryType) *models.Category {
	t.Helper()

	c := &models.Category{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        ctype,
		SortOrder:   int(nextID()),
	}
	if err := store.Categories().Create(c); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// CreateTestTransaction creates an expense transaction with the given amount (in minor units).
func CreateTestTransaction(t *testing.T, store repository.Store, workspaceID string, amountMinor int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		WorkspaceID: workspaceID,
		Type:        models.TransactionTypeExpense,
		AmountMinor: amountMinor,
		Currency:    "USD",
		DateKey:     "2024-06-15",
	}
	if err := store.Transactions().Create(tx); err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates an active goal with a unique name.
func CreateTestGoal(t *testing.T, store repository.Store, workspaceID string) *models.Goal {
	t.Helper()

	g := &models.Goal{
		WorkspaceID:       workspaceID,
		Name:              fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmountMinor: 100000,
		Currency:          "USD",
		Status:            models.GoalStatusActive,
	}
	if err := store.Goals().Create(g); err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return g
}

// CreateTestContribution creates a contribution against a goal.
func CreateTestContribution(t *testing.T, store repository.Store, workspaceID, goalID string, amountMinor int64) *models.GoalContribution {
	t.Helper()

	c := &models.GoalContribution{
		WorkspaceID: workspaceID,
		GoalID:      goalID,
		AmountMinor: amountMinor,
		Currency:    "USD",
		DateKey:     "2024-06-15",
	}
	if err := store.Contributions().Create(c); err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return c
}

// CreateTestBudget creates an overall (uncategorized, recurring) budget.
func CreateTestBudget(t *testing.T, store repository.Store, workspaceID string, limitMinor int64) *models.Budget {
	t.Helper()

	b := &models.Budget{
		WorkspaceID: workspaceID,
		Currency:    "USD",
		LimitMinor:  limitMinor,
	}
	if err := store.Budgets().Create(b); err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return b
}

// SetTestMeta stores a meta key-value pair.
func SetTestMeta(t *testing.T, store repository.Store, key, value string) {
	t.Helper()

	if err := store.Meta().Set(key, value); err != nil {
		t.Fatalf("failed to set test meta %q: %v", key, err)
	}
}
