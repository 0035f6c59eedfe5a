// Package repository defines the storage contract for all workspace-scoped
// entities. Two implementations exist: a GORM-backed store (sqlite or
// postgres) used in production, and an in-memory store used for test
// isolation. Both must behave identically for every contract method: the
// same workspace scoping, the same soft-delete semantics, the same ordering.
package repository

import (
	"errors"

	"plutus/internal/models"
	"plutus/internal/pagination"
)

// ErrNotFound is returned when a row does not exist (or is soft-deleted, for
// live-scoped lookups) within the given workspace.
var ErrNotFound = errors.New("record not found")

// Store is the root of the repository contract. Atomic runs fn against a
// store whose writes all commit or all roll back together; no lock is held
// outside a single Atomic scope.
type Store interface {
	Workspaces() WorkspaceRepository
	Settings() SettingsRepository
	Categories() CategoryRepository
	Transactions() TransactionRepository
	Budgets() BudgetRepository
	Goals() GoalRepository
	Contributions() ContributionRepository
	Meta() MetaRepository
	Atomic(fn func(Store) error) error
}

// WorkspaceRepository manages tenant roots. Workspaces are not themselves
// workspace-scoped and are never part of a snapshot.
type WorkspaceRepository interface {
	Create(w *models.Workspace) error
	GetByID(id string) (*models.Workspace, error)
	List() ([]models.Workspace, error)
}

// SettingsRepository manages the single settings row per workspace.
type SettingsRepository interface {
	GetByWorkspace(workspaceID string) (*models.Settings, error)
	// Upsert inserts or overwrites the workspace's settings row by id.
	Upsert(s *models.Settings) error
	// DeleteByWorkspace hard-deletes the settings row. Used only by
	// replace-mode import.
	DeleteByWorkspace(workspaceID string) error
}

// CategoryRepository manages categories.
type CategoryRepository interface {
	Create(c *models.Category) error
	CreateBatch(cs []models.Category) error
	// GetByID returns a live category.
	GetByID(workspaceID, id string) (*models.Category, error)
	// ListLive returns non-deleted categories ordered by sort order then
	// creation time.
	ListLive(workspaceID string) ([]models.Category, error)
	// ListAll includes soft-deleted rows, ordered by creation time.
	ListAll(workspaceID string) ([]models.Category, error)
	Update(workspaceID, id string, patch map[string]interface{}) error
	SoftDelete(workspaceID, id string) error
	DeleteByWorkspace(workspaceID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDateKey    *string
	ToDateKey      *string
	Type           *models.TransactionType
	CategoryID     *string
	MinAmountMinor *int64
	MaxAmountMinor *int64
}

// TransactionRepository manages transactions.
type TransactionRepository interface {
	Create(t *models.Transaction) error
	// GetByID returns a live transaction.
	GetByID(workspaceID, id string) (*models.Transaction, error)
	// GetByIDAny also returns soft-deleted transactions. The contribution
	// delete flow needs it to distinguish "already gone" from "still live".
	GetByIDAny(workspaceID, id string) (*models.Transaction, error)
	// ListLive returns non-deleted transactions matching the filter, newest
	// date key first, with the total count before paging.
	ListLive(workspaceID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	ListAll(workspaceID string) ([]models.Transaction, error)
	Update(workspaceID, id string, patch map[string]interface{}) error
	SoftDelete(workspaceID, id string) error
	UpsertBatch(ts []models.Transaction) error
	DeleteByWorkspace(workspaceID string) error
	// CountByCategory counts live transactions referencing a category.
	CountByCategory(workspaceID, categoryID string) (int64, error)
	// UnsetCategory nulls the category reference on all live transactions
	// pointing at it. Used when cascading a category deletion.
	UnsetCategory(workspaceID, categoryID string) error
}

// BudgetRepository manages budgets.
type BudgetRepository interface {
	Create(b *models.Budget) error
	GetByID(workspaceID, id string) (*models.Budget, error)
	ListLive(workspaceID string) ([]models.Budget, error)
	ListAll(workspaceID string) ([]models.Budget, error)
	Update(workspaceID, id string, patch map[string]interface{}) error
	SoftDelete(workspaceID, id string) error
	UpsertBatch(bs []models.Budget) error
	DeleteByWorkspace(workspaceID string) error
}

// GoalRepository manages goals.
type GoalRepository interface {
	Create(g *models.Goal) error
	GetByID(workspaceID, id string) (*models.Goal, error)
	ListLive(workspaceID string) ([]models.Goal, error)
	ListAll(workspaceID string) ([]models.Goal, error)
	Update(workspaceID, id string, patch map[string]interface{}) error
	SoftDelete(workspaceID, id string) error
	UpsertBatch(gs []models.Goal) error
	DeleteByWorkspace(workspaceID string) error
}

// ContributionRepository manages goal contributions. Contributions are not
// part of the snapshot document, so no batch upsert is needed.
type ContributionRepository interface {
	Create(c *models.GoalContribution) error
	GetByID(workspaceID, id string) (*models.GoalContribution, error)
	// ListByGoalID returns live contributions for a goal, newest date key
	// first.
	ListByGoalID(workspaceID, goalID string) ([]models.GoalContribution, error)
	// FindByLinkedTransactionID returns the live contribution mirroring a
	// transaction, or ErrNotFound.
	FindByLinkedTransactionID(workspaceID, transactionID string) (*models.GoalContribution, error)
	// ListLiveLinked returns all live contributions with a non-null linked
	// transaction id. This is the back-reference migration's scan set.
	ListLiveLinked(workspaceID string) ([]models.GoalContribution, error)
	Update(workspaceID, id string, patch map[string]interface{}) error
	SoftDelete(workspaceID, id string) error
	DeleteByWorkspace(workspaceID string) error
}

// MetaRepository manages the process-wide meta table. Meta rows are not
// workspace-scoped at this layer; keys carry the workspace by convention
// (see internal/metakey).
type MetaRepository interface {
	Get(key string) (*models.Meta, error)
	Set(key, value string) error
	ListAll() ([]models.Meta, error)
	UpsertBatch(ms []models.Meta) error
	DeleteKeys(keys []string) error
}
