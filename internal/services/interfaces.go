// Package services contains the business logic for workspaces, entity CRUD,
// snapshot export/import, goal-contribution consistency, and the
// transaction back-reference migration.
package services

import (
	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/repository"
)

// ImportMode selects how an imported snapshot is applied.
type ImportMode string

const (
	// ImportModeReplace wipes the workspace's data and installs the
	// snapshot's contents.
	ImportModeReplace ImportMode = "replace"
	// ImportModeMerge adds the snapshot's rows alongside existing data;
	// existing rows win on conflicts.
	ImportModeMerge ImportMode = "merge"
)

// ImportResult summarizes what an import applied.
type ImportResult struct {
	Mode               ImportMode `json:"mode"`
	Categories         int        `json:"categories"`
	Transactions       int        `json:"transactions"`
	Budgets            int        `json:"budgets"`
	Goals              int        `json:"goals"`
	MetaKeys           int        `json:"meta_keys"`
	RemappedCategories int        `json:"remapped_categories"`
}

// BackupServicer exports and imports workspace snapshots.
type BackupServicer interface {
	Export(workspaceID string) (*Snapshot, error)
	Import(workspaceID string, raw []byte, mode ImportMode) (*ImportResult, error)
}

// ContributionInput carries the fields for adding a goal contribution.
// When CreateTransaction is set, a mirroring expense transaction is created
// in the same atomic write and the two rows are linked both ways.
type ContributionInput struct {
	AmountMinor       int64
	Currency          string
	DateKey           string
	Note              *string
	CreateTransaction bool
	CategoryID        *string
}

// ContributionPatch carries the updatable contribution fields. Nil means
// unchanged.
type ContributionPatch struct {
	AmountMinor *int64
	DateKey     *string
	Note        *string
}

// SyncWarning reports that a contribution edit was saved but its linked
// transaction could not be brought up to date.
type SyncWarning struct {
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message"`
}

// ContributionUpdateResult is the outcome of a contribution update. The
// contribution itself always reflects the persisted edit; SyncWarning is
// non-nil when the mirrored transaction is stale.
type ContributionUpdateResult struct {
	Contribution *models.GoalContribution `json:"contribution"`
	SyncWarning  *SyncWarning             `json:"sync_warning,omitempty"`
}

// GoalContributionServicer manages contributions and keeps their linked
// transactions consistent.
type GoalContributionServicer interface {
	Add(workspaceID, goalID string, in ContributionInput) (*models.GoalContribution, error)
	GetByID(workspaceID, contributionID string) (*models.GoalContribution, error)
	Update(workspaceID, contributionID string, patch ContributionPatch) (*ContributionUpdateResult, error)
	Delete(workspaceID, contributionID string) error
	ListByGoal(workspaceID, goalID string) ([]models.GoalContribution, error)
	// FindByLinkedTransactionID returns the live contribution mirrored by a
	// transaction.
	FindByLinkedTransactionID(workspaceID, transactionID string) (*models.GoalContribution, error)
}

// MigrationCheck is the result of a read-only back-reference scan.
type MigrationCheck struct {
	Needed     bool `json:"needed"`
	Unmigrated int  `json:"unmigrated"`
}

// MigrationReport is the outcome of running the back-reference migration.
type MigrationReport struct {
	Success  bool     `json:"success"`
	Migrated int      `json:"migrated"`
	Errors   []string `json:"errors,omitempty"`
}

// MigrationServicer backfills Transaction.LinkedGoalID from the live linked
// contributions. Running it repeatedly is safe.
type MigrationServicer interface {
	Check(workspaceID string) (*MigrationCheck, error)
	Migrate(workspaceID string) (*MigrationReport, error)
}

// CategoryPatch carries the updatable category fields. Nil means unchanged.
type CategoryPatch struct {
	Name       *string
	Type       *models.CategoryType
	SortOrder  *int
	IsArchived *bool
}

// CategoryServicer manages categories. Live (type, normalized name) pairs
// stay unique within a workspace.
type CategoryServicer interface {
	Create(workspaceID, name string, ctype models.CategoryType, sortOrder int) (*models.Category, error)
	List(workspaceID string) ([]models.Category, error)
	Get(workspaceID, id string) (*models.Category, error)
	Update(workspaceID, id string, patch CategoryPatch) (*models.Category, error)
	Delete(workspaceID, id string) error
}

// TransactionInput carries the fields for creating a transaction.
type TransactionInput struct {
	Type        models.TransactionType
	AmountMinor int64
	Currency    string
	DateKey     string
	CategoryID  *string
	Note        *string
}

// TransactionPatch carries the updatable transaction fields. Nil means
// unchanged; ClearCategory removes the category reference.
type TransactionPatch struct {
	Type          *models.TransactionType
	AmountMinor   *int64
	Currency      *string
	DateKey       *string
	CategoryID    *string
	ClearCategory bool
	Note          *string
}

// TransactionServicer manages transactions.
type TransactionServicer interface {
	Create(workspaceID string, in TransactionInput) (*models.Transaction, error)
	List(workspaceID string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	Get(workspaceID, id string) (*models.Transaction, error)
	Update(workspaceID, id string, patch TransactionPatch) (*models.Transaction, error)
	Delete(workspaceID, id string) error
	// LastDefaults returns the remembered form defaults from the most
	// recently created transaction, or ok=false when none exist.
	LastDefaults(workspaceID string) (*TransactionDefaults, bool, error)
}

// TransactionDefaults are the session-local form defaults remembered after
// each created transaction.
type TransactionDefaults struct {
	Type       models.TransactionType `json:"type"`
	Currency   string                 `json:"currency"`
	CategoryID *string                `json:"category_id,omitempty"`
}

// GoalInput carries the fields for creating a goal.
type GoalInput struct {
	Name              string
	TargetAmountMinor int64
	Currency          string
	Deadline          *string
	Note              *string
}

// GoalPatch carries the updatable goal fields. Nil means unchanged.
type GoalPatch struct {
	Name              *string
	TargetAmountMinor *int64
	Deadline          *string
	Status            *models.GoalStatus
	Note              *string
}

// GoalServicer manages savings goals.
type GoalServicer interface {
	Create(workspaceID string, in GoalInput) (*models.Goal, error)
	List(workspaceID string) ([]models.Goal, error)
	Get(workspaceID, id string) (*models.Goal, error)
	Update(workspaceID, id string, patch GoalPatch) (*models.Goal, error)
	Delete(workspaceID, id string) error
	// MarkReachedNotified records that the goal-reached notification fired.
	MarkReachedNotified(workspaceID, goalID string) error
	ReachedNotified(workspaceID, goalID string) (bool, error)
}

// BudgetInput carries the fields for creating a budget.
type BudgetInput struct {
	CategoryID *string
	Month      *string
	Currency   string
	LimitMinor int64
}

// BudgetPatch carries the updatable budget fields. Nil means unchanged.
type BudgetPatch struct {
	LimitMinor *int64
	Month      *string
}

// BudgetServicer manages budgets.
type BudgetServicer interface {
	Create(workspaceID string, in BudgetInput) (*models.Budget, error)
	List(workspaceID string) ([]models.Budget, error)
	Get(workspaceID, id string) (*models.Budget, error)
	Update(workspaceID, id string, patch BudgetPatch) (*models.Budget, error)
	Delete(workspaceID, id string) error
	// MarkLimitNotified records that the limit notification fired for a
	// budget and month.
	MarkLimitNotified(workspaceID, budgetID, month string) error
	LimitNotified(workspaceID, budgetID, month string) (bool, error)
}

// SettingsPatch carries the updatable settings fields. Nil means unchanged.
type SettingsPatch struct {
	Currency     *string
	Locale       *string
	FirstWeekday *int
	Theme        *string
}

// SettingsServicer manages the per-workspace settings row.
type SettingsServicer interface {
	Get(workspaceID string) (*models.Settings, error)
	Update(workspaceID string, patch SettingsPatch) (*models.Settings, error)
}

// WorkspaceServicer manages workspace creation and unlock.
type WorkspaceServicer interface {
	Create(name, passphrase string) (*models.Workspace, error)
	// Unlock verifies the passphrase. It also runs the back-reference
	// migration best-effort before handing the workspace back.
	Unlock(workspaceID, passphrase string) (*models.Workspace, error)
	List() ([]models.Workspace, error)
	Get(workspaceID string) (*models.Workspace, error)
}
