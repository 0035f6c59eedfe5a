package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plutus/internal/models"
	"plutus/internal/pagination"
)

// gormStore implements Store on top of a GORM connection (sqlite in the
// local app, postgres when hosted).
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given GORM connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Workspaces() WorkspaceRepository     { return &gormWorkspaces{db: s.db} }
func (s *gormStore) Settings() SettingsRepository        { return &gormSettings{db: s.db} }
func (s *gormStore) Categories() CategoryRepository      { return &gormCategories{db: s.db} }
func (s *gormStore) Transactions() TransactionRepository { return &gormTransactions{db: s.db} }
func (s *gormStore) Budgets() BudgetRepository           { return &gormBudgets{db: s.db} }
func (s *gormStore) Goals() GoalRepository               { return &gormGoals{db: s.db} }
func (s *gormStore) Contributions() ContributionRepository {
	return &gormContributions{db: s.db}
}
func (s *gormStore) Meta() MetaRepository { return &gormMeta{db: s.db} }

func (s *gormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// mapNotFound converts GORM's sentinel into the contract's.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- workspaces ---

type gormWorkspaces struct{ db *gorm.DB }

func (r *gormWorkspaces) Create(w *models.Workspace) error {
	return r.db.Create(w).Error
}

func (r *gormWorkspaces) GetByID(id string) (*models.Workspace, error) {
	var w models.Workspace
	if err := r.db.Where("id = ?", id).First(&w).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

func (r *gormWorkspaces) List() ([]models.Workspace, error) {
	var ws []models.Workspace
	if err := r.db.Order("created_at ASC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

// --- settings ---

type gormSettings struct{ db *gorm.DB }

func (r *gormSettings) GetByWorkspace(workspaceID string) (*models.Settings, error) {
	var s models.Settings
	if err := r.db.Where("workspace_id = ?", workspaceID).First(&s).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

// Upsert replaces the workspace's settings row wholesale. The incoming row
// may carry a different id (e.g. from an imported snapshot), so overwrite is
// delete-then-insert rather than an id-keyed conflict clause.
func (r *gormSettings) Upsert(s *models.Settings) error {
	if err := r.db.Unscoped().
		Where("workspace_id = ?", s.WorkspaceID).
		Delete(&models.Settings{}).Error; err != nil {
		return err
	}
	return r.db.Create(s).Error
}

func (r *gormSettings) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.Settings{}).Error
}

// --- categories ---

type gormCategories struct{ db *gorm.DB }

func (r *gormCategories) Create(c *models.Category) error {
	return r.db.Create(c).Error
}

func (r *gormCategories) CreateBatch(cs []models.Category) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.Create(&cs).Error
}

func (r *gormCategories) GetByID(workspaceID, id string) (*models.Category, error) {
	var c models.Category
	if err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&c).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

func (r *gormCategories) ListLive(workspaceID string) ([]models.Category, error) {
	var cs []models.Category
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("sort_order ASC, created_at ASC").
		Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *gormCategories) ListAll(workspaceID string) ([]models.Category, error) {
	var cs []models.Category
	if err := r.db.Unscoped().Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *gormCategories) Update(workspaceID, id string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Category{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCategories) SoftDelete(workspaceID, id string) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCategories) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.Category{}).Error
}

// --- transactions ---

type gormTransactions struct{ db *gorm.DB }

func (r *gormTransactions) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *gormTransactions) GetByID(workspaceID, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func (r *gormTransactions) GetByIDAny(workspaceID, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.Unscoped().
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func (r *gormTransactions) ListLive(workspaceID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	page.Defaults()

	base := r.db.Model(&models.Transaction{}).Where("workspace_id = ?", workspaceID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var ts []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date_key DESC, created_at DESC").
		Find(&ts).Error; err != nil {
		return nil, 0, err
	}
	return ts, totalItems, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDateKey != nil {
		q = q.Where("date_key >= ?", *f.FromDateKey)
	}
	if f.ToDateKey != nil {
		q = q.Where("date_key <= ?", *f.ToDateKey)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmountMinor != nil {
		q = q.Where("amount_minor >= ?", *f.MinAmountMinor)
	}
	if f.MaxAmountMinor != nil {
		q = q.Where("amount_minor <= ?", *f.MaxAmountMinor)
	}
	return q
}

func (r *gormTransactions) ListAll(workspaceID string) ([]models.Transaction, error) {
	var ts []models.Transaction
	if err := r.db.Unscoped().Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *gormTransactions) Update(workspaceID, id string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Transaction{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTransactions) SoftDelete(workspaceID, id string) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTransactions) UpsertBatch(ts []models.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ts).Error
}

func (r *gormTransactions) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.Transaction{}).Error
}

func (r *gormTransactions) CountByCategory(workspaceID, categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("workspace_id = ? AND category_id = ?", workspaceID, categoryID).
		Count(&count).Error
	return count, err
}

func (r *gormTransactions) UnsetCategory(workspaceID, categoryID string) error {
	return r.db.Model(&models.Transaction{}).
		Where("workspace_id = ? AND category_id = ?", workspaceID, categoryID).
		Updates(map[string]interface{}{"category_id": nil}).Error
}

// --- budgets ---

type gormBudgets struct{ db *gorm.DB }

func (r *gormBudgets) Create(b *models.Budget) error {
	return r.db.Create(b).Error
}

func (r *gormBudgets) GetByID(workspaceID, id string) (*models.Budget, error) {
	var b models.Budget
	if err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&b).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *gormBudgets) ListLive(workspaceID string) ([]models.Budget, error) {
	var bs []models.Budget
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *gormBudgets) ListAll(workspaceID string) ([]models.Budget, error) {
	var bs []models.Budget
	if err := r.db.Unscoped().Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *gormBudgets) Update(workspaceID, id string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Budget{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormBudgets) SoftDelete(workspaceID, id string) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&models.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormBudgets) UpsertBatch(bs []models.Budget) error {
	if len(bs) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&bs).Error
}

func (r *gormBudgets) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.Budget{}).Error
}

// --- goals ---

type gormGoals struct{ db *gorm.DB }

func (r *gormGoals) Create(g *models.Goal) error {
	return r.db.Create(g).Error
}

func (r *gormGoals) GetByID(workspaceID, id string) (*models.Goal, error) {
	var g models.Goal
	if err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&g).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &g, nil
}

func (r *gormGoals) ListLive(workspaceID string) ([]models.Goal, error) {
	var gs []models.Goal
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&gs).Error; err != nil {
		return nil, err
	}
	return gs, nil
}

func (r *gormGoals) ListAll(workspaceID string) ([]models.Goal, error) {
	var gs []models.Goal
	if err := r.db.Unscoped().Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&gs).Error; err != nil {
		return nil, err
	}
	return gs, nil
}

func (r *gormGoals) Update(workspaceID, id string, patch map[string]interface{}) error {
	res := r.db.Model(&models.Goal{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormGoals) SoftDelete(workspaceID, id string) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&models.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormGoals) UpsertBatch(gs []models.Goal) error {
	if len(gs) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&gs).Error
}

func (r *gormGoals) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.Goal{}).Error
}

// --- contributions ---

type gormContributions struct{ db *gorm.DB }

func (r *gormContributions) Create(c *models.GoalContribution) error {
	return r.db.Create(c).Error
}

func (r *gormContributions) GetByID(workspaceID, id string) (*models.GoalContribution, error) {
	var c models.GoalContribution
	if err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&c).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

func (r *gormContributions) ListByGoalID(workspaceID, goalID string) ([]models.GoalContribution, error) {
	var cs []models.GoalContribution
	if err := r.db.Where("workspace_id = ? AND goal_id = ?", workspaceID, goalID).
		Order("date_key DESC, created_at DESC").
		Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *gormContributions) FindByLinkedTransactionID(workspaceID, transactionID string) (*models.GoalContribution, error) {
	var c models.GoalContribution
	if err := r.db.Where("workspace_id = ? AND linked_transaction_id = ?", workspaceID, transactionID).
		First(&c).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

func (r *gormContributions) ListLiveLinked(workspaceID string) ([]models.GoalContribution, error) {
	var cs []models.GoalContribution
	if err := r.db.Where("workspace_id = ? AND linked_transaction_id IS NOT NULL", workspaceID).
		Order("created_at ASC").
		Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *gormContributions) Update(workspaceID, id string, patch map[string]interface{}) error {
	res := r.db.Model(&models.GoalContribution{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormContributions) SoftDelete(workspaceID, id string) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&models.GoalContribution{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormContributions) DeleteByWorkspace(workspaceID string) error {
	return r.db.Unscoped().
		Where("workspace_id = ?", workspaceID).
		Delete(&models.GoalContribution{}).Error
}

// --- meta ---

type gormMeta struct{ db *gorm.DB }

func (r *gormMeta) Get(key string) (*models.Meta, error) {
	var m models.Meta
	if err := r.db.Where("key = ?", key).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &m, nil
}

func (r *gormMeta) Set(key, value string) error {
	m := models.Meta{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error
}

func (r *gormMeta) ListAll() ([]models.Meta, error) {
	var ms []models.Meta
	if err := r.db.Order("key ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *gormMeta) UpsertBatch(ms []models.Meta) error {
	if len(ms) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range ms {
		if ms[i].UpdatedAt.IsZero() {
			ms[i].UpdatedAt = now
		}
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ms).Error
}

func (r *gormMeta) DeleteKeys(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.Where("key IN ?", keys).Delete(&models.Meta{}).Error
}
