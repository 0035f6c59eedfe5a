package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"plutus/internal/models"
	"plutus/internal/pagination"
	"plutus/internal/uuid"
)

// memoryStore implements Store with plain maps. It exists for fast, isolated
// tests of the service layer; the contract tests run the same suite against
// this store and the GORM one to keep them in lockstep.
type memoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	workspaces    map[string]*models.Workspace
	settings      map[string]*models.Settings // keyed by workspace id
	categories    map[string]*models.Category
	transactions  map[string]*models.Transaction
	budgets       map[string]*models.Budget
	goals         map[string]*models.Goal
	contributions map[string]*models.GoalContribution
	meta          map[string]*models.Meta
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		mu: &sync.Mutex{},
		data: &memoryData{
			workspaces:    map[string]*models.Workspace{},
			settings:      map[string]*models.Settings{},
			categories:    map[string]*models.Category{},
			transactions:  map[string]*models.Transaction{},
			budgets:       map[string]*models.Budget{},
			goals:         map[string]*models.Goal{},
			contributions: map[string]*models.GoalContribution{},
			meta:          map[string]*models.Meta{},
		},
	}
}

func (s *memoryStore) Workspaces() WorkspaceRepository       { return &memWorkspaces{s} }
func (s *memoryStore) Settings() SettingsRepository          { return &memSettings{s} }
func (s *memoryStore) Categories() CategoryRepository        { return &memCategories{s} }
func (s *memoryStore) Transactions() TransactionRepository   { return &memTransactions{s} }
func (s *memoryStore) Budgets() BudgetRepository             { return &memBudgets{s} }
func (s *memoryStore) Goals() GoalRepository                 { return &memGoals{s} }
func (s *memoryStore) Contributions() ContributionRepository { return &memContributions{s} }
func (s *memoryStore) Meta() MetaRepository                  { return &memMeta{s} }

// Atomic snapshots the maps, runs fn under the store lock, and restores the
// snapshot if fn fails. Nested calls join the enclosing scope.
func (s *memoryStore) Atomic(fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.data.clone()
	tx := &memoryStore{mu: s.mu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = *backup
		return err
	}
	return nil
}

func (s *memoryStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *memoryStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		workspaces:    make(map[string]*models.Workspace, len(d.workspaces)),
		settings:      make(map[string]*models.Settings, len(d.settings)),
		categories:    make(map[string]*models.Category, len(d.categories)),
		transactions:  make(map[string]*models.Transaction, len(d.transactions)),
		budgets:       make(map[string]*models.Budget, len(d.budgets)),
		goals:         make(map[string]*models.Goal, len(d.goals)),
		contributions: make(map[string]*models.GoalContribution, len(d.contributions)),
		meta:          make(map[string]*models.Meta, len(d.meta)),
	}
	for k, v := range d.workspaces {
		cp := *v
		c.workspaces[k] = &cp
	}
	for k, v := range d.settings {
		cp := *v
		c.settings[k] = &cp
	}
	for k, v := range d.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range d.transactions {
		cp := *v
		c.transactions[k] = &cp
	}
	for k, v := range d.budgets {
		cp := *v
		c.budgets[k] = &cp
	}
	for k, v := range d.goals {
		cp := *v
		c.goals[k] = &cp
	}
	for k, v := range d.contributions {
		cp := *v
		c.contributions[k] = &cp
	}
	for k, v := range d.meta {
		cp := *v
		c.meta[k] = &cp
	}
	return c
}

// stampBase mirrors the GORM create hooks: assign a UUID when the row has
// none and fill timestamps that the caller left zero.
func stampBase(b *models.Base) {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
}

func softDeleted(b models.Base) bool {
	return b.DeletedAt.Valid
}

func markDeleted(b *models.Base) {
	b.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
}

// patch helpers: Updates maps may carry values or pointers depending on the
// caller, matching what GORM accepts.

func patchString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t != nil {
			return *t
		}
	}
	return ""
}

func patchStringPtr(v interface{}) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case *string:
		return t
	case string:
		s := t
		return &s
	}
	return nil
}

func patchInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case *int64:
		if t != nil {
			return *t
		}
	}
	return 0
}

func patchBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case *bool:
		if t != nil {
			return *t
		}
	}
	return false
}

// --- workspaces ---

type memWorkspaces struct{ s *memoryStore }

func (r *memWorkspaces) Create(w *models.Workspace) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&w.Base)
	cp := *w
	r.s.data.workspaces[w.ID] = &cp
	return nil
}

func (r *memWorkspaces) GetByID(id string) (*models.Workspace, error) {
	r.s.lock()
	defer r.s.unlock()
	w, ok := r.s.data.workspaces[id]
	if !ok || softDeleted(w.Base) {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memWorkspaces) List() ([]models.Workspace, error) {
	r.s.lock()
	defer r.s.unlock()
	var ws []models.Workspace
	for _, w := range r.s.data.workspaces {
		if !softDeleted(w.Base) {
			ws = append(ws, *w)
		}
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].CreatedAt.Before(ws[j].CreatedAt) })
	return ws, nil
}

// --- settings ---

type memSettings struct{ s *memoryStore }

func (r *memSettings) GetByWorkspace(workspaceID string) (*models.Settings, error) {
	r.s.lock()
	defer r.s.unlock()
	st, ok := r.s.data.settings[workspaceID]
	if !ok || softDeleted(st.Base) {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *memSettings) Upsert(st *models.Settings) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&st.Base)
	cp := *st
	r.s.data.settings[st.WorkspaceID] = &cp
	return nil
}

func (r *memSettings) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	delete(r.s.data.settings, workspaceID)
	return nil
}

// --- categories ---

type memCategories struct{ s *memoryStore }

func (r *memCategories) Create(c *models.Category) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&c.Base)
	cp := *c
	r.s.data.categories[c.ID] = &cp
	return nil
}

func (r *memCategories) CreateBatch(cs []models.Category) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range cs {
		stampBase(&cs[i].Base)
		cp := cs[i]
		r.s.data.categories[cp.ID] = &cp
	}
	return nil
}

func (r *memCategories) GetByID(workspaceID, id string) (*models.Category, error) {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.categories[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) ListLive(workspaceID string) ([]models.Category, error) {
	r.s.lock()
	defer r.s.unlock()
	var cs []models.Category
	for _, c := range r.s.data.categories {
		if c.WorkspaceID == workspaceID && !softDeleted(c.Base) {
			cs = append(cs, *c)
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
	return cs, nil
}

func (r *memCategories) ListAll(workspaceID string) ([]models.Category, error) {
	r.s.lock()
	defer r.s.unlock()
	var cs []models.Category
	for _, c := range r.s.data.categories {
		if c.WorkspaceID == workspaceID {
			cs = append(cs, *c)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].CreatedAt.Before(cs[j].CreatedAt) })
	return cs, nil
}

func (r *memCategories) Update(workspaceID, id string, patch map[string]interface{}) error {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.categories[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return ErrNotFound
	}
	for col, v := range patch {
		switch col {
		case "name":
			c.Name = patchString(v)
		case "type":
			c.Type = models.CategoryType(patchString(v))
		case "sort_order":
			c.SortOrder = int(patchInt64(v))
		case "is_archived":
			c.IsArchived = patchBool(v)
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memCategories) SoftDelete(workspaceID, id string) error {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.categories[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return ErrNotFound
	}
	markDeleted(&c.Base)
	return nil
}

func (r *memCategories) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	for id, c := range r.s.data.categories {
		if c.WorkspaceID == workspaceID {
			delete(r.s.data.categories, id)
		}
	}
	return nil
}

// --- transactions ---

type memTransactions struct{ s *memoryStore }

func (r *memTransactions) Create(t *models.Transaction) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&t.Base)
	cp := *t
	r.s.data.transactions[t.ID] = &cp
	return nil
}

func (r *memTransactions) GetByID(workspaceID, id string) (*models.Transaction, error) {
	r.s.lock()
	defer r.s.unlock()
	t, ok := r.s.data.transactions[id]
	if !ok || t.WorkspaceID != workspaceID || softDeleted(t.Base) {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTransactions) GetByIDAny(workspaceID, id string) (*models.Transaction, error) {
	r.s.lock()
	defer r.s.unlock()
	t, ok := r.s.data.transactions[id]
	if !ok || t.WorkspaceID != workspaceID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTransactions) ListLive(workspaceID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	r.s.lock()
	defer r.s.unlock()
	page.Defaults()

	var ts []models.Transaction
	for _, t := range r.s.data.transactions {
		if t.WorkspaceID != workspaceID || softDeleted(t.Base) {
			continue
		}
		if !matchTransactionFilter(t, filter) {
			continue
		}
		ts = append(ts, *t)
	}
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].DateKey != ts[j].DateKey {
			return ts[i].DateKey > ts[j].DateKey
		}
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
	total := int64(len(ts))
	return pagination.Slice(ts, page), total, nil
}

func matchTransactionFilter(t *models.Transaction, f TransactionFilter) bool {
	if f.FromDateKey != nil && t.DateKey < *f.FromDateKey {
		return false
	}
	if f.ToDateKey != nil && t.DateKey > *f.ToDateKey {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.MinAmountMinor != nil && t.AmountMinor < *f.MinAmountMinor {
		return false
	}
	if f.MaxAmountMinor != nil && t.AmountMinor > *f.MaxAmountMinor {
		return false
	}
	return true
}

func (r *memTransactions) ListAll(workspaceID string) ([]models.Transaction, error) {
	r.s.lock()
	defer r.s.unlock()
	var ts []models.Transaction
	for _, t := range r.s.data.transactions {
		if t.WorkspaceID == workspaceID {
			ts = append(ts, *t)
		}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].CreatedAt.Before(ts[j].CreatedAt) })
	return ts, nil
}

func (r *memTransactions) Update(workspaceID, id string, patch map[string]interface{}) error {
	r.s.lock()
	defer r.s.unlock()
	t, ok := r.s.data.transactions[id]
	if !ok || t.WorkspaceID != workspaceID || softDeleted(t.Base) {
		return ErrNotFound
	}
	applyTransactionPatch(t, patch)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func applyTransactionPatch(t *models.Transaction, patch map[string]interface{}) {
	for col, v := range patch {
		switch col {
		case "type":
			t.Type = models.TransactionType(patchString(v))
		case "amount_minor":
			t.AmountMinor = patchInt64(v)
		case "currency":
			t.Currency = patchString(v)
		case "date_key":
			t.DateKey = patchString(v)
		case "category_id":
			t.CategoryID = patchStringPtr(v)
		case "note":
			t.Note = patchStringPtr(v)
		case "linked_goal_id":
			t.LinkedGoalID = patchStringPtr(v)
		}
	}
}

func (r *memTransactions) SoftDelete(workspaceID, id string) error {
	r.s.lock()
	defer r.s.unlock()
	t, ok := r.s.data.transactions[id]
	if !ok || t.WorkspaceID != workspaceID || softDeleted(t.Base) {
		return ErrNotFound
	}
	markDeleted(&t.Base)
	return nil
}

func (r *memTransactions) UpsertBatch(ts []models.Transaction) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range ts {
		stampBase(&ts[i].Base)
		cp := ts[i]
		r.s.data.transactions[cp.ID] = &cp
	}
	return nil
}

func (r *memTransactions) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	for id, t := range r.s.data.transactions {
		if t.WorkspaceID == workspaceID {
			delete(r.s.data.transactions, id)
		}
	}
	return nil
}

func (r *memTransactions) CountByCategory(workspaceID, categoryID string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	var count int64
	for _, t := range r.s.data.transactions {
		if t.WorkspaceID == workspaceID && !softDeleted(t.Base) &&
			t.CategoryID != nil && *t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *memTransactions) UnsetCategory(workspaceID, categoryID string) error {
	r.s.lock()
	defer r.s.unlock()
	for _, t := range r.s.data.transactions {
		if t.WorkspaceID == workspaceID && !softDeleted(t.Base) &&
			t.CategoryID != nil && *t.CategoryID == categoryID {
			t.CategoryID = nil
			t.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

// --- budgets ---

type memBudgets struct{ s *memoryStore }

func (r *memBudgets) Create(b *models.Budget) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&b.Base)
	cp := *b
	r.s.data.budgets[b.ID] = &cp
	return nil
}

func (r *memBudgets) GetByID(workspaceID, id string) (*models.Budget, error) {
	r.s.lock()
	defer r.s.unlock()
	b, ok := r.s.data.budgets[id]
	if !ok || b.WorkspaceID != workspaceID || softDeleted(b.Base) {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBudgets) ListLive(workspaceID string) ([]models.Budget, error) {
	r.s.lock()
	defer r.s.unlock()
	var bs []models.Budget
	for _, b := range r.s.data.budgets {
		if b.WorkspaceID == workspaceID && !softDeleted(b.Base) {
			bs = append(bs, *b)
		}
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].CreatedAt.Before(bs[j].CreatedAt) })
	return bs, nil
}

func (r *memBudgets) ListAll(workspaceID string) ([]models.Budget, error) {
	r.s.lock()
	defer r.s.unlock()
	var bs []models.Budget
	for _, b := range r.s.data.budgets {
		if b.WorkspaceID == workspaceID {
			bs = append(bs, *b)
		}
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].CreatedAt.Before(bs[j].CreatedAt) })
	return bs, nil
}

func (r *memBudgets) Update(workspaceID, id string, patch map[string]interface{}) error {
	r.s.lock()
	defer r.s.unlock()
	b, ok := r.s.data.budgets[id]
	if !ok || b.WorkspaceID != workspaceID || softDeleted(b.Base) {
		return ErrNotFound
	}
	for col, v := range patch {
		switch col {
		case "category_id":
			b.CategoryID = patchStringPtr(v)
		case "month":
			b.Month = patchStringPtr(v)
		case "currency":
			b.Currency = patchString(v)
		case "limit_minor":
			b.LimitMinor = patchInt64(v)
		}
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memBudgets) SoftDelete(workspaceID, id string) error {
	r.s.lock()
	defer r.s.unlock()
	b, ok := r.s.data.budgets[id]
	if !ok || b.WorkspaceID != workspaceID || softDeleted(b.Base) {
		return ErrNotFound
	}
	markDeleted(&b.Base)
	return nil
}

func (r *memBudgets) UpsertBatch(bs []models.Budget) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range bs {
		stampBase(&bs[i].Base)
		cp := bs[i]
		r.s.data.budgets[cp.ID] = &cp
	}
	return nil
}

func (r *memBudgets) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	for id, b := range r.s.data.budgets {
		if b.WorkspaceID == workspaceID {
			delete(r.s.data.budgets, id)
		}
	}
	return nil
}

// --- goals ---

type memGoals struct{ s *memoryStore }

func (r *memGoals) Create(g *models.Goal) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&g.Base)
	cp := *g
	r.s.data.goals[g.ID] = &cp
	return nil
}

func (r *memGoals) GetByID(workspaceID, id string) (*models.Goal, error) {
	r.s.lock()
	defer r.s.unlock()
	g, ok := r.s.data.goals[id]
	if !ok || g.WorkspaceID != workspaceID || softDeleted(g.Base) {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *memGoals) ListLive(workspaceID string) ([]models.Goal, error) {
	r.s.lock()
	defer r.s.unlock()
	var gs []models.Goal
	for _, g := range r.s.data.goals {
		if g.WorkspaceID == workspaceID && !softDeleted(g.Base) {
			gs = append(gs, *g)
		}
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i].CreatedAt.Before(gs[j].CreatedAt) })
	return gs, nil
}

func (r *memGoals) ListAll(workspaceID string) ([]models.Goal, error) {
	r.s.lock()
	defer r.s.unlock()
	var gs []models.Goal
	for _, g := range r.s.data.goals {
		if g.WorkspaceID == workspaceID {
			gs = append(gs, *g)
		}
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i].CreatedAt.Before(gs[j].CreatedAt) })
	return gs, nil
}

func (r *memGoals) Update(workspaceID, id string, patch map[string]interface{}) error {
	r.s.lock()
	defer r.s.unlock()
	g, ok := r.s.data.goals[id]
	if !ok || g.WorkspaceID != workspaceID || softDeleted(g.Base) {
		return ErrNotFound
	}
	for col, v := range patch {
		switch col {
		case "name":
			g.Name = patchString(v)
		case "target_amount_minor":
			g.TargetAmountMinor = patchInt64(v)
		case "current_amount_minor":
			g.CurrentAmountMinor = patchInt64(v)
		case "currency":
			g.Currency = patchString(v)
		case "deadline":
			g.Deadline = patchStringPtr(v)
		case "status":
			g.Status = models.GoalStatus(patchString(v))
		case "note":
			g.Note = patchStringPtr(v)
		}
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memGoals) SoftDelete(workspaceID, id string) error {
	r.s.lock()
	defer r.s.unlock()
	g, ok := r.s.data.goals[id]
	if !ok || g.WorkspaceID != workspaceID || softDeleted(g.Base) {
		return ErrNotFound
	}
	markDeleted(&g.Base)
	return nil
}

func (r *memGoals) UpsertBatch(gs []models.Goal) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range gs {
		stampBase(&gs[i].Base)
		cp := gs[i]
		r.s.data.goals[cp.ID] = &cp
	}
	return nil
}

func (r *memGoals) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	for id, g := range r.s.data.goals {
		if g.WorkspaceID == workspaceID {
			delete(r.s.data.goals, id)
		}
	}
	return nil
}

// --- contributions ---

type memContributions struct{ s *memoryStore }

func (r *memContributions) Create(c *models.GoalContribution) error {
	r.s.lock()
	defer r.s.unlock()
	stampBase(&c.Base)
	cp := *c
	r.s.data.contributions[c.ID] = &cp
	return nil
}

func (r *memContributions) GetByID(workspaceID, id string) (*models.GoalContribution, error) {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.contributions[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memContributions) ListByGoalID(workspaceID, goalID string) ([]models.GoalContribution, error) {
	r.s.lock()
	defer r.s.unlock()
	var cs []models.GoalContribution
	for _, c := range r.s.data.contributions {
		if c.WorkspaceID == workspaceID && c.GoalID == goalID && !softDeleted(c.Base) {
			cs = append(cs, *c)
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].DateKey != cs[j].DateKey {
			return cs[i].DateKey > cs[j].DateKey
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
	return cs, nil
}

func (r *memContributions) FindByLinkedTransactionID(workspaceID, transactionID string) (*models.GoalContribution, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, c := range r.s.data.contributions {
		if c.WorkspaceID == workspaceID && !softDeleted(c.Base) &&
			c.LinkedTransactionID != nil && *c.LinkedTransactionID == transactionID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memContributions) ListLiveLinked(workspaceID string) ([]models.GoalContribution, error) {
	r.s.lock()
	defer r.s.unlock()
	var cs []models.GoalContribution
	for _, c := range r.s.data.contributions {
		if c.WorkspaceID == workspaceID && !softDeleted(c.Base) && c.LinkedTransactionID != nil {
			cs = append(cs, *c)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].CreatedAt.Before(cs[j].CreatedAt) })
	return cs, nil
}

func (r *memContributions) Update(workspaceID, id string, patch map[string]interface{}) error {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.contributions[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return ErrNotFound
	}
	for col, v := range patch {
		switch col {
		case "amount_minor":
			c.AmountMinor = patchInt64(v)
		case "currency":
			c.Currency = patchString(v)
		case "date_key":
			c.DateKey = patchString(v)
		case "note":
			c.Note = patchStringPtr(v)
		case "linked_transaction_id":
			c.LinkedTransactionID = patchStringPtr(v)
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memContributions) SoftDelete(workspaceID, id string) error {
	r.s.lock()
	defer r.s.unlock()
	c, ok := r.s.data.contributions[id]
	if !ok || c.WorkspaceID != workspaceID || softDeleted(c.Base) {
		return ErrNotFound
	}
	markDeleted(&c.Base)
	return nil
}

func (r *memContributions) DeleteByWorkspace(workspaceID string) error {
	r.s.lock()
	defer r.s.unlock()
	for id, c := range r.s.data.contributions {
		if c.WorkspaceID == workspaceID {
			delete(r.s.data.contributions, id)
		}
	}
	return nil
}

// --- meta ---

type memMeta struct{ s *memoryStore }

func (r *memMeta) Get(key string) (*models.Meta, error) {
	r.s.lock()
	defer r.s.unlock()
	m, ok := r.s.data.meta[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMeta) Set(key, value string) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.meta[key] = &models.Meta{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

func (r *memMeta) ListAll() ([]models.Meta, error) {
	r.s.lock()
	defer r.s.unlock()
	var ms []models.Meta
	for _, m := range r.s.data.meta {
		ms = append(ms, *m)
	}
	sort.Slice(ms, func(i, j int) bool { return strings.Compare(ms[i].Key, ms[j].Key) < 0 })
	return ms, nil
}

func (r *memMeta) UpsertBatch(ms []models.Meta) error {
	r.s.lock()
	defer r.s.unlock()
	now := time.Now().UTC()
	for _, m := range ms {
		cp := m
		if cp.UpdatedAt.IsZero() {
			cp.UpdatedAt = now
		}
		r.s.data.meta[cp.Key] = &cp
	}
	return nil
}

func (r *memMeta) DeleteKeys(keys []string) error {
	r.s.lock()
	defer r.s.unlock()
	for _, k := range keys {
		delete(r.s.data.meta, k)
	}
	return nil
}
