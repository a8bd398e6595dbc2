// Package memory is an in-process storage backend used for local runs and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository"
)

// Store keeps every record in maps guarded by a mutex. Units of work are
// serialized and, when they fail, undo only the records they wrote.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	transactions map[string]model.Transaction
	goals        map[int64]model.SavingsGoal
	users        map[int]model.User
	settings     *model.Settings
	nextGoalID   int64
	nextUserID   int
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]model.Transaction),
		goals:        make(map[int64]model.SavingsGoal),
		users:        make(map[int]model.User),
	}
}

func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s: s} }

func (s *Store) Goals() repository.SavingsGoalRepository { return &goalRepo{s: s} }

func (s *Store) Settings() repository.SettingsRepository { return &settingsRepo{s} }

func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// undoLog keeps the value each record had before a unit of work first wrote
// it. A nil entry means the record did not exist.
type undoLog struct {
	transactions map[string]*model.Transaction
	goals        map[int64]*model.SavingsGoal
}

func newUndoLog() *undoLog {
	return &undoLog{
		transactions: make(map[string]*model.Transaction),
		goals:        make(map[int64]*model.SavingsGoal),
	}
}

// The record* helpers must be called with s.mu held.

func (u *undoLog) recordTransaction(s *Store, id string) {
	if u == nil {
		return
	}
	if _, seen := u.transactions[id]; seen {
		return
	}
	if t, ok := s.transactions[id]; ok {
		t = cloneTransaction(t)
		u.transactions[id] = &t
		return
	}
	u.transactions[id] = nil
}

func (u *undoLog) recordGoal(s *Store, id int64) {
	if u == nil {
		return
	}
	if _, seen := u.goals[id]; seen {
		return
	}
	if g, ok := s.goals[id]; ok {
		u.goals[id] = &g
		return
	}
	u.goals[id] = nil
}

func (u *undoLog) restore(s *Store) {
	for id, t := range u.transactions {
		if t == nil {
			delete(s.transactions, id)
			continue
		}
		s.transactions[id] = *t
	}
	for id, g := range u.goals {
		if g == nil {
			delete(s.goals, id)
			continue
		}
		s.goals[id] = *g
	}
}

// WithinTx implements repository.UnitOfWork. Goal ids handed out by a failed
// unit are not reused, like a SQL sequence.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := newUndoLog()
	repos := repository.Repositories{
		Transactions: &transactionRepo{s: s, undo: undo},
		Goals:        &goalRepo{s: s, undo: undo},
	}
	if err := fn(repos); err != nil {
		s.mu.Lock()
		undo.restore(s)
		s.mu.Unlock()
		return err
	}
	return nil
}

type transactionRepo struct {
	s    *Store
	undo *undoLog
}

func (r *transactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.undo.recordTransaction(r.s, t.ID)
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.transactions[t.ID] = cloneTransaction(*t)
	return nil
}

func (r *transactionRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.transactions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	t = cloneTransaction(t)
	return &t, nil
}

// FindByIDForUpdate needs no lock of its own, units of work are serialized
func (r *transactionRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Transaction, error) {
	return r.FindByID(ctx, id)
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Transaction, 0, len(r.s.transactions))
	for _, t := range r.s.transactions {
		out = append(out, cloneTransaction(t))
	}
	slices.SortFunc(out, func(a, b model.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *transactionRepo) Update(ctx context.Context, id string, p model.TransactionPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.transactions[id]
	if !ok {
		return model.ErrNotFound
	}
	r.undo.recordTransaction(r.s, id)
	t = p.Apply(t)
	t.UpdatedAt = time.Now()
	r.s.transactions[id] = t
	return nil
}

func (r *transactionRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.transactions[id]; !ok {
		return model.ErrNotFound
	}
	r.undo.recordTransaction(r.s, id)
	delete(r.s.transactions, id)
	return nil
}

type goalRepo struct {
	s    *Store
	undo *undoLog
}

func (r *goalRepo) Create(ctx context.Context, g *model.SavingsGoal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextGoalID++
	now := time.Now()
	g.ID = r.s.nextGoalID
	r.undo.recordGoal(r.s, g.ID)
	g.SavedAmount = decimal.Zero
	g.CreatedAt, g.UpdatedAt = now, now
	r.s.goals[g.ID] = *g
	return nil
}

func (r *goalRepo) FindByID(ctx context.Context, id int64) (*model.SavingsGoal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.goals[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &g, nil
}

func (r *goalRepo) FindAll(ctx context.Context) ([]model.SavingsGoal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(r.s.goals))
	out := make([]model.SavingsGoal, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.goals[id])
	}
	return out, nil
}

func (r *goalRepo) FindAllForUpdate(ctx context.Context) ([]model.SavingsGoal, error) {
	return r.FindAll(ctx)
}

func (r *goalRepo) Update(ctx context.Context, id int64, name string, target decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.goals[id]
	if !ok {
		return model.ErrNotFound
	}
	r.undo.recordGoal(r.s, id)
	g.Name = name
	g.TargetAmount = target
	g.UpdatedAt = time.Now()
	r.s.goals[id] = g
	return nil
}

// Delete removes the goal and clears references to it, like the
// ON DELETE SET NULL constraint of the SQL schema.
func (r *goalRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.goals[id]; !ok {
		return model.ErrNotFound
	}
	r.undo.recordGoal(r.s, id)
	delete(r.s.goals, id)
	for txID, t := range r.s.transactions {
		if t.SavingsGoalID != nil && *t.SavingsGoalID == id {
			r.undo.recordTransaction(r.s, txID)
			t.SavingsGoalID = nil
			r.s.transactions[txID] = t
		}
	}
	return nil
}

func (r *goalRepo) AdjustSavedAmount(ctx context.Context, id int64, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.goals[id]
	if !ok {
		return model.ErrNotFound
	}
	r.undo.recordGoal(r.s, id)
	g.SavedAmount = g.SavedAmount.Add(delta)
	g.UpdatedAt = time.Now()
	r.s.goals[id] = g
	return nil
}

func (r *goalRepo) SetSavedAmounts(ctx context.Context, amounts map[int64]decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, amount := range amounts {
		g, ok := r.s.goals[id]
		if !ok || g.SavedAmount.Equal(amount) {
			continue
		}
		r.undo.recordGoal(r.s, id)
		g.SavedAmount = amount
		g.UpdatedAt = time.Now()
		r.s.goals[id] = g
	}
	return nil
}

type settingsRepo struct{ s *Store }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.settings == nil {
		return nil, model.ErrNotFound
	}
	cp := cloneSettings(*r.s.settings)
	return &cp, nil
}

func (r *settingsRepo) Save(ctx context.Context, settings *model.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := cloneSettings(*settings)
	r.s.settings = &cp
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextUserID++
	u.ID = r.s.nextUserID
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func cloneTransaction(t model.Transaction) model.Transaction {
	if t.SavingsGoalID != nil {
		id := *t.SavingsGoalID
		t.SavingsGoalID = &id
	}
	return t
}

func cloneSettings(s model.Settings) model.Settings {
	s.ExpenseCategories = slices.Clone(s.ExpenseCategories)
	s.IncomeCategories = slices.Clone(s.IncomeCategories)
	s.CategoryIcons = maps.Clone(s.CategoryIcons)
	s.IncomeCategoryIcons = maps.Clone(s.IncomeCategoryIcons)
	return s
}
