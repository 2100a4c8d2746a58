package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"sync"
	"time"

	"kharchapal/internal/models"
	"kharchapal/internal/repository"
)

var (
	ErrNoActiveFamily  = errors.New("no active family")
	ErrWrongFamily     = errors.New("record belongs to a different family")
	ErrRecordNotFound  = errors.New("record not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrGoalNotFound    = errors.New("goal not found")
)

// Snapshot is the cached data of the active family
type Snapshot struct {
	CurrentUser           *models.User
	CurrentFamily         *models.Family
	Users                 []models.User
	Expenses              []models.Expense
	Income                []models.Income
	Debts                 []models.DebtRecord
	Budgets               []models.Budget
	Accounts              []models.Account
	Goals                 []models.Goal
	GoalTransfers         []models.GoalTransfer
	CustomCategories      []models.CustomCategory
	RecurringTransactions []models.RecurringTransaction
	IsLoading             bool
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	if s.CurrentFamily != nil {
		f := *s.CurrentFamily
		out.CurrentFamily = &f
	}
	out.Users = slices.Clone(s.Users)
	out.Expenses = make([]models.Expense, len(s.Expenses))
	for i, e := range s.Expenses {
		out.Expenses[i] = cloneExpense(e)
	}
	out.Income = slices.Clone(s.Income)
	out.Debts = slices.Clone(s.Debts)
	out.Budgets = slices.Clone(s.Budgets)
	out.Accounts = slices.Clone(s.Accounts)
	out.Goals = slices.Clone(s.Goals)
	out.GoalTransfers = slices.Clone(s.GoalTransfers)
	out.CustomCategories = slices.Clone(s.CustomCategories)
	out.RecurringTransactions = slices.Clone(s.RecurringTransactions)
	return out
}

func cloneExpense(e models.Expense) models.Expense {
	e.PaymentLines = slices.Clone(e.PaymentLines)
	for i, l := range e.PaymentLines {
		if l.BorrowedFrom != nil {
			b := *l.BorrowedFrom
			e.PaymentLines[i].BorrowedFrom = &b
		}
	}
	e.Attachments = slices.Clone(e.Attachments)
	e.ReceiptURLs = slices.Clone(e.ReceiptURLs)
	return e
}

// AppState mirrors the active family's records in memory and applies
// every mutation to the store before it becomes visible in the snapshot.
type AppState struct {
	repo     *repository.Repository
	settings *repository.SettingsRepository
	now      func() time.Time

	// opMu serializes mutations; mu guards snap
	opMu sync.Mutex
	mu   sync.RWMutex
	snap Snapshot
}

// NewAppState creates an empty application state over repo
func NewAppState(repo *repository.Repository, settings *repository.SettingsRepository) *AppState {
	return &AppState{
		repo:     repo,
		settings: settings,
		now:      time.Now,
	}
}

// Init empties the snapshot and marks it loading
func (a *AppState) Init() {
	a.mu.Lock()
	a.snap = Snapshot{IsLoading: true}
	a.mu.Unlock()
}

// Reset empties the snapshot
func (a *AppState) Reset() {
	a.mu.Lock()
	a.snap = Snapshot{}
	a.mu.Unlock()
}

func (a *AppState) setLoading(loading bool) {
	a.mu.Lock()
	a.snap.IsLoading = loading
	a.mu.Unlock()
}

// Snapshot returns a copy of the cached state
func (a *AppState) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.clone()
}

func (a *AppState) activeFamily() (*models.Family, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.CurrentFamily == nil {
		return nil, ErrNoActiveFamily
	}
	f := *a.snap.CurrentFamily
	return &f, nil
}

func (a *AppState) checkFamily(familyID string) error {
	family, err := a.activeFamily()
	if err != nil {
		return err
	}
	if familyID != family.ID {
		return fmt.Errorf("%w: %s is not %s", ErrWrongFamily, familyID, family.ID)
	}
	return nil
}

// checkStored rejects replacing a stored record that belongs to another
// family. Ids are global, so an update must not move a record across.
func checkStored(id, storedFamilyID, familyID string) error {
	if storedFamilyID != familyID {
		return fmt.Errorf("%w: %s is stored under %s", ErrWrongFamily, id, storedFamilyID)
	}
	return nil
}

// mutate persists a change for familyID in one batch and then applies it
// to the snapshot. Nothing is applied when the batch fails.
func (a *AppState) mutate(ctx context.Context, op, familyID string, persist func(tx *repository.Repository) error, apply func(s *Snapshot)) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.checkFamily(familyID); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if err := a.repo.InTx(ctx, persist); err != nil {
		log.Printf("Failed to %s: %v", op, err)
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	a.mu.Lock()
	apply(&a.snap)
	a.mu.Unlock()
	return nil
}

// prepend puts v first, matching the newest-first order of the snapshot
func prepend[T any](list []T, v T) []T {
	return append([]T{v}, list...)
}

// replace swaps the element with v's id for v, or prepends v when absent
func replace[T any](list []T, v T, id func(T) string) []T {
	for i := range list {
		if id(list[i]) == id(v) {
			list[i] = v
			return list
		}
	}
	return prepend(list, v)
}

func without[T any](list []T, key string, id func(T) string) []T {
	return slices.DeleteFunc(list, func(v T) bool { return id(v) == key })
}

func expenseID(e models.Expense) string                { return e.ID }
func incomeID(i models.Income) string                  { return i.ID }
func debtID(d models.DebtRecord) string                { return d.ID }
func budgetID(b models.Budget) string                  { return b.ID }
func accountID(a models.Account) string                { return a.ID }
func goalID(g models.Goal) string                      { return g.ID }
func categoryID(c models.CustomCategory) string        { return c.ID }
func recurringID(r models.RecurringTransaction) string { return r.ID }

// SetCurrentUser makes user the session user and saves the pointer. A nil
// user clears both.
func (a *AppState) SetCurrentUser(ctx context.Context, user *models.User) error {
	value := ""
	if user != nil {
		value = user.ID
	}
	if err := a.settings.SetSetting(ctx, repository.CurrentUserKey, value); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if user == nil {
		a.snap.CurrentUser = nil
		return nil
	}
	u := *user
	a.snap.CurrentUser = &u
	return nil
}

// SetCurrentFamily makes family the active scope and saves the pointer. A
// nil family clears both.
func (a *AppState) SetCurrentFamily(ctx context.Context, family *models.Family) error {
	value := ""
	if family != nil {
		value = family.ID
	}
	if err := a.settings.SetSetting(ctx, repository.CurrentFamilyKey, value); err != nil {
		return fmt.Errorf("failed to save current family: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if family == nil {
		a.snap.CurrentFamily = nil
		return nil
	}
	f := *family
	a.snap.CurrentFamily = &f
	return nil
}

// Logout forgets the session. Family data stays in the store.
func (a *AppState) Logout(ctx context.Context) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.settings.ClearSessionPointers(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	a.Reset()
	return nil
}

// familyData holds the collections fetched for one family
type familyData struct {
	users      []models.User
	expenses   []models.Expense
	income     []models.Income
	debts      []models.DebtRecord
	budgets    []models.Budget
	accounts   []models.Account
	goals      []models.Goal
	transfers  []models.GoalTransfer
	categories []models.CustomCategory
	recurring  []models.RecurringTransaction
}

// LoadFamilyData fetches every collection of familyID concurrently and
// replaces the cached collections in one step.
func (a *AppState) LoadFamilyData(ctx context.Context, familyID string) error {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	var (
		data     familyData
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to load %s: %w", name, err)
				}
				errMu.Unlock()
			}
		}()
	}

	fetch("users", func() (err error) {
		data.users, err = a.repo.GetUsersByFamily(ctx, familyID)
		return err
	})
	fetch("expenses", func() (err error) {
		data.expenses, err = a.repo.GetExpensesByFamily(ctx, familyID)
		return err
	})
	fetch("income", func() (err error) {
		data.income, err = a.repo.GetIncomeByFamily(ctx, familyID)
		return err
	})
	fetch("debts", func() (err error) {
		data.debts, err = a.repo.GetDebtsByFamily(ctx, familyID)
		return err
	})
	fetch("budgets", func() (err error) {
		data.budgets, err = a.repo.GetBudgetsByFamily(ctx, familyID)
		return err
	})
	fetch("accounts", func() (err error) {
		data.accounts, err = a.repo.GetAccountsByFamily(ctx, familyID)
		return err
	})
	fetch("goals", func() (err error) {
		data.goals, err = a.repo.GetGoalsByFamily(ctx, familyID)
		return err
	})
	fetch("goal transfers", func() (err error) {
		data.transfers, err = a.repo.GetGoalTransfersByFamily(ctx, familyID)
		return err
	})
	fetch("custom categories", func() (err error) {
		data.categories, err = a.repo.GetCustomCategoriesByFamily(ctx, familyID)
		return err
	})
	fetch("recurring transactions", func() (err error) {
		data.recurring, err = a.repo.GetRecurringTransactionsByFamily(ctx, familyID)
		return err
	})
	wg.Wait()

	if firstErr != nil {
		log.Printf("Failed to load family %s: %v", familyID, firstErr)
		return firstErr
	}

	inFamily := func(id string) bool { return id == familyID }
	data.users = slices.DeleteFunc(data.users, func(u models.User) bool { return !inFamily(u.FamilyID) })
	data.expenses = slices.DeleteFunc(data.expenses, func(e models.Expense) bool { return !inFamily(e.FamilyID) })
	data.income = slices.DeleteFunc(data.income, func(i models.Income) bool { return !inFamily(i.FamilyID) })
	data.debts = slices.DeleteFunc(data.debts, func(d models.DebtRecord) bool { return !inFamily(d.FamilyID) })
	data.budgets = slices.DeleteFunc(data.budgets, func(b models.Budget) bool { return !inFamily(b.FamilyID) })
	data.accounts = slices.DeleteFunc(data.accounts, func(acc models.Account) bool { return !inFamily(acc.FamilyID) })
	data.goals = slices.DeleteFunc(data.goals, func(g models.Goal) bool { return !inFamily(g.FamilyID) })
	data.categories = slices.DeleteFunc(data.categories, func(c models.CustomCategory) bool { return !inFamily(c.FamilyID) })
	data.recurring = slices.DeleteFunc(data.recurring, func(r models.RecurringTransaction) bool { return !inFamily(r.FamilyID) })

	sort.SliceStable(data.expenses, func(i, j int) bool { return data.expenses[i].Date.After(data.expenses[j].Date) })
	sort.SliceStable(data.income, func(i, j int) bool { return data.income[i].Date.After(data.income[j].Date) })
	sort.SliceStable(data.goals, func(i, j int) bool { return data.goals[i].CreatedAt.After(data.goals[j].CreatedAt) })

	a.mu.Lock()
	a.snap.Users = data.users
	a.snap.Expenses = data.expenses
	a.snap.Income = data.income
	a.snap.Debts = data.debts
	a.snap.Budgets = data.budgets
	a.snap.Accounts = data.accounts
	a.snap.Goals = data.goals
	a.snap.GoalTransfers = data.transfers
	a.snap.CustomCategories = data.categories
	a.snap.RecurringTransactions = data.recurring
	a.mu.Unlock()

	log.Printf("Loaded family %s: %d expenses, %d income, %d debts, %d accounts, %d goals",
		familyID, len(data.expenses), len(data.income), len(data.debts), len(data.accounts), len(data.goals))
	return nil
}
