package service

import (
	"context"
	"fmt"

	"kharchapal/internal/models"
	"kharchapal/internal/repository"
)

// AddIncome records new income
func (a *AppState) AddIncome(ctx context.Context, income models.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}
	now := a.now()
	if income.CreatedAt.IsZero() {
		income.CreatedAt = now
	}
	if income.Date.IsZero() {
		income.Date = now
	}
	if income.SyncStatus == "" {
		income.SyncStatus = models.SyncPending
	}

	return a.mutate(ctx, "add income", income.FamilyID,
		func(tx *repository.Repository) error { return tx.AddIncome(ctx, income) },
		func(s *Snapshot) { s.Income = prepend(s.Income, income) })
}

// UpdateIncome replaces an income record
func (a *AppState) UpdateIncome(ctx context.Context, income models.Income) error {
	if err := income.Validate(); err != nil {
		return err
	}
	now := a.now()
	income.UpdatedAt = &now

	return a.mutate(ctx, "update income", income.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetIncome(ctx, income.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(income.ID, current.FamilyID, income.FamilyID); err != nil {
					return err
				}
			}
			return tx.UpdateIncome(ctx, income)
		},
		func(s *Snapshot) { s.Income = replace(s.Income, income, incomeID) })
}

// AddDebt records a new IOU
func (a *AppState) AddDebt(ctx context.Context, debt models.DebtRecord) error {
	if debt.Status == "" {
		debt.Status = models.DebtOpen
	}
	if err := debt.Validate(); err != nil {
		return err
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = a.now()
	}

	return a.mutate(ctx, "add debt", debt.FamilyID,
		func(tx *repository.Repository) error { return tx.AddDebt(ctx, debt) },
		func(s *Snapshot) { s.Debts = prepend(s.Debts, debt) })
}

// UpdateDebt replaces a debt. The amount can never change, and a settled
// debt only accepts changes to its settlement details.
func (a *AppState) UpdateDebt(ctx context.Context, debt models.DebtRecord) error {
	if err := debt.Validate(); err != nil {
		return err
	}

	return a.mutate(ctx, "update debt", debt.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetDebt(ctx, debt.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(debt.ID, current.FamilyID, debt.FamilyID); err != nil {
					return err
				}
				if err := current.CheckReplacement(debt); err != nil {
					return err
				}
			}
			return tx.UpdateDebt(ctx, debt)
		},
		func(s *Snapshot) { s.Debts = replace(s.Debts, debt, debtID) })
}

// SettleDebt marks an open debt of the active family as settled
func (a *AppState) SettleDebt(ctx context.Context, id string, method models.PaymentMethod, message string) error {
	a.mu.RLock()
	var cached *models.DebtRecord
	for i := range a.snap.Debts {
		if a.snap.Debts[i].ID == id {
			d := a.snap.Debts[i]
			cached = &d
			break
		}
	}
	a.mu.RUnlock()
	if cached == nil {
		return fmt.Errorf("failed to settle debt: %w: %s", ErrRecordNotFound, id)
	}

	var settled models.DebtRecord
	return a.mutate(ctx, "settle debt", cached.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetDebt(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
			}
			if err := checkStored(id, current.FamilyID, cached.FamilyID); err != nil {
				return err
			}
			if current.Status == models.DebtSettled {
				return models.ErrSettledDebt
			}
			settled = current.Settle(a.now(), method, message)
			return tx.UpdateDebt(ctx, settled)
		},
		func(s *Snapshot) { s.Debts = replace(s.Debts, settled, debtID) })
}

// AddBudget records a new budget
func (a *AppState) AddBudget(ctx context.Context, budget models.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = a.now()
	}

	return a.mutate(ctx, "add budget", budget.FamilyID,
		func(tx *repository.Repository) error { return tx.AddBudget(ctx, budget) },
		func(s *Snapshot) { s.Budgets = append(s.Budgets, budget) })
}

// UpdateBudget replaces a budget
func (a *AppState) UpdateBudget(ctx context.Context, budget models.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	return a.mutate(ctx, "update budget", budget.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetBudget(ctx, budget.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(budget.ID, current.FamilyID, budget.FamilyID); err != nil {
					return err
				}
			}
			return tx.UpdateBudget(ctx, budget)
		},
		func(s *Snapshot) { s.Budgets = replace(s.Budgets, budget, budgetID) })
}

// AddAccount records a new account. Its current balance starts at the
// opening balance.
func (a *AppState) AddAccount(ctx context.Context, account models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	account.CurrentBalance = account.OpeningBalance
	if account.CreatedAt.IsZero() {
		account.CreatedAt = a.now()
	}

	return a.mutate(ctx, "add account", account.FamilyID,
		func(tx *repository.Repository) error { return tx.AddAccount(ctx, account) },
		func(s *Snapshot) { s.Accounts = append(s.Accounts, account) })
}

// UpdateAccount replaces an account's details. The current balance is
// kept from the store; only recorded transactions move it.
func (a *AppState) UpdateAccount(ctx context.Context, account models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	now := a.now()
	account.UpdatedAt = &now

	return a.mutate(ctx, "update account", account.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetAccount(ctx, account.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, account.ID)
			}
			if err := checkStored(account.ID, current.FamilyID, account.FamilyID); err != nil {
				return err
			}
			account.CurrentBalance = current.CurrentBalance
			return tx.UpdateAccount(ctx, account)
		},
		func(s *Snapshot) { s.Accounts = replace(s.Accounts, account, accountID) })
}

// AddGoal records a new savings goal
func (a *AppState) AddGoal(ctx context.Context, goal models.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = a.now()
	}
	if goal.SyncStatus == "" {
		goal.SyncStatus = models.SyncPending
	}

	return a.mutate(ctx, "add goal", goal.FamilyID,
		func(tx *repository.Repository) error { return tx.AddGoal(ctx, goal) },
		func(s *Snapshot) { s.Goals = prepend(s.Goals, goal) })
}

// UpdateGoal replaces a goal. Completion is the caller's to set.
func (a *AppState) UpdateGoal(ctx context.Context, goal models.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	return a.mutate(ctx, "update goal", goal.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetGoal(ctx, goal.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(goal.ID, current.FamilyID, goal.FamilyID); err != nil {
					return err
				}
			}
			return tx.UpdateGoal(ctx, goal)
		},
		func(s *Snapshot) { s.Goals = replace(s.Goals, goal, goalID) })
}

// AddUser adds a member to the active family
func (a *AppState) AddUser(ctx context.Context, user models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = a.now()
	}

	return a.mutate(ctx, "add user", user.FamilyID,
		func(tx *repository.Repository) error { return tx.AddUser(ctx, user) },
		func(s *Snapshot) { s.Users = append(s.Users, user) })
}

// AddCustomCategory records a family-defined category
func (a *AppState) AddCustomCategory(ctx context.Context, category models.CustomCategory) error {
	if err := category.Validate(); err != nil {
		return err
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = a.now()
	}

	return a.mutate(ctx, "add custom category", category.FamilyID,
		func(tx *repository.Repository) error { return tx.AddCustomCategory(ctx, category) },
		func(s *Snapshot) { s.CustomCategories = append(s.CustomCategories, category) })
}

// DeleteCustomCategory removes a category of the active family
func (a *AppState) DeleteCustomCategory(ctx context.Context, id string) error {
	family, err := a.activeFamily()
	if err != nil {
		return fmt.Errorf("failed to delete custom category: %w", err)
	}
	if !a.cachedCategory(id) {
		return fmt.Errorf("failed to delete custom category: %w: %s", ErrRecordNotFound, id)
	}

	return a.mutate(ctx, "delete custom category", family.ID,
		func(tx *repository.Repository) error { return tx.DeleteCustomCategory(ctx, id) },
		func(s *Snapshot) { s.CustomCategories = without(s.CustomCategories, id, categoryID) })
}

func (a *AppState) cachedCategory(id string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, c := range a.snap.CustomCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// AddRecurringTransaction records a new recurring transaction
func (a *AppState) AddRecurringTransaction(ctx context.Context, rt models.RecurringTransaction) error {
	if err := rt.Validate(); err != nil {
		return err
	}
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = a.now()
	}
	if rt.NextDueDate.IsZero() {
		rt.NextDueDate = rt.StartDate
	}

	return a.mutate(ctx, "add recurring transaction", rt.FamilyID,
		func(tx *repository.Repository) error { return tx.AddRecurringTransaction(ctx, rt) },
		func(s *Snapshot) { s.RecurringTransactions = append(s.RecurringTransactions, rt) })
}

// UpdateRecurringTransaction replaces a recurring transaction
func (a *AppState) UpdateRecurringTransaction(ctx context.Context, rt models.RecurringTransaction) error {
	if err := rt.Validate(); err != nil {
		return err
	}

	return a.mutate(ctx, "update recurring transaction", rt.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetRecurringTransaction(ctx, rt.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(rt.ID, current.FamilyID, rt.FamilyID); err != nil {
					return err
				}
			}
			return tx.UpdateRecurringTransaction(ctx, rt)
		},
		func(s *Snapshot) { s.RecurringTransactions = replace(s.RecurringTransactions, rt, recurringID) })
}

// DeleteRecurringTransaction removes a recurring transaction of the
// active family
func (a *AppState) DeleteRecurringTransaction(ctx context.Context, id string) error {
	rt, ok := a.cachedRecurring(id)
	if !ok {
		return fmt.Errorf("failed to delete recurring transaction: %w: %s", ErrRecordNotFound, id)
	}

	return a.mutate(ctx, "delete recurring transaction", rt.FamilyID,
		func(tx *repository.Repository) error { return tx.DeleteRecurringTransaction(ctx, id) },
		func(s *Snapshot) { s.RecurringTransactions = without(s.RecurringTransactions, id, recurringID) })
}

func (a *AppState) cachedRecurring(id string) (models.RecurringTransaction, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, rt := range a.snap.RecurringTransactions {
		if rt.ID == id {
			return rt, true
		}
	}
	return models.RecurringTransaction{}, false
}
