package service

import (
	"context"
	"fmt"
	"time"

	"kharchapal/internal/models"
	"kharchapal/internal/repository"
	"kharchapal/internal/utils"
)

// derivedEffects are the records written alongside an expense
type derivedEffects struct {
	debts    []models.DebtRecord
	accounts []models.Account
}

// DerivedDebtID is the id of the debt derived from one borrowed line
func DerivedDebtID(expenseID, lineID string) string {
	return utils.DerivedID("debt", expenseID, lineID)
}

func derivedDebt(e models.Expense, line models.PaymentLine, at time.Time) models.DebtRecord {
	return models.DebtRecord{
		ID:              DerivedDebtID(e.ID, line.ID),
		FamilyID:        e.FamilyID,
		LenderUserID:    line.BorrowedFrom.Lender(),
		LenderName:      line.BorrowedFrom.LenderName,
		BorrowerUserID:  line.PayerUserID,
		Amount:          line.Amount,
		Currency:        e.Currency,
		Status:          models.DebtOpen,
		CreatedAt:       at,
		LinkedExpenseID: e.ID,
	}
}

// recordExpense writes e, then a debt per borrowed line, then a debit
// per line paid from an account. Balances are read inside tx so two
// lines on one account both count.
func recordExpense(ctx context.Context, tx *repository.Repository, e models.Expense, at time.Time) (derivedEffects, error) {
	var fx derivedEffects

	if err := tx.AddExpense(ctx, e); err != nil {
		return fx, err
	}

	for _, line := range e.PaymentLines {
		if line.BorrowedFrom == nil {
			continue
		}
		debt := derivedDebt(e, line, at)
		if err := tx.AddDebt(ctx, debt); err != nil {
			return fx, fmt.Errorf("failed to record debt for line %s: %w", line.ID, err)
		}
		fx.debts = append(fx.debts, debt)
	}

	debited := make(map[string]int)
	for _, line := range e.PaymentLines {
		if line.AccountID == "" {
			continue
		}
		acc, err := tx.GetAccount(ctx, line.AccountID)
		if err != nil {
			return fx, err
		}
		if acc == nil {
			return fx, fmt.Errorf("%w: %s", ErrAccountNotFound, line.AccountID)
		}
		if acc.FamilyID != e.FamilyID {
			return fx, fmt.Errorf("%w: account %s", ErrWrongFamily, acc.ID)
		}

		updated := acc.Debit(line.Amount, at)
		if err := tx.UpdateAccount(ctx, updated); err != nil {
			return fx, fmt.Errorf("failed to debit account %s: %w", acc.ID, err)
		}
		if i, ok := debited[acc.ID]; ok {
			fx.accounts[i] = updated
		} else {
			debited[acc.ID] = len(fx.accounts)
			fx.accounts = append(fx.accounts, updated)
		}
	}
	return fx, nil
}

func (fx derivedEffects) apply(s *Snapshot) {
	for _, d := range fx.debts {
		s.Debts = prepend(s.Debts, d)
	}
	for _, acc := range fx.accounts {
		s.Accounts = replace(s.Accounts, acc, accountID)
	}
}

// AddExpense records a new expense together with the debts its borrowed
// lines create and the debits on the accounts it was paid from. Either
// all of them are stored or none is.
func (a *AppState) AddExpense(ctx context.Context, expense models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}

	now := a.now()
	expense = cloneExpense(expense)
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	if expense.Date.IsZero() {
		expense.Date = now
	}
	if expense.SyncStatus == "" {
		expense.SyncStatus = models.SyncPending
	}
	if expense.Attachments == nil {
		expense.Attachments = []string{}
	}

	var fx derivedEffects
	return a.mutate(ctx, "add expense", expense.FamilyID,
		func(tx *repository.Repository) (err error) {
			fx, err = recordExpense(ctx, tx, expense, now)
			return err
		},
		func(s *Snapshot) {
			s.Expenses = prepend(s.Expenses, expense)
			fx.apply(s)
		})
}

// UpdateExpense replaces an expense. Debts and account debits derived
// when it was added are left as they are.
func (a *AppState) UpdateExpense(ctx context.Context, expense models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}

	now := a.now()
	expense = cloneExpense(expense)
	expense.UpdatedAt = &now

	return a.mutate(ctx, "update expense", expense.FamilyID,
		func(tx *repository.Repository) error {
			current, err := tx.GetExpense(ctx, expense.ID)
			if err != nil {
				return err
			}
			if current != nil {
				if err := checkStored(expense.ID, current.FamilyID, expense.FamilyID); err != nil {
					return err
				}
			}
			return tx.UpdateExpense(ctx, expense)
		},
		func(s *Snapshot) {
			s.Expenses = replace(s.Expenses, expense, expenseID)
		})
}

// AddGoalTransfer records a contribution to a goal, the expense that
// books it and the debit on its source account. The goal's current
// amount is not changed here; see models.Goal.ApplyContribution.
func (a *AppState) AddGoalTransfer(ctx context.Context, transfer models.GoalTransfer) error {
	if err := transfer.Validate(); err != nil {
		return err
	}

	family, err := a.activeFamily()
	if err != nil {
		return fmt.Errorf("failed to add goal transfer: %w", err)
	}
	goal, ok := a.cachedGoal(transfer.GoalID)
	if !ok {
		return fmt.Errorf("failed to add goal transfer: %w: %s", ErrGoalNotFound, transfer.GoalID)
	}

	now := a.now()
	if transfer.TransferDate.IsZero() {
		transfer.TransferDate = now
	}
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = now
	}
	if transfer.TransferType == "" {
		transfer.TransferType = models.TransferManual
	}
	if transfer.SyncStatus == "" {
		transfer.SyncStatus = models.SyncPending
	}
	mirrored := transfer.MirroredExpense(goal, family.Currency)
	if err := mirrored.Validate(); err != nil {
		return err
	}

	var fx derivedEffects
	return a.mutate(ctx, "add goal transfer", goal.FamilyID,
		func(tx *repository.Repository) (err error) {
			stored, err := tx.GetGoal(ctx, goal.ID)
			if err != nil {
				return err
			}
			if stored == nil {
				return fmt.Errorf("%w: %s", ErrGoalNotFound, goal.ID)
			}
			if err := tx.AddGoalTransfer(ctx, transfer); err != nil {
				return err
			}
			fx, err = recordExpense(ctx, tx, mirrored, now)
			return err
		},
		func(s *Snapshot) {
			s.GoalTransfers = prepend(s.GoalTransfers, transfer)
			s.Expenses = prepend(s.Expenses, mirrored)
			fx.apply(s)
		})
}

func (a *AppState) cachedGoal(id string) (models.Goal, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, g := range a.snap.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}
