package service

import (
	"time"

	"github.com/shopspring/decimal"

	"kharchapal/internal/models"
)

// BudgetStatus is how much of a budget the current period has used
type BudgetStatus struct {
	Budget        models.Budget
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Spent         decimal.Decimal
	Remaining     decimal.Decimal
	Percent       decimal.Decimal
	OverThreshold bool
	OverLimit     bool
}

var hundred = decimal.NewFromInt(100)

// BudgetStatus reports every budget of the active family against the
// expenses in the period containing now.
func (a *AppState) BudgetStatus(now time.Time) []BudgetStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]BudgetStatus, 0, len(a.snap.Budgets))
	for _, b := range a.snap.Budgets {
		start, end := b.PeriodBounds(now)
		spent := decimal.Zero
		for _, e := range a.snap.Expenses {
			if e.Category != b.Category || e.Date.Before(start) || !e.Date.Before(end) {
				continue
			}
			spent = spent.Add(e.TotalAmount)
		}

		status := BudgetStatus{
			Budget:      b,
			PeriodStart: start,
			PeriodEnd:   end,
			Spent:       spent,
			Remaining:   b.LimitAmount.Sub(spent),
			Percent:     decimal.Zero,
		}
		if b.LimitAmount.IsPositive() {
			status.Percent = spent.Div(b.LimitAmount).Mul(hundred).Round(2)
		}
		status.OverThreshold = status.Percent.GreaterThanOrEqual(decimal.NewFromInt(int64(b.NotifyThresholdPercent)))
		status.OverLimit = spent.GreaterThan(b.LimitAmount)
		out = append(out, status)
	}
	return out
}

// VisibleExpenses returns the expenses the current user may see. Admins
// see the whole family; members see their own and shared ones.
func (a *AppState) VisibleExpenses() []models.Expense {
	a.mu.RLock()
	defer a.mu.RUnlock()

	user := a.snap.CurrentUser
	var out []models.Expense
	for _, e := range a.snap.Expenses {
		if user != nil && (user.IsAdmin() || e.CreatedBy == user.ID || e.IsShared) {
			out = append(out, cloneExpense(e))
		}
	}
	return out
}

// VisibleIncome returns the income the current user may see
func (a *AppState) VisibleIncome() []models.Income {
	a.mu.RLock()
	defer a.mu.RUnlock()

	user := a.snap.CurrentUser
	var out []models.Income
	for _, i := range a.snap.Income {
		if user != nil && (user.IsAdmin() || i.CreatedBy == user.ID || i.IsShared) {
			out = append(out, i)
		}
	}
	return out
}
