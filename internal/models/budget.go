package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the window a budget limit applies to
type BudgetPeriod string

const (
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetWeekly  BudgetPeriod = "weekly"
)

// Budget caps spending in one category per period
type Budget struct {
	ID                     string          `json:"id"`
	FamilyID               string          `json:"family_id"`
	Category               string          `json:"category"`
	LimitAmount            decimal.Decimal `json:"limit_amount"`
	Period                 BudgetPeriod    `json:"period"`
	NotifyThresholdPercent int             `json:"notify_threshold_percent"`
	CreatedByUserID        string          `json:"created_by_user_id"`
	CreatedAt              time.Time       `json:"created_at"`
}

// Validate checks required fields, the limit and the period
func (b Budget) Validate() error {
	if err := firstError(
		required("id", b.ID),
		required("family_id", b.FamilyID),
		required("category", b.Category),
		positive("limit_amount", b.LimitAmount),
	); err != nil {
		return err
	}
	if b.Period != BudgetMonthly && b.Period != BudgetWeekly {
		return ValidationError{Field: "period", Message: "period must be monthly or weekly"}
	}
	if b.NotifyThresholdPercent < 0 || b.NotifyThresholdPercent > 100 {
		return ValidationError{Field: "notify_threshold_percent", Message: "threshold must be between 0 and 100"}
	}
	return nil
}

// PeriodBounds returns the [start, end) window containing now. Weeks
// start on Monday.
func (b Budget) PeriodBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	if b.Period == BudgetWeekly {
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 7)
	}
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
