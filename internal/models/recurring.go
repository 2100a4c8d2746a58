package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringFrequency is how often a recurring transaction falls due
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// RecurringTransaction is a bill or subscription that repeats
type RecurringTransaction struct {
	ID            string             `json:"id"`
	FamilyID      string             `json:"family_id"`
	Amount        decimal.Decimal    `json:"amount"`
	Currency      string             `json:"currency"`
	Category      string             `json:"category"`
	Description   string             `json:"description"`
	Frequency     RecurringFrequency `json:"frequency"`
	StartDate     time.Time          `json:"start_date"`
	NextDueDate   time.Time          `json:"next_due_date"`
	LastPaidDate  *time.Time         `json:"last_paid_date,omitempty"`
	IsActive      bool               `json:"is_active"`
	PaymentMethod PaymentMethod      `json:"payment_method,omitempty"`
	AccountID     string             `json:"account_id,omitempty"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	AutoDeduct    bool               `json:"auto_deduct"`
	Notify        bool               `json:"notify"`
}

// Validate checks required fields, the amount and the frequency
func (r RecurringTransaction) Validate() error {
	if err := firstError(
		required("id", r.ID),
		required("family_id", r.FamilyID),
		required("category", r.Category),
		required("created_by", r.CreatedBy),
		positive("amount", r.Amount),
	); err != nil {
		return err
	}
	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return nil
	}
	return ValidationError{Field: "frequency", Message: "unknown frequency " + string(r.Frequency)}
}

// IsDue reports whether the transaction falls due on or before day
func (r RecurringTransaction) IsDue(day time.Time) bool {
	return r.IsActive && !dateOf(r.NextDueDate).After(dateOf(day))
}

// NextAfter returns the due date following due
func (r RecurringTransaction) NextAfter(due time.Time) time.Time {
	switch r.Frequency {
	case FrequencyDaily:
		return due.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case FrequencyYearly:
		return due.AddDate(1, 0, 0)
	default:
		return due.AddDate(0, 1, 0)
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
