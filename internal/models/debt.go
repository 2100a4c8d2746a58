package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the state of an IOU
type DebtStatus string

const (
	DebtOpen    DebtStatus = "open"
	DebtSettled DebtStatus = "settled"
)

// ErrSettledDebt is returned when a change would alter a settled debt
var ErrSettledDebt = errors.New("settled debt cannot be changed")

// ErrDebtAmountChanged is returned when an update changes a debt's amount
var ErrDebtAmountChanged = errors.New("debt amount is fixed at creation")

// DebtRecord is an IOU between two people in a family
type DebtRecord struct {
	ID                string          `json:"id"`
	FamilyID          string          `json:"family_id"`
	LenderUserID      string          `json:"lender_user_id"`
	LenderName        string          `json:"lender_name,omitempty"`
	BorrowerUserID    string          `json:"borrower_user_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            DebtStatus      `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	LinkedExpenseID   string          `json:"linked_expense_id,omitempty"`
	ReminderDate      *time.Time      `json:"reminder_date,omitempty"`
	ReminderShown     bool            `json:"reminder_shown"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	SettlementMessage string          `json:"settlement_message,omitempty"`
	SettlementMethod  PaymentMethod   `json:"settlement_method,omitempty"`
}

// Validate checks required fields, the amount and the status
func (d DebtRecord) Validate() error {
	if err := firstError(
		required("id", d.ID),
		required("family_id", d.FamilyID),
		required("lender_user_id", d.LenderUserID),
		required("borrower_user_id", d.BorrowerUserID),
		positive("amount", d.Amount),
	); err != nil {
		return err
	}
	if d.Status != DebtOpen && d.Status != DebtSettled {
		return ValidationError{Field: "status", Message: "status must be open or settled"}
	}
	return nil
}

// CheckReplacement reports whether next may replace d. The amount never
// changes, and once d is settled only settlement metadata may change.
func (d DebtRecord) CheckReplacement(next DebtRecord) error {
	if !d.Amount.Equal(next.Amount) {
		return ErrDebtAmountChanged
	}
	if d.Status != DebtSettled {
		return nil
	}

	frozen := next
	frozen.SettledAt = d.SettledAt
	frozen.SettlementMessage = d.SettlementMessage
	frozen.SettlementMethod = d.SettlementMethod
	if !sameDebt(d, frozen) {
		return ErrSettledDebt
	}
	return nil
}

func sameDebt(a, b DebtRecord) bool {
	return a.ID == b.ID &&
		a.FamilyID == b.FamilyID &&
		a.LenderUserID == b.LenderUserID &&
		a.LenderName == b.LenderName &&
		a.BorrowerUserID == b.BorrowerUserID &&
		a.Amount.Equal(b.Amount) &&
		a.Currency == b.Currency &&
		a.Status == b.Status &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.LinkedExpenseID == b.LinkedExpenseID &&
		sameTime(a.ReminderDate, b.ReminderDate) &&
		a.ReminderShown == b.ReminderShown
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Settle returns d marked settled at the given time
func (d DebtRecord) Settle(at time.Time, method PaymentMethod, message string) DebtRecord {
	d.Status = DebtSettled
	d.SettledAt = &at
	d.SettlementMethod = method
	d.SettlementMessage = message
	return d
}
