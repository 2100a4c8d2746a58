package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how one part of a payment was made
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentUPI      PaymentMethod = "upi"
	PaymentCard     PaymentMethod = "card"
	PaymentBank     PaymentMethod = "bank"
	PaymentWallet   PaymentMethod = "wallet"
	PaymentBorrowed PaymentMethod = "borrowed"
)

// SyncStatus tracks a record against the (future) remote sync
type SyncStatus string

const (
	SyncPending    SyncStatus = "pending"
	SyncInProgress SyncStatus = "in_progress"
	SyncSynced     SyncStatus = "synced"
	SyncFailed     SyncStatus = "failed"
)

// ExternalLender is the lender id recorded for money borrowed outside the family
const ExternalLender = "external"

// BorrowedFrom names who lent the money for a payment line. Exactly one
// of the two fields is set.
type BorrowedFrom struct {
	LenderUserID string `json:"lender_user_id,omitempty"`
	LenderName   string `json:"lender_name,omitempty"`
}

// BorrowedFromMember records a loan from another family member
func BorrowedFromMember(userID string) *BorrowedFrom {
	return &BorrowedFrom{LenderUserID: userID}
}

// BorrowedFromOutsider records a loan from someone outside the family
func BorrowedFromOutsider(name string) *BorrowedFrom {
	return &BorrowedFrom{LenderName: name}
}

// IsMember reports whether the lender is a family member
func (b BorrowedFrom) IsMember() bool {
	return b.LenderUserID != ""
}

// Lender returns the lender user id, or ExternalLender for outsiders
func (b BorrowedFrom) Lender() string {
	if b.IsMember() {
		return b.LenderUserID
	}
	return ExternalLender
}

// Validate checks that exactly one lender form is set
func (b BorrowedFrom) Validate() error {
	switch {
	case b.LenderUserID != "" && b.LenderName != "":
		return ValidationError{Field: "borrowed_from", Message: "lender must be a member or a name, not both"}
	case b.LenderUserID == "" && b.LenderName == "":
		return ValidationError{Field: "borrowed_from", Message: "lender is required"}
	}
	return nil
}

// PaymentLine is one portion of a split payment
type PaymentLine struct {
	ID           string          `json:"id"`
	Method       PaymentMethod   `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	PayerUserID  string          `json:"payer_user_id"`
	AccountID    string          `json:"account_id,omitempty"`
	BorrowedFrom *BorrowedFrom   `json:"borrowed_from,omitempty"`
	Note         string          `json:"note,omitempty"`
}

// Expense is money spent by the family, split across payment lines
type Expense struct {
	ID           string          `json:"id"`
	FamilyID     string          `json:"family_id"`
	CreatedBy    string          `json:"created_by"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Currency     string          `json:"currency"`
	Category     string          `json:"category"`
	Date         time.Time       `json:"date"`
	Notes        string          `json:"notes,omitempty"`
	PaymentLines []PaymentLine   `json:"payment_lines"`
	Attachments  []string        `json:"attachments"`
	ReceiptURLs  []string        `json:"receipt_urls,omitempty"`
	IsShared     bool            `json:"is_shared"`
	SyncStatus   SyncStatus      `json:"sync_status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// LinesTotal sums the payment line amounts
func (e Expense) LinesTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.PaymentLines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// Validate checks required fields, each payment line, and that the lines
// add up to the total within AmountTolerance.
func (e Expense) Validate() error {
	if err := firstError(
		required("id", e.ID),
		required("family_id", e.FamilyID),
		required("created_by", e.CreatedBy),
		required("category", e.Category),
		positive("total_amount", e.TotalAmount),
	); err != nil {
		return err
	}

	if len(e.PaymentLines) == 0 {
		return ValidationError{Field: "payment_lines", Message: "at least one payment line is required"}
	}
	seen := make(map[string]bool, len(e.PaymentLines))
	for _, l := range e.PaymentLines {
		if err := firstError(
			required("payment_lines.id", l.ID),
			required("payment_lines.payer_user_id", l.PayerUserID),
			positive("payment_lines.amount", l.Amount),
		); err != nil {
			return err
		}
		if seen[l.ID] {
			return ValidationError{Field: "payment_lines.id", Message: "duplicate payment line " + l.ID}
		}
		seen[l.ID] = true
		if l.BorrowedFrom != nil {
			if err := l.BorrowedFrom.Validate(); err != nil {
				return err
			}
		}
	}

	if e.LinesTotal().Sub(e.TotalAmount).Abs().GreaterThan(AmountTolerance) {
		return ValidationError{
			Field:   "payment_lines",
			Message: "payment lines add up to " + e.LinesTotal().String() + ", expected " + e.TotalAmount.String(),
		}
	}
	return nil
}
