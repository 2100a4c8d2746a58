package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is money received by a family member
type Income struct {
	ID         string          `json:"id"`
	FamilyID   string          `json:"family_id"`
	CreatedBy  string          `json:"created_by"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Source     string          `json:"source"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	IsShared   bool            `json:"is_shared"`
	SyncStatus SyncStatus      `json:"sync_status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// Validate checks required fields and that the amount is positive
func (i Income) Validate() error {
	return firstError(
		required("id", i.ID),
		required("family_id", i.FamilyID),
		required("created_by", i.CreatedBy),
		required("source", i.Source),
		positive("amount", i.Amount),
	)
}
