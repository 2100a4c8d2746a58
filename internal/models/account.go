package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of place money is kept
type AccountType string

const (
	AccountCash   AccountType = "cash"
	AccountBank   AccountType = "bank"
	AccountCard   AccountType = "card"
	AccountWallet AccountType = "wallet"
)

// Account holds a running balance that recorded transactions move
type Account struct {
	ID             string          `json:"id"`
	FamilyID       string          `json:"family_id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Currency       string          `json:"currency"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

// Validate checks required fields and the account type
func (a Account) Validate() error {
	if err := firstError(required("id", a.ID), required("family_id", a.FamilyID), required("name", a.Name)); err != nil {
		return err
	}
	switch a.Type {
	case AccountCash, AccountBank, AccountCard, AccountWallet:
		return nil
	}
	return ValidationError{Field: "type", Message: "type must be cash, bank, card or wallet"}
}

// Debit returns a with amount taken off the current balance
func (a Account) Debit(amount decimal.Decimal, at time.Time) Account {
	a.CurrentBalance = a.CurrentBalance.Sub(amount)
	a.UpdatedAt = &at
	return a
}
