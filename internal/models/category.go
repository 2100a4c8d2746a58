package models

import "time"

// CategoryType says whether a custom category applies to expenses or income
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// ExpenseCategories are the built-in expense categories
var ExpenseCategories = []string{
	"Groceries", "Utilities", "Rent", "Transportation", "Healthcare",
	"Education", "Entertainment", "Food & Dining", "Shopping",
	"Household Items", "Personal Care", "Gifts", "Other",
}

// IncomeSources are the built-in income sources
var IncomeSources = []string{
	"Salary", "Business", "Freelance", "Investment",
	"Rental Income", "Gift/Bonus", "Refund", "Other",
}

// CustomCategory is a family-defined category
type CustomCategory struct {
	ID        string       `json:"id"`
	FamilyID  string       `json:"family_id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Icon      string       `json:"icon,omitempty"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate checks required fields and the category type
func (c CustomCategory) Validate() error {
	if err := firstError(required("id", c.ID), required("family_id", c.FamilyID), required("name", c.Name)); err != nil {
		return err
	}
	if c.Type != CategoryExpense && c.Type != CategoryIncome {
		return ValidationError{Field: "type", Message: "type must be expense or income"}
	}
	return nil
}
