package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddExpense inserts a new expense
func (r *Repository) AddExpense(ctx context.Context, expense models.Expense) error {
	return add(ctx, r.h, store.Expenses, expense)
}

// UpdateExpense replaces an expense
func (r *Repository) UpdateExpense(ctx context.Context, expense models.Expense) error {
	return put(ctx, r.h, store.Expenses, expense)
}

// GetExpense retrieves an expense by ID
func (r *Repository) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return get[models.Expense](ctx, r.h, store.Expenses, id)
}

// GetExpensesByFamily retrieves all expenses of a family
func (r *Repository) GetExpensesByFamily(ctx context.Context, familyID string) ([]models.Expense, error) {
	return byFamily[models.Expense](ctx, r.h, store.Expenses, familyID)
}

// GetExpensesByCreator retrieves the expenses a user recorded
func (r *Repository) GetExpensesByCreator(ctx context.Context, userID string) ([]models.Expense, error) {
	return byIndex[models.Expense](ctx, r.h, store.Expenses, "created_by", userID)
}

// AddIncome inserts a new income record
func (r *Repository) AddIncome(ctx context.Context, income models.Income) error {
	return add(ctx, r.h, store.Income, income)
}

// UpdateIncome replaces an income record
func (r *Repository) UpdateIncome(ctx context.Context, income models.Income) error {
	return put(ctx, r.h, store.Income, income)
}

// GetIncome retrieves an income record by ID
func (r *Repository) GetIncome(ctx context.Context, id string) (*models.Income, error) {
	return get[models.Income](ctx, r.h, store.Income, id)
}

// GetIncomeByFamily retrieves all income of a family
func (r *Repository) GetIncomeByFamily(ctx context.Context, familyID string) ([]models.Income, error) {
	return byFamily[models.Income](ctx, r.h, store.Income, familyID)
}
