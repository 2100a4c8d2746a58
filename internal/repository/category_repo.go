package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddCustomCategory inserts a new custom category
func (r *Repository) AddCustomCategory(ctx context.Context, category models.CustomCategory) error {
	return add(ctx, r.h, store.CustomCategories, category)
}

// GetCustomCategoriesByFamily retrieves all custom categories of a family
func (r *Repository) GetCustomCategoriesByFamily(ctx context.Context, familyID string) ([]models.CustomCategory, error) {
	return byFamily[models.CustomCategory](ctx, r.h, store.CustomCategories, familyID)
}

// DeleteCustomCategory removes a custom category
func (r *Repository) DeleteCustomCategory(ctx context.Context, id string) error {
	return remove(ctx, r.h, store.CustomCategories, id)
}

// AddRecurringTransaction inserts a new recurring transaction
func (r *Repository) AddRecurringTransaction(ctx context.Context, transaction models.RecurringTransaction) error {
	return add(ctx, r.h, store.RecurringTransactions, transaction)
}

// UpdateRecurringTransaction replaces a recurring transaction
func (r *Repository) UpdateRecurringTransaction(ctx context.Context, transaction models.RecurringTransaction) error {
	return put(ctx, r.h, store.RecurringTransactions, transaction)
}

// GetRecurringTransaction retrieves a recurring transaction by ID
func (r *Repository) GetRecurringTransaction(ctx context.Context, id string) (*models.RecurringTransaction, error) {
	return get[models.RecurringTransaction](ctx, r.h, store.RecurringTransactions, id)
}

// GetRecurringTransactionsByFamily retrieves all recurring transactions of a family
func (r *Repository) GetRecurringTransactionsByFamily(ctx context.Context, familyID string) ([]models.RecurringTransaction, error) {
	return byFamily[models.RecurringTransaction](ctx, r.h, store.RecurringTransactions, familyID)
}

// DeleteRecurringTransaction removes a recurring transaction
func (r *Repository) DeleteRecurringTransaction(ctx context.Context, id string) error {
	return remove(ctx, r.h, store.RecurringTransactions, id)
}
