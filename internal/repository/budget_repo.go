package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddBudget inserts a new budget
func (r *Repository) AddBudget(ctx context.Context, budget models.Budget) error {
	return add(ctx, r.h, store.Budgets, budget)
}

// UpdateBudget replaces a budget
func (r *Repository) UpdateBudget(ctx context.Context, budget models.Budget) error {
	return put(ctx, r.h, store.Budgets, budget)
}

// GetBudget retrieves a budget by ID
func (r *Repository) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	return get[models.Budget](ctx, r.h, store.Budgets, id)
}

// GetBudgetsByFamily retrieves all budgets of a family
func (r *Repository) GetBudgetsByFamily(ctx context.Context, familyID string) ([]models.Budget, error) {
	return byFamily[models.Budget](ctx, r.h, store.Budgets, familyID)
}

// AddAccount inserts a new account
func (r *Repository) AddAccount(ctx context.Context, account models.Account) error {
	return add(ctx, r.h, store.Accounts, account)
}

// UpdateAccount replaces an account
func (r *Repository) UpdateAccount(ctx context.Context, account models.Account) error {
	return put(ctx, r.h, store.Accounts, account)
}

// GetAccount retrieves an account by ID
func (r *Repository) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return get[models.Account](ctx, r.h, store.Accounts, id)
}

// GetAccountsByFamily retrieves all accounts of a family
func (r *Repository) GetAccountsByFamily(ctx context.Context, familyID string) ([]models.Account, error) {
	return byFamily[models.Account](ctx, r.h, store.Accounts, familyID)
}
