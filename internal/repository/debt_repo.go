package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddDebt inserts a new debt record
func (r *Repository) AddDebt(ctx context.Context, debt models.DebtRecord) error {
	return add(ctx, r.h, store.Debts, debt)
}

// UpdateDebt replaces a debt record
func (r *Repository) UpdateDebt(ctx context.Context, debt models.DebtRecord) error {
	return put(ctx, r.h, store.Debts, debt)
}

// GetDebt retrieves a debt by ID
func (r *Repository) GetDebt(ctx context.Context, id string) (*models.DebtRecord, error) {
	return get[models.DebtRecord](ctx, r.h, store.Debts, id)
}

// GetDebtsByFamily retrieves all debts of a family
func (r *Repository) GetDebtsByFamily(ctx context.Context, familyID string) ([]models.DebtRecord, error) {
	return byFamily[models.DebtRecord](ctx, r.h, store.Debts, familyID)
}

// GetDebtsByStatus retrieves debts across families with the given status
func (r *Repository) GetDebtsByStatus(ctx context.Context, status models.DebtStatus) ([]models.DebtRecord, error) {
	return byIndex[models.DebtRecord](ctx, r.h, store.Debts, "status", string(status))
}
