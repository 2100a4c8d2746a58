package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddFamily inserts a new family
func (r *Repository) AddFamily(ctx context.Context, family models.Family) error {
	return add(ctx, r.h, store.Families, family)
}

// UpdateFamily replaces a family
func (r *Repository) UpdateFamily(ctx context.Context, family models.Family) error {
	return put(ctx, r.h, store.Families, family)
}

// GetFamily retrieves a family by ID
func (r *Repository) GetFamily(ctx context.Context, id string) (*models.Family, error) {
	return get[models.Family](ctx, r.h, store.Families, id)
}

// GetFamilyByInviteCode retrieves the family holding an invite code
func (r *Repository) GetFamilyByInviteCode(ctx context.Context, code string) (*models.Family, error) {
	families, err := byIndex[models.Family](ctx, r.h, store.Families, "invite_code", code)
	if err != nil {
		return nil, err
	}
	if len(families) == 0 {
		return nil, nil
	}
	return &families[0], nil
}

// GetAllFamilies retrieves every family on the device
func (r *Repository) GetAllFamilies(ctx context.Context) ([]models.Family, error) {
	return all[models.Family](ctx, r.h, store.Families)
}

// AddUser inserts a new user
func (r *Repository) AddUser(ctx context.Context, user models.User) error {
	return add(ctx, r.h, store.Users, user)
}

// UpdateUser replaces a user
func (r *Repository) UpdateUser(ctx context.Context, user models.User) error {
	return put(ctx, r.h, store.Users, user)
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	return get[models.User](ctx, r.h, store.Users, id)
}

// GetUsersByFamily retrieves all members of a family
func (r *Repository) GetUsersByFamily(ctx context.Context, familyID string) ([]models.User, error) {
	return byFamily[models.User](ctx, r.h, store.Users, familyID)
}

// GetAllUsers retrieves every user on the device
func (r *Repository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return all[models.User](ctx, r.h, store.Users)
}
