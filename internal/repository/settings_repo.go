package repository

import (
	"context"
	"errors"
	"fmt"

	"kharchapal/internal/store"
)

// Setting keys for the session pointers
const (
	CurrentUserKey   = "currentUserId"
	CurrentFamilyKey = "currentFamilyId"
)

// SettingsRepository reads and writes the key/value settings area
type SettingsRepository struct {
	store *store.Store
}

// NewSettingsRepository creates a settings repository over s
func NewSettingsRepository(s *store.Store) *SettingsRepository {
	return &SettingsRepository{store: s}
}

// GetSetting retrieves a setting value by key; absent keys read as ""
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	value, err := r.store.GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting; an empty value deletes it
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	var err error
	if value == "" {
		err = r.store.DeleteSetting(ctx, key)
	} else {
		err = r.store.SetSetting(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// SessionPointers returns the saved user and family ids
func (r *SettingsRepository) SessionPointers(ctx context.Context) (userID, familyID string, err error) {
	if userID, err = r.GetSetting(ctx, CurrentUserKey); err != nil {
		return "", "", err
	}
	if familyID, err = r.GetSetting(ctx, CurrentFamilyKey); err != nil {
		return "", "", err
	}
	return userID, familyID, nil
}

// ClearSessionPointers removes both saved session ids
func (r *SettingsRepository) ClearSessionPointers(ctx context.Context) error {
	if err := r.SetSetting(ctx, CurrentUserKey, ""); err != nil {
		return err
	}
	return r.SetSetting(ctx, CurrentFamilyKey, "")
}
