package repository

import (
	"context"

	"kharchapal/internal/models"
	"kharchapal/internal/store"
)

// AddSyncItem queues a change for the remote sync
func (r *Repository) AddSyncItem(ctx context.Context, item models.SyncItem) error {
	return add(ctx, r.h, store.SyncQueue, item)
}

// GetPendingSyncItems retrieves queued changes not yet synced
func (r *Repository) GetPendingSyncItems(ctx context.Context) ([]models.SyncItem, error) {
	return byIndex[models.SyncItem](ctx, r.h, store.SyncQueue, "status", string(models.SyncPending))
}
