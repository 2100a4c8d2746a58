package repository

import (
	"context"
	"errors"
	"fmt"

	"kharchapal/internal/store"
)

// Repository is the typed record API for every entity kind. It is bound
// either to the store or to one batch inside it.
type Repository struct {
	h     store.Handle
	store *store.Store
}

// New creates a repository over s
func New(s *store.Store) *Repository {
	return &Repository{h: s, store: s}
}

// InTx runs fn with a repository whose writes commit together. Calling
// InTx on a repository that is already inside a batch reuses that batch.
func (r *Repository) InTx(ctx context.Context, fn func(*Repository) error) error {
	if r.store == nil {
		return fn(r)
	}
	return r.store.Update(ctx, func(h store.Handle) error {
		return fn(&Repository{h: h})
	})
}

func add(ctx context.Context, h store.Handle, collection string, record any) error {
	if err := h.Add(ctx, collection, record); err != nil {
		return fmt.Errorf("failed to add to %s: %w", collection, err)
	}
	return nil
}

func put(ctx context.Context, h store.Handle, collection string, record any) error {
	if err := h.Put(ctx, collection, record); err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	return nil
}

func remove(ctx context.Context, h store.Handle, collection, id string) error {
	if err := h.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return nil
}

// get returns nil without an error when the record does not exist
func get[T any](ctx context.Context, h store.Handle, collection, id string) (*T, error) {
	var v T
	err := h.Get(ctx, collection, id, &v)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", collection, err)
	}
	return &v, nil
}

func all[T any](ctx context.Context, h store.Handle, collection string) ([]T, error) {
	raws, err := h.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	out, err := store.Decode[T](raws)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return out, nil
}

func byIndex[T any](ctx context.Context, h store.Handle, collection, index, value string) ([]T, error) {
	raws, err := h.GetAllByIndex(ctx, collection, index, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, index, err)
	}
	out, err := store.Decode[T](raws)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return out, nil
}

func byFamily[T any](ctx context.Context, h store.Handle, collection, familyID string) ([]T, error) {
	return byIndex[T](ctx, h, collection, "family_id", familyID)
}
