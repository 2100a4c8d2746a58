package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"kharchapal/internal/database"
)

// Handle is the set of record operations available on the store and
// inside a batch.
type Handle interface {
	Add(ctx context.Context, collection string, record any) error
	Put(ctx context.Context, collection string, record any) error
	Get(ctx context.Context, collection, key string, out any) error
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetAllByIndex(ctx context.Context, collection, index, value string) ([]json.RawMessage, error)
	Delete(ctx context.Context, collection, key string) error
	Clear(ctx context.Context, collection string) error
}

// Store is a versioned collection store on top of a SQL database
type Store struct {
	db          *database.DB
	version     int
	collections map[string]Collection
	ops
}

// Open opens the store at version, applying every migration above the
// recorded version. Migrations only create what is missing.
func Open(ctx context.Context, db *database.DB, version int, migrations []Migration) (*Store, error) {
	if err := database.EnsureSchemaTable(ctx, db); err != nil {
		return nil, openError(db.Dialect, err)
	}
	if err := database.EnsureSettingsTable(ctx, db); err != nil {
		return nil, openError(db.Dialect, err)
	}

	current, err := database.SchemaVersion(ctx, db)
	if err != nil {
		return nil, openError(db.Dialect, err)
	}
	if current > version {
		return nil, fmt.Errorf("%w: store is at version %d, requested %d", ErrSchemaTooNew, current, version)
	}

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	s := &Store{
		db:          db,
		version:     version,
		collections: make(map[string]Collection),
	}
	s.ops = ops{q: db, s: s}

	for _, m := range sorted {
		if m.Version > version {
			break
		}
		for _, c := range m.Collections {
			s.collections[c.Name] = c
		}
	}

	if current < version {
		log.Printf("Upgrading record store from version %d to %d", current, version)
		if err := s.upgrade(ctx, sorted, current); err != nil {
			return nil, openError(db.Dialect, err)
		}
	}

	return s, nil
}

// openError marks err as ErrStoreUnavailable only when the dialect reports
// damaged data. Everything else is returned for the caller to retry.
func openError(d database.Dialect, err error) error {
	if d.IsCorrupt(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to open record store: %w", err)
}

func (s *Store) upgrade(ctx context.Context, migrations []Migration, from int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin upgrade: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if m.Version <= from || m.Version > s.version {
			continue
		}
		for _, c := range m.Collections {
			table := database.Table{Name: c.table(), IndexColumns: c.Indexes}
			if err := database.CreateTable(ctx, tx, table); err != nil {
				return fmt.Errorf("migration %d: %w", m.Version, err)
			}
		}
	}

	if err := database.SetSchemaVersion(ctx, tx, s.version); err != nil {
		return err
	}
	return tx.Commit()
}

// Version returns the schema version the store was opened at
func (s *Store) Version() int {
	return s.version
}

// Collections returns the names of every collection in the open schema
func (s *Store) Collections() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DialectName reports which database backs the store
func (s *Store) DialectName() string {
	return s.db.Dialect.Name()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Update runs fn inside one database transaction. Every write fn makes
// through its handle commits together, or none does.
func (s *Store) Update(ctx context.Context, fn func(Handle) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin batch: %w", ErrWrite, err)
	}
	defer tx.Rollback()

	if err := fn(&ops{q: tx, s: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit batch: %w", ErrWrite, err)
	}
	return nil
}

// Wipe drops every collection, the settings area and the schema record.
// The store is unusable afterwards.
func (s *Store) Wipe(ctx context.Context) error {
	return wipeTables(ctx, s.db)
}

func wipeTables(ctx context.Context, db *database.DB) error {
	tables := []string{"settings", "schema_version"}
	for _, m := range Migrations {
		for _, c := range m.Collections {
			tables = append(tables, c.table())
		}
	}
	for _, t := range tables {
		if err := database.DropTable(ctx, db, t); err != nil {
			return err
		}
	}
	return nil
}

// GetSetting reads a value from the settings area
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: setting %s: %w", ErrRead, key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query := s.db.Dialect.UpsertQuery("settings", "setting_key", []string{"setting_key", "setting_value"})
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%w: setting %s: %w", ErrWrite, key, err)
	}
	return nil
}

// DeleteSetting removes a setting; removing an absent key is not an error
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE setting_key = ?", key); err != nil {
		return fmt.Errorf("%w: setting %s: %w", ErrWrite, key, err)
	}
	return nil
}

// Decode unmarshals raw records into values of type T
func Decode[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		out = append(out, v)
	}
	return out, nil
}
