package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Table describes a record table: a primary key column, a serialized data
// column and one nullable column per secondary index.
type Table struct {
	Name         string
	IndexColumns []string
}

// IndexColumn maps an index name onto its column in a record table
func IndexColumn(index string) string {
	return "idx_" + index
}

// EnsureSchemaTable creates the table tracking the current schema version
func EnsureSchemaTable(ctx context.Context, q DBTX) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY,
			version INTEGER NOT NULL
		)
	`
	_, err := q.ExecContext(ctx, query)
	return err
}

// SchemaVersion returns the recorded schema version, or 0 for a new store
func SchemaVersion(ctx context.Context, q DBTX) (int, error) {
	var version int
	err := q.QueryRowContext(ctx, "SELECT version FROM schema_version WHERE id = 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetSchemaVersion records version as the current schema version
func SetSchemaVersion(ctx context.Context, q DBTX, version int) error {
	query := q.GetDialect().UpsertQuery("schema_version", "id", []string{"id", "version"})
	if _, err := q.ExecContext(ctx, query, 1, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// CreateTable creates t and its indexes if they do not exist yet.
// Existing tables are left untouched.
func CreateTable(ctx context.Context, q DBTX, t Table) error {
	d := q.GetDialect()

	cols := []string{
		"id " + d.KeyColumnType() + " PRIMARY KEY",
		"data " + d.DataColumnType() + " NOT NULL",
	}
	for _, idx := range t.IndexColumns {
		cols = append(cols, IndexColumn(idx)+" "+d.KeyColumnType())
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(cols, ", "))
	if _, err := q.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}

	for _, idx := range t.IndexColumns {
		name := strings.ToLower(t.Name) + "_" + idx + "_idx"

		var count int
		if err := q.QueryRowContext(ctx, d.IndexExistsQuery(), t.Name, name).Scan(&count); err != nil {
			return fmt.Errorf("failed to check index %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		query := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", name, t.Name, IndexColumn(idx))
		if _, err := q.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}

	return nil
}

// EnsureSettingsTable creates the key/value settings table
func EnsureSettingsTable(ctx context.Context, q DBTX) error {
	d := q.GetDialect()
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS settings (setting_key %s PRIMARY KEY, setting_value %s NOT NULL)",
		d.KeyColumnType(), d.DataColumnType(),
	)
	_, err := q.ExecContext(ctx, query)
	return err
}

// DropTable removes a table if it exists
func DropTable(ctx context.Context, q DBTX, name string) error {
	if _, err := q.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	return nil
}
