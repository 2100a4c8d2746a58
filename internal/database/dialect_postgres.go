package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *PostgresDialect) KeyColumnType() string {
	return "TEXT"
}

func (d *PostgresDialect) DataColumnType() string {
	return "TEXT"
}

func (d *PostgresDialect) IndexExistsQuery() string {
	return "SELECT COUNT(*) FROM pg_indexes WHERE tablename = ? AND indexname = ?"
}

func (d *PostgresDialect) UpsertQuery(table, keyColumn string, columns []string) string {
	return onConflictUpsert(table, keyColumn, columns)
}

// IsCorrupt matches the data_corrupted and index_corrupted error codes
func (d *PostgresDialect) IsCorrupt(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "XX001" || pqErr.Code == "XX002"
}
