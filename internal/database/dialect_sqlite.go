package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// DSN sets per-connection options through the driver so every pooled
// connection gets them, not only the one that runs a PRAGMA.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	return "file:" + config.Path + "?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}

	return nil
}

func (d *SQLiteDialect) KeyColumnType() string {
	return "TEXT"
}

func (d *SQLiteDialect) DataColumnType() string {
	return "TEXT"
}

func (d *SQLiteDialect) IndexExistsQuery() string {
	return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?"
}

func (d *SQLiteDialect) UpsertQuery(table, keyColumn string, columns []string) string {
	return onConflictUpsert(table, keyColumn, columns)
}

// IsCorrupt is true for files that are not SQLite databases or whose
// pages are malformed. Busy and permission errors are not corruption.
func (d *SQLiteDialect) IsCorrupt(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrNotADB || sqliteErr.Code == sqlite3.ErrCorrupt
}
