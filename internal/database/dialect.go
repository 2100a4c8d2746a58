package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// Name identifies the dialect ("sqlite", "postgres", "mysql")
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// KeyColumnType is the column type used for primary keys and indexed values
	KeyColumnType() string

	// DataColumnType is the column type used for serialized records
	DataColumnType() string

	// IndexExistsQuery returns a query counting indexes with a given table and index name
	IndexExistsQuery() string

	// UpsertQuery returns an insert-or-replace statement keyed on keyColumn
	UpsertQuery(table, keyColumn string, columns []string) string

	// IsCorrupt reports whether err means the stored data itself is damaged,
	// as opposed to a busy, unreachable or misconfigured database
	IsCorrupt(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders not inside quotes
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// insertPrefix builds "INSERT INTO table (a, b) VALUES (?, ?)"
func insertPrefix(table string, columns []string) string {
	marks := make([]string, len(columns))
	for i := range marks {
		marks[i] = "?"
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

// onConflictUpsert is shared by SQLite and PostgreSQL
func onConflictUpsert(table, keyColumn string, columns []string) string {
	var sets []string
	for _, c := range columns {
		if c == keyColumn {
			continue
		}
		sets = append(sets, c+" = excluded."+c)
	}
	return insertPrefix(table, columns) + " ON CONFLICT (" + keyColumn + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
