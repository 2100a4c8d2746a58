package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string {
	return "mysql"
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

// KeyColumnType is bounded so the column can carry a utf8mb4 index
func (d *MySQLDialect) KeyColumnType() string {
	return "VARCHAR(191)"
}

func (d *MySQLDialect) DataColumnType() string {
	return "LONGTEXT"
}

func (d *MySQLDialect) IndexExistsQuery() string {
	return "SELECT COUNT(*) FROM information_schema.statistics " +
		"WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?"
}

func (d *MySQLDialect) UpsertQuery(table, keyColumn string, columns []string) string {
	var sets []string
	for _, c := range columns {
		if c == keyColumn {
			continue
		}
		sets = append(sets, c+" = VALUES("+c+")")
	}
	return insertPrefix(table, columns) + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

// IsCorrupt matches the server's crashed-table errors
// (ER_CRASHED_ON_USAGE, ER_CRASHED_ON_REPAIR)
func (d *MySQLDialect) IsCorrupt(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == 1194 || myErr.Number == 1195
}
