package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect stores slots in a local database file
type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) RewriteQuery(query string) string { return query }

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// slots have a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(time.Minute)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

func (d *SQLiteDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

func (d *SQLiteDialect) UpsertSlot() string {
	return `INSERT INTO slots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`
}
