package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDialect stores slots in a shared PostgreSQL database
type PostgresDialect struct{}

func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) RewriteQuery(query string) string { return numberPlaceholders(query) }

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return nil
}

func (d *PostgresDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
}

func (d *PostgresDialect) UpsertSlot() string {
	return `INSERT INTO slots (name, data, updated_at) VALUES (?, ?, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
}
