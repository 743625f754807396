package database

import (
	"database/sql"
	"fmt"
	"strings"

	"abchub/internal/config"
)

// DB is a connection plus the dialect its statements are rewritten for.
// Statements are written with ? placeholders.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database selected by cfg.DatabaseType and applies the
// dialect's connection settings.
func Open(cfg *config.Config) (*DB, error) {
	dialect, dsn, err := dialectFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := dialect.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func dialectFor(cfg *config.Config) (Dialect, string, error) {
	switch strings.ToLower(cfg.DatabaseType) {
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), cfg.DatabasePath, nil
	case "postgres", "postgresql":
		return NewPostgresDialect(), cfg.DatabaseURL, nil
	case "mysql":
		return NewMySQLDialect(), cfg.DatabaseURL, nil
	default:
		return nil, "", fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}
