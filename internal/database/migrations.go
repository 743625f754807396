package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed migrations
var migrationFiles embed.FS

// RunMigrations applies the embedded SQL files for the connection's dialect
// that are not yet recorded in the migrations table, in file name order.
func (db *DB) RunMigrations() error {
	sub, err := fs.Sub(migrationFiles, path.Join("migrations", db.Dialect.Name()))
	if err != nil {
		return fmt.Errorf("failed to locate migrations: %w", err)
	}
	return db.migrate(sub)
}

func (db *DB) migrate(fsys fs.FS) error {
	if _, err := db.Exec(db.Dialect.MigrationsTable()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		if applied[name] {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
	}
	return nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.DB.Query("SELECT filename FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
