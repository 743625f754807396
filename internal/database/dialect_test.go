package database

import (
	"strings"
	"testing"

	"abchub/internal/config"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		dialect    Dialect
		driver     string
		name       string
		upsertHint string
	}{
		{NewSQLiteDialect(), "sqlite3", "sqlite", "ON CONFLICT(name)"},
		{NewPostgresDialect(), "postgres", "postgres", "ON CONFLICT (name)"},
		{NewMySQLDialect(), "mysql", "mysql", "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.Name(); got != tt.name {
				t.Errorf("Name() = %v, want %v", got, tt.name)
			}
			if got := tt.dialect.UpsertSlot(); !strings.Contains(got, tt.upsertHint) {
				t.Errorf("UpsertSlot() = %q, want %q", got, tt.upsertHint)
			}
			if got := tt.dialect.MigrationsTable(); !strings.Contains(got, "filename") {
				t.Errorf("MigrationsTable() = %q, want a filename column", got)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType  string
		want    string
		dsn     string
		wantErr bool
	}{
		{dbType: "", want: "sqlite", dsn: "hub.db"},
		{dbType: "SQLite3", want: "sqlite", dsn: "hub.db"},
		{dbType: "postgresql", want: "postgres", dsn: "postgres://db"},
		{dbType: "mysql", want: "mysql", dsn: "postgres://db"},
		{dbType: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{DatabaseType: tt.dbType, DatabasePath: "hub.db", DatabaseURL: "postgres://db"}
			dialect, dsn, err := dialectFor(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("dialectFor(%q) succeeded, want error", tt.dbType)
				}
				return
			}
			if err != nil {
				t.Fatalf("dialectFor(%q) error: %v", tt.dbType, err)
			}
			if dialect.Name() != tt.want || dsn != tt.dsn {
				t.Errorf("dialectFor(%q) = %s %q, want %s %q", tt.dbType, dialect.Name(), dsn, tt.want, tt.dsn)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT data FROM slots WHERE name = ?",
			expected: "SELECT data FROM slots WHERE name = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT data FROM slots WHERE name = ?",
			expected: "SELECT data FROM slots WHERE name = $1",
		},
		{
			name:     "PostgreSQL upsert",
			dialect:  NewPostgresDialect(),
			query:    NewPostgresDialect().UpsertSlot(),
			expected: strings.Replace(strings.Replace(NewPostgresDialect().UpsertSlot(), "?", "$1", 1), "?", "$2", 1),
		},
		{
			name:     "PostgreSQL quoted question mark",
			dialect:  NewPostgresDialect(),
			query:    "SELECT '?' FROM slots WHERE name = ?",
			expected: "SELECT '?' FROM slots WHERE name = $1",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "DELETE FROM slots WHERE name = ?",
			expected: "DELETE FROM slots WHERE name = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}
