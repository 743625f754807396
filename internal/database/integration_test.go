package database

import (
	"path/filepath"
	"testing"

	"abchub/internal/config"
)

// TestDatabaseIntegration tests the SQLite lifecycle with embedded migrations
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Open(&config.Config{DatabaseType: "sqlite", DatabasePath: filepath.Join(t.TempDir(), "integration.db")})
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Running twice must be a no-op
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}

	if _, err := db.Exec(db.UpsertSlot(), "abc_profile", `{"a":1}`); err != nil {
		t.Fatalf("Upsert insert failed: %v", err)
	}
	if _, err := db.Exec(db.UpsertSlot(), "abc_profile", `{"a":2}`); err != nil {
		t.Fatalf("Upsert update failed: %v", err)
	}

	var data string
	if err := db.QueryRow("SELECT data FROM slots WHERE name = ?", "abc_profile").Scan(&data); err != nil {
		t.Fatalf("Failed to read slot: %v", err)
	}
	if data != `{"a":2}` {
		t.Errorf("Expected updated slot data, got %q", data)
	}
}
