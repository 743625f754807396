package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"abchub/internal/database"
)

// Medium is the persistent key-value store behind the record store. Each key
// holds one serialized collection. A missing key is reported with ok=false,
// not as an error.
type Medium interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
	Remove(key string) error
}

// SQLMedium stores slots in the slots table of a SQL database
type SQLMedium struct {
	db database.DBTX
}

// NewSQLMedium creates a medium over an initialized and migrated database
func NewSQLMedium(db database.DBTX) *SQLMedium {
	return &SQLMedium{db: db}
}

// Get reads a slot
func (m *SQLMedium) Get(key string) ([]byte, bool, error) {
	var data string
	err := m.db.QueryRow("SELECT data FROM slots WHERE name = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return []byte(data), true, nil
}

// Set inserts or replaces a slot
func (m *SQLMedium) Set(key string, data []byte) error {
	if _, err := m.db.Exec(m.db.UpsertSlot(), key, string(data)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// Remove deletes a slot. Removing an absent slot is not an error.
func (m *SQLMedium) Remove(key string) error {
	if _, err := m.db.Exec("DELETE FROM slots WHERE name = ?", key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

// MemoryMedium keeps slots in process memory
type MemoryMedium struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{slots: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryMedium) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryMedium) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
