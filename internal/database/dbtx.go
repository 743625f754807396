package database

import "database/sql"

// DBTX is what the slot medium needs from a connection
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	UpsertSlot() string
}

// UpsertSlot returns the dialect's slot upsert statement
func (db *DB) UpsertSlot() string {
	return db.Dialect.UpsertSlot()
}
