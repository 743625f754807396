package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect covers what differs between the SQL engines the slots table can
// live in.
type Dialect interface {
	DriverName() string

	// Name selects the embedded migrations directory
	Name() string

	RewriteQuery(query string) string

	ConfigureConnection(db *sql.DB) error

	// MigrationsTable creates the table of applied migration files
	MigrationsTable() string

	// UpsertSlot stores (name, data), replacing an existing slot
	UpsertSlot() string
}

// numberPlaceholders turns each ? into $1, $2, ... in order. A ? inside a
// quoted literal is left alone.
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n, quoted := 0, false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
