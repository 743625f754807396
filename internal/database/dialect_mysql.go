package database

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect stores slots in a shared MySQL database
type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) RewriteQuery(query string) string { return query }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	// below the server's default wait_timeout
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (d *MySQLDialect) MigrationsTable() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		filename VARCHAR(255) PRIMARY KEY,
		applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`
}

func (d *MySQLDialect) UpsertSlot() string {
	return "INSERT INTO slots (`name`, `data`, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP(6)) " +
		"ON DUPLICATE KEY UPDATE `data` = VALUES(`data`), updated_at = CURRENT_TIMESTAMP(6)"
}
