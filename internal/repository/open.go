package repository

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"abchub/internal/config"
	"abchub/internal/database"
)

// OpenMedium opens the medium named by cfg.DatabaseType. "memory" keeps
// everything in process; any other type is a migrated SQL database. The
// returned close function releases the connection.
func OpenMedium(cfg *config.Config, logger *zap.Logger) (Medium, func() error, error) {
	if strings.EqualFold(cfg.DatabaseType, "memory") {
		logger.Warn("using in-memory medium, data is lost on exit")
		return NewMemoryMedium(), func() error { return nil }, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed successfully")

	return NewSQLMedium(db), db.Close, nil
}
