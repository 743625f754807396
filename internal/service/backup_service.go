package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"abchub/internal/errs"
	"abchub/internal/models"
	"abchub/internal/repository"
)

// BackupVersion is written into every backup file
const BackupVersion = "1.0"

// BackupData is the on-disk backup format: a store snapshot plus a version
type BackupData struct {
	Version string `json:"version"`
	models.Snapshot
}

// BackupService handles record store backup and restore operations
type BackupService struct {
	store  *repository.Store
	logger *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(store *repository.Store, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{store: store, logger: logger.Named("backup")}
}

// Export writes a complete backup of the record store to a file
func (s *BackupService) Export(outputPath string) error {
	s.logger.Info("starting export", zap.String("path", outputPath))

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}
	return file.Close()
}

// ExportToWriter exports the record store to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := BackupData{Version: BackupVersion, Snapshot: s.store.ExportAll()}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("exported backup",
		zap.Bool("profile", backup.Profile != nil),
		zap.Int("games", len(backup.Scores)),
		zap.Int("stories", len(backup.Stories)),
		zap.Int("sessions", len(backup.Sessions)),
		zap.Int("friends", len(backup.Friends)),
		zap.Int("achievements", len(backup.Achievements)))
	return nil
}

// Import restores the record store from a backup file
func (s *BackupService) Import(inputPath string, wipe bool) error {
	s.logger.Info("starting import", zap.String("path", inputPath), zap.Bool("clear", wipe))

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file, wipe)
}

// ImportFromReader restores the record store from a backup reader (for file
// uploads). With wipe set every collection is deleted first; otherwise
// collections absent from the backup are left alone.
func (s *BackupService) ImportFromReader(reader io.Reader, wipe bool) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("%w: failed to decode backup: %v", errs.ErrInvalidInput, err)
	}
	if backup.Version != "" && backup.Version != BackupVersion {
		return fmt.Errorf("%w: unsupported backup version %q", errs.ErrInvalidInput, backup.Version)
	}

	s.logger.Info("importing backup", zap.String("version", backup.Version), zap.Time("exported_at", backup.ExportedAt))

	if wipe {
		if err := s.store.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}
	if err := s.store.ImportAll(backup.Snapshot); err != nil {
		return err
	}

	s.logger.Info("import completed successfully")
	return nil
}

// Clear deletes every collection
func (s *BackupService) Clear() error {
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.logger.Warn("all local data cleared")
	return nil
}

// Stats reports the serialized size of every collection
func (s *BackupService) Stats() models.StorageStats {
	return s.store.StorageStats()
}
