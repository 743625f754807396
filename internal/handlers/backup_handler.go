package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"abchub/internal/mirror"
	"abchub/internal/service"
	"abchub/internal/validation"
)

// BackupHandler serves backup, restore, storage stats and mirror status
type BackupHandler struct {
	backups *service.BackupService
	remote  mirror.Mirror
	logger  *zap.Logger
}

func NewBackupHandler(backups *service.BackupService, remote mirror.Mirror, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{backups: backups, remote: remote, logger: logger.Named("backup_handler")}
}

// Export streams a backup file download
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("abchub-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.backups.ExportToWriter(w); err != nil {
		h.logger.Error("failed to export backup", zap.Error(err))
	}
}

// Import restores from the request body; ?clear=true wipes the store first
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	wipe := false
	if raw := r.URL.Query().Get("clear"); raw != "" {
		var err error
		if wipe, err = strconv.ParseBool(raw); err != nil {
			respondWithError(w, h.logger, "", validation.ValidationError{Field: "clear", Message: "clear must be a boolean"})
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, 32*maxBodyBytes)
	if err := h.backups.ImportFromReader(r.Body, wipe); err != nil {
		respondWithError(w, h.logger, "failed to import backup", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.backups.Stats())
}

func (h *BackupHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.backups.Clear(); err != nil {
		respondWithError(w, h.logger, "failed to clear data", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BackupHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.backups.Stats())
}

// MirrorStatus probes the remote mirror
func (h *BackupHandler) MirrorStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.remote.Ping(r.Context()))
}
