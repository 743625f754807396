package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"abchub/internal/errs"
	"abchub/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrProfileNotFound),
		errors.Is(err, errs.ErrSessionNotFound),
		errors.Is(err, errs.ErrInviteNotFound),
		errors.Is(err, errs.ErrStoryNotFound),
		errors.Is(err, errs.ErrFriendNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrSessionFull), errors.Is(err, errs.ErrSessionCompleted):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotAPlayer):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as JSON. Internal errors are logged and hidden
// behind a generic message.
func respondWithError(w http.ResponseWriter, logger *zap.Logger, logMsg string, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var verr validation.ValidationError
	if errors.As(err, &verr) {
		resp = errorResponse{Error: verr.Message, Field: verr.Field}
	}
	if status == http.StatusInternalServerError {
		logger.Error(logMsg, zap.Error(err))
		resp = errorResponse{Error: "internal server error"}
	}

	respondWithJSON(w, status, resp)
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a request body into v; malformed bodies are invalid input
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validation.ValidationError{Field: "body", Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}
