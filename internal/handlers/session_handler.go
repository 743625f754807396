package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"abchub/internal/catalog"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/service"
	"abchub/internal/validation"
)

// SessionHandler serves multiplayer sessions and leaderboards
type SessionHandler struct {
	sessions *service.SessionService
	profiles *service.ProfileService
	// store guards record store access for handlers that are not serialized
	store  sync.Locker
	logger *zap.Logger
}

func NewSessionHandler(sessions *service.SessionService, profiles *service.ProfileService, store sync.Locker, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, profiles: profiles, store: store, logger: logger.Named("session_handler")}
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID     string `json:"gameId"`
		MaxPlayers int    `json:"maxPlayers"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}
	if err := validation.ValidateGameID(req.GameID); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	session, err := h.sessions.CreateSession(req.GameID, req.MaxPlayers)
	if err != nil {
		respondWithError(w, h.logger, "failed to create session", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}
	if err := validation.ValidateInviteCode(validation.NormalizeInviteCode(req.InviteCode)); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	session, err := h.sessions.JoinSession(req.InviteCode)
	if err != nil {
		respondWithError(w, h.logger, "failed to join session", err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.SessionByID(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, "failed to load session", err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// ListSessions returns the summaries of a user's sessions, defaulting to the
// local profile
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		profile, err := h.profiles.Profile()
		if err != nil {
			respondWithError(w, h.logger, "", err)
			return
		}
		userID = profile.ID
	}
	respondWithJSON(w, http.StatusOK, h.summaries(h.sessions.GetUserSessions(userID)))
}

func (h *SessionHandler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.summaries(h.sessions.GetActiveSessions()))
}

func (h *SessionHandler) summaries(sessions []models.Session) []models.SessionSummary {
	out := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, h.sessions.FormatSession(&sessions[i]))
	}
	return out
}

func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.sessions.GetSessionProgress(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, "failed to load progress", err)
		return
	}
	respondWithJSON(w, http.StatusOK, progress)
}

func (h *SessionHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Correct int    `json:"correct"`
		Total   int    `json:"total"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	session, err := h.sessions.UpdateScore(r.PathValue("id"), req.UserID, req.Correct, req.Total)
	if err != nil {
		respondWithError(w, h.logger, "failed to update score", err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// EndSession completes the session and credits the local profile with the outcome
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.EndSession(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, "failed to end session", err)
		return
	}

	unlocked, err := h.profiles.RecordSessionOutcome(session)
	if err != nil {
		h.logger.Warn("session outcome not recorded", zap.String("session_id", session.ID), zap.Error(err))
	}
	if unlocked == nil {
		unlocked = []catalog.Achievement{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"session":  session,
		"unlocked": unlocked,
	})
}

func (h *SessionHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact string `json:"contact"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	code, err := h.sessions.SendSessionInvite(r.PathValue("id"), req.Contact)
	if err != nil {
		respondWithError(w, h.logger, "failed to send invite", err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"inviteCode": code})
}

func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	gameID := r.PathValue("gameId")
	board, err := h.sessions.RemoteLeaderboard(r.Context(), gameID, limit)
	if errors.Is(err, mirror.ErrDisabled) {
		h.store.Lock()
		board, err = h.sessions.LocalLeaderboard(gameID, limit), nil
		h.store.Unlock()
	}
	if err != nil {
		respondWithError(w, h.logger, "failed to load leaderboard", err)
		return
	}
	respondWithJSON(w, http.StatusOK, board)
}

// queryLimit parses the optional ?limit= parameter; 0 means the default
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, validation.ValidationError{Field: "limit", Message: "limit must be a non-negative integer"}
	}
	return limit, nil
}
