package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"abchub/internal/catalog"
	"abchub/internal/service"
)

// ProfileHandler serves the profile, game scores and achievements
type ProfileHandler struct {
	profiles *service.ProfileService
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, cat *catalog.Catalog, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, catalog: cat, logger: logger.Named("profile_handler")}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Profile()
	if err != nil {
		respondWithError(w, h.logger, "failed to load profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// CreateProfile creates the device profile; an existing one is returned with 200
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	_, existsErr := h.profiles.Profile()
	profile, err := h.profiles.CreateProfile(req.Name)
	if err != nil {
		respondWithError(w, h.logger, "failed to create profile", err)
		return
	}

	status := http.StatusOK
	if existsErr != nil {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, profile)
}

func (h *ProfileHandler) GameScores(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.profiles.GameScores())
}

// RecordScore stores a finished mini-game attempt
func (h *ProfileHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
		Score  int    `json:"score"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	unlocked, err := h.profiles.RecordGameScore(req.GameID, req.Score)
	if err != nil {
		respondWithError(w, h.logger, "failed to record score", err)
		return
	}
	if unlocked == nil {
		unlocked = []catalog.Achievement{}
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"average":  h.profiles.AverageScore(req.GameID),
		"unlocked": unlocked,
	})
}

func (h *ProfileHandler) AverageScore(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	respondWithJSON(w, http.StatusOK, map[string]any{
		"gameId":  gameID,
		"average": h.profiles.AverageScore(gameID),
	})
}

func (h *ProfileHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.profiles.Achievements())
}

// Games lists the game catalog
func (h *ProfileHandler) Games(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Games)
}
