package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"abchub/internal/audio"
)

// SpeechHandler serves spoken prompts for the listening games
type SpeechHandler struct {
	tts    *audio.TTSService
	logger *zap.Logger
}

func NewSpeechHandler(tts *audio.TTSService, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{tts: tts, logger: logger.Named("speech_handler")}
}

// Speak returns the MP3 clip for ?text=
func (h *SpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	if h.tts == nil {
		respondWithJSON(w, http.StatusNotFound, errorResponse{Error: "speech is disabled"})
		return
	}

	path, err := h.tts.Clip(r.Context(), r.URL.Query().Get("text"))
	if errors.Is(err, audio.ErrUpstream) {
		h.logger.Warn("speech clip unavailable", zap.Error(err))
		respondWithJSON(w, http.StatusBadGateway, errorResponse{Error: "speech is temporarily unavailable"})
		return
	}
	if err != nil {
		respondWithError(w, h.logger, "failed to generate speech", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
