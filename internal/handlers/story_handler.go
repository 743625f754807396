package handlers

import (
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/service"
)

type StoryHandler struct {
	stories *service.StoryService
	store   sync.Locker
	logger  *zap.Logger
}

func NewStoryHandler(stories *service.StoryService, store sync.Locker, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{stories: stories, store: store, logger: logger.Named("story_handler")}
}

func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stories.Stories())
}

func (h *StoryHandler) SaveStory(w http.ResponseWriter, r *http.Request) {
	var draft models.StoryDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	story, err := h.stories.SaveStory(draft)
	if err != nil {
		respondWithError(w, h.logger, "failed to save story", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, story)
}

func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.Story(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, "failed to load story", err)
		return
	}
	respondWithJSON(w, http.StatusOK, story)
}

func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.DeleteStory(r.PathValue("id")); err != nil {
		respondWithError(w, h.logger, "failed to delete story", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoryHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	stories, err := h.stories.RemoteTrending(r.Context(), limit)
	if errors.Is(err, mirror.ErrDisabled) {
		h.store.Lock()
		stories, err = h.stories.LocalTrending(limit), nil
		h.store.Unlock()
	}
	if err != nil {
		respondWithError(w, h.logger, "failed to load trending stories", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stories)
}

// LikeStory is forwarded to the mirror in the background
func (h *StoryHandler) LikeStory(w http.ResponseWriter, r *http.Request) {
	h.stories.LikeStory(r.PathValue("id"))
	w.WriteHeader(http.StatusAccepted)
}
