package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"abchub/internal/models"
	"abchub/internal/service"
)

type FriendHandler struct {
	friends *service.FriendService
	logger  *zap.Logger
}

func NewFriendHandler(friends *service.FriendService, logger *zap.Logger) *FriendHandler {
	return &FriendHandler{friends: friends, logger: logger.Named("friend_handler")}
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.friends.Friends())
}

func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var friend models.Friend
	if err := decodeJSON(w, r, &friend); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	saved, err := h.friends.AddFriend(friend)
	if err != nil {
		respondWithError(w, h.logger, "failed to add friend", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, saved)
}

func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := h.friends.RemoveFriend(r.PathValue("id")); err != nil {
		respondWithError(w, h.logger, "failed to remove friend", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FriendHandler) InviteFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, "", err)
		return
	}

	if err := h.friends.InviteFriend(req.Email); err != nil {
		respondWithError(w, h.logger, "failed to invite friend", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
