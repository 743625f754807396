package models

import (
	"testing"
)

func TestSessionRoster(t *testing.T) {
	session := Session{
		MaxPlayers: 2,
		Players:    []Player{{ID: "host"}, {ID: "guest"}},
		Status:     SessionWaiting,
	}

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{name: "host", userID: "host", want: 0},
		{name: "guest", userID: "guest", want: 1},
		{name: "stranger", userID: "stranger", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := session.PlayerIndex(tt.userID); got != tt.want {
				t.Errorf("PlayerIndex(%q) = %d, want %d", tt.userID, got, tt.want)
			}
			if got := session.HasPlayer(tt.userID); got != (tt.want >= 0) {
				t.Errorf("HasPlayer(%q) = %v", tt.userID, got)
			}
		})
	}

	if !session.IsFull() {
		t.Error("session with 2/2 players should be full")
	}
}

func TestSessionIsOpen(t *testing.T) {
	tests := []struct {
		status SessionStatus
		want   bool
	}{
		{SessionWaiting, true},
		{SessionActive, true},
		{SessionCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := Session{Status: tt.status}
			if got := s.IsOpen(); got != tt.want {
				t.Errorf("IsOpen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileHasAchievement(t *testing.T) {
	p := Profile{Achievements: []string{"first_story"}}
	if !p.HasAchievement("first_story") {
		t.Error("expected first_story to be present")
	}
	if p.HasAchievement("speed_demon") {
		t.Error("did not expect speed_demon")
	}
}
