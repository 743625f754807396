package models

import "time"

// SessionStatus is the lifecycle state of a multiplayer session
type SessionStatus string

const (
	SessionWaiting   SessionStatus = "waiting"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Player is one member of a session roster
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joinedAt"`
	Score    int       `json:"score"`
	Accuracy int       `json:"accuracy"`
}

// PlayerScore is the live tally of one player inside a session
type PlayerScore struct {
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Accuracy  int       `json:"accuracy"`
	StartTime time.Time `json:"startTime"`
}

// SessionSettings are advisory values consumed by gameplay
type SessionSettings struct {
	TimeLimit  int    `json:"timeLimit"` // seconds
	Difficulty string `json:"difficulty"`
}

// SessionResult is one ranked line of a completed session
type SessionResult struct {
	UserID   string `json:"userId"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Accuracy int    `json:"accuracy"`
}

// Session is a multiplayer competitive round
type Session struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Game       string                 `json:"game"`
	Host       string                 `json:"host"`
	HostName   string                 `json:"hostName"`
	Players    []Player               `json:"players"`
	MaxPlayers int                    `json:"maxPlayers"`
	InviteCode string                 `json:"inviteCode"`
	Status     SessionStatus          `json:"status"`
	Scores     map[string]PlayerScore `json:"scores"`
	CreatedAt  time.Time              `json:"createdAt"`
	Settings   SessionSettings        `json:"settings"`
	EndedAt    *time.Time             `json:"endedAt,omitempty"`
	Results    []SessionResult        `json:"results,omitempty"`
	WinnerID   string                 `json:"winnerId,omitempty"`
}

// HasPlayer reports whether userID is on the roster
func (s *Session) HasPlayer(userID string) bool {
	return s.PlayerIndex(userID) >= 0
}

// PlayerIndex returns the roster position of userID, or -1
func (s *Session) PlayerIndex(userID string) int {
	for i, p := range s.Players {
		if p.ID == userID {
			return i
		}
	}
	return -1
}

// IsFull reports whether no more players can join
func (s *Session) IsFull() bool {
	return len(s.Players) >= s.MaxPlayers
}

// IsOpen reports whether the session has not been completed
func (s *Session) IsOpen() bool {
	return s.Status == SessionWaiting || s.Status == SessionActive
}

// PlayerProgress is one player's live standing within a session
type PlayerProgress struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Accuracy int    `json:"accuracy"`
	Position int    `json:"position"`
}

// SessionProgress is the live standing of every player in a session
type SessionProgress struct {
	SessionID string           `json:"sessionId"`
	Game      string           `json:"game"`
	Status    SessionStatus    `json:"status"`
	Progress  []PlayerProgress `json:"progress"`
}

// SessionSummary is the display form of a session
type SessionSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Game         string        `json:"game"`
	GameName     string        `json:"gameName"`
	Host         string        `json:"host"`
	PlayersCount int           `json:"playersCount"`
	MaxPlayers   int           `json:"maxPlayers"`
	Status       SessionStatus `json:"status"`
	InviteCode   string        `json:"inviteCode"`
	CreatedAt    string        `json:"createdAt"`
	Players      []PlayerBadge `json:"players"`
}

// PlayerBadge is the name and avatar shown on a session card
type PlayerBadge struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
