package models

import "time"

// GameScoreEntry is one completed attempt at a mini-game
type GameScoreEntry struct {
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

// GameScores maps a game id to its entries, oldest first
type GameScores map[string][]GameScoreEntry

// LeaderboardEntry is one row of a per-game leaderboard
type LeaderboardEntry struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}
