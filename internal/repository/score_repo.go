package repository

import (
	"math"

	"abchub/internal/models"
)

// GameScores returns every recorded score, keyed by game id
func (s *Store) GameScores() models.GameScores {
	return load(s, KeyScores, models.GameScores{})
}

// SaveGameScore appends a score for the game, keeping only the newest
// MaxScoresPerGame entries.
func (s *Store) SaveGameScore(gameID string, score int) error {
	scores := s.GameScores()
	if scores == nil {
		scores = models.GameScores{}
	}

	now := s.now()
	entries := append(scores[gameID], models.GameScoreEntry{
		Score:     score,
		Timestamp: now,
		Date:      now.Format("2006-01-02"),
	})
	if len(entries) > MaxScoresPerGame {
		entries = append([]models.GameScoreEntry(nil), entries[len(entries)-MaxScoresPerGame:]...)
	}
	scores[gameID] = entries

	return s.save(KeyScores, scores)
}

// AverageScore returns the rounded mean score for a game, 0 when none exist
func (s *Store) AverageScore(gameID string) int {
	entries := s.GameScores()[gameID]
	if len(entries) == 0 {
		return 0
	}

	total := 0
	for _, e := range entries {
		total += e.Score
	}
	return int(math.Floor(float64(total)/float64(len(entries)) + 0.5))
}
