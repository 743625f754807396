package service

import (
	"math"
	"slices"
	"sort"

	"abchub/internal/models"
)

const (
	unknownPlayerName   = "Unknown"
	unknownPlayerAvatar = "👤"
)

// Accuracy is round(100*correct/total), or 0 when total is 0
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(correct)/float64(total) + 0.5))
}

// scoreOrder lists the ids of a session's score map: roster order first, then
// any ids missing from the roster sorted by id.
func scoreOrder(session *models.Session) []string {
	ids := make([]string, 0, len(session.Scores))
	seen := make(map[string]bool, len(session.Scores))
	for _, p := range session.Players {
		if _, ok := session.Scores[p.ID]; ok && !seen[p.ID] {
			ids = append(ids, p.ID)
			seen[p.ID] = true
		}
	}

	var rest []string
	for id := range session.Scores {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// rankResults orders results by accuracy descending, then by fewer attempts.
// Remaining ties keep scoreOrder.
func rankResults(session *models.Session) []models.SessionResult {
	results := make([]models.SessionResult, 0, len(session.Scores))
	for _, id := range scoreOrder(session) {
		s := session.Scores[id]
		results = append(results, models.SessionResult{
			UserID:   id,
			Correct:  s.Correct,
			Total:    s.Total,
			Accuracy: s.Accuracy,
		})
	}

	slices.SortStableFunc(results, func(a, b models.SessionResult) int {
		if a.Accuracy != b.Accuracy {
			return b.Accuracy - a.Accuracy
		}
		return a.Total - b.Total
	})
	return results
}

// foldLeaderboard aggregates completed sessions of one game. A repeat
// appearance is folded as (previous + new) / 2, so later sessions weigh more
// than earlier ones.
func foldLeaderboard(sessions []models.Session, gameID string, limit int) []models.LeaderboardEntry {
	entries := make(map[string]*models.LeaderboardEntry)
	var order []string

	for i := range sessions {
		session := &sessions[i]
		if session.Game != gameID || session.Status != models.SessionCompleted {
			continue
		}

		for _, id := range scoreOrder(session) {
			accuracy := float64(session.Scores[id].Accuracy)
			if e, ok := entries[id]; ok {
				e.Score = (e.Score + accuracy) / 2
				e.Attempts++
				continue
			}

			name, avatar := unknownPlayerName, unknownPlayerAvatar
			if idx := session.PlayerIndex(id); idx >= 0 {
				name, avatar = session.Players[idx].Name, session.Players[idx].Avatar
			}
			entries[id] = &models.LeaderboardEntry{UserID: id, Name: name, Avatar: avatar, Score: accuracy, Attempts: 1}
			order = append(order, id)
		}
	}

	board := make([]models.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		board = append(board, *entries[id])
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Score > board[j].Score })

	if len(board) > limit {
		board = board[:limit]
	}
	return board
}

// progressOf ranks a session's players by accuracy; ties keep roster order
func progressOf(session *models.Session) []models.PlayerProgress {
	progress := make([]models.PlayerProgress, 0, len(session.Players))
	for _, p := range session.Players {
		s := session.Scores[p.ID]
		progress = append(progress, models.PlayerProgress{
			PlayerID: p.ID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			Correct:  s.Correct,
			Total:    s.Total,
			Accuracy: s.Accuracy,
		})
	}

	sort.SliceStable(progress, func(i, j int) bool { return progress[i].Accuracy > progress[j].Accuracy })
	for i := range progress {
		progress[i].Position = i + 1
	}
	return progress
}
