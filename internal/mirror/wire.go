package mirror

import (
	"time"

	"abchub/internal/models"
)

// Rows as the remote stores them. Field names are snake_case on the wire.

type sessionRow struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name,omitempty"`
	GameID     string              `json:"game_id,omitempty"`
	HostID     string              `json:"host_id,omitempty"`
	HostName   string              `json:"host_name,omitempty"`
	Status     string              `json:"status,omitempty"`
	InviteCode string              `json:"invite_code,omitempty"`
	MaxPlayers int                 `json:"max_players,omitempty"`
	Settings   *settingsRow        `json:"settings,omitempty"`
	Players    []playerRow         `json:"players,omitempty"`
	Scores     map[string]scoreRow `json:"scores,omitempty"`
	WinnerID   string              `json:"winner_id,omitempty"`
	CreatedAt  *time.Time          `json:"created_at,omitempty"`
	EndedAt    *time.Time          `json:"ended_at,omitempty"`
}

type settingsRow struct {
	TimeLimit  int    `json:"time_limit"`
	Difficulty string `json:"difficulty"`
}

type playerRow struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joined_at"`
	Score    int       `json:"score"`
	Accuracy int       `json:"accuracy"`
}

type scoreRow struct {
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Accuracy  int       `json:"accuracy"`
	StartTime time.Time `json:"start_time"`
}

type storyRow struct {
	ID        string     `json:"id,omitempty"`
	AuthorID  string     `json:"author_id,omitempty"`
	Title     string     `json:"title"`
	Template  string     `json:"template"`
	Content   string     `json:"content"`
	Likes     int        `json:"likes"`
	Shares    int        `json:"shares"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type profileRow struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Avatar         string     `json:"avatar"`
	TotalScore     int        `json:"total_score"`
	GamesPlayed    int        `json:"games_played"`
	Achievements   []string   `json:"achievements"`
	StoriesCreated int        `json:"stories_created"`
	WordsLearned   int        `json:"words_learned"`
	Accuracy       int        `json:"accuracy"`
	SessionsWon    int        `json:"sessions_won"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type leaderboardRow struct {
	UserID     string     `json:"user_id"`
	GameID     string     `json:"game_id"`
	Score      float64    `json:"score"`
	UserName   string     `json:"user_name,omitempty"`
	Avatar     string     `json:"avatar,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

type friendInviteRow struct {
	FromUserID  string `json:"from_user_id"`
	ToUserEmail string `json:"to_user_email"`
	Status      string `json:"status"`
}

func newSessionRow(s models.Session) sessionRow {
	createdAt := s.CreatedAt
	row := sessionRow{
		ID:         s.ID,
		Name:       s.Name,
		GameID:     s.Game,
		HostID:     s.Host,
		HostName:   s.HostName,
		Status:     string(s.Status),
		InviteCode: s.InviteCode,
		MaxPlayers: s.MaxPlayers,
		Settings:   &settingsRow{TimeLimit: s.Settings.TimeLimit, Difficulty: s.Settings.Difficulty},
		Players:    newPlayerRows(s.Players),
		CreatedAt:  &createdAt,
	}
	if len(s.Scores) > 0 {
		row.Scores = newScoreRows(s.Scores)
	}
	return row
}

func newPlayerRows(players []models.Player) []playerRow {
	rows := make([]playerRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerRow{
			UserID:   p.ID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			JoinedAt: p.JoinedAt,
			Score:    p.Score,
			Accuracy: p.Accuracy,
		})
	}
	return rows
}

func newScoreRows(scores map[string]models.PlayerScore) map[string]scoreRow {
	rows := make(map[string]scoreRow, len(scores))
	for id, s := range scores {
		rows[id] = scoreRow{Correct: s.Correct, Total: s.Total, Accuracy: s.Accuracy, StartTime: s.StartTime}
	}
	return rows
}

func (r sessionRow) toModel() models.Session {
	s := models.Session{
		ID:         r.ID,
		Name:       r.Name,
		Game:       r.GameID,
		Host:       r.HostID,
		HostName:   r.HostName,
		MaxPlayers: r.MaxPlayers,
		InviteCode: r.InviteCode,
		Status:     models.SessionStatus(r.Status),
		Players:    make([]models.Player, 0, len(r.Players)),
		Scores:     make(map[string]models.PlayerScore, len(r.Scores)),
		WinnerID:   r.WinnerID,
		EndedAt:    r.EndedAt,
	}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}
	if r.Settings != nil {
		s.Settings = models.SessionSettings{TimeLimit: r.Settings.TimeLimit, Difficulty: r.Settings.Difficulty}
	}
	for _, p := range r.Players {
		s.Players = append(s.Players, models.Player{
			ID:       p.UserID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			JoinedAt: p.JoinedAt,
			Score:    p.Score,
			Accuracy: p.Accuracy,
		})
	}
	for id, sc := range r.Scores {
		s.Scores[id] = models.PlayerScore{Correct: sc.Correct, Total: sc.Total, Accuracy: sc.Accuracy, StartTime: sc.StartTime}
	}
	return s
}

func (r storyRow) toModel() models.Story {
	s := models.Story{
		ID:       r.ID,
		Title:    r.Title,
		Template: r.Template,
		Content:  r.Content,
		IsPublic: true,
		Likes:    r.Likes,
		Shares:   r.Shares,
	}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}
	return s
}

func newProfileRow(p models.Profile) profileRow {
	return profileRow{
		ID:             p.ID,
		Name:           p.Name,
		Avatar:         p.Avatar,
		TotalScore:     p.TotalScore,
		GamesPlayed:    p.GamesPlayed,
		Achievements:   p.Achievements,
		StoriesCreated: p.Stats.StoriesCreated,
		WordsLearned:   p.Stats.WordsLearned,
		Accuracy:       p.Stats.Accuracy,
		SessionsWon:    p.Stats.SessionsWon,
		UpdatedAt:      p.LastUpdated,
	}
}

func (r profileRow) toModel() models.Profile {
	return models.Profile{
		ID:           r.ID,
		Name:         r.Name,
		Avatar:       r.Avatar,
		TotalScore:   r.TotalScore,
		GamesPlayed:  r.GamesPlayed,
		Achievements: r.Achievements,
		Stats: models.ProfileStats{
			StoriesCreated: r.StoriesCreated,
			WordsLearned:   r.WordsLearned,
			Accuracy:       r.Accuracy,
			SessionsWon:    r.SessionsWon,
		},
		LastUpdated: r.UpdatedAt,
	}
}

func (r leaderboardRow) toModel() models.LeaderboardEntry {
	return models.LeaderboardEntry{
		UserID:   r.UserID,
		Name:     r.UserName,
		Avatar:   r.Avatar,
		Score:    r.Score,
		Attempts: 1,
	}
}
