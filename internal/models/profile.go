package models

import "time"

// Profile is the single local user of this device
type Profile struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Avatar       string       `json:"avatar"`
	CreatedAt    time.Time    `json:"createdAt"`
	TotalScore   int          `json:"totalScore"`
	GamesPlayed  int          `json:"gamesPlayed"`
	Achievements []string     `json:"achievements"`
	Stats        ProfileStats `json:"stats"`
	LastUpdated  *time.Time   `json:"lastUpdated,omitempty"`
}

// ProfileStats holds the cumulative counters shown on the profile page
type ProfileStats struct {
	StoriesCreated int `json:"storiesCreated"`
	WordsLearned   int `json:"wordsLearned"`
	Accuracy       int `json:"accuracy"`
	SessionsWon    int `json:"sessionsWon"`
}

// HasAchievement reports whether the achievement id is already listed on the profile
func (p *Profile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// AchievementUnlock records when an achievement was first earned
type AchievementUnlock struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}
