package models

import "time"

// Snapshot is a whole-store export. A nil field means "absent" and is
// skipped on import.
type Snapshot struct {
	Profile      *Profile            `json:"profile,omitempty"`
	Scores       GameScores          `json:"scores"`
	Stories      []Story             `json:"stories"`
	Sessions     []Session           `json:"sessions"`
	Friends      []Friend            `json:"friends"`
	Achievements []AchievementUnlock `json:"achievements"`
	ExportedAt   time.Time           `json:"exportedAt"`
}

// StorageStats reports serialized byte sizes per collection
type StorageStats struct {
	Profile      int    `json:"profile"`
	Scores       int    `json:"scores"`
	Stories      int    `json:"stories"`
	Sessions     int    `json:"sessions"`
	Friends      int    `json:"friends"`
	Achievements int    `json:"achievements"`
	Total        int    `json:"total"`
	TotalMB      string `json:"totalMB"`
}
