package models

import "time"

// Story is user-authored content built from a template
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	IsPublic  bool      `json:"isPublic"`
	Likes     int       `json:"likes"`
	Shares    int       `json:"shares"`
}

// StoryDraft carries the user-supplied fields of a new story
type StoryDraft struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Template string `json:"template"`
	Content  string `json:"content"`
	IsPublic bool   `json:"isPublic"`
}
