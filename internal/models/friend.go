package models

import "time"

// FriendStatus is the presence of a friend
type FriendStatus string

const (
	FriendOnline  FriendStatus = "online"
	FriendOffline FriendStatus = "offline"
	FriendAway    FriendStatus = "away"
)

// Friend is an entry in the local friends list
type Friend struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Avatar  string       `json:"avatar"`
	AddedAt time.Time    `json:"addedAt"`
	Status  FriendStatus `json:"status"`
}
