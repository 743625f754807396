package repository

import (
	"fmt"

	"abchub/internal/codes"
	"abchub/internal/models"
)

// Friends returns the friends list
func (s *Store) Friends() []models.Friend {
	return load(s, KeyFriends, []models.Friend{})
}

// SaveFriend adds a friend unless one with the same id is already listed.
// It returns the stored entry.
func (s *Store) SaveFriend(friend models.Friend) (*models.Friend, error) {
	now := s.now()
	if friend.ID == "" {
		id, err := codes.GenerateID(now)
		if err != nil {
			return nil, fmt.Errorf("generate friend id: %w", err)
		}
		friend.ID = id
	}
	if friend.Status == "" {
		friend.Status = models.FriendOffline
	}
	friend.AddedAt = now

	friends := s.Friends()
	for _, existing := range friends {
		if existing.ID == friend.ID {
			return &existing, nil
		}
	}

	if err := s.save(KeyFriends, append(friends, friend)); err != nil {
		return nil, err
	}
	return &friend, nil
}

// RemoveFriend drops the friend with the given id
func (s *Store) RemoveFriend(id string) error {
	friends := s.Friends()
	kept := friends[:0]
	for _, f := range friends {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return s.save(KeyFriends, kept)
}
