package repository

import (
	"fmt"

	"abchub/internal/codes"
	"abchub/internal/models"
)

// DefaultPlayerName is used when a profile is created without a name
const DefaultPlayerName = "Player"

// Profile returns the local profile, or nil if none has been created
func (s *Store) Profile() *models.Profile {
	return load[*models.Profile](s, KeyProfile, nil)
}

// SaveProfile persists the profile and stamps LastUpdated
func (s *Store) SaveProfile(profile *models.Profile) error {
	stamped := *profile
	now := s.now()
	stamped.LastUpdated = &now
	if err := s.save(KeyProfile, &stamped); err != nil {
		return err
	}
	profile.LastUpdated = &now
	return nil
}

// CreateDefaultProfile builds, without saving, a fresh profile with zeroed stats
func (s *Store) CreateDefaultProfile(name string) (*models.Profile, error) {
	if name == "" {
		name = DefaultPlayerName
	}
	now := s.now()
	id, err := codes.GenerateID(now)
	if err != nil {
		return nil, fmt.Errorf("generate profile id: %w", err)
	}
	avatar, err := codes.RandomAvatar()
	if err != nil {
		return nil, fmt.Errorf("pick avatar: %w", err)
	}

	return &models.Profile{
		ID:           id,
		Name:         name,
		Avatar:       avatar,
		CreatedAt:    now,
		Achievements: []string{},
	}, nil
}
