package repository

import "abchub/internal/models"

// Achievements returns every unlock record
func (s *Store) Achievements() []models.AchievementUnlock {
	return load(s, KeyAchievements, []models.AchievementUnlock{})
}

// SaveAchievement records an unlock once. It reports whether the achievement
// was newly unlocked.
func (s *Store) SaveAchievement(id string) (bool, error) {
	unlocks := s.Achievements()
	for _, a := range unlocks {
		if a.ID == id {
			return false, nil
		}
	}

	unlocks = append(unlocks, models.AchievementUnlock{ID: id, UnlockedAt: s.now()})
	if err := s.save(KeyAchievements, unlocks); err != nil {
		return false, err
	}
	return true, nil
}
