package repository

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"abchub/internal/models"
)

// ExportAll snapshots every collection
func (s *Store) ExportAll() models.Snapshot {
	return models.Snapshot{
		Profile:      s.Profile(),
		Scores:       s.GameScores(),
		Stories:      s.Stories(),
		Sessions:     s.Sessions(),
		Friends:      s.Friends(),
		Achievements: s.Achievements(),
		ExportedAt:   s.now(),
	}
}

// ImportAll writes each non-nil field of the snapshot over its collection.
// It is not atomic: it stops at the first failed write, leaving earlier
// collections replaced.
func (s *Store) ImportAll(snapshot models.Snapshot) error {
	writes := []struct {
		key     string
		present bool
		value   any
	}{
		{KeyProfile, snapshot.Profile != nil, snapshot.Profile},
		{KeyScores, snapshot.Scores != nil, snapshot.Scores},
		{KeyStories, snapshot.Stories != nil, snapshot.Stories},
		{KeySessions, snapshot.Sessions != nil, snapshot.Sessions},
		{KeyFriends, snapshot.Friends != nil, snapshot.Friends},
		{KeyAchievements, snapshot.Achievements != nil, snapshot.Achievements},
	}

	for _, w := range writes {
		if !w.present {
			continue
		}
		if err := s.save(w.key, w.value); err != nil {
			return fmt.Errorf("import stopped at %s: %w", w.key, err)
		}
	}

	s.logger.Info("imported snapshot", zap.Time("exported_at", snapshot.ExportedAt))
	return nil
}

// ClearAll deletes every collection
func (s *Store) ClearAll() error {
	var errList []error
	for _, key := range Keys {
		if err := s.medium.Remove(key); err != nil {
			s.logger.Error("failed to clear collection", zap.String("key", key), zap.Error(err))
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// StorageStats reports the serialized size of every collection
func (s *Store) StorageStats() models.StorageStats {
	stats := models.StorageStats{
		Profile:      s.size(KeyProfile),
		Scores:       s.size(KeyScores),
		Stories:      s.size(KeyStories),
		Sessions:     s.size(KeySessions),
		Friends:      s.size(KeyFriends),
		Achievements: s.size(KeyAchievements),
	}
	stats.Total = stats.Profile + stats.Scores + stats.Stories + stats.Sessions + stats.Friends + stats.Achievements
	stats.TotalMB = fmt.Sprintf("%.2f", float64(stats.Total)/1024/1024)
	return stats
}
