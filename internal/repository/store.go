package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Slot names, one per collection
const (
	KeyProfile      = "abc_profile"
	KeyScores       = "abc_scores"
	KeyStories      = "abc_stories"
	KeySessions     = "abc_sessions"
	KeyFriends      = "abc_friends"
	KeyAchievements = "abc_achievements"
)

// Keys lists every collection slot in export order
var Keys = []string{KeyProfile, KeyScores, KeyStories, KeySessions, KeyFriends, KeyAchievements}

// Retention caps
const (
	MaxScoresPerGame = 100
	MaxStories       = 500
	MaxSessions      = 50
)

// Store is the record store: six JSON collections over a Medium. Reads never
// fail; a missing or unreadable slot yields the empty default and a warning.
// Writes persist the whole collection and return an error on failure.
type Store struct {
	medium Medium
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a record store over the given medium
func NewStore(medium Medium, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		medium: medium,
		logger: logger.Named("store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// load decodes a collection into a fresh value, or returns def when the slot
// is absent, null or corrupted.
func load[T any](s *Store, key string, def T) T {
	data, ok, err := s.medium.Get(key)
	if err != nil {
		s.logger.Warn("failed to read collection", zap.String("key", key), zap.Error(err))
		return def
	}
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding corrupted collection", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

func (s *Store) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode collection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.medium.Set(key, data); err != nil {
		s.logger.Error("failed to save collection", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) size(key string) int {
	data, ok, err := s.medium.Get(key)
	if err != nil {
		s.logger.Warn("failed to read collection size", zap.String("key", key), zap.Error(err))
		return 0
	}
	if !ok {
		return 0
	}
	return len(data)
}
