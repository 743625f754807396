package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"abchub/internal/catalog"
	"abchub/internal/errs"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
	"abchub/internal/validation"
)

// AchievementStatus pairs a catalog achievement with its unlock state
type AchievementStatus struct {
	catalog.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// ProfileService owns the local profile, its scores and achievements
type ProfileService struct {
	store   *repository.Store
	remote  mirror.Mirror
	tasks   Dispatcher
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewProfileService(store *repository.Store, remote mirror.Mirror, tasks Dispatcher, cat *catalog.Catalog, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		store:   store,
		remote:  remote,
		tasks:   tasks,
		catalog: cat,
		logger:  logger.Named("profile"),
	}
}

// CreateProfile creates the device profile, or returns the existing one
func (s *ProfileService) CreateProfile(name string) (*models.Profile, error) {
	if existing := s.store.Profile(); existing != nil {
		return existing, nil
	}
	if name != "" {
		if err := validation.ValidateName(name); err != nil {
			return nil, err
		}
	}

	profile, err := s.store.CreateDefaultProfile(name)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", zap.String("user_id", profile.ID))

	s.sync(profile)
	return profile, nil
}

// Profile returns the device profile
func (s *ProfileService) Profile() (*models.Profile, error) {
	profile := s.store.Profile()
	if profile == nil {
		return nil, errs.ErrProfileNotFound
	}
	return profile, nil
}

// RecordGameScore stores a finished mini-game attempt and updates the
// profile totals. It returns any achievements unlocked by it.
func (s *ProfileService) RecordGameScore(gameID string, score int) ([]catalog.Achievement, error) {
	if err := validation.ValidateGameID(gameID); err != nil {
		return nil, err
	}
	profile := s.store.Profile()
	if profile == nil {
		return nil, errs.ErrProfileNotFound
	}

	// totals are written first and rolled back if the score entry fails
	before := *profile
	profile.TotalScore += score
	profile.GamesPlayed++
	if err := s.store.SaveProfile(profile); err != nil {
		return nil, err
	}
	if err := s.store.SaveGameScore(gameID, score); err != nil {
		if rerr := s.store.SaveProfile(&before); rerr != nil {
			s.logger.Error("failed to roll back profile totals", zap.String("game", gameID), zap.Error(rerr))
		}
		return nil, err
	}

	return s.EvaluateAchievements()
}

// RecordSessionOutcome folds a completed session into the local profile:
// best accuracy and sessions won.
func (s *ProfileService) RecordSessionOutcome(session *models.Session) ([]catalog.Achievement, error) {
	profile := s.store.Profile()
	if profile == nil {
		return nil, errs.ErrProfileNotFound
	}
	if session.Status != models.SessionCompleted {
		return nil, nil
	}

	changed := false
	for _, r := range session.Results {
		if r.UserID == profile.ID && r.Accuracy > profile.Stats.Accuracy {
			profile.Stats.Accuracy = r.Accuracy
			changed = true
		}
	}
	if session.WinnerID != "" && session.WinnerID == profile.ID {
		profile.Stats.SessionsWon++
		changed = true
	}
	if !changed {
		return nil, nil
	}

	if err := s.store.SaveProfile(profile); err != nil {
		return nil, err
	}
	return s.EvaluateAchievements()
}

// EvaluateAchievements unlocks every catalog achievement whose requirement
// the profile now meets, and returns the newly unlocked ones.
func (s *ProfileService) EvaluateAchievements() ([]catalog.Achievement, error) {
	profile := s.store.Profile()
	if profile == nil {
		return nil, errs.ErrProfileNotFound
	}

	progress := map[string]int{
		catalog.RequirementStoriesCreated:      profile.Stats.StoriesCreated,
		catalog.RequirementAccuracy:            profile.Stats.Accuracy,
		catalog.RequirementChallengesCompleted: profile.GamesPlayed,
		catalog.RequirementFriendsInvited:      len(s.store.Friends()),
		catalog.RequirementSessionsWon:         profile.Stats.SessionsWon,
	}

	var unlocked []catalog.Achievement
	for _, a := range s.catalog.Achievements {
		if progress[a.Requirement.Type] < a.Requirement.Value {
			continue
		}
		newly, err := s.store.SaveAchievement(a.ID)
		if err != nil {
			return unlocked, err
		}
		if !profile.HasAchievement(a.ID) {
			profile.Achievements = append(profile.Achievements, a.ID)
			newly = true
		}
		if newly {
			unlocked = append(unlocked, a)
		}
	}

	if len(unlocked) > 0 {
		if err := s.store.SaveProfile(profile); err != nil {
			return unlocked, err
		}
		for _, a := range unlocked {
			s.logger.Info("achievement unlocked", zap.String("achievement", a.ID))
		}
	}

	s.sync(profile)
	return unlocked, nil
}

// Achievements lists the catalog with unlock state
func (s *ProfileService) Achievements() []AchievementStatus {
	unlockedAt := make(map[string]time.Time)
	for _, u := range s.store.Achievements() {
		unlockedAt[u.ID] = u.UnlockedAt
	}

	out := make([]AchievementStatus, 0, len(s.catalog.Achievements))
	for _, a := range s.catalog.Achievements {
		status := AchievementStatus{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = &at
		}
		out = append(out, status)
	}
	return out
}

// AverageScore returns the rounded average score of a game
func (s *ProfileService) AverageScore(gameID string) int {
	return s.store.AverageScore(gameID)
}

// GameScores returns every stored game score
func (s *ProfileService) GameScores() models.GameScores {
	return s.store.GameScores()
}

func (s *ProfileService) sync(profile *models.Profile) {
	snapshot := *profile
	dispatch(s.tasks, "mirror.update_profile", func(ctx context.Context) error {
		return s.remote.UpdateProfile(ctx, snapshot)
	})
}
