// Package mirror talks to the optional remote replica of local state.
// Every call is best-effort: callers run them in the background and only log
// failures.
package mirror

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"abchub/internal/config"
	"abchub/internal/models"
)

// ErrDisabled is returned by every Nop method
var ErrDisabled = errors.New("remote mirror disabled")

// Status is the result of a connectivity check
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Mirror is the remote replica. Implementations must be safe for concurrent use.
type Mirror interface {
	CreateSession(ctx context.Context, session models.Session) error
	JoinSession(ctx context.Context, inviteCode string, players []models.Player) error
	SessionByCode(ctx context.Context, inviteCode string) (*models.Session, error)
	UpdateSessionScores(ctx context.Context, sessionID string, scores map[string]models.PlayerScore) error
	EndSession(ctx context.Context, sessionID, winnerID string, endedAt time.Time) error

	PublishStory(ctx context.Context, authorID string, story models.Story) error
	TrendingStories(ctx context.Context, limit int) ([]models.Story, error)
	LikeStory(ctx context.Context, storyID string) error

	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) error

	Leaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error)
	RecordScore(ctx context.Context, userID, gameID string, score int) error

	SendFriendInvite(ctx context.Context, fromUserID, toEmail string) error

	Ping(ctx context.Context) Status
}

// New returns a REST client when cfg is complete and its key looks usable,
// and Nop otherwise.
func New(cfg config.MirrorConfig, logger *zap.Logger) Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Configured() {
		logger.Info("remote mirror not configured, running local-only")
		return Nop{}
	}
	if err := ValidateAPIKey(cfg.APIKey, time.Now()); err != nil {
		logger.Warn("remote mirror disabled, unusable API key", zap.Error(err))
		return Nop{}
	}

	logger.Info("remote mirror enabled", zap.String("url", cfg.URL))
	return NewClient(cfg, nil)
}

// Nop is the mirror used when no remote is configured
type Nop struct{}

var _ Mirror = Nop{}

func (Nop) CreateSession(context.Context, models.Session) error { return ErrDisabled }
func (Nop) JoinSession(context.Context, string, []models.Player) error { return ErrDisabled }
func (Nop) SessionByCode(context.Context, string) (*models.Session, error) { return nil, ErrDisabled }
func (Nop) EndSession(context.Context, string, string, time.Time) error { return ErrDisabled }
func (Nop) PublishStory(context.Context, string, models.Story) error { return ErrDisabled }
func (Nop) TrendingStories(context.Context, int) ([]models.Story, error) { return nil, ErrDisabled }
func (Nop) LikeStory(context.Context, string) error { return ErrDisabled }
func (Nop) Profile(context.Context, string) (*models.Profile, error) { return nil, ErrDisabled }
func (Nop) UpdateProfile(context.Context, models.Profile) error { return ErrDisabled }
func (Nop) RecordScore(context.Context, string, string, int) error { return ErrDisabled }
func (Nop) SendFriendInvite(context.Context, string, string) error { return ErrDisabled }

func (Nop) UpdateSessionScores(context.Context, string, map[string]models.PlayerScore) error {
	return ErrDisabled
}

func (Nop) Leaderboard(context.Context, string, int) ([]models.LeaderboardEntry, error) {
	return nil, ErrDisabled
}

func (Nop) Ping(context.Context) Status {
	return Status{Success: false, Message: "remote mirror not configured"}
}
