package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"abchub/internal/catalog"
	"abchub/internal/codes"
	"abchub/internal/errs"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
	"abchub/internal/validation"
)

const (
	DefaultMaxPlayers       = 4
	DefaultLeaderboardLimit = 100
	DefaultTimeLimitSeconds = 300
	DefaultDifficulty       = "normal"

	maxInviteCodeAttempts = 10
)

// SessionService manages multiplayer sessions. Every operation reads and
// writes through the record store; remote mirroring runs in the background
// and never changes the local outcome.
type SessionService struct {
	store   *repository.Store
	remote  mirror.Mirror
	tasks   Dispatcher
	catalog *catalog.Catalog
	mailer  Mailer
	logger  *zap.Logger
}

// NewSessionService creates a session service. mailer may be nil.
func NewSessionService(store *repository.Store, remote mirror.Mirror, tasks Dispatcher, cat *catalog.Catalog, mailer Mailer, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		store:   store,
		remote:  remote,
		tasks:   tasks,
		catalog: cat,
		mailer:  mailer,
		logger:  logger.Named("sessions"),
	}
}

// CreateSession starts a waiting session hosted by the local profile
func (s *SessionService) CreateSession(gameID string, maxPlayers int) (*models.Session, error) {
	profile := s.store.Profile()
	if profile == nil {
		s.logger.Warn("cannot create session without a profile")
		return nil, errs.ErrProfileNotFound
	}
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	now := s.store.Now()
	id, err := codes.GenerateID(now)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	inviteCode, err := s.newInviteCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}

	session := &models.Session{
		ID:       id,
		Name:     s.catalog.SessionGameName(gameID) + " Session",
		Game:     gameID,
		Host:     profile.ID,
		HostName: profile.Name,
		Players: []models.Player{{
			ID:       profile.ID,
			Name:     profile.Name,
			Avatar:   profile.Avatar,
			JoinedAt: now,
		}},
		MaxPlayers: maxPlayers,
		InviteCode: inviteCode,
		Status:     models.SessionWaiting,
		Scores:     map[string]models.PlayerScore{},
		CreatedAt:  now,
		Settings: models.SessionSettings{
			TimeLimit:  DefaultTimeLimitSeconds,
			Difficulty: DefaultDifficulty,
		},
	}

	if err := s.store.SaveSession(session); err != nil {
		return nil, err
	}
	s.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("game", gameID),
		zap.String("invite_code", inviteCode))

	remote := *session
	dispatch(s.tasks, "mirror.create_session", func(ctx context.Context) error {
		return s.remote.CreateSession(ctx, remote)
	})
	return session, nil
}

// newInviteCode draws codes until one is not used by an open local session
func (s *SessionService) newInviteCode() (string, error) {
	inUse := make(map[string]bool)
	for _, session := range s.store.Sessions() {
		if session.IsOpen() {
			inUse[session.InviteCode] = true
		}
	}

	var code string
	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		var err error
		if code, err = codes.GenerateInviteCode(); err != nil {
			return "", err
		}
		if !inUse[code] {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free invite code after %d attempts", maxInviteCodeAttempts)
}

// JoinSession adds the local profile to the session with the invite code.
// Joining a session the profile is already in returns it unchanged.
func (s *SessionService) JoinSession(inviteCode string) (*models.Session, error) {
	profile := s.store.Profile()
	if profile == nil {
		s.logger.Warn("cannot join session without a profile")
		return nil, errs.ErrProfileNotFound
	}

	inviteCode = validation.NormalizeInviteCode(inviteCode)
	session, err := s.store.SessionByInviteCode(inviteCode)
	if err != nil {
		s.logger.Warn("session not found", zap.String("invite_code", inviteCode))
		return nil, err
	}

	if session.HasPlayer(profile.ID) {
		return session, nil
	}
	if !session.IsOpen() {
		s.logger.Warn("session already completed", zap.String("session_id", session.ID))
		return nil, errs.ErrSessionCompleted
	}
	if session.IsFull() {
		s.logger.Warn("session is full",
			zap.String("session_id", session.ID),
			zap.Int("max_players", session.MaxPlayers))
		return nil, errs.ErrSessionFull
	}

	now := s.store.Now()
	session.Players = append(session.Players, models.Player{
		ID:       profile.ID,
		Name:     profile.Name,
		Avatar:   profile.Avatar,
		JoinedAt: now,
	})
	if session.Scores == nil {
		session.Scores = map[string]models.PlayerScore{}
	}
	session.Scores[profile.ID] = models.PlayerScore{StartTime: now}

	if err := s.store.SaveSession(session); err != nil {
		return nil, err
	}
	s.logger.Info("joined session", zap.String("session_id", session.ID), zap.String("user_id", profile.ID))

	players := slices.Clone(session.Players)
	dispatch(s.tasks, "mirror.join_session", func(ctx context.Context) error {
		return s.remote.JoinSession(ctx, inviteCode, players)
	})
	return session, nil
}

// UpdateScore overwrites a player's absolute correct/total counters and
// recomputes accuracy.
func (s *SessionService) UpdateScore(sessionID, userID string, correct, total int) (*models.Session, error) {
	if err := validation.ValidateScore(correct, total); err != nil {
		return nil, err
	}

	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		s.logger.Warn("session not found", zap.String("session_id", sessionID))
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, errs.ErrSessionCompleted
	}
	idx := session.PlayerIndex(userID)
	if idx < 0 {
		s.logger.Warn("score update for non-player", zap.String("session_id", sessionID), zap.String("user_id", userID))
		return nil, errs.ErrNotAPlayer
	}

	if session.Scores == nil {
		session.Scores = map[string]models.PlayerScore{}
	}
	score, ok := session.Scores[userID]
	if !ok {
		score.StartTime = s.store.Now()
	}
	score.Correct = correct
	score.Total = total
	score.Accuracy = Accuracy(correct, total)
	session.Scores[userID] = score

	session.Players[idx].Score = correct
	session.Players[idx].Accuracy = score.Accuracy

	if err := s.store.SaveSession(session); err != nil {
		return nil, err
	}

	scores := maps.Clone(session.Scores)
	dispatch(s.tasks, "mirror.update_scores", func(ctx context.Context) error {
		return s.remote.UpdateSessionScores(ctx, sessionID, scores)
	})
	return session, nil
}

// EndSession ranks the recorded scores, completes the session and submits
// every result to the remote leaderboard.
func (s *SessionService) EndSession(sessionID string) (*models.Session, error) {
	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		s.logger.Warn("session not found", zap.String("session_id", sessionID))
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, errs.ErrSessionCompleted
	}

	results := rankResults(session)
	winnerID := ""
	if len(results) > 0 {
		winnerID = results[0].UserID
	}

	endedAt := s.store.Now()
	session.Status = models.SessionCompleted
	session.EndedAt = &endedAt
	session.Results = results
	session.WinnerID = winnerID

	if err := s.store.SaveSession(session); err != nil {
		return nil, err
	}
	s.logger.Info("session ended",
		zap.String("session_id", sessionID),
		zap.String("winner_id", winnerID),
		zap.Int("results", len(results)))

	dispatch(s.tasks, "mirror.end_session", func(ctx context.Context) error {
		return s.remote.EndSession(ctx, sessionID, winnerID, endedAt)
	})
	gameID := session.Game
	for _, r := range results {
		dispatch(s.tasks, "mirror.record_score", func(ctx context.Context) error {
			return s.remote.RecordScore(ctx, r.UserID, gameID, r.Accuracy)
		})
	}
	return session, nil
}

// GetLeaderboard returns the remote leaderboard when a mirror is configured,
// and otherwise folds completed local sessions of the game.
func (s *SessionService) GetLeaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	entries, err := s.RemoteLeaderboard(ctx, gameID, limit)
	if errors.Is(err, mirror.ErrDisabled) {
		return s.LocalLeaderboard(gameID, limit), nil
	}
	return entries, err
}

// RemoteLeaderboard asks the mirror only and never touches the record store.
// A failing mirror yields an empty board; mirror.ErrDisabled is returned when
// there is no mirror so the caller can fall back to LocalLeaderboard.
func (s *SessionService) RemoteLeaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	entries, err := s.remote.Leaderboard(ctx, gameID, limit)
	switch {
	case err == nil:
		return nonNil(entries), nil
	case errors.Is(err, mirror.ErrDisabled):
		return nil, err
	default:
		s.logger.Warn("remote leaderboard unavailable", zap.String("game", gameID), zap.Error(err))
		return []models.LeaderboardEntry{}, nil
	}
}

// LocalLeaderboard folds completed local sessions of the game
func (s *SessionService) LocalLeaderboard(gameID string, limit int) []models.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return foldLeaderboard(s.store.Sessions(), gameID, limit)
}

// GetUserSessions returns sessions the user hosts or plays in
func (s *SessionService) GetUserSessions(userID string) []models.Session {
	var out []models.Session
	for _, session := range s.store.Sessions() {
		if session.Host == userID || session.HasPlayer(userID) {
			out = append(out, session)
		}
	}
	return nonNil(out)
}

// GetActiveSessions returns waiting and active sessions
func (s *SessionService) GetActiveSessions() []models.Session {
	var out []models.Session
	for _, session := range s.store.Sessions() {
		if session.IsOpen() {
			out = append(out, session)
		}
	}
	return nonNil(out)
}

// GetSessionProgress returns the live standing of a session's players
func (s *SessionService) GetSessionProgress(sessionID string) (*models.SessionProgress, error) {
	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	return &models.SessionProgress{
		SessionID: session.ID,
		Game:      session.Game,
		Status:    session.Status,
		Progress:  progressOf(session),
	}, nil
}

// SendSessionInvite notifies a friend about a session and returns its invite
// code for manual sharing. Delivery is best-effort: once the profile and
// session exist the call succeeds.
func (s *SessionService) SendSessionInvite(sessionID, contact string) (string, error) {
	profile := s.store.Profile()
	if profile == nil {
		s.logger.Warn("cannot send invite without a profile")
		return "", errs.ErrProfileNotFound
	}
	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		s.logger.Warn("session not found", zap.String("session_id", sessionID))
		return "", err
	}

	dispatch(s.tasks, "mirror.friend_invite", func(ctx context.Context) error {
		return s.remote.SendFriendInvite(ctx, profile.ID, contact)
	})

	if s.mailer != nil && s.mailer.IsEnabled() && validation.ValidateEmail(contact) == nil {
		gameName := s.catalog.DisplayName(session.Game)
		code := session.InviteCode
		dispatch(s.tasks, "email.session_invite", func(ctx context.Context) error {
			return s.mailer.SendSessionInvite(ctx, contact, profile.Name, gameName, code)
		})
	}

	s.logger.Info("share invite code", zap.String("session_id", session.ID), zap.String("invite_code", session.InviteCode))
	return session.InviteCode, nil
}

// SessionByID returns one session
func (s *SessionService) SessionByID(sessionID string) (*models.Session, error) {
	return s.store.SessionByID(sessionID)
}

// FormatSession builds the display summary of a session
func (s *SessionService) FormatSession(session *models.Session) models.SessionSummary {
	players := make([]models.PlayerBadge, 0, len(session.Players))
	for _, p := range session.Players {
		players = append(players, models.PlayerBadge{Name: p.Name, Avatar: p.Avatar})
	}
	return models.SessionSummary{
		ID:           session.ID,
		Name:         session.Name,
		Game:         session.Game,
		GameName:     s.catalog.DisplayName(session.Game),
		Host:         session.HostName,
		PlayersCount: len(session.Players),
		MaxPlayers:   session.MaxPlayers,
		Status:       session.Status,
		InviteCode:   session.InviteCode,
		CreatedAt:    session.CreatedAt.Format("2006-01-02"),
		Players:      players,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
