package repository

import (
	"slices"

	"abchub/internal/errs"
	"abchub/internal/models"
)

// Sessions returns all retained sessions, oldest first
func (s *Store) Sessions() []models.Session {
	return load(s, KeySessions, []models.Session{})
}

// SaveSession inserts the session or replaces the one with the same id, then
// applies the retention cap.
func (s *Store) SaveSession(session *models.Session) error {
	sessions := s.Sessions()
	if i := slices.IndexFunc(sessions, func(existing models.Session) bool {
		return existing.ID == session.ID
	}); i >= 0 {
		sessions[i] = *session
	} else {
		sessions = append(sessions, *session)
	}

	return s.save(KeySessions, retainSessions(sessions, MaxSessions))
}

// retainSessions trims sessions to limit entries. Completed sessions go first,
// oldest first; waiting or active sessions are only dropped once no completed
// session is left.
func retainSessions(sessions []models.Session, limit int) []models.Session {
	for len(sessions) > limit {
		i := slices.IndexFunc(sessions, func(s models.Session) bool {
			return s.Status == models.SessionCompleted
		})
		if i < 0 {
			i = 0
		}
		sessions = slices.Delete(sessions, i, i+1)
	}
	return sessions
}

// SessionByID finds a session by id
func (s *Store) SessionByID(id string) (*models.Session, error) {
	for _, session := range s.Sessions() {
		if session.ID == id {
			return &session, nil
		}
	}
	return nil, errs.ErrSessionNotFound
}

// SessionByInviteCode finds the session an invite code refers to. An open
// session wins over a completed one that happens to share the code.
func (s *Store) SessionByInviteCode(code string) (*models.Session, error) {
	var fallback *models.Session
	for _, session := range s.Sessions() {
		if session.InviteCode != code {
			continue
		}
		if session.IsOpen() {
			return &session, nil
		}
		if fallback == nil {
			fallback = &session
		}
	}
	if fallback == nil {
		return nil, errs.ErrInviteNotFound
	}
	return fallback, nil
}
