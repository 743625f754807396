// Package errs contains sentinel errors shared by the store, services and handlers.
package errs

import "errors"

var (
	// ErrProfileNotFound indicates no local profile has been created yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSessionNotFound indicates no local session has the requested id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInviteNotFound indicates no local session carries the invite code.
	ErrInviteNotFound = errors.New("invite code not found")

	// ErrSessionFull indicates the session roster reached maxPlayers.
	ErrSessionFull = errors.New("session is full")

	// ErrSessionCompleted indicates the session already ended and its results are frozen.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrNotAPlayer indicates a score update for a user outside the roster.
	ErrNotAPlayer = errors.New("user is not a player in this session")

	// ErrStoryNotFound indicates no local story has the requested id.
	ErrStoryNotFound = errors.New("story not found")

	// ErrFriendNotFound indicates no friend has the requested id.
	ErrFriendNotFound = errors.New("friend not found")

	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
