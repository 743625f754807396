package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"abchub/internal/codes"
	"abchub/internal/errs"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	gameIDRegex     = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{0,63}$`)
	inviteCodeRegex = regexp.MustCompile(`^[A-Z0-9]+$`)
)

const (
	maxNameLength  = 40
	maxTitleLength = 120
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with errs.ErrInvalidInput
func (e ValidationError) Unwrap() error {
	return errs.ErrInvalidInput
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks if a player or friend name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	return nil
}

// ValidateGameID checks that a game id is a lowercase slug
func ValidateGameID(id string) error {
	if id == "" {
		return ValidationError{Field: "gameId", Message: "game id is required"}
	}
	if !gameIDRegex.MatchString(id) {
		return ValidationError{Field: "gameId", Message: "game id must be a lowercase slug"}
	}
	return nil
}

// NormalizeInviteCode trims and upper-cases a code typed by a user
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateInviteCode checks an already normalized invite code
func ValidateInviteCode(code string) error {
	if len(code) != codes.InviteCodeLength || !inviteCodeRegex.MatchString(code) {
		return ValidationError{Field: "inviteCode", Message: fmt.Sprintf("invite code must be %d letters or digits", codes.InviteCodeLength)}
	}
	return nil
}

// ValidateScore checks absolute correct/total counters
func ValidateScore(correct, total int) error {
	if correct < 0 || total < 0 {
		return ValidationError{Field: "score", Message: "counts cannot be negative"}
	}
	if correct > total {
		return ValidationError{Field: "score", Message: "correct cannot exceed total"}
	}
	return nil
}

// ValidateStoryTitle checks a story title
func ValidateStoryTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength)}
	}
	return nil
}
