package mirror

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrAPIKeyExpired = errors.New("API key expired")
)

// ValidateAPIKey rejects empty keys and JWT-shaped keys that are malformed or
// past their exp claim. The signature is not checked; only the remote can do
// that. Opaque keys are accepted as-is.
func ValidateAPIKey(key string, now time.Time) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingAPIKey
	}
	if strings.Count(key, ".") != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return fmt.Errorf("malformed API key: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("malformed API key expiry: %w", err)
	}
	if exp != nil && !exp.After(now) {
		return fmt.Errorf("%w at %s", ErrAPIKeyExpired, exp.Time.UTC().Format(time.RFC3339))
	}
	return nil
}
