package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abchub/internal/config"
)

func signedKey(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon",
		"exp":  exp.Unix(),
	})
	key, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return key
}

func TestValidateAPIKey(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		key     string
		wantErr error
		anyErr  bool
	}{
		{name: "opaque key", key: "sb_publishable_abc123"},
		{name: "valid jwt", key: signedKey(t, now.Add(time.Hour))},
		{name: "empty", key: "  ", wantErr: ErrMissingAPIKey},
		{name: "expired jwt", key: signedKey(t, now.Add(-time.Hour)), wantErr: ErrAPIKeyExpired},
		{name: "malformed jwt", key: "not.a.jwt", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key, now)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MirrorConfig
		wantNop bool
	}{
		{name: "unconfigured", cfg: config.MirrorConfig{}, wantNop: true},
		{name: "missing key", cfg: config.MirrorConfig{Enabled: true, URL: "https://x"}, wantNop: true},
		{name: "expired key", cfg: config.MirrorConfig{Enabled: true, URL: "https://x", APIKey: signedKey(t, time.Now().Add(-time.Minute))}, wantNop: true},
		{name: "configured", cfg: config.MirrorConfig{Enabled: true, URL: "https://x", APIKey: "key"}, wantNop: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.cfg, nil)
			_, isNop := m.(Nop)
			assert.Equal(t, tt.wantNop, isNop)
		})
	}
}

func TestNopReportsDisabled(t *testing.T) {
	var m Mirror = Nop{}
	ctx := context.Background()

	assert.ErrorIs(t, m.RecordScore(ctx, "u1", "letters", 1), ErrDisabled)
	entries, err := m.Leaderboard(ctx, "letters", 10)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Nil(t, entries)
	assert.False(t, m.Ping(ctx).Success)
}
