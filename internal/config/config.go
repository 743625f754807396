package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	ServerPort   string `env:"PORT" envDefault:"8080"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabasePath string `env:"DB_PATH" envDefault:"./abchub.db"`
	DatabaseURL  string `env:"DATABASE_URL"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`
	CatalogPath  string `env:"CATALOG_PATH"`

	Mirror MirrorConfig

	MirrorWorkers int `env:"MIRROR_WORKERS" envDefault:"2"`
	MirrorQueue   int `env:"MIRROR_QUEUE" envDefault:"64"`

	// JoinRateLimit invite-code joins are allowed per client per JoinRateWindow
	JoinRateLimit  int           `env:"JOIN_RATE_LIMIT" envDefault:"10"`
	JoinRateWindow time.Duration `env:"JOIN_RATE_WINDOW" envDefault:"1m"`

	// AudioDir caches generated speech clips; AudioWarm pre-generates A to Z at startup
	AudioDir  string `env:"AUDIO_DIR" envDefault:"./audio"`
	TTSURL    string `env:"TTS_URL"`
	AudioWarm bool   `env:"AUDIO_WARM" envDefault:"false"`

	SESRegion    string `env:"SES_REGION" envDefault:"us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"ABC Hub"`
	AppBaseURL   string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

// MirrorConfig is the explicit configuration handed to the remote mirror.
// All three of Enabled, URL and APIKey must be set for the mirror to be used.
type MirrorConfig struct {
	Enabled bool          `env:"MIRROR_ENABLED" envDefault:"false"`
	URL     string        `env:"MIRROR_URL"`
	APIKey  string        `env:"MIRROR_API_KEY"`
	Timeout time.Duration `env:"MIRROR_TIMEOUT" envDefault:"10s"`
}

// Configured reports whether every setting needed for remote calls is present.
func (m MirrorConfig) Configured() bool {
	return m.Enabled && m.URL != "" && m.APIKey != ""
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
