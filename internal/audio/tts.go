package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"abchub/internal/validation"
)

// DefaultEndpoint is Google Translate's keyless text-to-speech endpoint
const DefaultEndpoint = "https://translate.google.com/translate_tts"

const ttsRequestTimeout = 10 * time.Second

// ErrUpstream is returned when the speech endpoint fails
var ErrUpstream = errors.New("speech endpoint unavailable")

var speakableRegex = regexp.MustCompile(`^[\p{L}\p{N}' \-]{1,40}$`)

// TTSService turns short prompts (letters, words) into cached MP3 clips for
// the listening games
type TTSService struct {
	audioDir string
	endpoint string
	client   *http.Client
	logger   *zap.Logger

	// mu keeps two requests from generating the same clip at once
	mu sync.Mutex
}

// NewTTSService creates a new TTS service writing clips under audioDir
func NewTTSService(audioDir, endpoint string, logger *zap.Logger) *TTSService {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TTSService{
		audioDir: audioDir,
		endpoint: endpoint,
		client:   &http.Client{Timeout: ttsRequestTimeout},
		logger:   logger.Named("tts"),
	}
}

// Clip returns the path of the MP3 for text, generating it on first use
func (s *TTSService) Clip(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if !speakableRegex.MatchString(text) {
		return "", validation.ValidationError{Field: "text", Message: "text must be 1 to 40 letters, digits or spaces"}
	}

	sanitized := strings.ReplaceAll(strings.ToLower(text), " ", "_")
	path := filepath.Join(s.audioDir, fmt.Sprintf("speech_%s.mp3", sanitized))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := s.generate(ctx, text, path); err != nil {
		return "", err
	}

	s.logger.Debug("speech clip generated", zap.String("text", text), zap.String("path", path))
	return path, nil
}

// Warm generates clips for every text, stopping at the first failure
func (s *TTSService) Warm(ctx context.Context, texts []string) (map[string]string, error) {
	results := make(map[string]string, len(texts))
	for _, text := range texts {
		path, err := s.Clip(ctx, text)
		if err != nil {
			return results, fmt.Errorf("failed to generate audio for '%s': %w", text, err)
		}
		results[text] = path
	}
	s.logger.Info("speech clips ready", zap.Int("count", len(results)))
	return results, nil
}

// generate downloads the clip into a temp file and renames it into place, so
// a failed download never leaves a partial clip behind
func (s *TTSService) generate(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The endpoint rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", ErrUpstream, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(s.audioDir, "speech-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write audio file: %v", ErrUpstream, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}
