package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"abchub/internal/config"
	"abchub/internal/models"
)

const restPrefix = "/rest/v1/"

// StatusError reports a non-2xx answer from the remote
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
}

// Client is a Mirror backed by a PostgREST-style HTTP API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

var _ Mirror = (*Client)(nil)

// NewClient creates a REST mirror. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg config.MirrorConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func eq(v string) string { return "eq." + v }

// do sends a request to /rest/v1/<table>. When out is nil the remote is asked
// not to echo the written rows.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	u := c.baseURL + restPrefix + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", table, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if method != http.MethodGet && out == nil {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: restPrefix + table, Code: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func (c *Client) CreateSession(ctx context.Context, session models.Session) error {
	row := newSessionRow(session)
	row.Status = string(models.SessionWaiting)
	return c.do(ctx, http.MethodPost, "sessions", nil, row, nil)
}

func (c *Client) JoinSession(ctx context.Context, inviteCode string, players []models.Player) error {
	query := url.Values{"invite_code": {eq(inviteCode)}}
	return c.do(ctx, http.MethodPatch, "sessions", query, sessionRow{Players: newPlayerRows(players)}, nil)
}

// SessionByCode fetches the remote copy of a session
func (c *Client) SessionByCode(ctx context.Context, inviteCode string) (*models.Session, error) {
	var rows []sessionRow
	query := url.Values{"invite_code": {eq(inviteCode)}}
	if err := c.do(ctx, http.MethodGet, "sessions", query, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	s := rows[0].toModel()
	return &s, nil
}

func (c *Client) UpdateSessionScores(ctx context.Context, sessionID string, scores map[string]models.PlayerScore) error {
	query := url.Values{"id": {eq(sessionID)}}
	body := map[string]any{"scores": newScoreRows(scores)}
	return c.do(ctx, http.MethodPatch, "sessions", query, body, nil)
}

func (c *Client) EndSession(ctx context.Context, sessionID, winnerID string, endedAt time.Time) error {
	query := url.Values{"id": {eq(sessionID)}}
	body := map[string]any{
		"status":    string(models.SessionCompleted),
		"winner_id": nullable(winnerID),
		"ended_at":  endedAt.UTC(),
	}
	return c.do(ctx, http.MethodPatch, "sessions", query, body, nil)
}

func (c *Client) PublishStory(ctx context.Context, authorID string, story models.Story) error {
	row := storyRow{
		AuthorID: authorID,
		Title:    story.Title,
		Template: story.Template,
		Content:  story.Content,
	}
	return c.do(ctx, http.MethodPost, "public_stories", nil, row, nil)
}

// TrendingStories returns the most liked public stories
func (c *Client) TrendingStories(ctx context.Context, limit int) ([]models.Story, error) {
	var rows []storyRow
	query := url.Values{"order": {"likes.desc"}, "limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, "public_stories", query, nil, &rows); err != nil {
		return nil, err
	}

	stories := make([]models.Story, 0, len(rows))
	for _, r := range rows {
		stories = append(stories, r.toModel())
	}
	return stories, nil
}

// LikeStory reads the current like count and writes it back incremented.
// Concurrent likes can be lost.
func (c *Client) LikeStory(ctx context.Context, storyID string) error {
	query := url.Values{"id": {eq(storyID)}}

	var rows []storyRow
	if err := c.do(ctx, http.MethodGet, "public_stories", query, nil, &rows); err != nil {
		return err
	}
	likes := 0
	if len(rows) > 0 {
		likes = rows[0].Likes
	}

	return c.do(ctx, http.MethodPatch, "public_stories", query, map[string]int{"likes": likes + 1}, nil)
}

// Profile fetches the remote copy of a profile; nil when the remote has none
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var rows []profileRow
	if err := c.do(ctx, http.MethodGet, "profiles", url.Values{"id": {eq(userID)}}, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0].toModel()
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, profile models.Profile) error {
	query := url.Values{"id": {eq(profile.ID)}}
	return c.do(ctx, http.MethodPatch, "profiles", query, newProfileRow(profile), nil)
}

// Leaderboard returns the top recorded scores for a game
func (c *Client) Leaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	var rows []leaderboardRow
	query := url.Values{
		"game_id": {eq(gameID)},
		"order":   {"score.desc"},
		"limit":   {strconv.Itoa(limit)},
	}
	if err := c.do(ctx, http.MethodGet, "leaderboard", query, nil, &rows); err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toModel())
	}
	return entries, nil
}

func (c *Client) RecordScore(ctx context.Context, userID, gameID string, score int) error {
	now := c.now()
	row := leaderboardRow{
		UserID:     userID,
		GameID:     gameID,
		Score:      float64(score),
		RecordedAt: &now,
	}
	return c.do(ctx, http.MethodPost, "leaderboard", nil, row, nil)
}

func (c *Client) SendFriendInvite(ctx context.Context, fromUserID, toEmail string) error {
	row := friendInviteRow{FromUserID: fromUserID, ToUserEmail: toEmail, Status: "pending"}
	return c.do(ctx, http.MethodPost, "friend_invites", nil, row, nil)
}

// Ping checks that the REST root answers
func (c *Client) Ping(ctx context.Context) Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPrefix, nil)
	if err != nil {
		return Status{Message: err.Error()}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Status{Message: err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Status{Message: "HTTP " + strconv.Itoa(resp.StatusCode)}
	}
	return Status{Success: true, Message: "connected to remote mirror"}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
