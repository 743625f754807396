package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"abchub/internal/background"
	"abchub/internal/catalog"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
	"abchub/internal/security"
	"abchub/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testAPI struct {
	handler http.Handler
	store   *repository.Store
}

func newTestAPI(t *testing.T, joinRate int) *testAPI {
	t.Helper()
	return newTestAPIWithMirror(t, joinRate, mirror.Nop{})
}

func newTestAPIWithMirror(t *testing.T, joinRate int, remote mirror.Mirror) *testAPI {
	t.Helper()

	logger := zaptest.NewLogger(t)
	ctx, cancel := context.WithCancel(context.Background())

	store := repository.NewStore(repository.NewMemoryMedium(), logger)
	tasks := background.New(1, 32, time.Second, logger)
	tasks.Start(ctx)
	t.Cleanup(func() {
		tasks.Close()
		cancel()
	})

	cat := catalog.Default()
	profiles := service.NewProfileService(store, remote, tasks, cat, logger)

	deps := Deps{
		Profiles: profiles,
		Sessions: service.NewSessionService(store, remote, tasks, cat, nil, logger),
		Stories:  service.NewStoryService(store, remote, tasks, profiles, logger),
		Friends:  service.NewFriendService(store, remote, tasks, profiles, nil, logger),
		Backups:  service.NewBackupService(store, logger),
		Remote:   remote,
		Catalog:  cat,
		Logger:   logger,
	}
	if joinRate > 0 {
		deps.JoinLimiter = security.NewRateLimiter(ctx, joinRate, time.Minute)
	}
	return &testAPI{handler: NewRouter(deps), store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSessionFlow(t *testing.T) {
	api := newTestAPI(t, 0)

	rec := api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Ava"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	profile := decode[models.Profile](t, rec)

	rec = api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Bea"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, profile.ID, decode[models.Profile](t, rec).ID)

	rec = api.do(t, http.MethodPost, "/api/sessions", map[string]any{"gameId": "alphabet", "maxPlayers": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[models.Session](t, rec)
	assert.Equal(t, models.SessionWaiting, session.Status)

	rec = api.do(t, http.MethodPost, "/api/sessions/join", map[string]string{"inviteCode": strings.ToLower(session.InviteCode)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[models.Session](t, rec).Players, 1)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/scores", map[string]any{"userId": profile.ID, "correct": 9, "total": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 90, decode[models.Session](t, rec).Scores[profile.ID].Accuracy)

	rec = api.do(t, http.MethodGet, "/api/sessions/"+session.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	progress := decode[models.SessionProgress](t, rec)
	require.Len(t, progress.Progress, 1)
	assert.Equal(t, 1, progress.Progress[0].Position)

	rec = api.do(t, http.MethodGet, "/api/sessions/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.SessionSummary](t, rec), 1)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/end", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ended := decode[struct {
		Session  models.Session        `json:"session"`
		Unlocked []catalog.Achievement `json:"unlocked"`
	}](t, rec)
	assert.Equal(t, models.SessionCompleted, ended.Session.Status)
	assert.Equal(t, profile.ID, ended.Session.WinnerID)
	require.Len(t, ended.Unlocked, 1)
	assert.Equal(t, "game_champion", ended.Unlocked[0].ID)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/end", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/leaderboard/alphabet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[[]models.LeaderboardEntry](t, rec)
	require.Len(t, board, 1)
	assert.Equal(t, float64(90), board[0].Score)

	rec = api.do(t, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]models.SessionSummary](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Alphabet Practice", summaries[0].GameName)

	rec = api.do(t, http.MethodGet, "/api/sessions/active", nil)
	assert.Empty(t, decode[[]models.SessionSummary](t, rec))

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/invite", map[string]string{"contact": "Mia"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, session.InviteCode, decode[map[string]string](t, rec)["inviteCode"])
}

func TestErrorMapping(t *testing.T) {
	api := newTestAPI(t, 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"no profile yet", http.MethodGet, "/api/profile", nil, http.StatusNotFound},
		{"create session without profile", http.MethodPost, "/api/sessions", map[string]any{"gameId": "alphabet"}, http.StatusNotFound},
		{"bad game id", http.MethodPost, "/api/sessions", map[string]any{"gameId": "Not Valid"}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/sessions", "{", http.StatusBadRequest},
		{"short invite code", http.MethodPost, "/api/sessions/join", map[string]string{"inviteCode": "abc"}, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/sessions/missing", nil, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/leaderboard/alphabet?limit=-1", nil, http.StatusBadRequest},
		{"missing story", http.MethodDelete, "/api/stories/missing", nil, http.StatusNotFound},
		{"missing friend", http.MethodDelete, "/api/friends/missing", nil, http.StatusNotFound},
		{"bad friend email", http.MethodPost, "/api/friends/invite", map[string]string{"email": "nope"}, http.StatusBadRequest},
		{"bad clear flag", http.MethodPost, "/api/backup?clear=maybe", "{}", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestJoinErrors(t *testing.T) {
	api := newTestAPI(t, 0)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Ava"}).Code)

	rec := api.do(t, http.MethodPost, "/api/sessions/join", map[string]string{"inviteCode": "ZZZZ9999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sessions", map[string]any{"gameId": "alphabet"})
	session := decode[models.Session](t, rec)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/scores", map[string]any{"userId": "stranger", "correct": 1, "total": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/sessions/"+session.ID+"/scores", map[string]any{"userId": session.Host, "correct": 2, "total": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinIsRateLimited(t *testing.T) {
	api := newTestAPI(t, 2)
	body := map[string]string{"inviteCode": "ZZZZ9999"}

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/sessions/join", body).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/sessions/join", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do(t, http.MethodPost, "/api/sessions/join", body).Code)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/profile", nil).Code, "other routes are not limited")
}

func TestStoriesAndFriends(t *testing.T) {
	api := newTestAPI(t, 0)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Ava"}).Code)

	rec := api.do(t, http.MethodPost, "/api/stories", models.StoryDraft{Title: "The Moon", Content: "Up high.", IsPublic: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	story := decode[models.Story](t, rec)

	rec = api.do(t, http.MethodGet, "/api/stories/trending?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trending := decode[[]models.Story](t, rec)
	require.Len(t, trending, 1)
	assert.Equal(t, story.ID, trending[0].ID)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/stories/"+story.ID, nil).Code)
	assert.Equal(t, http.StatusAccepted, api.do(t, http.MethodPost, "/api/stories/"+story.ID+"/like", nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/stories/"+story.ID, nil).Code)
	assert.Empty(t, decode[[]models.Story](t, api.do(t, http.MethodGet, "/api/stories", nil)))

	rec = api.do(t, http.MethodPost, "/api/friends", models.Friend{Name: "Mo", Status: models.FriendOnline})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	friend := decode[models.Friend](t, rec)

	assert.Equal(t, http.StatusAccepted, api.do(t, http.MethodPost, "/api/friends/invite", map[string]string{"email": "mo@example.com"}).Code)
	assert.Len(t, decode[[]models.Friend](t, api.do(t, http.MethodGet, "/api/friends", nil)), 1)
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/friends/"+friend.ID, nil).Code)

	rec = api.do(t, http.MethodGet, "/api/achievements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	statuses := decode[[]service.AchievementStatus](t, rec)
	require.NotEmpty(t, statuses)
	assert.Equal(t, "first_story", statuses[0].ID)
	assert.True(t, statuses[0].Unlocked)
}

func TestScores(t *testing.T) {
	api := newTestAPI(t, 0)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Ava"}).Code)

	rec := api.do(t, http.MethodPost, "/api/scores", map[string]any{"gameId": "word-guess", "score": 7})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	api.do(t, http.MethodPost, "/api/scores", map[string]any{"gameId": "word-guess", "score": 8})

	rec = api.do(t, http.MethodGet, "/api/scores/word-guess/average", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"gameId":"word-guess","average":8}`, rec.Body.String())

	scores := decode[models.GameScores](t, api.do(t, http.MethodGet, "/api/scores", nil))
	assert.Len(t, scores["word-guess"], 2)
}

func TestBackupEndpoints(t *testing.T) {
	api := newTestAPI(t, 0)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/profile", map[string]string{"name": "Ava"}).Code)

	rec := api.do(t, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	exported := rec.Body.String()

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/data", nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/profile", nil).Code)

	rec = api.do(t, http.MethodPost, "/api/backup?clear=true", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Positive(t, decode[models.StorageStats](t, rec).Profile)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/profile", nil).Code)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, "/api/backup", `{"version":"2.0"}`).Code)
}

func TestCatalogAndMirrorStatus(t *testing.T) {
	api := newTestAPI(t, 0)

	rec := api.do(t, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalog.Game](t, rec), 7)

	rec = api.do(t, http.MethodGet, "/api/mirror/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[mirror.Status](t, rec).Success)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/healthz", nil).Code)
}

func TestRecoverAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	handler := Logging(logger, Recover(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())

	requests := logs.FilterMessage("http").All()
	require.Len(t, requests, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), requests[0].ContextMap()["status"])
	assert.Equal(t, "/explode", requests[0].ContextMap()["path"])
}

// blockingMirror holds remote reads until release is closed
type blockingMirror struct {
	mirror.Nop
	entered chan struct{}
	release chan struct{}
}

func (m *blockingMirror) Leaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	m.entered <- struct{}{}
	<-m.release
	return []models.LeaderboardEntry{{UserID: "remote", Score: 99}}, nil
}

func (m *blockingMirror) TrendingStories(ctx context.Context, limit int) ([]models.Story, error) {
	m.entered <- struct{}{}
	<-m.release
	return []models.Story{{ID: "remote-story", Title: "Remote"}}, nil
}

func TestRemoteReadsDoNotHoldTheAPI(t *testing.T) {
	for _, path := range []string{"/api/leaderboard/alphabet", "/api/stories/trending"} {
		t.Run(path, func(t *testing.T) {
			remote := &blockingMirror{entered: make(chan struct{}, 1), release: make(chan struct{})}
			api := newTestAPIWithMirror(t, 0, remote)

			pending := make(chan *httptest.ResponseRecorder, 1)
			go func() { pending <- api.do(t, http.MethodGet, path, nil) }()
			<-remote.entered

			done := make(chan int, 1)
			go func() { done <- api.do(t, http.MethodGet, "/api/friends", nil).Code }()
			select {
			case code := <-done:
				assert.Equal(t, http.StatusOK, code)
			case <-time.After(time.Second):
				t.Error("local route waited on the pending remote read")
			}

			close(remote.release)
			rec := <-pending
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "remote")
			if len(done) > 0 {
				<-done
			}
		})
	}
}

func TestLocalFallbacksWithoutMirror(t *testing.T) {
	api := newTestAPI(t, 0)

	rec := api.do(t, http.MethodGet, "/api/leaderboard/alphabet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/stories/trending?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
