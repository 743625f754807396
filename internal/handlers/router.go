package handlers

import (
	"net/http"
	"sync"

	"go.uber.org/zap"

	"abchub/internal/audio"
	"abchub/internal/catalog"
	"abchub/internal/mirror"
	"abchub/internal/security"
	"abchub/internal/service"
)

// Deps are the services the HTTP API is served from
type Deps struct {
	Profiles *service.ProfileService
	Sessions *service.SessionService
	Stories  *service.StoryService
	Friends  *service.FriendService
	Backups  *service.BackupService
	Remote   mirror.Mirror
	Catalog  *catalog.Catalog
	// Speech serves prompt audio for the listening games; nil disables it
	Speech *audio.TTSService
	// JoinLimiter throttles invite-code guesses; nil disables it
	JoinLimiter *security.RateLimiter
	Logger      *zap.Logger
}

// NewRouter builds the JSON API. Every /api route that touches the record
// store is serialized through one mutex; the leaderboard and trending routes
// wait on the mirror unlocked and take the mutex only for the local fallback.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	profileHandler := NewProfileHandler(d.Profiles, d.Catalog, logger)
	var mu sync.Mutex
	sessionHandler := NewSessionHandler(d.Sessions, d.Profiles, &mu, logger)
	storyHandler := NewStoryHandler(d.Stories, &mu, logger)
	friendHandler := NewFriendHandler(d.Friends, logger)
	backupHandler := NewBackupHandler(d.Backups, d.Remote, logger)

	serial := func(h http.HandlerFunc) http.HandlerFunc { return Serialize(&mu, h) }
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		if d.JoinLimiter == nil {
			return h
		}
		return d.JoinLimiter.Middleware(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/mirror/status", backupHandler.MirrorStatus)
	mux.HandleFunc("GET /api/games", profileHandler.Games)
	mux.HandleFunc("GET /api/speech", NewSpeechHandler(d.Speech, logger).Speak)

	// Profile, scores and achievements
	mux.HandleFunc("GET /api/profile", serial(profileHandler.GetProfile))
	mux.HandleFunc("POST /api/profile", serial(profileHandler.CreateProfile))
	mux.HandleFunc("GET /api/scores", serial(profileHandler.GameScores))
	mux.HandleFunc("POST /api/scores", serial(profileHandler.RecordScore))
	mux.HandleFunc("GET /api/scores/{gameId}/average", serial(profileHandler.AverageScore))
	mux.HandleFunc("GET /api/achievements", serial(profileHandler.Achievements))

	// Sessions
	mux.HandleFunc("GET /api/sessions", serial(sessionHandler.ListSessions))
	mux.HandleFunc("POST /api/sessions", serial(sessionHandler.CreateSession))
	mux.HandleFunc("GET /api/sessions/active", serial(sessionHandler.ActiveSessions))
	mux.HandleFunc("POST /api/sessions/join", limited(serial(sessionHandler.JoinSession)))
	mux.HandleFunc("GET /api/sessions/{id}", serial(sessionHandler.GetSession))
	mux.HandleFunc("GET /api/sessions/{id}/progress", serial(sessionHandler.Progress))
	mux.HandleFunc("POST /api/sessions/{id}/scores", serial(sessionHandler.UpdateScore))
	mux.HandleFunc("POST /api/sessions/{id}/end", serial(sessionHandler.EndSession))
	mux.HandleFunc("POST /api/sessions/{id}/invite", serial(sessionHandler.Invite))
	mux.HandleFunc("GET /api/leaderboard/{gameId}", sessionHandler.Leaderboard)

	// Stories
	mux.HandleFunc("GET /api/stories", serial(storyHandler.ListStories))
	mux.HandleFunc("POST /api/stories", serial(storyHandler.SaveStory))
	mux.HandleFunc("GET /api/stories/trending", storyHandler.Trending)
	mux.HandleFunc("GET /api/stories/{id}", serial(storyHandler.GetStory))
	mux.HandleFunc("DELETE /api/stories/{id}", serial(storyHandler.DeleteStory))
	mux.HandleFunc("POST /api/stories/{id}/like", serial(storyHandler.LikeStory))

	// Friends
	mux.HandleFunc("GET /api/friends", serial(friendHandler.ListFriends))
	mux.HandleFunc("POST /api/friends", serial(friendHandler.AddFriend))
	mux.HandleFunc("POST /api/friends/invite", serial(friendHandler.InviteFriend))
	mux.HandleFunc("DELETE /api/friends/{id}", serial(friendHandler.RemoveFriend))

	// Backup and storage
	mux.HandleFunc("GET /api/backup", serial(backupHandler.Export))
	mux.HandleFunc("POST /api/backup", serial(backupHandler.Import))
	mux.HandleFunc("DELETE /api/data", serial(backupHandler.Clear))
	mux.HandleFunc("GET /api/stats", serial(backupHandler.Stats))

	return Logging(logger, Recover(logger, mux))
}
