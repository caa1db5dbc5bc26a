package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"wordler/config"
	"wordler/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	cfg           *config.Config
	router        *gin.Engine
	sessions      *SessionManager
	puzzles       *mockPuzzleService
	games         *mockGameService
	stats         *mockStatsService
	notifications *mockNotificationService
	players       *mockPlayerService
	destinations  *mockDestinationService
	identity      *mockIdentity
	groups        *service.MockGroupFetcher
	renderer      *service.MockGridRenderer
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := config.NewTestConfig()
	f := &apiFixture{
		cfg:           cfg,
		sessions:      NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, false),
		puzzles:       new(mockPuzzleService),
		games:         new(mockGameService),
		stats:         new(mockStatsService),
		notifications: new(mockNotificationService),
		players:       new(mockPlayerService),
		destinations:  new(mockDestinationService),
		identity:      new(mockIdentity),
		groups:        new(service.MockGroupFetcher),
		renderer:      new(service.MockGridRenderer),
	}

	handlers := NewHandlers(cfg, Dependencies{
		Puzzles:       f.puzzles,
		Games:         f.games,
		Stats:         f.stats,
		Notifications: f.notifications,
		Players:       f.players,
		Destinations:  f.destinations,
		Renderer:      f.renderer,
		Identity:      f.identity,
		Groups:        f.groups,
		Sessions:      f.sessions,
	})

	router, err := NewRouter(cfg, handlers)
	require.NoError(t, err)
	f.router = router
	return f
}

type requestOption func(*http.Request)

func (f *apiFixture) asPlayer(t *testing.T, discordID int64) requestOption {
	token, err := f.sessions.Issue(discordID)
	require.NoError(t, err)
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
}

func (f *apiFixture) asAgent() requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+f.cfg.BotAPIToken)
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) assertExpectations(t *testing.T) {
	f.puzzles.AssertExpectations(t)
	f.games.AssertExpectations(t)
	f.stats.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	f.players.AssertExpectations(t)
	f.destinations.AssertExpectations(t)
	f.identity.AssertExpectations(t)
	f.groups.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
}
