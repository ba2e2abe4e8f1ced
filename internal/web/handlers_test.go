package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// newTestServer builds a server with no database behind it. Only routes that
// reject the request before touching the store are exercised here.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(ServerConfig{
		Addr:   "127.0.0.1:0",
		Logger: zerolog.Nop(),
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /api status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q, want JSON", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestParameterValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{
			name:   "search songs without game_id",
			method: http.MethodGet,
			target: "/analytics/search/songs",
		},
		{
			name:   "search songs with non-numeric game_id",
			method: http.MethodGet,
			target: "/analytics/search/songs?game_id=halo",
		},
		{
			name:   "search songs with negative duration",
			method: http.MethodGet,
			target: "/analytics/search/songs?game_id=1&session_duration_s=-60",
		},
		{
			name:   "search songs with malformed energy bound",
			method: http.MethodGet,
			target: "/analytics/search/songs?game_id=1&min_energy=loud",
		},
		{
			name:   "search songs with malformed valence bound",
			method: http.MethodGet,
			target: "/analytics/search/songs?game_id=1&max_valence=happy",
		},
		{
			name:   "social recommendations without user_id",
			method: http.MethodGet,
			target: "/analytics/social/recommendations",
		},
		{
			name:   "social recommendations with non-numeric user_id",
			method: http.MethodGet,
			target: "/analytics/social/recommendations?user_id=abc",
		},
		{
			name:   "game lookup with non-numeric id",
			method: http.MethodGet,
			target: "/games/not-a-number",
		},
		{
			name:   "moods with non-numeric game id",
			method: http.MethodGet,
			target: "/analytics/games/nope/moods",
		},
		{
			name:   "playlist lookup with malformed uuid",
			method: http.MethodGet,
			target: "/music/playlists/not-a-uuid",
		},
		{
			name:   "track listing with zero limit",
			method: http.MethodGet,
			target: "/music/tracks?limit=0",
		},
		{
			name:   "track listing with negative offset",
			method: http.MethodGet,
			target: "/music/tracks?offset=-1",
		},
		{
			name:   "create playlist with invalid JSON",
			method: http.MethodPost,
			target: "/music/playlists",
			body:   "{",
		},
		{
			name:   "create playlist without name",
			method: http.MethodPost,
			target: "/music/playlists",
			body:   `{"track_id": ["abc"]}`,
		},
		{
			name:   "add track without track_id",
			method: http.MethodPost,
			target: "/music/playlists/7b1f39e4-98a4-4cbb-93ec-7c0a4d5b2f11/tracks",
			body:   `{}`,
		},
		{
			name:   "remove track without track_id",
			method: http.MethodDelete,
			target: "/music/playlists/7b1f39e4-98a4-4cbb-93ec-7c0a4d5b2f11/tracks",
		},
		{
			name:   "save playlist without user_id",
			method: http.MethodPost,
			target: "/music/playlists/7b1f39e4-98a4-4cbb-93ec-7c0a4d5b2f11/save",
			body:   `{}`,
		},
		{
			name:   "upsert user without external_id",
			method: http.MethodPost,
			target: "/users",
			body:   `{"display_name": "Sam"}`,
		},
		{
			name:   "upsert user with malformed email",
			method: http.MethodPost,
			target: "/users",
			body:   `{"external_id": "spotify:123", "email": "not-an-email"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.target, rec.Code, http.StatusBadRequest)
			}
		})
	}
}
