package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tunequest/tunequest/internal/db"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string

	// AnalyticsRateLimit caps requests per IP per minute on the analytics
	// group. Zero disables the limiter.
	AnalyticsRateLimit int

	Logger zerolog.Logger
	DB     *db.DB
}

// Server is the HTTP server for the playlist API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	log      zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	router := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   router,
		handlers: NewHandlers(cfg.DB, cfg.Logger),
		log:      cfg.Logger,
	}

	s.setupMiddleware(cfg, newMetrics(registry))
	s.setupRoutes(cfg, registry)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware(cfg ServerConfig, m *metrics) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(m.instrument)
}

// setupRoutes configures routes for the API.
func (s *Server) setupRoutes(cfg ServerConfig, registry *prometheus.Registry) {
	h := s.handlers

	s.router.Get("/api", h.health)

	s.router.Route("/games", func(r chi.Router) {
		r.Get("/", h.listGames)
		r.Get("/{game_id}", h.getGame)
		r.Get("/{game_id}/recommendations", h.gameRecommendations)
	})

	s.router.Route("/music", func(r chi.Router) {
		r.Get("/tracks", h.listTracks)
		r.Get("/track/{track_id}", h.getTrack)

		r.Route("/playlists", func(r chi.Router) {
			r.Post("/", h.createPlaylist)
			r.Get("/{playlist_id}", h.getPlaylist)
			r.Patch("/{playlist_id}", h.renamePlaylist)
			r.Delete("/{playlist_id}", h.deletePlaylist)
			r.Get("/{playlist_id}/tracks", h.playlistTracks)
			r.Post("/{playlist_id}/tracks", h.addPlaylistTrack)
			r.Delete("/{playlist_id}/tracks", h.removePlaylistTrack)
			r.Post("/{playlist_id}/save", h.savePlaylist)
			r.Delete("/{playlist_id}/save", h.unsavePlaylist)
		})
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", h.upsertUser)
		r.Get("/{user_id}", h.getUser)
		r.Patch("/{user_id}", h.updateUser)
		r.Get("/{user_id}/playlists", h.userPlaylists)
		r.Get("/{user_id}/games", h.userGames)
	})

	s.router.Route("/analytics", func(r chi.Router) {
		if cfg.AnalyticsRateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.AnalyticsRateLimit, time.Minute))
		}
		r.Get("/search/songs", h.searchSongs)
		r.Get("/genres/audio_profile", h.genreAudioProfile)
		r.Get("/genres/top_pairs", h.topGenrePairs)
		r.Get("/games/{game_id}/moods", h.gameMoods)
		r.Get("/social/recommendations", h.socialRecommendations)
	})

	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// requestLogger emits one structured log line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}
