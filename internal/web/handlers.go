package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tunequest/tunequest/internal/analytics"
	"github.com/tunequest/tunequest/internal/db"
	"github.com/tunequest/tunequest/internal/session"
	"github.com/tunequest/tunequest/internal/social"
)

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	db        *db.DB
	sessions  *session.Service
	analytics *analytics.Service
	social    *social.Service
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(database *db.DB, log zerolog.Logger) *Handlers {
	return &Handlers{
		db:        database,
		sessions:  session.New(database),
		analytics: analytics.New(database),
		social:    social.New(database),
		validate:  validator.New(),
		log:       log,
	}
}

// decodeJSON reads and validates a request body. A false return means the
// 400 response has already been written.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// int64Param parses a numeric URL parameter. A false return means the 400
// response has already been written.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// uuidParam parses a UUID URL parameter. A false return means the 400
// response has already been written.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// floatQuery parses an optional float query parameter, falling back to def
// when absent. A malformed value fails the request.
func floatQuery(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Games ---

func (h *Handlers) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.db.Games().List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("listing games")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGamesJSON(games))
}

func (h *Handlers) getGame(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "game_id")
	if !ok {
		return
	}
	game, err := h.db.Games().Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGameJSON(*game))
}

func (h *Handlers) gameRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "game_id")
	if !ok {
		return
	}
	recs, err := h.db.Games().Recommendations(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("game_id", id).Msg("listing recommendations")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecommendationsJSON(recs))
}

// --- Tracks ---

const (
	defaultTrackPageSize = 50
	maxTrackPageSize     = 200
)

func (h *Handlers) listTracks(w http.ResponseWriter, r *http.Request) {
	limit := defaultTrackPageSize
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxTrackPageSize)
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	tracks, err := h.db.Tracks().List(r.Context(), limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("listing tracks")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTracksJSON(tracks))
}

func (h *Handlers) getTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.db.Tracks().Get(r.Context(), chi.URLParam(r, "track_id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTrackJSON(*track))
}

// --- Playlists ---

type createPlaylistRequest struct {
	PlaylistName string   `json:"playlist_name" validate:"required"`
	TrackIDs     []string `json:"track_id"`
	UserID       *int64   `json:"user_id"`
}

func (h *Handlers) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	playlist, err := h.db.Playlists().Create(r.Context(), req.PlaylistName, req.TrackIDs, req.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("playlist_name", req.PlaylistName).Msg("creating playlist")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPlaylistJSON(*playlist))
}

func (h *Handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	playlist, err := h.db.Playlists().Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaylistJSON(*playlist))
}

func (h *Handlers) playlistTracks(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	// Membership of a missing playlist is a 404, not an empty list.
	if _, err := h.db.Playlists().Get(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	tracks, err := h.db.Playlists().Tracks(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTracksJSON(tracks))
}

type renamePlaylistRequest struct {
	PlaylistName string `json:"playlist_name" validate:"required"`
}

func (h *Handlers) renamePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	var req renamePlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	playlist, err := h.db.Playlists().Rename(r.Context(), id, req.PlaylistName)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaylistJSON(*playlist))
}

func (h *Handlers) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	if err := h.db.Playlists().Delete(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playlistTrackRequest struct {
	TrackID string `json:"track_id" validate:"required"`
}

func (h *Handlers) addPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	var req playlistTrackRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	playlist, err := h.db.Playlists().AddTrack(r.Context(), id, req.TrackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaylistJSON(*playlist))
}

func (h *Handlers) removePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	trackID := r.URL.Query().Get("track_id")
	if trackID == "" {
		respondError(w, http.StatusBadRequest, "track_id is required")
		return
	}
	playlist, err := h.db.Playlists().RemoveTrack(r.Context(), id, trackID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaylistJSON(*playlist))
}

type savePlaylistRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

func (h *Handlers) savePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	var req savePlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := h.db.Playlists().Save(r.Context(), req.UserID, id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (h *Handlers) unsavePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "playlist_id")
	if !ok {
		return
	}
	var req savePlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := h.db.Playlists().Unsave(r.Context(), req.UserID, id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Users ---

type upsertUserRequest struct {
	ExternalID  string `json:"external_id" validate:"required"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (h *Handlers) upsertUser(w http.ResponseWriter, r *http.Request) {
	var req upsertUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	user := db.User{
		ExternalID:  req.ExternalID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if err := h.db.Users().Upsert(r.Context(), &user); err != nil {
		h.log.Error().Err(err).Str("external_id", req.ExternalID).Msg("upserting user")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserJSON(user))
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "user_id")
	if !ok {
		return
	}
	user, err := h.db.Users().Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserJSON(*user))
}

type updateUserRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "user_id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	user, err := h.db.Users().Update(r.Context(), id, req.DisplayName, req.Email)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserJSON(*user))
}

func (h *Handlers) userPlaylists(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "user_id")
	if !ok {
		return
	}
	playlists, err := h.db.Playlists().SavedForUser(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaylistsJSON(playlists))
}

func (h *Handlers) userGames(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "user_id")
	if !ok {
		return
	}
	games, err := h.db.Users().Games(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGamesJSON(games))
}

// --- Analytics ---

// searchSongs generates a duration-constrained session playlist for a game.
// Parameter problems are rejected before any store access.
func (h *Handlers) searchSongs(w http.ResponseWriter, r *http.Request) {
	rawGameID := r.URL.Query().Get("game_id")
	if rawGameID == "" {
		respondError(w, http.StatusBadRequest, "game_id is required")
		return
	}
	gameID, err := strconv.ParseInt(rawGameID, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game_id")
		return
	}

	duration, err := floatQuery(r, "session_duration_s", session.DefaultSessionDurationS)
	if err != nil || duration <= 0 {
		respondError(w, http.StatusBadRequest, "invalid session_duration_s")
		return
	}

	params := session.Params{GameID: gameID, SessionDurationS: duration}
	params.Energy.Min, err = floatQuery(r, "min_energy", session.FullRange.Min)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid min_energy")
		return
	}
	params.Energy.Max, err = floatQuery(r, "max_energy", session.FullRange.Max)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid max_energy")
		return
	}
	params.Valence.Min, err = floatQuery(r, "min_valence", session.FullRange.Min)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid min_valence")
		return
	}
	params.Valence.Max, err = floatQuery(r, "max_valence", session.FullRange.Max)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid max_valence")
		return
	}

	results, err := h.sessions.Generate(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Int64("game_id", gameID).Msg("generating session playlist")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handlers) genreAudioProfile(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.analytics.GenreAudioProfile(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("building genre audio profile")
		respondStoreError(w, err)
		return
	}
	if profiles == nil {
		profiles = []analytics.GenreProfile{}
	}
	respondJSON(w, http.StatusOK, profiles)
}

func (h *Handlers) topGenrePairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.analytics.TopGenrePairs(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("building top genre pairs")
		respondStoreError(w, err)
		return
	}
	if pairs == nil {
		pairs = []analytics.GenrePair{}
	}
	respondJSON(w, http.StatusOK, pairs)
}

func (h *Handlers) gameMoods(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "game_id")
	if !ok {
		return
	}
	moods, err := h.analytics.GameMoods(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("game_id", id).Msg("clustering game moods")
		respondStoreError(w, err)
		return
	}
	if moods == nil {
		moods = []analytics.MoodCluster{}
	}
	respondJSON(w, http.StatusOK, moods)
}

func (h *Handlers) socialRecommendations(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	recs, err := h.social.Recommend(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("building social recommendations")
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}
