// Package catalog imports track metadata and audio features from the Spotify
// Web API into the store.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tunequest/tunequest/internal/db"
)

// Spotify API batch limits.
const (
	maxTracksPerRequest   = 50
	maxFeaturesPerRequest = 100
	maxArtistsPerRequest  = 50
)

// Service imports catalog data through an app-authorized Spotify client.
type Service struct {
	db     *db.DB
	client *spotify.Client
	log    zerolog.Logger
}

// New creates a new catalog service.
func New(database *db.DB, client *spotify.Client, log zerolog.Logger) *Service {
	return &Service{db: database, client: client, log: log}
}

// NewClient builds a Spotify client using the client-credentials flow. No
// user context is needed; catalog data is public.
func NewClient(ctx context.Context, clientID, clientSecret string) (*spotify.Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting spotify token: %w", err)
	}
	httpClient := spotifyauth.New().Client(ctx, token)
	return spotify.New(httpClient), nil
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int      // tracks upserted
	Missing  []string // requested IDs Spotify did not return
}

// ImportTracks fetches the given Spotify track IDs with their audio features
// and artist genres, then upserts them into the store. IDs Spotify does not
// know are reported in the result, not treated as a failure.
func (s *Service) ImportTracks(ctx context.Context, ids []string) (*ImportResult, error) {
	if len(ids) == 0 {
		return &ImportResult{}, nil
	}

	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
	}

	tracks, err := s.fetchTracks(ctx, spotifyIDs)
	if err != nil {
		return nil, err
	}
	features, err := s.fetchFeatures(ctx, spotifyIDs)
	if err != nil {
		return nil, err
	}
	artistGenres, err := s.fetchArtistGenres(ctx, tracks)
	if err != nil {
		return nil, err
	}

	rows := make([]db.Track, 0, len(tracks))
	genresByTrack := make(map[string][]string, len(tracks))
	returned := make(map[string]bool, len(tracks))
	for _, ft := range tracks {
		row, genres := convertTrack(ft, features[ft.ID], artistGenres)
		rows = append(rows, row)
		genresByTrack[row.ID] = genres
		returned[row.ID] = true
	}

	if err := s.db.Tracks().UpsertBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("upserting tracks: %w", err)
	}
	for trackID, genres := range genresByTrack {
		if err := s.db.Tracks().ReplaceGenres(ctx, trackID, genres); err != nil {
			return nil, fmt.Errorf("replacing genres for %s: %w", trackID, err)
		}
	}

	result := &ImportResult{Imported: len(rows)}
	for _, id := range ids {
		if !returned[id] {
			result.Missing = append(result.Missing, id)
		}
	}
	s.log.Info().
		Int("imported", result.Imported).
		Int("missing", len(result.Missing)).
		Msg("catalog import finished")
	return result, nil
}

// fetchTracks retrieves full track metadata in API-sized batches.
func (s *Service) fetchTracks(ctx context.Context, ids []spotify.ID) ([]*spotify.FullTrack, error) {
	var tracks []*spotify.FullTrack
	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch, err := s.client.GetTracks(ctx, ids[i:end])
		if err != nil {
			return nil, fmt.Errorf("fetching tracks (batch %d-%d): %w", i+1, end, err)
		}
		for _, t := range batch {
			if t != nil {
				tracks = append(tracks, t)
			}
		}
		s.log.Debug().Int("fetched", len(tracks)).Int("requested", len(ids)).Msg("fetching tracks")
	}
	return tracks, nil
}

// fetchFeatures retrieves audio features keyed by track ID.
func (s *Service) fetchFeatures(ctx context.Context, ids []spotify.ID) (map[spotify.ID]*spotify.AudioFeatures, error) {
	features := make(map[spotify.ID]*spotify.AudioFeatures, len(ids))
	for i := 0; i < len(ids); i += maxFeaturesPerRequest {
		end := min(i+maxFeaturesPerRequest, len(ids))
		batch, err := s.client.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			return nil, fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, err)
		}
		for _, f := range batch {
			if f != nil {
				features[f.ID] = f
			}
		}
	}
	return features, nil
}

// fetchArtistGenres retrieves genre labels for every artist appearing on the
// given tracks, keyed by artist ID.
func (s *Service) fetchArtistGenres(ctx context.Context, tracks []*spotify.FullTrack) (map[spotify.ID][]string, error) {
	seen := make(map[spotify.ID]bool)
	var artistIDs []spotify.ID
	for _, t := range tracks {
		for _, a := range t.Artists {
			if !seen[a.ID] {
				seen[a.ID] = true
				artistIDs = append(artistIDs, a.ID)
			}
		}
	}

	genres := make(map[spotify.ID][]string, len(artistIDs))
	for i := 0; i < len(artistIDs); i += maxArtistsPerRequest {
		end := min(i+maxArtistsPerRequest, len(artistIDs))
		batch, err := s.client.GetArtists(ctx, artistIDs[i:end]...)
		if err != nil {
			return nil, fmt.Errorf("fetching artists (batch %d-%d): %w", i+1, end, err)
		}
		for _, a := range batch {
			if a != nil {
				genres[a.ID] = a.Genres
			}
		}
	}
	return genres, nil
}
