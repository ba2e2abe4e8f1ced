package db

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a Steam game. Reference data, never mutated by the app.
type Game struct {
	ID        int64
	Name      string
	Genres    string // free-text genre blob from the source dataset
	GenreList string
}

// Track represents a Spotify track with its audio features.
// Energy and valence are stored normalized to [0,1].
type Track struct {
	ID               string
	Name             string
	Artists          string // comma-separated artist names
	Genres           string // free-text genre blob from the source dataset
	DurationS        int
	Tempo            float64
	Energy           float64
	Valence          float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	LoudnessDB       float64
	Popularity       int
}

// Recommendation is a precomputed game-to-track affinity.
type Recommendation struct {
	GameID     int64
	TrackID    string
	MatchScore float64
}

// CandidateTrack is a track eligible for session packing. MatchScore is zero
// for tracks discovered through the genre bridge rather than a direct
// recommendation row.
type CandidateTrack struct {
	Track
	MatchScore float64
}

// Playlist represents a saved playlist. TotalDurationMinutes and TotalTracks
// are derived from membership and recomputed transactionally with any change.
type Playlist struct {
	ID                   uuid.UUID
	Name                 string
	TotalDurationMinutes float64
	TotalTracks          int
}

// User represents an application user, created on first sign-in.
type User struct {
	ID          int64
	ExternalID  string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// SavedPlaylist links a user to a playlist in their library.
type SavedPlaylist struct {
	UserID     int64
	PlaylistID uuid.UUID
}

// PlaylistTrackInfo is a playlist membership row carrying the track fields
// needed by the social recommender.
type PlaylistTrackInfo struct {
	PlaylistID uuid.UUID
	TrackID    string
	Name       string
	Artists    string
	Energy     float64
	Valence    float64
	Popularity int
}

// GenreProfileRow is one (game genre, recommended track) pairing streamed to
// the genre audio profile aggregator.
type GenreProfileRow struct {
	GameGenre    string
	TrackID      string
	Tempo        float64
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
	Popularity   int
}

// GenrePairCount is the number of distinct tracks shared by a game genre and
// a track genre across the genre bridge.
type GenrePairCount struct {
	GameGenre  string
	TrackGenre string
	NumTracks  int
}
