package analytics

import (
	"context"
	"fmt"

	"github.com/tunequest/tunequest/internal/db"
	"github.com/tunequest/tunequest/internal/session"
)

// Service runs the aggregation reporters against the store.
type Service struct {
	db *db.DB
}

// New creates a new analytics service.
func New(database *db.DB) *Service {
	return &Service{db: database}
}

// GenreAudioProfile aggregates the audio character of each game genre over
// its recommended tracks, suppressing genres below the minimum support
// threshold.
func (s *Service) GenreAudioProfile(ctx context.Context) ([]GenreProfile, error) {
	rows, err := s.db.Analytics().GenreProfileRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading genre profile rows: %w", err)
	}

	input := make([]ProfileRow, len(rows))
	for i, row := range rows {
		input[i] = ProfileRow{
			GameGenre:    row.GameGenre,
			TrackID:      row.TrackID,
			Tempo:        row.Tempo,
			Energy:       row.Energy,
			Valence:      row.Valence,
			Danceability: row.Danceability,
			Acousticness: row.Acousticness,
			Popularity:   row.Popularity,
		}
	}
	return AggregateProfiles(input, MinGenreSupport), nil
}

// TopGenrePairs reports, for every game genre, the track genres sharing the
// most distinct tracks across the genre bridge, capped per game genre.
func (s *Service) TopGenrePairs(ctx context.Context) ([]GenrePair, error) {
	counts, err := s.db.Analytics().GenrePairCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading genre pair counts: %w", err)
	}

	pairs := make([]GenrePair, len(counts))
	for i, c := range counts {
		pairs[i] = GenrePair{
			GameGenre:  c.GameGenre,
			TrackGenre: c.TrackGenre,
			NumTracks:  c.NumTracks,
		}
	}
	return TopPairs(pairs, TopPairsPerGenre), nil
}

// GameMoods clusters a game's candidate tracks into mood groups. The
// candidate set mirrors session generation: direct recommendations first,
// genre bridge as the fallback, full feature range.
func (s *Service) GameMoods(ctx context.Context, gameID int64) ([]MoodCluster, error) {
	full := session.FullRange
	candidates, err := s.db.Genres().DirectCandidates(ctx, gameID,
		full.Min, full.Max, full.Min, full.Max)
	if err != nil {
		return nil, fmt.Errorf("loading direct candidates: %w", err)
	}
	if len(candidates) == 0 {
		genres, err := s.db.Genres().ResolveMusicGenres(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("resolving music genres: %w", err)
		}
		if len(genres) == 0 {
			return nil, nil
		}
		candidates, err = s.db.Genres().CandidateTracksByGenre(ctx, genres,
			full.Min, full.Max, full.Min, full.Max)
		if err != nil {
			return nil, fmt.Errorf("loading genre candidates: %w", err)
		}
	}

	tracks := make([]MoodTrack, len(candidates))
	for i, c := range candidates {
		tracks[i] = MoodTrack{
			TrackID:      c.ID,
			Name:         c.Name,
			Energy:       c.Energy,
			Valence:      c.Valence,
			Danceability: c.Danceability,
			Acousticness: c.Acousticness,
		}
	}

	moods, err := ClusterMoods(tracks, DefaultMoodClusters)
	if err != nil {
		return nil, fmt.Errorf("clustering moods: %w", err)
	}
	return moods, nil
}
