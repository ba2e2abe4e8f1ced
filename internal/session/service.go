package session

import (
	"context"
	"fmt"
	"math"

	"github.com/tunequest/tunequest/internal/db"
)

// DefaultSessionDurationS is the target used when the caller does not ask
// for a specific session length (30 minutes).
const DefaultSessionDurationS = 1800

// Service generates session playlists from the candidate store.
type Service struct {
	db *db.DB
}

// New creates a new session service.
func New(database *db.DB) *Service {
	return &Service{db: database}
}

// Params are the normalized inputs of one generation request.
type Params struct {
	GameID           int64
	SessionDurationS float64
	Energy           Range
	Valence          Range
}

// TrackResult is one generated playlist entry.
type TrackResult struct {
	TrackID        string  `json:"track_id"`
	TrackName      string  `json:"track_name"`
	TrackDurationS int     `json:"track_duration_s"`
	Tempo          float64 `json:"tempo"`
	Energy         float64 `json:"energy"`
	Valence        float64 `json:"valence"`
	FitScore       float64 `json:"fit_score"`
	MatchScore     float64 `json:"match_score"`
}

// Generate assembles a session playlist for a game. Direct recommendation
// rows are preferred; when the game has none the genre bridge supplies the
// candidate set. An empty result is a valid outcome, never an error.
func (s *Service) Generate(ctx context.Context, p Params) ([]TrackResult, error) {
	if p.SessionDurationS <= 0 {
		p.SessionDurationS = DefaultSessionDurationS
	}
	energy := p.Energy.Normalize()
	valence := p.Valence.Normalize()

	candidates, err := s.db.Genres().DirectCandidates(ctx, p.GameID,
		energy.Min, energy.Max, valence.Min, valence.Max)
	if err != nil {
		return nil, fmt.Errorf("loading direct candidates: %w", err)
	}

	var ranked []RankedTrack
	if len(candidates) > 0 {
		ranked = Rank(toCandidates(candidates))
	} else {
		// No recommendation data for this game: walk the genre bridge.
		genres, err := s.db.Genres().ResolveMusicGenres(ctx, p.GameID)
		if err != nil {
			return nil, fmt.Errorf("resolving music genres: %w", err)
		}
		if len(genres) == 0 {
			return []TrackResult{}, nil
		}
		candidates, err = s.db.Genres().CandidateTracksByGenre(ctx, genres,
			energy.Min, energy.Max, valence.Min, valence.Max)
		if err != nil {
			return nil, fmt.Errorf("loading genre candidates: %w", err)
		}
		// Bridge candidates keep the popularity ordering of the query.
		ranked = Score(toCandidates(candidates))
	}

	packed := Pack(ranked, p.SessionDurationS)

	results := make([]TrackResult, len(packed))
	for i, t := range packed {
		results[i] = TrackResult{
			TrackID:        t.TrackID,
			TrackName:      t.Name,
			TrackDurationS: t.DurationS,
			Tempo:          t.Tempo,
			Energy:         t.Energy,
			Valence:        t.Valence,
			FitScore:       roundScore(t.FitScore),
			MatchScore:     t.MatchScore,
		}
	}
	return results, nil
}

// toCandidates converts store rows to the ranker's input type.
func toCandidates(rows []db.CandidateTrack) []Candidate {
	candidates := make([]Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = Candidate{
			TrackID:    row.ID,
			Name:       row.Name,
			DurationS:  row.DurationS,
			Tempo:      row.Tempo,
			Energy:     row.Energy,
			Valence:    row.Valence,
			MatchScore: row.MatchScore,
		}
	}
	return candidates
}

// roundScore rounds a fitness score to two decimals for the wire format.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
