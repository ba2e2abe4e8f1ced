package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxGenreCandidates bounds the candidate set produced by the genre bridge so
// session packing stays cheap regardless of catalog size.
const MaxGenreCandidates = 200

// GenreRepository resolves the game-genre to track-genre bridge and produces
// candidate track sets for session generation.
type GenreRepository struct {
	pool *pgxpool.Pool
}

// ResolveMusicGenres finds the track genres reachable from a game's genre
// labels through the genre map. Matching is case-insensitive. An empty slice
// means the game has no labels or no mapping exists; callers treat that as
// "no candidates", not an error.
func (r *GenreRepository) ResolveMusicGenres(ctx context.Context, gameID int64) ([]string, error) {
	query := `
		SELECT DISTINCT gm.track_genre
		FROM game_genres gg
		JOIN genre_map gm ON LOWER(gm.game_genre) = LOWER(gg.genre)
		WHERE gg.game_id = $1
		ORDER BY gm.track_genre
	`
	rows, err := r.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("resolving music genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("scanning genre: %w", err)
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

// CandidateTracksByGenre returns tracks labeled with any of the given genres
// whose energy and valence fall inside the inclusive bounds. Results are
// ordered by popularity, then energy, then valence (descending, track ID as
// the final tie-break) and capped at MaxGenreCandidates.
func (r *GenreRepository) CandidateTracksByGenre(ctx context.Context, genres []string, minEnergy, maxEnergy, minValence, maxValence float64) ([]CandidateTrack, error) {
	if len(genres) == 0 {
		return nil, nil
	}

	lowered := make([]string, len(genres))
	for i, g := range genres {
		lowered[i] = strings.ToLower(g)
	}

	query := `
		SELECT DISTINCT ` + prefixedTrackColumns("t") + `
		FROM track_genres tg
		JOIN tracks t ON t.track_id = tg.track_id
		WHERE LOWER(tg.genre) = ANY($1::text[])
		  AND t.energy BETWEEN $2 AND $3
		  AND t.valence BETWEEN $4 AND $5
		ORDER BY t.popularity DESC, t.energy DESC, t.valence DESC, t.track_id ASC
		LIMIT $6
	`
	rows, err := r.pool.Query(ctx, query, lowered, minEnergy, maxEnergy, minValence, maxValence, MaxGenreCandidates)
	if err != nil {
		return nil, fmt.Errorf("querying genre candidates: %w", err)
	}
	defer rows.Close()

	var candidates []CandidateTrack
	for rows.Next() {
		var c CandidateTrack
		if err := scanTrack(rows, &c.Track); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// DirectCandidates returns tracks with a precomputed recommendation row for
// the game, filtered by the inclusive energy and valence bounds. MatchScore
// is carried through for fitness ranking.
func (r *GenreRepository) DirectCandidates(ctx context.Context, gameID int64, minEnergy, maxEnergy, minValence, maxValence float64) ([]CandidateTrack, error) {
	query := `
		SELECT ` + prefixedTrackColumns("t") + `, rec.match_score
		FROM recommendations rec
		JOIN tracks t ON t.track_id = rec.track_id
		WHERE rec.game_id = $1
		  AND t.energy BETWEEN $2 AND $3
		  AND t.valence BETWEEN $4 AND $5
	`
	rows, err := r.pool.Query(ctx, query, gameID, minEnergy, maxEnergy, minValence, maxValence)
	if err != nil {
		return nil, fmt.Errorf("querying direct candidates: %w", err)
	}
	defer rows.Close()

	var candidates []CandidateTrack
	for rows.Next() {
		var c CandidateTrack
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Artists,
			&c.Genres,
			&c.DurationS,
			&c.Tempo,
			&c.Energy,
			&c.Valence,
			&c.Danceability,
			&c.Acousticness,
			&c.Instrumentalness,
			&c.LoudnessDB,
			&c.Popularity,
			&c.MatchScore,
		); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// prefixedTrackColumns qualifies trackColumns with a table alias.
func prefixedTrackColumns(alias string) string {
	cols := strings.Split(trackColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
