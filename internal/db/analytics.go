package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepository streams the raw rows behind the aggregation reporters.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// GenreProfileRows returns one row per (game genre, recommended track)
// pairing. Aggregation with the minimum-support filter happens in memory in
// the analytics package.
func (r *AnalyticsRepository) GenreProfileRows(ctx context.Context) ([]GenreProfileRow, error) {
	query := `
		SELECT gg.genre, t.track_id, t.tempo, t.energy, t.valence,
		       t.danceability, t.acousticness, t.popularity
		FROM game_genres gg
		JOIN recommendations rec ON rec.game_id = gg.game_id
		JOIN tracks t ON t.track_id = rec.track_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying genre profile rows: %w", err)
	}
	defer rows.Close()

	var result []GenreProfileRow
	for rows.Next() {
		var row GenreProfileRow
		if err := rows.Scan(
			&row.GameGenre,
			&row.TrackID,
			&row.Tempo,
			&row.Energy,
			&row.Valence,
			&row.Danceability,
			&row.Acousticness,
			&row.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning genre profile row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GenrePairCounts counts the distinct tracks shared by each
// (game genre, track genre) pair across the genre bridge. Case-insensitive
// label matching, grouped in the database; the per-genre top-K truncation
// happens in memory.
func (r *AnalyticsRepository) GenrePairCounts(ctx context.Context) ([]GenrePairCount, error) {
	query := `
		SELECT gg.genre AS game_genre, tg.genre AS track_genre,
		       COUNT(DISTINCT tg.track_id) AS num_tracks
		FROM game_genres gg
		JOIN genre_map gm ON LOWER(gm.game_genre) = LOWER(gg.genre)
		JOIN track_genres tg ON LOWER(tg.genre) = LOWER(gm.track_genre)
		GROUP BY gg.genre, tg.genre
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying genre pair counts: %w", err)
	}
	defer rows.Close()

	var result []GenrePairCount
	for rows.Next() {
		var pair GenrePairCount
		if err := rows.Scan(&pair.GameGenre, &pair.TrackGenre, &pair.NumTracks); err != nil {
			return nil, fmt.Errorf("scanning genre pair: %w", err)
		}
		result = append(result, pair)
	}
	return result, rows.Err()
}
