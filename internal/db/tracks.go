package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// trackColumns is the scan order used by all track queries.
const trackColumns = `track_id, name, artists, genres, duration_s, tempo, energy, valence,
	danceability, acousticness, instrumentalness, loudness_db, popularity`

func scanTrack(row pgx.Row, t *Track) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.Artists,
		&t.Genres,
		&t.DurationS,
		&t.Tempo,
		&t.Energy,
		&t.Valence,
		&t.Danceability,
		&t.Acousticness,
		&t.Instrumentalness,
		&t.LoudnessDB,
		&t.Popularity,
	)
}

// TrackRepository handles track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a track by ID.
func (r *TrackRepository) Get(ctx context.Context, id string) (*Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE track_id = $1`
	var track Track
	err := scanTrack(r.pool.QueryRow(ctx, query, id), &track)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying track: %w", err)
	}
	return &track, nil
}

// List retrieves tracks ordered by popularity descending then name, paged.
func (r *TrackRepository) List(ctx context.Context, limit, offset int) ([]Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks
		ORDER BY popularity DESC, name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		if err := scanTrack(rows, &track); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// UpsertBatch inserts or updates multiple tracks efficiently.
func (r *TrackRepository) UpsertBatch(ctx context.Context, tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}

	query := `
		INSERT INTO tracks (track_id, name, artists, genres, duration_s, tempo, energy, valence,
			danceability, acousticness, instrumentalness, loudness_db, popularity)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::int[],
			$6::float8[], $7::float8[], $8::float8[], $9::float8[], $10::float8[],
			$11::float8[], $12::float8[], $13::int[])
		ON CONFLICT (track_id) DO UPDATE SET
			name = EXCLUDED.name,
			artists = EXCLUDED.artists,
			genres = EXCLUDED.genres,
			duration_s = EXCLUDED.duration_s,
			tempo = EXCLUDED.tempo,
			energy = EXCLUDED.energy,
			valence = EXCLUDED.valence,
			danceability = EXCLUDED.danceability,
			acousticness = EXCLUDED.acousticness,
			instrumentalness = EXCLUDED.instrumentalness,
			loudness_db = EXCLUDED.loudness_db,
			popularity = EXCLUDED.popularity
	`

	n := len(tracks)
	ids := make([]string, n)
	names := make([]string, n)
	artists := make([]string, n)
	genres := make([]string, n)
	durations := make([]int, n)
	tempos := make([]float64, n)
	energies := make([]float64, n)
	valences := make([]float64, n)
	dance := make([]float64, n)
	acoustic := make([]float64, n)
	instrumental := make([]float64, n)
	loudness := make([]float64, n)
	popularity := make([]int, n)

	for i, t := range tracks {
		ids[i] = t.ID
		names[i] = t.Name
		artists[i] = t.Artists
		genres[i] = t.Genres
		durations[i] = t.DurationS
		tempos[i] = t.Tempo
		energies[i] = t.Energy
		valences[i] = t.Valence
		dance[i] = t.Danceability
		acoustic[i] = t.Acousticness
		instrumental[i] = t.Instrumentalness
		loudness[i] = t.LoudnessDB
		popularity[i] = t.Popularity
	}

	_, err := r.pool.Exec(ctx, query,
		ids, names, artists, genres, durations, tempos, energies, valences,
		dance, acoustic, instrumental, loudness, popularity)
	if err != nil {
		return fmt.Errorf("batch upserting tracks: %w", err)
	}
	return nil
}

// ReplaceGenres replaces the genre labels attached to a track.
func (r *TrackRepository) ReplaceGenres(ctx context.Context, trackID string, genres []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM track_genres WHERE track_id = $1`, trackID); err != nil {
		return fmt.Errorf("clearing track genres: %w", err)
	}
	if len(genres) > 0 {
		query := `
			INSERT INTO track_genres (track_id, genre)
			SELECT $1, unnest($2::text[])
			ON CONFLICT DO NOTHING
		`
		if _, err := tx.Exec(ctx, query, trackID, genres); err != nil {
			return fmt.Errorf("inserting track genres: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
