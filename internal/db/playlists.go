package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistRepository handles playlist database operations. Playlist creation
// and membership changes run in a single transaction so the derived totals
// are never observable out of sync with membership.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// playlistTotals derives the stored playlist totals from member durations.
// Minutes are computed in floating point so targets are not systematically
// undershot by integer truncation.
func playlistTotals(durationsS []int) (totalTracks int, totalMinutes float64) {
	sum := 0
	for _, d := range durationsS {
		sum += d
	}
	return len(durationsS), float64(sum) / 60.0
}

// Get retrieves a playlist by ID.
func (r *PlaylistRepository) Get(ctx context.Context, id uuid.UUID) (*Playlist, error) {
	query := `
		SELECT playlist_id, name, total_duration_minutes, total_tracks
		FROM playlists
		WHERE playlist_id = $1
	`
	var p Playlist
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.TotalDurationMinutes, &p.TotalTracks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist: %w", err)
	}
	return &p, nil
}

// Tracks retrieves the member tracks of a playlist ordered by name.
func (r *PlaylistRepository) Tracks(ctx context.Context, id uuid.UUID) ([]Track, error) {
	query := `
		SELECT ` + prefixedTrackColumns("t") + `
		FROM playlist_tracks pt
		JOIN tracks t ON t.track_id = pt.track_id
		WHERE pt.playlist_id = $1
		ORDER BY t.name
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying playlist tracks: %w", err)
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

// Create inserts a playlist with its member tracks as one atomic unit:
// every referenced track must exist, the playlist row is inserted with the
// derived totals, membership rows follow, and the optional save-for-user row
// completes the transaction. Any failure rolls the whole unit back.
func (r *PlaylistRepository) Create(ctx context.Context, name string, trackIDs []string, saveForUser *int64) (*Playlist, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Deduplicate while preserving the unique-pair invariant on membership.
	seen := make(map[string]bool, len(trackIDs))
	unique := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	durations := make([]int, 0, len(unique))
	if len(unique) > 0 {
		rows, err := tx.Query(ctx,
			`SELECT track_id, duration_s FROM tracks WHERE track_id = ANY($1::text[])`, unique)
		if err != nil {
			return nil, fmt.Errorf("validating tracks: %w", err)
		}
		found := make(map[string]bool, len(unique))
		for rows.Next() {
			var id string
			var durationS int
			if err := rows.Scan(&id, &durationS); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning track duration: %w", err)
			}
			found[id] = true
			durations = append(durations, durationS)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("validating tracks: %w", err)
		}
		for _, id := range unique {
			if !found[id] {
				return nil, fmt.Errorf("track %s: %w", id, ErrNotFound)
			}
		}
	}

	totalTracks, totalMinutes := playlistTotals(durations)
	p := Playlist{
		ID:                   uuid.New(),
		Name:                 name,
		TotalDurationMinutes: totalMinutes,
		TotalTracks:          totalTracks,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO playlists (playlist_id, name, total_duration_minutes, total_tracks)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Name, p.TotalDurationMinutes, p.TotalTracks)
	if err != nil {
		return nil, fmt.Errorf("inserting playlist: %w", err)
	}

	if len(unique) > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO playlist_tracks (playlist_id, track_id)
			SELECT $1, unnest($2::text[])
		`, p.ID, unique)
		if err != nil {
			return nil, fmt.Errorf("inserting playlist tracks: %w", err)
		}
	}

	if saveForUser != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO saved_playlists (user_id, playlist_id)
			VALUES ($1, $2)
		`, *saveForUser, p.ID)
		if err != nil {
			return nil, fmt.Errorf("saving playlist for user: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &p, nil
}

// Rename updates a playlist's name.
func (r *PlaylistRepository) Rename(ctx context.Context, id uuid.UUID, name string) (*Playlist, error) {
	query := `
		UPDATE playlists
		SET name = $2
		WHERE playlist_id = $1
		RETURNING playlist_id, name, total_duration_minutes, total_tracks
	`
	var p Playlist
	err := r.pool.QueryRow(ctx, query, id, name).Scan(&p.ID, &p.Name, &p.TotalDurationMinutes, &p.TotalTracks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("renaming playlist: %w", err)
	}
	return &p, nil
}

// Delete removes a playlist; membership and saved rows cascade.
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE playlist_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTrack inserts a track into a playlist and recomputes the derived totals
// in the same transaction. The playlist row is locked first so concurrent
// membership changes on the same playlist serialize instead of losing updates.
func (r *PlaylistRepository) AddTrack(ctx context.Context, playlistID uuid.UUID, trackID string) (*Playlist, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPlaylist(ctx, tx, playlistID); err != nil {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tracks WHERE track_id = $1)`, trackID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking track: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("track %s: %w", trackID, ErrNotFound)
	}

	result, err := tx.Exec(ctx, `
		INSERT INTO playlist_tracks (playlist_id, track_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, playlistID, trackID)
	if err != nil {
		return nil, fmt.Errorf("inserting playlist track: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("track %s in playlist %s: %w", trackID, playlistID, ErrAlreadyExists)
	}

	p, err := recomputeTotals(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return p, nil
}

// RemoveTrack deletes a track from a playlist and recomputes the derived
// totals in the same transaction, under the same row lock as AddTrack.
func (r *PlaylistRepository) RemoveTrack(ctx context.Context, playlistID uuid.UUID, trackID string) (*Playlist, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPlaylist(ctx, tx, playlistID); err != nil {
		return nil, err
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM playlist_tracks
		WHERE playlist_id = $1 AND track_id = $2
	`, playlistID, trackID)
	if err != nil {
		return nil, fmt.Errorf("deleting playlist track: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("track %s in playlist %s: %w", trackID, playlistID, ErrNotFound)
	}

	p, err := recomputeTotals(ctx, tx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return p, nil
}

// Save records a playlist in a user's library. The existence checks and the
// insert run as ordered statements in one transaction with a single rollback
// path.
func (r *PlaylistRepository) Save(ctx context.Context, userID int64, playlistID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM playlists WHERE playlist_id = $1)`, playlistID).Scan(&exists); err != nil {
		return fmt.Errorf("checking playlist: %w", err)
	}
	if !exists {
		return fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
	}

	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	result, err := tx.Exec(ctx, `
		INSERT INTO saved_playlists (user_id, playlist_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, playlistID)
	if err != nil {
		return fmt.Errorf("saving playlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("playlist %s for user %d: %w", playlistID, userID, ErrAlreadyExists)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Unsave removes a playlist from a user's library.
func (r *PlaylistRepository) Unsave(ctx context.Context, userID int64, playlistID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM saved_playlists
		WHERE user_id = $1 AND playlist_id = $2
	`, userID, playlistID)
	if err != nil {
		return fmt.Errorf("deleting saved playlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SavedForUser lists the playlists in a user's library.
func (r *PlaylistRepository) SavedForUser(ctx context.Context, userID int64) ([]Playlist, error) {
	query := `
		SELECT p.playlist_id, p.name, p.total_duration_minutes, p.total_tracks
		FROM saved_playlists s
		JOIN playlists p ON p.playlist_id = s.playlist_id
		WHERE s.user_id = $1
		ORDER BY p.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying saved playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.TotalDurationMinutes, &p.TotalTracks); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// lockPlaylist takes the row lock serializing membership mutations.
func lockPlaylist(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT playlist_id FROM playlists WHERE playlist_id = $1 FOR UPDATE`, playlistID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking playlist: %w", err)
	}
	return nil
}

// recomputeTotals rewrites the derived totals from current membership.
func recomputeTotals(ctx context.Context, tx pgx.Tx, playlistID uuid.UUID) (*Playlist, error) {
	query := `
		UPDATE playlists p
		SET total_tracks = m.cnt,
		    total_duration_minutes = m.total_s / 60.0
		FROM (
			SELECT COUNT(pt.track_id) AS cnt,
			       COALESCE(SUM(t.duration_s), 0)::float8 AS total_s
			FROM playlist_tracks pt
			JOIN tracks t ON t.track_id = pt.track_id
			WHERE pt.playlist_id = $1
		) m
		WHERE p.playlist_id = $1
		RETURNING p.playlist_id, p.name, p.total_duration_minutes, p.total_tracks
	`
	var p Playlist
	err := tx.QueryRow(ctx, query, playlistID).Scan(&p.ID, &p.Name, &p.TotalDurationMinutes, &p.TotalTracks)
	if err != nil {
		return nil, fmt.Errorf("recomputing playlist totals: %w", err)
	}
	return &p, nil
}
