package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SocialRepository fetches the raw rows the social recommender works over.
// Neighbor detection, the anti-join, and ranking happen in memory in the
// social package.
type SocialRepository struct {
	pool *pgxpool.Pool
}

// SavedPlaylistIDs returns the playlists a user has saved.
func (r *SocialRepository) SavedPlaylistIDs(ctx context.Context, userID int64) ([]uuid.UUID, error) {
	query := `SELECT playlist_id FROM saved_playlists WHERE user_id = $1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying saved playlist IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning playlist ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OverlappingSaves returns every saved-playlist row belonging to users (other
// than the requester) who saved at least one of the given playlists. The
// superset lets the in-memory pass count overlap and find the neighbors'
// other playlists in one round trip.
func (r *SocialRepository) OverlappingSaves(ctx context.Context, requesterID int64, playlistIDs []uuid.UUID) ([]SavedPlaylist, error) {
	if len(playlistIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT s.user_id, s.playlist_id
		FROM saved_playlists s
		WHERE s.user_id <> $1
		  AND s.user_id IN (
			SELECT DISTINCT user_id
			FROM saved_playlists
			WHERE playlist_id = ANY($2::uuid[]) AND user_id <> $1
		  )
	`
	rows, err := r.pool.Query(ctx, query, requesterID, playlistIDs)
	if err != nil {
		return nil, fmt.Errorf("querying overlapping saves: %w", err)
	}
	defer rows.Close()

	var saves []SavedPlaylist
	for rows.Next() {
		var s SavedPlaylist
		if err := rows.Scan(&s.UserID, &s.PlaylistID); err != nil {
			return nil, fmt.Errorf("scanning saved playlist: %w", err)
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}

// PlaylistTracks returns membership rows with the track fields the social
// recommender reports, for every given playlist.
func (r *SocialRepository) PlaylistTracks(ctx context.Context, playlistIDs []uuid.UUID) ([]PlaylistTrackInfo, error) {
	if len(playlistIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT pt.playlist_id, t.track_id, t.name, t.artists, t.energy, t.valence, t.popularity
		FROM playlist_tracks pt
		JOIN tracks t ON t.track_id = pt.track_id
		WHERE pt.playlist_id = ANY($1::uuid[])
	`
	rows, err := r.pool.Query(ctx, query, playlistIDs)
	if err != nil {
		return nil, fmt.Errorf("querying playlist tracks: %w", err)
	}
	defer rows.Close()

	var infos []PlaylistTrackInfo
	for rows.Next() {
		var info PlaylistTrackInfo
		if err := rows.Scan(
			&info.PlaylistID,
			&info.TrackID,
			&info.Name,
			&info.Artists,
			&info.Energy,
			&info.Valence,
			&info.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist track: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// UserTrackIDs returns the distinct tracks present in any playlist the user
// has saved. These are excluded from the user's recommendations.
func (r *SocialRepository) UserTrackIDs(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT DISTINCT pt.track_id
		FROM saved_playlists s
		JOIN playlist_tracks pt ON pt.playlist_id = s.playlist_id
		WHERE s.user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user track IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning track ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
