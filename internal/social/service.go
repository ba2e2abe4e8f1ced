package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tunequest/tunequest/internal/db"
)

// Service runs the social recommender against the store.
type Service struct {
	db *db.DB
}

// New creates a new social recommendation service.
func New(database *db.DB) *Service {
	return &Service{db: database}
}

// Recommend returns up to MaxResults tracks for a user, drawn from the saved
// playlists of similar users. A user with no saved playlists or no qualifying
// neighbors gets an empty list.
func (s *Service) Recommend(ctx context.Context, userID int64) ([]Recommendation, error) {
	playlists, err := s.db.Social().SavedPlaylistIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading saved playlists: %w", err)
	}
	if len(playlists) == 0 {
		return []Recommendation{}, nil
	}

	saves, err := s.db.Social().OverlappingSaves(ctx, userID, playlists)
	if err != nil {
		return nil, fmt.Errorf("loading overlapping saves: %w", err)
	}
	if len(saves) == 0 {
		return []Recommendation{}, nil
	}

	// Fetch membership for every playlist any overlapping user saved; the
	// in-memory pass narrows to qualified neighbors.
	playlistSet := make(map[uuid.UUID]bool, len(saves))
	playlistIDs := make([]uuid.UUID, 0, len(saves))
	for _, save := range saves {
		if !playlistSet[save.PlaylistID] {
			playlistSet[save.PlaylistID] = true
			playlistIDs = append(playlistIDs, save.PlaylistID)
		}
	}
	trackRows, err := s.db.Social().PlaylistTracks(ctx, playlistIDs)
	if err != nil {
		return nil, fmt.Errorf("loading playlist tracks: %w", err)
	}

	ownTracks, err := s.db.Social().UserTrackIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user tracks: %w", err)
	}

	input := Input{
		RequesterPlaylists: playlists,
		Saves:              toSavedRows(saves),
		PlaylistTracks:     toTrackRows(trackRows),
		OwnTrackIDs:        ownTracks,
	}

	recs := Recommend(input, MaxResults)
	if recs == nil {
		recs = []Recommendation{}
	}
	return recs, nil
}

func toSavedRows(saves []db.SavedPlaylist) []SavedRow {
	rows := make([]SavedRow, len(saves))
	for i, s := range saves {
		rows[i] = SavedRow{UserID: s.UserID, PlaylistID: s.PlaylistID}
	}
	return rows
}

func toTrackRows(infos []db.PlaylistTrackInfo) []TrackRow {
	rows := make([]TrackRow, len(infos))
	for i, info := range infos {
		rows[i] = TrackRow{
			PlaylistID: info.PlaylistID,
			TrackID:    info.TrackID,
			Name:       info.Name,
			Artists:    info.Artists,
			Energy:     info.Energy,
			Valence:    info.Valence,
			Popularity: info.Popularity,
		}
	}
	return rows
}
