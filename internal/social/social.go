// Package social implements collaborative-filter track recommendations based
// on saved-playlist overlap between users.
package social

import (
	"slices"

	"github.com/google/uuid"
)

const (
	// MinSharedPlaylists is the overlap a user needs with the requester to
	// count as a neighbor. A single shared playlist is not enough signal;
	// the threshold is inclusive, so exactly two qualifies.
	MinSharedPlaylists = 2

	// MaxResults bounds the recommendation list.
	MaxResults = 30
)

// SavedRow is one saved-playlist relation belonging to a user other than the
// requester.
type SavedRow struct {
	UserID     int64
	PlaylistID uuid.UUID
}

// TrackRow is a playlist membership row with the track fields reported in
// recommendations.
type TrackRow struct {
	PlaylistID uuid.UUID
	TrackID    string
	Name       string
	Artists    string
	Energy     float64
	Valence    float64
	Popularity int
}

// Recommendation is one recommended track with the number of neighbors who
// saved a playlist containing it.
type Recommendation struct {
	TrackID         string  `json:"track_id"`
	Name            string  `json:"name"`
	Artists         string  `json:"artists"`
	Energy          float64 `json:"energy"`
	Valence         float64 `json:"valence"`
	Popularity      int     `json:"popularity"`
	NumSimilarUsers int     `json:"num_similar_users"`
}

// Input is everything the recommender needs, fetched up front so the
// algorithm itself is a pure function over in-memory rows.
type Input struct {
	RequesterPlaylists []uuid.UUID
	Saves              []SavedRow // saved rows of users overlapping the requester
	PlaylistTracks     []TrackRow // membership of every playlist in Saves
	OwnTrackIDs        []string   // tracks already in the requester's library
}

// Recommend finds neighbors (users sharing at least MinSharedPlaylists saved
// playlists with the requester), collects tracks from the playlists those
// neighbors saved, drops every track the requester already has, and ranks the
// rest by distinct-neighbor count, then popularity, then track ID. The
// result is capped at limit. Empty inputs produce empty output, never an
// error.
func Recommend(in Input, limit int) []Recommendation {
	if len(in.RequesterPlaylists) == 0 || len(in.Saves) == 0 {
		return nil
	}

	requesterSet := make(map[uuid.UUID]bool, len(in.RequesterPlaylists))
	for _, id := range in.RequesterPlaylists {
		requesterSet[id] = true
	}

	overlap := make(map[int64]int)
	for _, s := range in.Saves {
		if requesterSet[s.PlaylistID] {
			overlap[s.UserID]++
		}
	}

	neighbors := make(map[int64]bool)
	for userID, n := range overlap {
		if n >= MinSharedPlaylists {
			neighbors[userID] = true
		}
	}
	if len(neighbors) == 0 {
		return nil
	}

	// Which neighbors saved each playlist.
	saversByPlaylist := make(map[uuid.UUID][]int64)
	for _, s := range in.Saves {
		if neighbors[s.UserID] {
			saversByPlaylist[s.PlaylistID] = append(saversByPlaylist[s.PlaylistID], s.UserID)
		}
	}

	ownTracks := make(map[string]bool, len(in.OwnTrackIDs))
	for _, id := range in.OwnTrackIDs {
		ownTracks[id] = true
	}

	type candidate struct {
		row          TrackRow
		contributors map[int64]bool
	}
	candidates := make(map[string]*candidate)
	for _, row := range in.PlaylistTracks {
		savers := saversByPlaylist[row.PlaylistID]
		if len(savers) == 0 || ownTracks[row.TrackID] {
			continue
		}
		c, ok := candidates[row.TrackID]
		if !ok {
			c = &candidate{row: row, contributors: make(map[int64]bool)}
			candidates[row.TrackID] = c
		}
		for _, userID := range savers {
			c.contributors[userID] = true
		}
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, Recommendation{
			TrackID:         c.row.TrackID,
			Name:            c.row.Name,
			Artists:         c.row.Artists,
			Energy:          c.row.Energy,
			Valence:         c.row.Valence,
			Popularity:      c.row.Popularity,
			NumSimilarUsers: len(c.contributors),
		})
	}

	slices.SortFunc(recs, func(a, b Recommendation) int {
		if a.NumSimilarUsers != b.NumSimilarUsers {
			return b.NumSimilarUsers - a.NumSimilarUsers
		}
		if a.Popularity != b.Popularity {
			return b.Popularity - a.Popularity
		}
		if a.TrackID < b.TrackID {
			return -1
		}
		if a.TrackID > b.TrackID {
			return 1
		}
		return 0
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
