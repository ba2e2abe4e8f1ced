package analytics

import "slices"

// TopPairsPerGenre is how many matched track genres are reported for each
// game genre.
const TopPairsPerGenre = 3

// GenrePair is a game genre matched to a track genre with the number of
// distinct tracks they share across the genre bridge.
type GenrePair struct {
	GameGenre  string `json:"game_genre"`
	TrackGenre string `json:"spotify_genre"`
	NumTracks  int    `json:"num_tracks"`
}

// TopPairs keeps the perGenre strongest track genres within each game genre.
// This is a per-group truncation, not a global top-K: every game genre keeps
// its own best matches. Within a group ties break by track genre ascending.
func TopPairs(pairs []GenrePair, perGenre int) []GenrePair {
	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, func(a, b GenrePair) int {
		if a.GameGenre != b.GameGenre {
			if a.GameGenre < b.GameGenre {
				return -1
			}
			return 1
		}
		if a.NumTracks != b.NumTracks {
			return b.NumTracks - a.NumTracks
		}
		if a.TrackGenre < b.TrackGenre {
			return -1
		}
		if a.TrackGenre > b.TrackGenre {
			return 1
		}
		return 0
	})

	var result []GenrePair
	kept := 0
	for i, p := range sorted {
		if i == 0 || p.GameGenre != sorted[i-1].GameGenre {
			kept = 0
		}
		if kept < perGenre {
			result = append(result, p)
			kept++
		}
	}
	return result
}
