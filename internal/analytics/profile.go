// Package analytics implements the read-only aggregation reporters: genre
// audio profiles, genre-pair rankings, and mood clusters.
package analytics

import (
	"math"
	"slices"
)

// MinGenreSupport is the minimum number of distinct tracks a genre needs
// before its averages are reported. Smaller groups are statistically noisy
// and suppressed. The boundary is inclusive: exactly MinGenreSupport stays.
const MinGenreSupport = 50

// ProfileRow is one (game genre, recommended track) pairing from the store.
type ProfileRow struct {
	GameGenre    string
	TrackID      string
	Tempo        float64
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
	Popularity   int
}

// GenreProfile is the aggregated audio character of one game genre.
type GenreProfile struct {
	GameGenre       string  `json:"game_genre"`
	NumTracks       int     `json:"num_tracks"`
	AvgTempo        float64 `json:"avg_tempo"`
	AvgEnergy       float64 `json:"avg_energy"`
	AvgValence      float64 `json:"avg_valence"`
	AvgDanceability float64 `json:"avg_danceability"`
	AvgAcousticness float64 `json:"avg_acousticness"`
	AvgPopularity   float64 `json:"avg_popularity"`
}

// AggregateProfiles computes per-genre audio-feature means over distinct
// tracks, drops genres with fewer than minSupport distinct tracks, and
// orders the result by average popularity descending (genre name as the
// tie-break). A track recommended to several games in the same genre counts
// once.
func AggregateProfiles(rows []ProfileRow, minSupport int) []GenreProfile {
	type accum struct {
		tracks                                               map[string]bool
		tempo, energy, valence, danceability, acousticness   float64
		popularity                                           float64
	}

	groups := make(map[string]*accum)
	for _, row := range rows {
		g, ok := groups[row.GameGenre]
		if !ok {
			g = &accum{tracks: make(map[string]bool)}
			groups[row.GameGenre] = g
		}
		if g.tracks[row.TrackID] {
			continue
		}
		g.tracks[row.TrackID] = true
		g.tempo += row.Tempo
		g.energy += row.Energy
		g.valence += row.Valence
		g.danceability += row.Danceability
		g.acousticness += row.Acousticness
		g.popularity += float64(row.Popularity)
	}

	var profiles []GenreProfile
	for genre, g := range groups {
		n := len(g.tracks)
		if n < minSupport {
			continue
		}
		count := float64(n)
		profiles = append(profiles, GenreProfile{
			GameGenre:       genre,
			NumTracks:       n,
			AvgTempo:        round2(g.tempo / count),
			AvgEnergy:       round2(g.energy / count),
			AvgValence:      round2(g.valence / count),
			AvgDanceability: round2(g.danceability / count),
			AvgAcousticness: round2(g.acousticness / count),
			AvgPopularity:   round2(g.popularity / count),
		})
	}

	slices.SortFunc(profiles, func(a, b GenreProfile) int {
		switch {
		case a.AvgPopularity > b.AvgPopularity:
			return -1
		case a.AvgPopularity < b.AvgPopularity:
			return 1
		}
		if a.GameGenre < b.GameGenre {
			return -1
		}
		if a.GameGenre > b.GameGenre {
			return 1
		}
		return 0
	})
	return profiles
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
