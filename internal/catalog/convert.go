package catalog

import (
	"slices"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/tunequest/tunequest/internal/db"
)

// convertTrack maps a Spotify track with its audio features to a store row
// plus the genre labels inherited from its artists. Features default to zero
// when Spotify has none for the track.
func convertTrack(ft *spotify.FullTrack, f *spotify.AudioFeatures, artistGenres map[spotify.ID][]string) (db.Track, []string) {
	artists := make([]string, len(ft.Artists))
	var genres []string
	seen := make(map[string]bool)
	for i, a := range ft.Artists {
		artists[i] = a.Name
		for _, g := range artistGenres[a.ID] {
			key := strings.ToLower(g)
			if !seen[key] {
				seen[key] = true
				genres = append(genres, g)
			}
		}
	}
	slices.Sort(genres)

	row := db.Track{
		ID:         ft.ID.String(),
		Name:       ft.Name,
		Artists:    strings.Join(artists, ", "),
		Genres:     strings.Join(genres, ", "),
		DurationS:  int(ft.Duration) / 1000,
		Popularity: int(ft.Popularity),
	}
	if f != nil {
		row.Tempo = float64(f.Tempo)
		row.Energy = float64(f.Energy)
		row.Valence = float64(f.Valence)
		row.Danceability = float64(f.Danceability)
		row.Acousticness = float64(f.Acousticness)
		row.Instrumentalness = float64(f.Instrumentalness)
		row.LoudnessDB = float64(f.Loudness)
	}
	return row, genres
}
