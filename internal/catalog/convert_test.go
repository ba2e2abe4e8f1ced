package catalog

import (
	"testing"

	"github.com/zmb3/spotify/v2"
)

func TestConvertTrack(t *testing.T) {
	ft := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:       "track1",
			Name:     "Test Song",
			Duration: 215500, // ms
			Artists: []spotify.SimpleArtist{
				{ID: "a1", Name: "First Artist"},
				{ID: "a2", Name: "Second Artist"},
			},
		},
		Popularity: 73,
	}
	features := &spotify.AudioFeatures{
		ID:           "track1",
		Energy:       0.82,
		Valence:      0.41,
		Tempo:        128.5,
		Danceability: 0.66,
		Acousticness: 0.05,
		Loudness:     -6.2,
	}
	artistGenres := map[spotify.ID][]string{
		"a1": {"synthwave", "electronic"},
		"a2": {"Electronic", "house"},
	}

	row, genres := convertTrack(ft, features, artistGenres)

	if row.ID != "track1" {
		t.Errorf("ID = %q, want track1", row.ID)
	}
	if row.Artists != "First Artist, Second Artist" {
		t.Errorf("Artists = %q", row.Artists)
	}
	if row.DurationS != 215 {
		t.Errorf("DurationS = %d, want 215", row.DurationS)
	}
	if row.Popularity != 73 {
		t.Errorf("Popularity = %d, want 73", row.Popularity)
	}
	if row.Energy != float64(float32(0.82)) {
		t.Errorf("Energy = %v", row.Energy)
	}
	if row.LoudnessDB != float64(float32(-6.2)) {
		t.Errorf("LoudnessDB = %v", row.LoudnessDB)
	}

	// Duplicate genre (case-insensitive) collapses; result is sorted.
	want := []string{"electronic", "house", "synthwave"}
	if len(genres) != len(want) {
		t.Fatalf("genres = %v, want %v", genres, want)
	}
	for i, g := range want {
		if genres[i] != g {
			t.Errorf("genres[%d] = %q, want %q", i, genres[i], g)
		}
	}
}

func TestConvertTrackNoFeatures(t *testing.T) {
	ft := &spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{ID: "bare", Name: "Bare", Duration: 60000},
	}

	row, genres := convertTrack(ft, nil, nil)

	if row.Energy != 0 || row.Valence != 0 || row.Tempo != 0 {
		t.Errorf("features must default to zero: %+v", row)
	}
	if row.DurationS != 60 {
		t.Errorf("DurationS = %d, want 60", row.DurationS)
	}
	if len(genres) != 0 {
		t.Errorf("genres = %v, want none", genres)
	}
}
