package analytics

import (
	"fmt"
	"testing"
)

// genreRows builds n distinct-track rows for a genre with uniform features.
func genreRows(genre string, n int, energy float64, popularity int) []ProfileRow {
	rows := make([]ProfileRow, n)
	for i := range rows {
		rows[i] = ProfileRow{
			GameGenre:  genre,
			TrackID:    fmt.Sprintf("%s-%d", genre, i),
			Energy:     energy,
			Popularity: popularity,
		}
	}
	return rows
}

func TestAggregateProfilesSupportThreshold(t *testing.T) {
	var rows []ProfileRow
	rows = append(rows, genreRows("action", 50, 0.8, 60)...)
	rows = append(rows, genreRows("puzzle", 49, 0.3, 90)...)

	profiles := AggregateProfiles(rows, 50)

	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	if profiles[0].GameGenre != "action" {
		t.Errorf("kept genre = %q, want action (49-track genre must be suppressed)", profiles[0].GameGenre)
	}
	if profiles[0].NumTracks != 50 {
		t.Errorf("NumTracks = %d, want 50", profiles[0].NumTracks)
	}
}

func TestAggregateProfilesCountsDistinctTracks(t *testing.T) {
	// The same track recommended to two games in one genre counts once.
	rows := []ProfileRow{
		{GameGenre: "rpg", TrackID: "t1", Energy: 0.4, Popularity: 50},
		{GameGenre: "rpg", TrackID: "t1", Energy: 0.4, Popularity: 50},
		{GameGenre: "rpg", TrackID: "t2", Energy: 0.8, Popularity: 70},
	}

	profiles := AggregateProfiles(rows, 1)

	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	p := profiles[0]
	if p.NumTracks != 2 {
		t.Errorf("NumTracks = %d, want 2", p.NumTracks)
	}
	if p.AvgEnergy != 0.6 {
		t.Errorf("AvgEnergy = %v, want 0.6 (duplicate row must not skew the mean)", p.AvgEnergy)
	}
	if p.AvgPopularity != 60 {
		t.Errorf("AvgPopularity = %v, want 60", p.AvgPopularity)
	}
}

func TestAggregateProfilesOrderedByPopularity(t *testing.T) {
	var rows []ProfileRow
	rows = append(rows, genreRows("indie", 2, 0.5, 40)...)
	rows = append(rows, genreRows("racing", 2, 0.5, 90)...)
	rows = append(rows, genreRows("horror", 2, 0.5, 65)...)

	profiles := AggregateProfiles(rows, 1)

	want := []string{"racing", "horror", "indie"}
	for i, genre := range want {
		if profiles[i].GameGenre != genre {
			t.Errorf("profiles[%d] = %q, want %q", i, profiles[i].GameGenre, genre)
		}
	}
}

func TestAggregateProfilesRoundsAverages(t *testing.T) {
	rows := []ProfileRow{
		{GameGenre: "sim", TrackID: "a", Tempo: 100, Energy: 0.333},
		{GameGenre: "sim", TrackID: "b", Tempo: 101, Energy: 0.333},
		{GameGenre: "sim", TrackID: "c", Tempo: 101, Energy: 0.333},
	}

	profiles := AggregateProfiles(rows, 1)

	if profiles[0].AvgTempo != 100.67 {
		t.Errorf("AvgTempo = %v, want 100.67", profiles[0].AvgTempo)
	}
	if profiles[0].AvgEnergy != 0.33 {
		t.Errorf("AvgEnergy = %v, want 0.33", profiles[0].AvgEnergy)
	}
}

func TestAggregateProfilesEmptyInput(t *testing.T) {
	profiles := AggregateProfiles(nil, 50)
	if len(profiles) != 0 {
		t.Errorf("got %d profiles from empty input, want 0", len(profiles))
	}
}
