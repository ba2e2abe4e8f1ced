package analytics

import "testing"

func TestMoodLabel(t *testing.T) {
	tests := []struct {
		name                          string
		energy, valence, acousticness float64
		want                          string
	}{
		{"high energy high valence", 0.8, 0.7, 0.2, "Upbeat Party"},
		{"high energy low valence", 0.8, 0.3, 0.2, "Intense & Dark"},
		{"low energy high valence", 0.4, 0.7, 0.3, "Chill & Happy"},
		{"low energy low valence", 0.3, 0.3, 0.4, "Reflective & Melancholy"},
		{"acoustic modifier", 0.4, 0.7, 0.8, "Chill & Happy (Acoustic)"},
		{"boundary energy 0.6 is low", 0.6, 0.7, 0.2, "Chill & Happy"},
		{"boundary valence 0.5 is low", 0.8, 0.5, 0.2, "Intense & Dark"},
		{"boundary acousticness 0.6 no modifier", 0.8, 0.7, 0.6, "Upbeat Party"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moodLabel(tt.energy, tt.valence, tt.acousticness)
			if got != tt.want {
				t.Errorf("moodLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClusterMoodsEmptyInput(t *testing.T) {
	moods, err := ClusterMoods(nil, 3)
	if err != nil {
		t.Fatalf("ClusterMoods() error = %v", err)
	}
	if len(moods) != 0 {
		t.Errorf("got %d clusters from empty input, want 0", len(moods))
	}
}

func TestClusterMoodsSmallSetCollapsesToOne(t *testing.T) {
	tracks := []MoodTrack{
		{TrackID: "b", Energy: 0.9, Valence: 0.9},
		{TrackID: "a", Energy: 0.7, Valence: 0.7},
	}

	moods, err := ClusterMoods(tracks, 3)
	if err != nil {
		t.Fatalf("ClusterMoods() error = %v", err)
	}
	if len(moods) != 1 {
		t.Fatalf("got %d clusters, want 1", len(moods))
	}

	m := moods[0]
	if m.NumTracks != 2 {
		t.Errorf("NumTracks = %d, want 2", m.NumTracks)
	}
	if m.Label != "Upbeat Party" {
		t.Errorf("Label = %q, want Upbeat Party", m.Label)
	}
	if m.AvgEnergy != 0.8 {
		t.Errorf("AvgEnergy = %v, want 0.8", m.AvgEnergy)
	}
	if len(m.TrackIDs) != 2 || m.TrackIDs[0] != "a" {
		t.Errorf("TrackIDs = %v, want sorted [a b]", m.TrackIDs)
	}
}

func TestClusterMoodsPartitionsDistinctGroups(t *testing.T) {
	// Two tight groups far apart plus padding so k-means has work to do.
	var tracks []MoodTrack
	for i := 0; i < 5; i++ {
		tracks = append(tracks, MoodTrack{
			TrackID: string(rune('a' + i)), Energy: 0.9, Valence: 0.9,
		})
	}
	for i := 0; i < 5; i++ {
		tracks = append(tracks, MoodTrack{
			TrackID: string(rune('p' + i)), Energy: 0.1, Valence: 0.1,
		})
	}

	moods, err := ClusterMoods(tracks, 2)
	if err != nil {
		t.Fatalf("ClusterMoods() error = %v", err)
	}
	if len(moods) != 2 {
		t.Fatalf("got %d clusters, want 2", len(moods))
	}

	total := 0
	for _, m := range moods {
		total += m.NumTracks
	}
	if total != len(tracks) {
		t.Errorf("clusters cover %d tracks, want %d", total, len(tracks))
	}
}
