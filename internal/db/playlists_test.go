package db

import "testing"

func TestPlaylistTotals(t *testing.T) {
	tests := []struct {
		name        string
		durations   []int
		wantTracks  int
		wantMinutes float64
	}{
		{
			name:        "two tracks",
			durations:   []int{120, 180},
			wantTracks:  2,
			wantMinutes: 5.0,
		},
		{
			name:        "single track after removal",
			durations:   []int{120},
			wantTracks:  1,
			wantMinutes: 2.0,
		},
		{
			name:        "empty playlist",
			durations:   nil,
			wantTracks:  0,
			wantMinutes: 0,
		},
		{
			name:        "fractional minutes stay fractional",
			durations:   []int{90},
			wantTracks:  1,
			wantMinutes: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks, minutes := playlistTotals(tt.durations)
			if tracks != tt.wantTracks {
				t.Errorf("playlistTotals() tracks = %d, want %d", tracks, tt.wantTracks)
			}
			if minutes != tt.wantMinutes {
				t.Errorf("playlistTotals() minutes = %v, want %v", minutes, tt.wantMinutes)
			}
		})
	}
}
