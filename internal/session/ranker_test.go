package session

import (
	"math"
	"testing"
)

func TestFitScore(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want float64
	}{
		{
			name: "high match moderate mood",
			c:    Candidate{MatchScore: 0.9, Energy: 0.5, Valence: 0.5},
			want: 0.70,
		},
		{
			name: "lower match high mood outranks",
			c:    Candidate{MatchScore: 0.6, Energy: 0.9, Valence: 0.9},
			want: 0.75,
		},
		{
			name: "bridge candidate has zero match contribution",
			c:    Candidate{MatchScore: 0, Energy: 0.8, Valence: 0.4},
			want: 0.30,
		},
		{
			name: "perfect everything",
			c:    Candidate{MatchScore: 1, Energy: 1, Valence: 1},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitScore(tt.c)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FitScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankOrdersByFitnessDescending(t *testing.T) {
	candidates := []Candidate{
		{TrackID: "a", Name: "Alpha", MatchScore: 0.9, Energy: 0.5, Valence: 0.5},  // 0.70
		{TrackID: "b", Name: "Beta", MatchScore: 0.6, Energy: 0.9, Valence: 0.9},   // 0.75
		{TrackID: "c", Name: "Gamma", MatchScore: 0.2, Energy: 0.2, Valence: 0.2},  // 0.20
	}

	ranked := Rank(candidates)

	wantOrder := []string{"b", "a", "c"}
	for i, want := range wantOrder {
		if ranked[i].TrackID != want {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].TrackID, want)
		}
	}

	// The second candidate outranks the first despite a lower match score.
	if ranked[0].FitScore <= ranked[1].FitScore {
		t.Errorf("fit scores not descending: %v then %v", ranked[0].FitScore, ranked[1].FitScore)
	}
}

func TestRankBreaksTiesByNameThenID(t *testing.T) {
	candidates := []Candidate{
		{TrackID: "2", Name: "Zulu", MatchScore: 0.5, Energy: 0.5, Valence: 0.5},
		{TrackID: "1", Name: "Alpha", MatchScore: 0.5, Energy: 0.5, Valence: 0.5},
		{TrackID: "0", Name: "Alpha", MatchScore: 0.5, Energy: 0.5, Valence: 0.5},
	}

	ranked := Rank(candidates)

	wantOrder := []string{"0", "1", "2"}
	for i, want := range wantOrder {
		if ranked[i].TrackID != want {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].TrackID, want)
		}
	}
}

func TestRankEmptyInput(t *testing.T) {
	ranked := Rank(nil)
	if len(ranked) != 0 {
		t.Errorf("Rank(nil) returned %d tracks, want 0", len(ranked))
	}
}

func TestScoreKeepsInputOrder(t *testing.T) {
	candidates := []Candidate{
		{TrackID: "low", Energy: 0.1, Valence: 0.1},
		{TrackID: "high", Energy: 0.9, Valence: 0.9},
	}

	scored := Score(candidates)

	if scored[0].TrackID != "low" || scored[1].TrackID != "high" {
		t.Errorf("Score() reordered input: got %s, %s", scored[0].TrackID, scored[1].TrackID)
	}
	if scored[1].FitScore <= scored[0].FitScore {
		t.Errorf("scores not computed: %v, %v", scored[0].FitScore, scored[1].FitScore)
	}
}
