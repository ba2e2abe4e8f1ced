package session

import "slices"

// Fitness weights. The 50/25/25 split favors precomputed affinity while
// rewarding high-arousal, high-positivity tracks; downstream data was
// produced under this exact blend, so the weights are load-bearing.
const (
	matchWeight   = 0.5
	energyWeight  = 0.25
	valenceWeight = 0.25
)

// FitScore computes the composite fitness of a candidate.
func FitScore(c Candidate) float64 {
	return matchWeight*c.MatchScore + energyWeight*c.Energy + valenceWeight*c.Valence
}

// Rank scores candidates and orders them by fitness descending. Ties break by
// track name ascending, then track ID, so the ordering is deterministic.
func Rank(candidates []Candidate) []RankedTrack {
	ranked := make([]RankedTrack, len(candidates))
	for i, c := range candidates {
		ranked[i] = RankedTrack{Candidate: c, FitScore: FitScore(c)}
	}
	slices.SortStableFunc(ranked, func(a, b RankedTrack) int {
		switch {
		case a.FitScore > b.FitScore:
			return -1
		case a.FitScore < b.FitScore:
			return 1
		}
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.TrackID < b.TrackID {
			return -1
		}
		if a.TrackID > b.TrackID {
			return 1
		}
		return 0
	})
	return ranked
}

// Score attaches fitness scores without reordering. Used for bridge-path
// candidates, which keep the popularity ordering of the candidate query.
func Score(candidates []Candidate) []RankedTrack {
	ranked := make([]RankedTrack, len(candidates))
	for i, c := range candidates {
		ranked[i] = RankedTrack{Candidate: c, FitScore: FitScore(c)}
	}
	return ranked
}
