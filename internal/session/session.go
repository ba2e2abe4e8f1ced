// Package session implements session-duration-constrained track selection:
// candidate tracks are ranked by a composite fitness score and accumulated in
// rank order until the target session length is covered.
package session

// Candidate is a track eligible for a session playlist. MatchScore is the
// precomputed game affinity, zero when the track was discovered through the
// genre bridge.
type Candidate struct {
	TrackID    string
	Name       string
	DurationS  int
	Tempo      float64
	Energy     float64
	Valence    float64
	MatchScore float64
}

// RankedTrack is a candidate with its computed fitness score.
type RankedTrack struct {
	Candidate
	FitScore float64
}

// Range is an inclusive bound on a normalized audio feature.
type Range struct {
	Min float64
	Max float64
}

// Normalize maps a range given on the 0-100 scale down to [0,1]. Ranges
// already inside [0,1] pass through unchanged.
func (r Range) Normalize() Range {
	if r.Min > 1 || r.Max > 1 {
		return Range{Min: r.Min / 100.0, Max: r.Max / 100.0}
	}
	return r
}

// FullRange spans the whole normalized feature scale. It is the canonical
// default for both energy and valence.
var FullRange = Range{Min: 0, Max: 1}
