package session

// Pack accumulates ranked tracks until the target session duration is
// covered. The cutoff is the smallest prefix cumulative duration that reaches
// targetSeconds; when the whole catalog is shorter than the target the cutoff
// is the full-catalog total, so an undersized catalog returns everything
// rather than failing. Every track whose prefix cumulative duration is within
// the cutoff is returned in rank order.
//
// This is a greedy forward accumulation, not an optimal subset sum: it
// prefers high-fitness tracks over an exact duration match.
func Pack(ranked []RankedTrack, targetSeconds float64) []RankedTrack {
	if len(ranked) == 0 {
		return nil
	}

	prefix := make([]float64, len(ranked))
	cum := 0.0
	for i, t := range ranked {
		cum += float64(t.DurationS)
		prefix[i] = cum
	}

	cutoff := prefix[len(prefix)-1]
	for _, p := range prefix {
		if p >= targetSeconds {
			cutoff = p
			break
		}
	}

	packed := make([]RankedTrack, 0, len(ranked))
	for i, t := range ranked {
		if prefix[i] > cutoff {
			break
		}
		packed = append(packed, t)
	}
	return packed
}
