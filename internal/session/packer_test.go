package session

import "testing"

func rankedWithDurations(durations ...int) []RankedTrack {
	ranked := make([]RankedTrack, len(durations))
	for i, d := range durations {
		ranked[i] = RankedTrack{
			Candidate: Candidate{TrackID: string(rune('a' + i)), DurationS: d},
			FitScore:  1.0 - float64(i)*0.1,
		}
	}
	return ranked
}

func TestPackStopsAtMinimalCoveringPrefix(t *testing.T) {
	ranked := rankedWithDurations(600, 600, 600, 600)

	packed := Pack(ranked, 1800)

	if len(packed) != 3 {
		t.Fatalf("Pack() returned %d tracks, want 3", len(packed))
	}
	total := 0
	for _, p := range packed {
		total += p.DurationS
	}
	if total != 1800 {
		t.Errorf("packed duration = %d, want 1800", total)
	}
}

func TestPackOvershootsOnlyByLastTrack(t *testing.T) {
	// 900+900 = 1800 < 2000, third track pushes past the target and is the
	// last one included.
	ranked := rankedWithDurations(900, 900, 700, 400)

	packed := Pack(ranked, 2000)

	if len(packed) != 3 {
		t.Fatalf("Pack() returned %d tracks, want 3", len(packed))
	}
}

func TestPackShortCatalogReturnsEverything(t *testing.T) {
	ranked := rankedWithDurations(300, 300)

	packed := Pack(ranked, 1800)

	if len(packed) != 2 {
		t.Errorf("Pack() returned %d tracks, want the full catalog (2)", len(packed))
	}
}

func TestPackEmptyInput(t *testing.T) {
	packed := Pack(nil, 1800)
	if len(packed) != 0 {
		t.Errorf("Pack(nil) returned %d tracks, want 0", len(packed))
	}
}

func TestPackPreservesRankOrder(t *testing.T) {
	ranked := rankedWithDurations(600, 600, 600)

	packed := Pack(ranked, 1200)

	for i := 1; i < len(packed); i++ {
		if packed[i-1].FitScore < packed[i].FitScore {
			t.Errorf("rank order broken at %d: %v before %v", i, packed[i-1].FitScore, packed[i].FitScore)
		}
	}
}

func TestPackExactTargetOnFirstTrack(t *testing.T) {
	ranked := rankedWithDurations(1800, 600)

	packed := Pack(ranked, 1800)

	if len(packed) != 1 {
		t.Errorf("Pack() returned %d tracks, want 1", len(packed))
	}
}
