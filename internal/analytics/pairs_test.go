package analytics

import "testing"

func TestTopPairsTruncatesPerGameGenre(t *testing.T) {
	pairs := []GenrePair{
		{GameGenre: "action", TrackGenre: "rock", NumTracks: 150},
		{GameGenre: "action", TrackGenre: "metal", NumTracks: 120},
		{GameGenre: "action", TrackGenre: "electronic", NumTracks: 90},
		{GameGenre: "action", TrackGenre: "pop", NumTracks: 40},
		{GameGenre: "puzzle", TrackGenre: "ambient", NumTracks: 30},
	}

	got := TopPairs(pairs, 3)

	if len(got) != 4 {
		t.Fatalf("got %d pairs, want 4 (3 for action, 1 for puzzle)", len(got))
	}
	actionCount := 0
	for _, p := range got {
		if p.GameGenre == "action" {
			actionCount++
			if p.TrackGenre == "pop" {
				t.Errorf("4th-ranked pair (pop) must be truncated")
			}
		}
	}
	if actionCount != 3 {
		t.Errorf("action kept %d pairs, want 3", actionCount)
	}
}

func TestTopPairsRanksByCountWithinGenre(t *testing.T) {
	pairs := []GenrePair{
		{GameGenre: "rpg", TrackGenre: "folk", NumTracks: 10},
		{GameGenre: "rpg", TrackGenre: "orchestral", NumTracks: 80},
		{GameGenre: "rpg", TrackGenre: "ambient", NumTracks: 45},
	}

	got := TopPairs(pairs, 3)

	want := []string{"orchestral", "ambient", "folk"}
	for i, genre := range want {
		if got[i].TrackGenre != genre {
			t.Errorf("got[%d] = %q, want %q", i, got[i].TrackGenre, genre)
		}
	}
}

func TestTopPairsTieBreaksByTrackGenre(t *testing.T) {
	pairs := []GenrePair{
		{GameGenre: "sports", TrackGenre: "rap", NumTracks: 50},
		{GameGenre: "sports", TrackGenre: "edm", NumTracks: 50},
	}

	got := TopPairs(pairs, 1)

	if len(got) != 1 || got[0].TrackGenre != "edm" {
		t.Errorf("tie must break alphabetically: got %+v", got)
	}
}

func TestTopPairsEmptyInput(t *testing.T) {
	if got := TopPairs(nil, 3); len(got) != 0 {
		t.Errorf("got %d pairs from empty input, want 0", len(got))
	}
}
