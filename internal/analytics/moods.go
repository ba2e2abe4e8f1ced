package analytics

import (
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// DefaultMoodClusters is the number of mood groups a candidate set is split
// into when it is large enough.
const DefaultMoodClusters = 3

// MoodTrack is one track entering mood clustering.
type MoodTrack struct {
	TrackID      string
	Name         string
	Energy       float64
	Valence      float64
	Danceability float64
	Acousticness float64
}

// MoodCluster is a group of tracks with a similar audio character, labeled
// by the energy/valence quadrant of its centroid.
type MoodCluster struct {
	Label           string   `json:"label"`
	NumTracks       int      `json:"num_tracks"`
	AvgEnergy       float64  `json:"avg_energy"`
	AvgValence      float64  `json:"avg_valence"`
	AvgDanceability float64  `json:"avg_danceability"`
	AvgAcousticness float64  `json:"avg_acousticness"`
	TrackIDs        []string `json:"track_ids"`
}

// moodObservation adapts a MoodTrack to the clusters.Observation interface.
type moodObservation struct {
	track  *MoodTrack
	coords clusters.Coordinates
}

func (o moodObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o moodObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

func moodCoords(t *MoodTrack) clusters.Coordinates {
	return clusters.Coordinates{t.Energy, t.Valence, t.Danceability, t.Acousticness}
}

// ClusterMoods groups tracks by audio-feature similarity using k-means.
// Candidate sets too small to split meaningfully collapse into a single
// cluster around their mean. An empty input yields no clusters.
func ClusterMoods(tracks []MoodTrack, numClusters int) ([]MoodCluster, error) {
	if len(tracks) == 0 {
		return nil, nil
	}
	if numClusters <= 0 {
		numClusters = DefaultMoodClusters
	}
	if len(tracks) <= numClusters || numClusters < 2 {
		return []MoodCluster{singleCluster(tracks)}, nil
	}

	var obs clusters.Observations
	for i := range tracks {
		obs = append(obs, moodObservation{track: &tracks[i], coords: moodCoords(&tracks[i])})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, numClusters)
	if err != nil {
		return nil, err
	}

	var moods []MoodCluster
	for _, cluster := range result {
		var members []MoodTrack
		for _, o := range cluster.Observations {
			if mo, ok := o.(moodObservation); ok {
				members = append(members, *mo.track)
			}
		}
		if len(members) == 0 {
			continue
		}
		mc := summarize(members)
		moods = append(moods, mc)
	}

	slices.SortFunc(moods, func(a, b MoodCluster) int {
		if a.NumTracks != b.NumTracks {
			return b.NumTracks - a.NumTracks
		}
		if a.Label < b.Label {
			return -1
		}
		if a.Label > b.Label {
			return 1
		}
		return 0
	})
	return moods, nil
}

// singleCluster summarizes all tracks as one mood group.
func singleCluster(tracks []MoodTrack) MoodCluster {
	return summarize(tracks)
}

// summarize builds a MoodCluster from its member tracks.
func summarize(members []MoodTrack) MoodCluster {
	var energy, valence, dance, acoustic float64
	ids := make([]string, len(members))
	for i, m := range members {
		energy += m.Energy
		valence += m.Valence
		dance += m.Danceability
		acoustic += m.Acousticness
		ids[i] = m.TrackID
	}
	n := float64(len(members))
	avgEnergy := energy / n
	avgValence := valence / n
	avgAcoustic := acoustic / n
	slices.Sort(ids)

	return MoodCluster{
		Label:           moodLabel(avgEnergy, avgValence, avgAcoustic),
		NumTracks:       len(members),
		AvgEnergy:       round2(avgEnergy),
		AvgValence:      round2(avgValence),
		AvgDanceability: round2(dance / n),
		AvgAcousticness: round2(avgAcoustic),
		TrackIDs:        ids,
	}
}

// moodLabel names a cluster by its energy/valence quadrant, with an acoustic
// modifier when acousticness dominates.
//
//   - high energy, high valence: "Upbeat Party"
//   - high energy, low valence:  "Intense & Dark"
//   - low energy,  high valence: "Chill & Happy"
//   - low energy,  low valence:  "Reflective & Melancholy"
func moodLabel(energy, valence, acousticness float64) string {
	highEnergy := energy > 0.6
	highValence := valence > 0.5

	var label string
	switch {
	case highEnergy && highValence:
		label = "Upbeat Party"
	case highEnergy:
		label = "Intense & Dark"
	case highValence:
		label = "Chill & Happy"
	default:
		label = "Reflective & Melancholy"
	}

	if acousticness > 0.6 {
		label += " (Acoustic)"
	}
	return label
}
