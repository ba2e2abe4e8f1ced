package web

import (
	"github.com/google/uuid"

	"github.com/tunequest/tunequest/internal/db"
)

// Wire representations. Field names follow the REST contract consumed by the
// frontend, which differs slightly from the storage naming (duration vs
// duration_s, loudness vs loudness_db).

type gameJSON struct {
	GameID    int64  `json:"game_id"`
	Name      string `json:"name"`
	Genres    string `json:"genres"`
	GenreList string `json:"genre_list"`
}

func toGameJSON(g db.Game) gameJSON {
	return gameJSON{GameID: g.ID, Name: g.Name, Genres: g.Genres, GenreList: g.GenreList}
}

func toGamesJSON(games []db.Game) []gameJSON {
	out := make([]gameJSON, len(games))
	for i, g := range games {
		out[i] = toGameJSON(g)
	}
	return out
}

type trackJSON struct {
	TrackID          string  `json:"track_id"`
	Name             string  `json:"name"`
	Artists          string  `json:"artists"`
	Genres           string  `json:"genres"`
	Duration         int     `json:"duration"`
	Tempo            float64 `json:"tempo"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Loudness         float64 `json:"loudness"`
	Danceability     float64 `json:"danceability"`
	Instrumentalness float64 `json:"instrumentalness"`
	Acousticness     float64 `json:"acousticness"`
	Popularity       int     `json:"popularity"`
}

func toTrackJSON(t db.Track) trackJSON {
	return trackJSON{
		TrackID:          t.ID,
		Name:             t.Name,
		Artists:          t.Artists,
		Genres:           t.Genres,
		Duration:         t.DurationS,
		Tempo:            t.Tempo,
		Energy:           t.Energy,
		Valence:          t.Valence,
		Loudness:         t.LoudnessDB,
		Danceability:     t.Danceability,
		Instrumentalness: t.Instrumentalness,
		Acousticness:     t.Acousticness,
		Popularity:       t.Popularity,
	}
}

func toTracksJSON(tracks []db.Track) []trackJSON {
	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackJSON(t)
	}
	return out
}

type playlistJSON struct {
	PlaylistID           uuid.UUID `json:"playlist_id"`
	PlaylistName         string    `json:"playlist_name"`
	TotalDurationMinutes float64   `json:"total_duration_minutes"`
	TotalTracks          int       `json:"total_tracks"`
}

func toPlaylistJSON(p db.Playlist) playlistJSON {
	return playlistJSON{
		PlaylistID:           p.ID,
		PlaylistName:         p.Name,
		TotalDurationMinutes: p.TotalDurationMinutes,
		TotalTracks:          p.TotalTracks,
	}
}

func toPlaylistsJSON(playlists []db.Playlist) []playlistJSON {
	out := make([]playlistJSON, len(playlists))
	for i, p := range playlists {
		out[i] = toPlaylistJSON(p)
	}
	return out
}

type userJSON struct {
	UserID      int64  `json:"user_id"`
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func toUserJSON(u db.User) userJSON {
	return userJSON{
		UserID:      u.ID,
		ExternalID:  u.ExternalID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}

type recommendationJSON struct {
	GameID     int64   `json:"game_id"`
	TrackID    string  `json:"track_id"`
	MatchScore float64 `json:"match_score"`
}

func toRecommendationsJSON(recs []db.Recommendation) []recommendationJSON {
	out := make([]recommendationJSON, len(recs))
	for i, r := range recs {
		out[i] = recommendationJSON{GameID: r.GameID, TrackID: r.TrackID, MatchScore: r.MatchScore}
	}
	return out
}
