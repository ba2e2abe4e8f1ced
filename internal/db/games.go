package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameRepository handles game database operations.
type GameRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a game by ID.
func (r *GameRepository) Get(ctx context.Context, id int64) (*Game, error) {
	query := `
		SELECT game_id, name, genres, genre_list
		FROM games
		WHERE game_id = $1
	`
	var game Game
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&game.ID,
		&game.Name,
		&game.Genres,
		&game.GenreList,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return &game, nil
}

// List retrieves all games ordered by name.
func (r *GameRepository) List(ctx context.Context) ([]Game, error) {
	query := `
		SELECT game_id, name, genres, genre_list
		FROM games
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var game Game
		if err := rows.Scan(&game.ID, &game.Name, &game.Genres, &game.GenreList); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// Recommendations retrieves the precomputed track affinities for a game,
// strongest match first. An empty slice means the genre bridge is the
// fallback path for this game.
func (r *GameRepository) Recommendations(ctx context.Context, gameID int64) ([]Recommendation, error) {
	query := `
		SELECT game_id, track_id, match_score
		FROM recommendations
		WHERE game_id = $1
		ORDER BY match_score DESC, track_id
	`
	rows, err := r.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := rows.Scan(&rec.GameID, &rec.TrackID, &rec.MatchScore); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
