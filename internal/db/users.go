package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles user database operations.
type UserRepository struct {
	pool *pgxpool.Pool
}

// Upsert creates a user on first sign-in or refreshes their profile fields,
// keyed by the external identity.
func (r *UserRepository) Upsert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (external_id, display_name, email, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email
		RETURNING user_id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ExternalID,
		user.DisplayName,
		user.Email,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT user_id, external_id, display_name, email, created_at
		FROM users
		WHERE user_id = $1
	`
	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.ExternalID,
		&user.DisplayName,
		&user.Email,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// Update changes a user's profile fields.
func (r *UserRepository) Update(ctx context.Context, id int64, displayName, email string) (*User, error) {
	query := `
		UPDATE users
		SET display_name = $2, email = $3
		WHERE user_id = $1
		RETURNING user_id, external_id, display_name, email, created_at
	`
	var user User
	err := r.pool.QueryRow(ctx, query, id, displayName, email).Scan(
		&user.ID,
		&user.ExternalID,
		&user.DisplayName,
		&user.Email,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &user, nil
}

// Games lists the games a user owns.
func (r *UserRepository) Games(ctx context.Context, userID int64) ([]Game, error) {
	query := `
		SELECT g.game_id, g.name, g.genres, g.genre_list
		FROM owned_games o
		JOIN games g ON g.game_id = o.game_id
		WHERE o.user_id = $1
		ORDER BY g.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying owned games: %w", err)
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
