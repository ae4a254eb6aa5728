package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlaylistNotFound signals the playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrTrackNotFound signals the track does not exist.
	ErrTrackNotFound = errors.New("track not found")
	// ErrNotOwner indicates the caller does not own the resource.
	ErrNotOwner = errors.New("not the owner")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertUser creates or refreshes the local mirror of a provider account,
// keyed by the provider's user identifier. Idempotent.
func (s *Store) UpsertUser(ctx context.Context, providerUserID, displayName, email string) (int64, error) {
	providerUserID = strings.TrimSpace(providerUserID)
	if providerUserID == "" {
		return 0, fmt.Errorf("provider user id is required")
	}

	var userID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (provider_user_id, display_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider_user_id)
		DO UPDATE SET display_name = EXCLUDED.display_name, email = EXCLUDED.email
		RETURNING id
	`, providerUserID, displayName, email).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	return userID, nil
}

// CountPlaylistsByOwner counts the playlists recorded locally for a provider
// account. Accounts we have never seen count as zero.
func (s *Store) CountPlaylistsByOwner(ctx context.Context, providerUserID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE u.provider_user_id = $1
	`, providerUserID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count playlists: %w", err)
	}
	return count, nil
}
