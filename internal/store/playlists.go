package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"moodlist/shared/go/models"
)

// CreatePlaylistWithTracks persists a playlist and its tracks in a single
// transaction: either the playlist row and every track row land, or nothing
// does.
func (s *Store) CreatePlaylistWithTracks(ctx context.Context, playlist *models.Playlist, tracks []models.Track) (*models.Playlist, error) {
	if playlist == nil {
		return nil, errors.New("playlist is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var description sql.NullString
	if playlist.Description != "" {
		description = sql.NullString{String: playlist.Description, Valid: true}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO playlists (provider_playlist_id, name, sentiment, description, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, playlist.ProviderPlaylistID, playlist.Name, playlist.Sentiment, description, playlist.OwnerID).
		Scan(&playlist.ID, &playlist.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}

	for i := range tracks {
		track := &tracks[i]
		track.PlaylistID = playlist.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO tracks (provider_track_id, name, artists, album_name, duration_ms, preview_url, playlist_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, track.ProviderTrackID, track.Name, pq.Array(track.Artists), track.AlbumName,
			track.DurationMs, nullIfEmpty(track.PreviewURL), playlist.ID).Scan(&track.ID)
		if err != nil {
			return nil, fmt.Errorf("insert track: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	playlist.Tracks = tracks
	return playlist, nil
}

// ListPlaylistsByOwner returns all playlists for a provider account, newest
// first, with their tracks.
func (s *Store) ListPlaylistsByOwner(ctx context.Context, providerUserID string) ([]*models.Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.provider_playlist_id, p.name, p.sentiment, p.description, p.owner_id, p.created_at
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE u.provider_user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`, providerUserID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	for _, playlist := range playlists {
		tracks, err := s.listPlaylistTracks(ctx, playlist.ID)
		if err != nil {
			return nil, err
		}
		playlist.Tracks = tracks
	}

	return playlists, nil
}

// GetPlaylist returns a single playlist with its tracks. The caller must own
// the playlist.
func (s *Store) GetPlaylist(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error) {
	ownerID, err := s.playlistOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	callerID, err := s.userIDByProvider(ctx, providerUserID)
	if err != nil {
		return nil, err
	}
	if callerID != ownerID {
		return nil, ErrNotOwner
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, provider_playlist_id, name, sentiment, description, owner_id, created_at
		FROM playlists
		WHERE id = $1
	`, id)

	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	tracks, err := s.listPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}
	playlist.Tracks = tracks

	return playlist, nil
}

// DeletePlaylist removes a playlist and its tracks. The caller must own the
// playlist.
func (s *Store) DeletePlaylist(ctx context.Context, providerUserID string, id int64) error {
	ownerID, err := s.playlistOwner(ctx, id)
	if err != nil {
		return err
	}

	callerID, err := s.userIDByProvider(ctx, providerUserID)
	if err != nil {
		return err
	}
	if callerID != ownerID {
		return ErrNotOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM tracks
		WHERE playlist_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete tracks: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM playlists
		WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

// DeleteTrack removes a single track from a playlist owned by the caller.
func (s *Store) DeleteTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM tracks t
		USING playlists p, users u
		WHERE t.id = $1 AND t.playlist_id = $2
		  AND p.id = t.playlist_id AND u.id = p.owner_id
		  AND u.provider_user_id = $3
	`, trackID, playlistID, providerUserID)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTrackNotFound
	}

	return nil
}

// userIDByProvider resolves a provider account to the local user id. Callers
// with no local row cannot own anything, so a miss maps to ErrNotOwner.
func (s *Store) userIDByProvider(ctx context.Context, providerUserID string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE provider_user_id = $1
	`, providerUserID).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotOwner
		}
		return 0, fmt.Errorf("lookup caller: %w", err)
	}
	return userID, nil
}

func (s *Store) playlistOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPlaylistNotFound
		}
		return 0, fmt.Errorf("lookup playlist owner: %w", err)
	}
	return ownerID, nil
}

func (s *Store) listPlaylistTracks(ctx context.Context, playlistID int64) ([]models.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider_track_id, name, artists, album_name, duration_ms, preview_url, playlist_id
		FROM tracks
		WHERE playlist_id = $1
		ORDER BY id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var track models.Track
		var previewURL sql.NullString
		if err := rows.Scan(&track.ID, &track.ProviderTrackID, &track.Name, pq.Array(&track.Artists),
			&track.AlbumName, &track.DurationMs, &previewURL, &track.PlaylistID); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		track.PreviewURL = previewURL.String
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}

	return tracks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlaylist(row rowScanner) (*models.Playlist, error) {
	var playlist models.Playlist
	var providerID, sentiment, description sql.NullString
	if err := row.Scan(&playlist.ID, &providerID, &playlist.Name, &sentiment,
		&description, &playlist.OwnerID, &playlist.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	playlist.ProviderPlaylistID = providerID.String
	playlist.Sentiment = sentiment.String
	playlist.Description = description.String
	return &playlist, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
