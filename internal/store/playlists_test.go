package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"moodlist/shared/go/models"
)

func TestUpsertUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (provider_user_id, display_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider_user_id)
		DO UPDATE SET display_name = EXCLUDED.display_name, email = EXCLUDED.email
		RETURNING id
	`)).
		WithArgs("spotify-1", "Jess", "jess@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.UpsertUser(context.Background(), " spotify-1 ", "Jess", "jess@example.com")
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected user id 7, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCountPlaylistsByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT COUNT(*)
		FROM playlists p
		JOIN users u ON u.id = p.owner_id
		WHERE u.provider_user_id = $1
	`)).
		WithArgs("spotify-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	count, err := s.CountPlaylistsByOwner(context.Background(), "spotify-1")
	if err != nil {
		t.Fatalf("CountPlaylistsByOwner: %v", err)
	}
	if count != 9 {
		t.Fatalf("expected 9 playlists, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaylistWithTracks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO playlists (provider_playlist_id, name, sentiment, description, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`)).
		WithArgs("pl1", "AI Playlist: Positive", "positive", sqlmock.AnyArg(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now().UTC()))

	trackInsert := regexp.QuoteMeta(`
			INSERT INTO tracks (provider_track_id, name, artists, album_name, duration_ms, preview_url, playlist_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`)
	mock.ExpectQuery(trackInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(trackInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	playlist := &models.Playlist{
		ProviderPlaylistID: "pl1",
		Name:               "AI Playlist: Positive",
		Sentiment:          "positive",
		Description:        "Generated from mood: feeling great",
		OwnerID:            7,
	}
	tracks := []models.Track{
		{ProviderTrackID: "t1", Name: "One", Artists: []string{"A"}, DurationMs: 1000},
		{ProviderTrackID: "t2", Name: "Two", Artists: []string{"B", "C"}, DurationMs: 2000},
	}

	created, err := s.CreatePlaylistWithTracks(context.Background(), playlist, tracks)
	if err != nil {
		t.Fatalf("CreatePlaylistWithTracks: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("expected playlist id 3, got %d", created.ID)
	}
	if len(created.Tracks) != 2 || created.Tracks[0].ID != 10 || created.Tracks[1].PlaylistID != 3 {
		t.Fatalf("unexpected tracks: %#v", created.Tracks)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaylistWithTracksRollsBackOnTrackFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO playlists (provider_playlist_id, name, sentiment, description, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now().UTC()))
	mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO tracks (provider_track_id, name, artists, album_name, duration_ms, preview_url, playlist_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = s.CreatePlaylistWithTracks(context.Background(), &models.Playlist{Name: "x", OwnerID: 1},
		[]models.Track{{ProviderTrackID: "t1", Name: "One"}})
	if err == nil {
		t.Fatal("expected error from track insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id FROM users WHERE provider_user_id = $1
	`)).
		WithArgs("spotify-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, provider_playlist_id, name, sentiment, description, owner_id, created_at
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_playlist_id", "name", "sentiment", "description", "owner_id", "created_at"}).
			AddRow(int64(5), "pl-1", "AI Playlist: Positive", "positive", "Generated from mood: sunny", int64(7), time.Now().UTC()))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, provider_track_id, name, artists, album_name, duration_ms, preview_url, playlist_id
		FROM tracks
		WHERE playlist_id = $1
		ORDER BY id ASC
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_track_id", "name", "artists", "album_name", "duration_ms", "preview_url", "playlist_id"}).
			AddRow(int64(1), "t1", "Song", "{Artist}", "Album", 20000, nil, int64(5)))

	playlist, err := s.GetPlaylist(context.Background(), "spotify-1", 5)
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if playlist.Name != "AI Playlist: Positive" || len(playlist.Tracks) != 1 {
		t.Errorf("unexpected playlist: %+v", playlist)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistNotOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id FROM users WHERE provider_user_id = $1
	`)).
		WithArgs("someone-else").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	if _, err := s.GetPlaylist(context.Background(), "someone-else", 5); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPlaylistMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetPlaylist(context.Background(), "spotify-1", 99); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestDeletePlaylistNotOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id FROM users WHERE provider_user_id = $1
	`)).
		WithArgs("someone-else").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	if err := s.DeletePlaylist(context.Background(), "someone-else", 3); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeletePlaylistMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	if err := s.DeletePlaylist(context.Background(), "spotify-1", 99); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestDeletePlaylistCascadesTracks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT owner_id
		FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id FROM users WHERE provider_user_id = $1
	`)).
		WithArgs("spotify-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM tracks
		WHERE playlist_id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM playlists
		WHERE id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeletePlaylist(context.Background(), "spotify-1", 3); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTrackNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM tracks t
		USING playlists p, users u
		WHERE t.id = $1 AND t.playlist_id = $2
		  AND p.id = t.playlist_id AND u.id = p.owner_id
		  AND u.provider_user_id = $3
	`)).
		WithArgs(int64(44), int64(3), "spotify-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteTrack(context.Background(), "spotify-1", 3, 44); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("expected ErrTrackNotFound, got %v", err)
	}
}
