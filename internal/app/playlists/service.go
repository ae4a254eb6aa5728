package playlists

import (
	"context"

	"moodlist/shared/go/models"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	ListPlaylistsByOwner(ctx context.Context, providerUserID string) ([]*models.Playlist, error)
	GetPlaylist(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, providerUserID string, id int64) error
	DeleteTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error
}

// Service coordinates playlist catalog operations for the owning user.
type Service interface {
	List(ctx context.Context, providerUserID string) ([]*models.Playlist, error)
	Get(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error)
	Delete(ctx context.Context, providerUserID string, id int64) error
	RemoveTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, providerUserID string) ([]*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistsByOwner(ctx, providerUserID)
}

func (s *service) Get(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetPlaylist(ctx, providerUserID, id)
}

func (s *service) Delete(ctx context.Context, providerUserID string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, providerUserID, id)
}

func (s *service) RemoveTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteTrack(ctx, providerUserID, playlistID, trackID)
}
