package models

import "time"

// Track is a provider track persisted as part of a generated playlist.
type Track struct {
	ID              int64    `json:"id" db:"id"`
	ProviderTrackID string   `json:"providerTrackId" db:"provider_track_id"`
	Name            string   `json:"name" db:"name"`
	Artists         []string `json:"artists" db:"artists"`
	AlbumName       string   `json:"albumName" db:"album_name"`
	DurationMs      int      `json:"durationMs" db:"duration_ms"`
	PreviewURL      string   `json:"previewUrl,omitempty" db:"preview_url"`
	PlaylistID      int64    `json:"playlistId,omitempty" db:"playlist_id"`
}

// Playlist is a generated playlist as stored locally. ProviderPlaylistID is
// empty until the playlist has been materialized on the provider.
type Playlist struct {
	ID                 int64     `json:"id" db:"id"`
	ProviderPlaylistID string    `json:"providerPlaylistId,omitempty" db:"provider_playlist_id"`
	Name               string    `json:"name" db:"name"`
	Sentiment          string    `json:"sentiment,omitempty" db:"sentiment"`
	Description        string    `json:"description,omitempty" db:"description"`
	OwnerID            int64     `json:"ownerId,omitempty" db:"owner_id"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	Tracks             []Track   `json:"tracks"`
}

// User is a local mirror of a provider account, keyed by the provider's
// user identifier.
type User struct {
	ID             int64     `json:"id" db:"id"`
	ProviderUserID string    `json:"providerUserId" db:"provider_user_id"`
	DisplayName    string    `json:"displayName,omitempty" db:"display_name"`
	Email          string    `json:"email,omitempty" db:"email"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
