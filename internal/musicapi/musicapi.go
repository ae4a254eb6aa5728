package musicapi

import (
	"context"
	"fmt"
)

// Track is a resolved provider track with display metadata.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	AlbumName  string   `json:"albumName"`
	DurationMs int      `json:"durationMs"`
	PreviewURL string   `json:"previewUrl,omitempty"`
}

// Playlist is a playlist entity created on the provider.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Seeds biases a recommendation query. The provider accepts at most five
// seeds across all three categories.
type Seeds struct {
	Genres    []string
	ArtistIDs []string
	TrackIDs  []string
}

// Total returns the seed count across all categories.
func (s Seeds) Total() int {
	return len(s.Genres) + len(s.ArtistIDs) + len(s.TrackIDs)
}

// TrackAttributes are target audio-attribute values for a recommendation
// query. Zero values are omitted from the request.
type TrackAttributes struct {
	TargetValence float64
	TargetEnergy  float64
	TargetTempo   float64
}

// Provider is the external music catalog consumed by the generation
// pipeline. The bearer token is passed explicitly on every call; clients
// hold no per-user state.
type Provider interface {
	// SearchTrack returns the first track matching the query, or nil when
	// the search came back empty.
	SearchTrack(ctx context.Context, token, query string) (*Track, error)

	// Recommendations requests up to limit candidate tracks for the given
	// seeds and attribute targets.
	Recommendations(ctx context.Context, token string, seeds Seeds, attrs TrackAttributes, limit int) ([]Track, error)

	// LookupArtists returns the subset of ids the provider knows, in input
	// order. Unknown ids are dropped.
	LookupArtists(ctx context.Context, token string, ids []string) ([]string, error)

	// LookupTracks returns the subset of ids the provider knows, in input
	// order.
	LookupTracks(ctx context.Context, token string, ids []string) ([]string, error)

	// CreatePlaylist creates a private playlist for the given provider user.
	CreatePlaylist(ctx context.Context, token, userID, name, description string) (*Playlist, error)

	// AddTracks attaches track URIs to a provider playlist in one batch.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
}

// StatusError reports a non-2xx response from the provider.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: provider returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
