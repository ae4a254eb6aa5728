package musicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"moodlist/shared/go/logging"
)

const defaultBaseURL = "https://api.spotify.com/v1"

var _ Provider = (*SpotifyClient)(nil)

// SpotifyClient implements the Provider interface against the Spotify Web
// API. Credentials arrive per call; the client itself only holds transport
// configuration.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// SpotifyOption configures a SpotifyClient.
type SpotifyOption func(*SpotifyClient)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) SpotifyOption {
	return func(c *SpotifyClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) SpotifyOption {
	return func(c *SpotifyClient) {
		c.httpClient = client
	}
}

// NewSpotifyClient creates a new Spotify API client.
func NewSpotifyClient(opts ...SpotifyOption) *SpotifyClient {
	c := &SpotifyClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Spotify rate-limits around 180 requests per rolling 30s window.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Spotify API response structures

type spotifySearchResponse struct {
	Tracks *spotifyTracksPage `json:"tracks,omitempty"`
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyTrack struct {
	ID         string                `json:"id"`
	URI        string                `json:"uri"`
	Name       string                `json:"name"`
	Artists    []spotifySimpleArtist `json:"artists"`
	Album      *spotifySimpleAlbum   `json:"album,omitempty"`
	DurationMs int                   `json:"duration_ms"`
	PreviewURL string                `json:"preview_url,omitempty"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySimpleAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyRecommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

type spotifyPlaylistResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// doRequest performs an authenticated request against the Spotify API.
func (c *SpotifyClient) doRequest(ctx context.Context, method, token, endpoint string, params url.Values, payload, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.ExternalCall("spotify", endpoint, 0, time.Since(start), err)
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		statusErr := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
		logging.ExternalCall("spotify", endpoint, resp.StatusCode, time.Since(start), statusErr)
		return statusErr
	}
	logging.ExternalCall("spotify", endpoint, resp.StatusCode, time.Since(start), nil)

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// SearchTrack returns the first track matching the query, or nil on a miss.
func (c *SpotifyClient) SearchTrack(ctx context.Context, token, query string) (*Track, error) {
	params := url.Values{
		"q":     []string{query},
		"type":  []string{"track"},
		"limit": []string{"1"},
	}

	var result spotifySearchResponse
	if err := c.doRequest(ctx, http.MethodGet, token, "search", params, nil, &result); err != nil {
		return nil, err
	}

	if result.Tracks == nil || len(result.Tracks.Items) == 0 {
		return nil, nil
	}

	track := c.convertTrack(result.Tracks.Items[0])
	return &track, nil
}

// Recommendations requests candidate tracks for the given seeds and targets.
func (c *SpotifyClient) Recommendations(ctx context.Context, token string, seeds Seeds, attrs TrackAttributes, limit int) ([]Track, error) {
	params := url.Values{}
	if len(seeds.Genres) > 0 {
		params.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}
	if len(seeds.ArtistIDs) > 0 {
		params.Set("seed_artists", strings.Join(seeds.ArtistIDs, ","))
	}
	if len(seeds.TrackIDs) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.TrackIDs, ","))
	}
	if attrs.TargetValence > 0 {
		params.Set("target_valence", formatFloat(attrs.TargetValence))
	}
	if attrs.TargetEnergy > 0 {
		params.Set("target_energy", formatFloat(attrs.TargetEnergy))
	}
	if attrs.TargetTempo > 0 {
		params.Set("target_tempo", formatFloat(attrs.TargetTempo))
	}
	params.Set("limit", strconv.Itoa(limit))

	var result spotifyRecommendationsResponse
	if err := c.doRequest(ctx, http.MethodGet, token, "recommendations", params, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Tracks))
	for _, st := range result.Tracks {
		tracks = append(tracks, c.convertTrack(st))
	}

	return tracks, nil
}

// LookupArtists resolves artist ids via the batch endpoint. Ids the provider
// reports as null are dropped.
func (c *SpotifyClient) LookupArtists(ctx context.Context, token string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{"ids": []string{strings.Join(ids, ",")}}

	var result struct {
		Artists []*spotifySimpleArtist `json:"artists"`
	}
	if err := c.doRequest(ctx, http.MethodGet, token, "artists", params, nil, &result); err != nil {
		return nil, err
	}

	var known []string
	for _, artist := range result.Artists {
		if artist != nil && artist.ID != "" {
			known = append(known, artist.ID)
		}
	}
	return known, nil
}

// LookupTracks resolves track ids via the batch endpoint.
func (c *SpotifyClient) LookupTracks(ctx context.Context, token string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{"ids": []string{strings.Join(ids, ",")}}

	var result struct {
		Tracks []*spotifyTrack `json:"tracks"`
	}
	if err := c.doRequest(ctx, http.MethodGet, token, "tracks", params, nil, &result); err != nil {
		return nil, err
	}

	var known []string
	for _, track := range result.Tracks {
		if track != nil && track.ID != "" {
			known = append(known, track.ID)
		}
	}
	return known, nil
}

// CreatePlaylist creates a private playlist for the given provider user.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, token, userID, name, description string) (*Playlist, error) {
	payload := map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var result spotifyPlaylistResponse
	endpoint := "users/" + url.PathEscape(userID) + "/playlists"
	if err := c.doRequest(ctx, http.MethodPost, token, endpoint, nil, payload, &result); err != nil {
		return nil, err
	}

	if result.ID == "" {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: http.StatusBadGateway, Body: "playlist response missing id"}
	}

	return &Playlist{
		ID:   result.ID,
		Name: result.Name,
		URL:  result.ExternalURLs.Spotify,
	}, nil
}

// AddTracks attaches track URIs to a playlist in one batch call.
func (c *SpotifyClient) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	payload := map[string]interface{}{"uris": uris}
	endpoint := "playlists/" + url.PathEscape(playlistID) + "/tracks"
	return c.doRequest(ctx, http.MethodPost, token, endpoint, nil, payload, nil)
}

func (c *SpotifyClient) convertTrack(st spotifyTrack) Track {
	artists := make([]string, 0, len(st.Artists))
	for _, artist := range st.Artists {
		artists = append(artists, artist.Name)
	}

	albumName := ""
	if st.Album != nil {
		albumName = st.Album.Name
	}

	uri := st.URI
	if uri == "" && st.ID != "" {
		uri = "spotify:track:" + st.ID
	}

	return Track{
		ID:         st.ID,
		URI:        uri,
		Name:       st.Name,
		Artists:    artists,
		AlbumName:  albumName,
		DurationMs: st.DurationMs,
		PreviewURL: st.PreviewURL,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
