package playlistgen

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"moodlist/internal/auth"
	"moodlist/shared/go/logging"
	"moodlist/shared/go/models"
)

const dbErrorMessage = "Failed to save to database, but playlist was created on Spotify"

// materialize creates the playlist on the provider, attaches the resolved
// tracks, and mirrors the result locally. Only the provider create is fatal;
// attach and persistence failures are annotated on the Result.
func (s *Service) materialize(ctx context.Context, creds auth.Credentials, req Request, res *resolution) (*Result, error) {
	name := playlistName(res.Mood)
	description := req.Description
	if description == "" {
		description = "Generated from mood: " + req.FreeText
	}

	created, err := s.provider.CreatePlaylist(ctx, creds.AccessToken, creds.ProviderUserID, name, description)
	if err != nil {
		return nil, playlistCreateFailed(fmt.Errorf("create provider playlist: %w", err))
	}

	result := &Result{
		Playlist: PlaylistResult{
			ProviderPlaylistID: created.ID,
			Name:               created.Name,
			URL:                created.URL,
			Mood:               res.Mood,
			Tracks:             res.Tracks,
		},
		Analysis: res.Analysis,
	}

	uris := make([]string, 0, len(res.Tracks))
	for _, track := range res.Tracks {
		uris = append(uris, track.URI)
	}
	if err := s.provider.AddTracks(ctx, creds.AccessToken, created.ID, uris); err != nil {
		logging.WithContext(ctx).Warn().
			Err(err).
			Str("provider_playlist_id", created.ID).
			Msg("failed to add tracks to provider playlist")
		result.Warning = "playlist was created but some tracks could not be added"
	}

	if err := s.persist(ctx, creds, created.ID, name, description, res, result); err != nil {
		logging.WithContext(ctx).Error().
			Err(err).
			Str("provider_playlist_id", created.ID).
			Msg("failed to persist playlist locally")
		result.DBError = dbErrorMessage
	}

	return result, nil
}

func (s *Service) persist(ctx context.Context, creds auth.Credentials, providerPlaylistID, name, description string, res *resolution, result *Result) error {
	ownerID, err := s.store.UpsertUser(ctx, creds.ProviderUserID, creds.DisplayName, creds.Email)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	playlist := &models.Playlist{
		ProviderPlaylistID: providerPlaylistID,
		Name:               name,
		Sentiment:          res.Mood,
		Description:        description,
		OwnerID:            ownerID,
	}

	tracks := make([]models.Track, 0, len(res.Tracks))
	for _, track := range res.Tracks {
		tracks = append(tracks, models.Track{
			ProviderTrackID: track.ID,
			Name:            track.Name,
			Artists:         track.Artists,
			AlbumName:       track.AlbumName,
			DurationMs:      track.DurationMs,
			PreviewURL:      track.PreviewURL,
		})
	}

	saved, err := s.store.CreatePlaylistWithTracks(ctx, playlist, tracks)
	if err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}

	result.Playlist.ID = saved.ID
	return nil
}

// playlistName derives the provider playlist title from the mood label.
func playlistName(mood string) string {
	label := strings.TrimSpace(mood)
	if label == "" {
		label = "Mixed"
	}
	return "AI Playlist: " + titleCase(label)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
