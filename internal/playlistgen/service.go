// Package playlistgen turns a mood described in free text into a playlist
// on the music provider, mirrored in local storage. Requests with structured
// hints are answered through generative song suggestions; free-text-only
// requests go through mood classification and provider recommendations.
package playlistgen

import (
	"context"
	"fmt"

	"moodlist/internal/auth"
	"moodlist/internal/genai"
	"moodlist/internal/musicapi"
	"moodlist/internal/seeds"
	"moodlist/shared/go/models"
)

// MaxPlaylistsPerUser caps how many playlists one user may keep. The guard
// runs before any external call so quota violations are cheap to reject.
const MaxPlaylistsPerUser = 10

// Store is the persistence surface the generator needs.
type Store interface {
	CountPlaylistsByOwner(ctx context.Context, providerUserID string) (int, error)
	UpsertUser(ctx context.Context, providerUserID, displayName, email string) (int64, error)
	CreatePlaylistWithTracks(ctx context.Context, playlist *models.Playlist, tracks []models.Track) (*models.Playlist, error)
}

// Service orchestrates the generation pipeline.
type Service struct {
	store     Store
	provider  musicapi.Provider
	attribute strategy
	suggest   strategy
}

// NewService wires the pipeline. The seeds resolver validates candidate
// seed IDs through the same provider used for recommendations.
func NewService(store Store, provider musicapi.Provider, textGen genai.TextGenerator) *Service {
	return &Service{
		store:     store,
		provider:  provider,
		attribute: &attributeStrategy{provider: provider, seeds: seeds.NewResolver(provider)},
		suggest:   &suggestionStrategy{provider: provider, textGen: textGen},
	}
}

// Generate runs the full pipeline for one request. Fatal failures return a
// *Error whose Kind and Status the transport layer maps onto the response;
// non-fatal failures are reported on the Result.
func (s *Service) Generate(ctx context.Context, creds auth.Credentials, req Request) (*Result, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountPlaylistsByOwner(ctx, creds.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("count playlists: %w", err)
	}
	if count >= MaxPlaylistsPerUser {
		return nil, quotaExceeded(MaxPlaylistsPerUser)
	}

	resolver := s.attribute
	if req.hasHints() {
		resolver = s.suggest
	}

	res, err := resolver.Resolve(ctx, creds, req)
	if err != nil {
		return nil, err
	}

	return s.materialize(ctx, creds, req, res)
}
