package seeds

import (
	"context"

	"github.com/rs/zerolog/log"

	"moodlist/internal/mood"
	"moodlist/internal/musicapi"
)

const (
	// MaxSeeds is the provider's hard limit across all seed categories.
	MaxSeeds = 5
	// maxPerCategory is the provider's per-category seed maximum.
	maxPerCategory = 5
	// artistSlots and trackSlots are the preferred allocation when both
	// categories have candidates.
	artistSlots = 2
	trackSlots  = 2
	// DefaultGenre is the worst-case fallback seed.
	DefaultGenre = "pop"
)

// acceptedGenres is the provider's seed-genre vocabulary (the subset this
// service maps moods onto).
var acceptedGenres = map[string]bool{
	"acoustic": true, "alternative": true, "ambient": true, "blues": true,
	"chill": true, "classical": true, "club": true, "country": true,
	"dance": true, "disco": true, "edm": true, "electronic": true,
	"folk": true, "funk": true, "hip-hop": true, "house": true,
	"indie": true, "jazz": true, "latin": true, "metal": true,
	"piano": true, "pop": true, "punk": true, "r-n-b": true,
	"reggae": true, "rock": true, "sad": true, "singer-songwriter": true,
	"soul": true, "study": true, "summer": true, "techno": true,
}

// Validator checks candidate ids against the provider's catalog.
type Validator interface {
	LookupArtists(ctx context.Context, token string, ids []string) ([]string, error)
	LookupTracks(ctx context.Context, token string, ids []string) ([]string, error)
}

// Resolver turns attribute-target candidates into a bounded seed set.
type Resolver struct {
	validator Validator
}

// NewResolver builds a Resolver. A nil validator skips live validation and
// uses candidates as-is.
func NewResolver(validator Validator) *Resolver {
	return &Resolver{validator: validator}
}

// Resolve builds a seed set from the target's candidates. It never fails:
// any validation problem degrades to unvalidated candidates, and an empty
// result degrades to the default genre. The returned set always has between
// one and MaxSeeds seeds.
func (r *Resolver) Resolve(ctx context.Context, token string, target mood.AttributeTarget) musicapi.Seeds {
	genres := filterGenres(target.CandidateGenres)
	if len(genres) == 0 {
		genres = []string{DefaultGenre}
	}

	artists := r.validateIDs(ctx, token, target.CandidateArtistIDs, artistSlots, r.lookupArtists)
	tracks := r.validateIDs(ctx, token, target.CandidateTrackIDs, trackSlots, r.lookupTracks)

	if len(artists) > artistSlots {
		artists = artists[:artistSlots]
	}
	if len(tracks) > trackSlots {
		tracks = tracks[:trackSlots]
	}

	// Unused artist/track slots go to genres.
	remaining := MaxSeeds - len(artists) - len(tracks)
	if remaining > maxPerCategory {
		remaining = maxPerCategory
	}
	if remaining > len(genres) {
		remaining = len(genres)
	}

	return musicapi.Seeds{
		Genres:    genres[:remaining],
		ArtistIDs: artists,
		TrackIDs:  tracks,
	}
}

type lookupFunc func(ctx context.Context, token string, ids []string) ([]string, error)

func (r *Resolver) lookupArtists(ctx context.Context, token string, ids []string) ([]string, error) {
	return r.validator.LookupArtists(ctx, token, ids)
}

func (r *Resolver) lookupTracks(ctx context.Context, token string, ids []string) ([]string, error) {
	return r.validator.LookupTracks(ctx, token, ids)
}

// validateIDs runs the batch lookup and falls back to the first candidates
// in order when the lookup itself fails.
func (r *Resolver) validateIDs(ctx context.Context, token string, candidates []string, fallbackN int, lookup lookupFunc) []string {
	if len(candidates) == 0 {
		return nil
	}
	if r.validator == nil {
		return firstN(candidates, fallbackN)
	}

	known, err := lookup(ctx, token, candidates)
	if err != nil {
		log.Warn().Err(err).Msg("seed validation failed, using unvalidated candidates")
		return firstN(candidates, fallbackN)
	}
	return known
}

func filterGenres(candidates []string) []string {
	var genres []string
	for _, g := range candidates {
		if acceptedGenres[g] {
			genres = append(genres, g)
		}
	}
	return genres
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
