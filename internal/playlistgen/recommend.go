package playlistgen

import (
	"context"

	"moodlist/internal/auth"
	"moodlist/internal/mood"
	"moodlist/internal/musicapi"
	"moodlist/internal/seeds"
)

// recommendationLimit is the provider's default candidate cap per query.
const recommendationLimit = 20

// resolution is what a strategy hands to the materializer: an ordered track
// list plus the mood label the playlist will be named after.
type resolution struct {
	Tracks   []musicapi.Track
	Mood     string
	Analysis *Analysis
}

// strategy turns a normalized request into resolved provider tracks.
type strategy interface {
	Resolve(ctx context.Context, creds auth.Credentials, req Request) (*resolution, error)
}

// attributeStrategy answers free-text-only requests with one recommendation
// query built from the classified mood's attribute targets and seeds.
type attributeStrategy struct {
	provider musicapi.Provider
	seeds    *seeds.Resolver
}

func (s *attributeStrategy) Resolve(ctx context.Context, creds auth.Credentials, req Request) (*resolution, error) {
	var label string
	var target mood.AttributeTarget
	if req.Mood != "" {
		// Explicit mood bypasses classification; the label is kept verbatim.
		label = req.Mood
		target = mood.AttributesForLabel(req.Mood)
	} else {
		bucket := mood.Classify(req.FreeText)
		label = string(bucket)
		target = mood.Attributes(bucket)
	}

	seedSet := s.seeds.Resolve(ctx, creds.AccessToken, target)

	attrs := musicapi.TrackAttributes{
		TargetValence: target.TargetValence,
		TargetEnergy:  target.TargetEnergy,
		TargetTempo:   target.TargetTempo,
	}

	tracks, err := s.provider.Recommendations(ctx, creds.AccessToken, seedSet, attrs, recommendationLimit)
	if err != nil {
		return nil, recommendationUnavailable(err)
	}
	if len(tracks) == 0 {
		// An empty list from a 2xx response is still a failed recommendation.
		return nil, recommendationUnavailable(nil)
	}

	return &resolution{Tracks: tracks, Mood: label}, nil
}
