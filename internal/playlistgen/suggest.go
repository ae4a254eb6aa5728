package playlistgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"moodlist/internal/auth"
	"moodlist/internal/genai"
	"moodlist/internal/musicapi"
	"moodlist/shared/go/logging"
)

// searchConcurrency bounds the per-song provider searches issued in
// parallel. Order of results follows the suggestion order regardless.
const searchConcurrency = 4

// suggestionStrategy answers hinted requests by asking the generative text
// service for concrete songs, then resolving each one via provider search.
type suggestionStrategy struct {
	provider musicapi.Provider
	textGen  genai.TextGenerator
}

func (s *suggestionStrategy) Resolve(ctx context.Context, creds auth.Credentials, req Request) (*resolution, error) {
	prompt := buildPrompt(req)

	raw, err := s.textGen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, suggestionParseError(raw, err)
	}

	tracks := s.searchSuggestions(ctx, creds.AccessToken, analysis.SuggestedSongs)
	if len(tracks) == 0 {
		return nil, noTracksResolved()
	}

	label := req.Mood
	if label == "" {
		label = analysis.Mood
	}
	if label == "" {
		label = analysis.Theme
	}

	return &resolution{Tracks: tracks, Mood: label, Analysis: analysis}, nil
}

// searchSuggestions resolves each suggestion to a provider track. Per-song
// failures and misses drop the song; suggestion order is preserved.
func (s *suggestionStrategy) searchSuggestions(ctx context.Context, token string, songs []SuggestedSong) []musicapi.Track {
	results := make([]*musicapi.Track, len(songs))

	sem := semaphore.NewWeighted(searchConcurrency)
	var wg sync.WaitGroup

	for i, song := range songs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(i int, song SuggestedSong) {
			defer wg.Done()
			defer sem.Release(1)

			query := strings.TrimSpace(song.Title + " " + song.Artist)
			track, err := s.provider.SearchTrack(ctx, token, query)
			if err != nil {
				logging.WithContext(ctx).Warn().
					Err(err).
					Str("title", song.Title).
					Str("artist", song.Artist).
					Msg("suggestion search failed, skipping song")
				return
			}
			if track == nil {
				logging.WithContext(ctx).Debug().
					Str("title", song.Title).
					Str("artist", song.Artist).
					Msg("no provider track for suggestion")
				return
			}
			results[i] = track
		}(i, song)
	}

	wg.Wait()

	var tracks []musicapi.Track
	for _, track := range results {
		if track != nil {
			tracks = append(tracks, *track)
		}
	}
	return tracks
}

// buildPrompt embeds every supplied hint as a hard constraint and asks for
// exactly DesiredCount suggestions as strict JSON.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are a music expert specializing in creating personalized playlists. ")
	b.WriteString("Analyze the following user preferences and suggest songs that STRICTLY match their criteria.\n\n")
	fmt.Fprintf(&b, "User Input: %q\n", req.FreeText)

	hints := []struct{ label, value string }{
		{"Mood", req.Mood},
		{"Description", req.Description},
		{"Language", req.Language},
		{"Era/Timeline", req.Era},
		{"Preferred Artist", req.Artist},
		{"Genre", req.Genre},
		{"Energy Level", req.Energy},
		{"Tempo", req.Tempo},
	}
	for _, hint := range hints {
		if hint.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", hint.label, hint.value)
		}
	}
	fmt.Fprintf(&b, "Number of songs requested: %d\n\n", req.DesiredCount)

	b.WriteString("Requirements:\n")
	b.WriteString("1. If a language is specified, ONLY suggest songs in that language\n")
	b.WriteString("2. If an era/timeline is specified, ONLY suggest songs from that period\n")
	b.WriteString("3. If an artist is specified, prioritize their songs that match the other criteria\n")
	b.WriteString("4. If a genre is specified, ONLY suggest songs from that genre or closely related genres\n")
	b.WriteString("5. Match the requested energy level and tempo when provided\n")
	b.WriteString("6. Ensure suggested songs are likely to be available on Spotify\n\n")

	fmt.Fprintf(&b, "Respond with %d song suggestions as JSON only, no prose:\n", req.DesiredCount)
	b.WriteString(`{
  "mood": "...",
  "genre": "...",
  "era": "...",
  "theme": "...",
  "language": "...",
  "energy_level": "...",
  "tempo": "...",
  "suggested_songs": [
    {
      "title": "...",
      "artist": "...",
      "year": "...",
      "language": "...",
      "genre": "...",
      "energy": "...",
      "tempo": "...",
      "relevance_reason": "one line on why this song matches"
    }
  ]
}`)
	b.WriteString("\n\nEvery suggested song MUST align with ALL specified preferences.")

	return b.String()
}

// parseAnalysis strips optional code fences and decodes the JSON body.
func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("decode suggestion response: %w", err)
	}

	return &analysis, nil
}
