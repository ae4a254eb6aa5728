package playlistgen

import (
	"strings"

	"moodlist/internal/musicapi"
)

const (
	defaultSongCount = 5
	maxSongCount     = 50
)

// Request is the preference descriptor for one generation call. FreeText is
// required; everything else is an optional structured hint. Immutable once
// normalized.
type Request struct {
	FreeText     string `json:"moodText"`
	Mood         string `json:"mood,omitempty"`
	Description  string `json:"description,omitempty"`
	DesiredCount int    `json:"numSongs,omitempty"`
	Language     string `json:"songLanguage,omitempty"`
	Era          string `json:"timeline,omitempty"`
	Artist       string `json:"singer,omitempty"`
	Genre        string `json:"genre,omitempty"`
	Energy       string `json:"energy,omitempty"`
	Tempo        string `json:"tempo,omitempty"`
}

// normalize trims the descriptor and bounds the track count. It returns
// MissingInput when there is nothing to work from.
func (r Request) normalize() (Request, error) {
	r.FreeText = strings.TrimSpace(r.FreeText)
	r.Mood = strings.TrimSpace(r.Mood)
	r.Description = strings.TrimSpace(r.Description)
	r.Language = strings.TrimSpace(r.Language)
	r.Era = strings.TrimSpace(r.Era)
	r.Artist = strings.TrimSpace(r.Artist)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Energy = strings.TrimSpace(r.Energy)
	r.Tempo = strings.TrimSpace(r.Tempo)

	if r.FreeText == "" && !r.hasHints() {
		return r, missingInput("mood text is required")
	}

	if r.DesiredCount < 1 {
		r.DesiredCount = defaultSongCount
	}
	if r.DesiredCount > maxSongCount {
		r.DesiredCount = maxSongCount
	}

	return r, nil
}

// hasHints reports whether any structured hint was supplied. Hints route the
// request to the described-suggestion strategy.
func (r Request) hasHints() bool {
	return r.Description != "" || r.Language != "" || r.Era != "" ||
		r.Artist != "" || r.Genre != "" || r.Energy != "" || r.Tempo != ""
}

// Analysis is the structured result of the generative analysis step,
// returned to the caller alongside the playlist.
type Analysis struct {
	Mood           string          `json:"mood,omitempty"`
	Genre          string          `json:"genre,omitempty"`
	Era            string          `json:"era,omitempty"`
	Theme          string          `json:"theme,omitempty"`
	Language       string          `json:"language,omitempty"`
	EnergyLevel    string          `json:"energy_level,omitempty"`
	Tempo          string          `json:"tempo,omitempty"`
	SuggestedSongs []SuggestedSong `json:"suggested_songs,omitempty"`
}

// SuggestedSong is one song suggestion from the generative text service.
type SuggestedSong struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Year            string `json:"year,omitempty"`
	Language        string `json:"language,omitempty"`
	Genre           string `json:"genre,omitempty"`
	Energy          string `json:"energy,omitempty"`
	Tempo           string `json:"tempo,omitempty"`
	RelevanceReason string `json:"relevance_reason,omitempty"`
}

// PlaylistResult is the playlist portion of a generation response.
type PlaylistResult struct {
	ID                 int64            `json:"id,omitempty"`
	ProviderPlaylistID string           `json:"providerPlaylistId"`
	Name               string           `json:"name"`
	URL                string           `json:"url,omitempty"`
	Mood               string           `json:"mood,omitempty"`
	Tracks             []musicapi.Track `json:"tracks"`
}

// Result is a successful generation response. Warning and DBError report
// the non-fatal failure modes; they are never silently dropped.
type Result struct {
	Playlist PlaylistResult `json:"playlist"`
	Analysis *Analysis      `json:"aiResult,omitempty"`
	Warning  string         `json:"warning,omitempty"`
	DBError  string         `json:"dbError,omitempty"`
}
