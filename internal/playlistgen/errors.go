package playlistgen

import (
	"errors"
	"fmt"
	"net/http"

	"moodlist/internal/musicapi"
)

// Kind tags a pipeline failure so callers can map it to a response without
// string-matching error text.
type Kind string

const (
	KindQuotaExceeded             Kind = "QuotaExceeded"
	KindMissingInput              Kind = "MissingInput"
	KindSuggestionParseError      Kind = "SuggestionParseError"
	KindRecommendationUnavailable Kind = "RecommendationUnavailable"
	KindNoTracksResolved          Kind = "NoTracksResolved"
	KindPlaylistCreateFailed      Kind = "ProviderPlaylistCreateFailed"
)

// Error is a fatal pipeline failure. Non-fatal conditions never surface as
// Error values; they are annotated on the Result instead.
type Error struct {
	Kind   Kind
	Status int    // HTTP-style status for the caller
	Raw    string // raw upstream payload, for diagnostics
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func quotaExceeded(max int) *Error {
	return &Error{
		Kind:   KindQuotaExceeded,
		Status: http.StatusForbidden,
		Err:    fmt.Errorf("maximum of %d playlists reached, delete some to create new ones", max),
	}
}

func missingInput(msg string) *Error {
	return &Error{
		Kind:   KindMissingInput,
		Status: http.StatusBadRequest,
		Err:    errors.New(msg),
	}
}

func suggestionParseError(raw string, err error) *Error {
	return &Error{
		Kind:   KindSuggestionParseError,
		Status: http.StatusBadGateway,
		Raw:    raw,
		Err:    err,
	}
}

func recommendationUnavailable(err error) *Error {
	return &Error{
		Kind:   KindRecommendationUnavailable,
		Status: http.StatusBadGateway,
		Err:    err,
	}
}

func noTracksResolved() *Error {
	return &Error{
		Kind:   KindNoTracksResolved,
		Status: http.StatusNotFound,
		Err:    errors.New("none of the suggested songs resolved to provider tracks"),
	}
}

func playlistCreateFailed(err error) *Error {
	status := http.StatusBadGateway
	var statusErr *musicapi.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.StatusCode
	}
	return &Error{
		Kind:   KindPlaylistCreateFailed,
		Status: status,
		Err:    err,
	}
}
