package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moodlist/internal/auth"
	"moodlist/internal/playlistgen"
	"moodlist/internal/store"
	"moodlist/shared/go/logging"
	"moodlist/shared/go/models"
)

type stubVerifier struct {
	creds auth.Credentials
	err   error
}

func (s stubVerifier) Parse(token string) (*auth.Credentials, error) {
	if s.err != nil {
		return nil, s.err
	}
	creds := s.creds
	return &creds, nil
}

type stubGenerator struct {
	result  *playlistgen.Result
	err     error
	lastReq playlistgen.Request
	lastCtx context.Context
}

func (s *stubGenerator) Generate(ctx context.Context, creds auth.Credentials, req playlistgen.Request) (*playlistgen.Result, error) {
	s.lastReq = req
	s.lastCtx = ctx
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubPlaylistService struct {
	listResponse []*models.Playlist
	listErr      error

	getResponse *models.Playlist
	getErr      error

	deleteErr      error
	removeTrackErr error

	lastUserID     string
	lastPlaylistID int64
	lastTrackID    int64
}

func (s *stubPlaylistService) List(ctx context.Context, providerUserID string) ([]*models.Playlist, error) {
	s.lastUserID = providerUserID
	return s.listResponse, s.listErr
}

func (s *stubPlaylistService) Get(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error) {
	s.lastUserID = providerUserID
	s.lastPlaylistID = id
	return s.getResponse, s.getErr
}

func (s *stubPlaylistService) Delete(ctx context.Context, providerUserID string, id int64) error {
	s.lastUserID = providerUserID
	s.lastPlaylistID = id
	return s.deleteErr
}

func (s *stubPlaylistService) RemoveTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error {
	s.lastUserID = providerUserID
	s.lastPlaylistID = playlistID
	s.lastTrackID = trackID
	return s.removeTrackErr
}

func newTestServer(gen *stubGenerator, playlists *stubPlaylistService, verifier stubVerifier) http.Handler {
	if gen == nil {
		gen = &stubGenerator{}
	}
	if playlists == nil {
		playlists = &stubPlaylistService{}
	}
	return New(gen, playlists, verifier).Routes()
}

func validVerifier() stubVerifier {
	return stubVerifier{creds: auth.Credentials{
		ProviderUserID: "user-1",
		AccessToken:    "spotify-token",
	}}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(nil, nil, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGenerateRequiresAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		parse  error
	}{
		{name: "missing header", header: ""},
		{name: "malformed header", header: "Token abc"},
		{name: "invalid token", header: "Bearer bad", parse: auth.ErrInvalidToken},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			verifier := stubVerifier{err: tc.parse}
			if tc.parse == nil {
				verifier = validVerifier()
			}
			handler := newTestServer(nil, nil, verifier)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/generate", bytes.NewBufferString(`{"moodText":"happy"}`))
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGenerator{result: &playlistgen.Result{
		Playlist: playlistgen.PlaylistResult{
			ID:                 7,
			ProviderPlaylistID: "pl-1",
			Name:               "AI Playlist: Positive",
			Mood:               "positive",
		},
	}}
	handler := newTestServer(gen, nil, validVerifier())

	body := `{"moodText":"feeling great","numSongs":8}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/generate", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if gen.lastReq.FreeText != "feeling great" || gen.lastReq.DesiredCount != 8 {
		t.Errorf("request not decoded: %+v", gen.lastReq)
	}

	var result playlistgen.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Playlist.Name != "AI Playlist: Positive" {
		t.Errorf("unexpected playlist name %q", result.Playlist.Name)
	}
}

func TestAuthenticateStampsUserIDOnContext(t *testing.T) {
	gen := &stubGenerator{result: &playlistgen.Result{}}
	handler := newTestServer(gen, nil, validVerifier())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/generate", bytes.NewBufferString(`{"moodText":"happy"}`))
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gen.lastCtx == nil {
		t.Fatal("generator never called")
	}
	if got, _ := gen.lastCtx.Value(logging.UserIDKey).(string); got != "user-1" {
		t.Errorf("expected user id on context, got %q", got)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	handler := newTestServer(nil, nil, validVerifier())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "quota",
			err:        &playlistgen.Error{Kind: playlistgen.KindQuotaExceeded, Status: http.StatusForbidden, Err: errors.New("limit")},
			wantStatus: http.StatusForbidden,
			wantKind:   "QuotaExceeded",
		},
		{
			name:       "missing input",
			err:        &playlistgen.Error{Kind: playlistgen.KindMissingInput, Status: http.StatusBadRequest, Err: errors.New("no text")},
			wantStatus: http.StatusBadRequest,
			wantKind:   "MissingInput",
		},
		{
			name:       "no tracks",
			err:        &playlistgen.Error{Kind: playlistgen.KindNoTracksResolved, Status: http.StatusNotFound, Err: errors.New("none")},
			wantStatus: http.StatusNotFound,
			wantKind:   "NoTracksResolved",
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{err: tc.err}
			handler := newTestServer(gen, nil, validVerifier())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/generate", bytes.NewBufferString(`{"moodText":"happy"}`))
			req.Header.Set("Authorization", "Bearer jwt-token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantKind != "" {
				var body struct {
					Kind string `json:"kind"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if body.Kind != tc.wantKind {
					t.Errorf("expected kind %q, got %q", tc.wantKind, body.Kind)
				}
			}
		})
	}
}

func TestListPlaylists(t *testing.T) {
	playlists := &stubPlaylistService{listResponse: []*models.Playlist{
		{ID: 1, Name: "AI Playlist: Positive"},
		{ID: 2, Name: "AI Playlist: Neutral"},
	}}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if playlists.lastUserID != "user-1" {
		t.Errorf("expected lookup by provider user id, got %q", playlists.lastUserID)
	}

	var body struct {
		Playlists []*models.Playlist `json:"playlists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Playlists) != 2 {
		t.Errorf("expected 2 playlists, got %d", len(body.Playlists))
	}
}

func TestListPlaylistsEmpty(t *testing.T) {
	handler := newTestServer(nil, &stubPlaylistService{}, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); !bytes.Contains([]byte(got), []byte(`"playlists":[]`)) {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestGetPlaylist(t *testing.T) {
	playlists := &stubPlaylistService{getResponse: &models.Playlist{ID: 5, Name: "AI Playlist: Negative"}}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/5", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if playlists.lastPlaylistID != 5 {
		t.Errorf("expected lookup of playlist 5, got %d", playlists.lastPlaylistID)
	}
	if playlists.lastUserID != "user-1" {
		t.Errorf("expected lookup scoped to caller, got %q", playlists.lastUserID)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	playlists := &stubPlaylistService{getErr: store.ErrPlaylistNotFound}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/99", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetPlaylistNotOwner(t *testing.T) {
	playlists := &stubPlaylistService{getErr: store.ErrNotOwner}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/5", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestDeletePlaylist(t *testing.T) {
	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusNoContent},
		{name: "not found", deleteErr: store.ErrPlaylistNotFound, wantStatus: http.StatusNotFound},
		{name: "not owner", deleteErr: store.ErrNotOwner, wantStatus: http.StatusForbidden},
		{name: "db failure", deleteErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			playlists := &stubPlaylistService{deleteErr: tc.deleteErr}
			handler := newTestServer(nil, playlists, validVerifier())

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/3", nil)
			req.Header.Set("Authorization", "Bearer jwt-token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if playlists.lastPlaylistID != 3 || playlists.lastUserID != "user-1" {
				t.Errorf("delete routed with wrong identifiers: id=%d user=%q", playlists.lastPlaylistID, playlists.lastUserID)
			}
		})
	}
}

func TestDeletePlaylistInvalidID(t *testing.T) {
	handler := newTestServer(nil, &stubPlaylistService{}, validVerifier())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/abc", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteTrack(t *testing.T) {
	playlists := &stubPlaylistService{}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/3/tracks/11", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if playlists.lastPlaylistID != 3 || playlists.lastTrackID != 11 {
		t.Errorf("remove routed with wrong identifiers: playlist=%d track=%d", playlists.lastPlaylistID, playlists.lastTrackID)
	}
}

func TestDeleteTrackNotFound(t *testing.T) {
	playlists := &stubPlaylistService{removeTrackErr: store.ErrTrackNotFound}
	handler := newTestServer(nil, playlists, validVerifier())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/3/tracks/11", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
