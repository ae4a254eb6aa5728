package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"moodlist/internal/auth"
	"moodlist/internal/playlistgen"
	"moodlist/shared/go/logging"
	"moodlist/shared/go/models"
)

// GenerateService runs the mood-to-playlist pipeline.
type GenerateService interface {
	Generate(ctx context.Context, creds auth.Credentials, req playlistgen.Request) (*playlistgen.Result, error)
}

// PlaylistService coordinates playlist catalog operations.
type PlaylistService interface {
	List(ctx context.Context, providerUserID string) ([]*models.Playlist, error)
	Get(ctx context.Context, providerUserID string, id int64) (*models.Playlist, error)
	Delete(ctx context.Context, providerUserID string, id int64) error
	RemoveTrack(ctx context.Context, providerUserID string, playlistID, trackID int64) error
}

// TokenVerifier authenticates bearer tokens into provider credentials.
type TokenVerifier interface {
	Parse(token string) (*auth.Credentials, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	generator GenerateService
	playlists PlaylistService
	verifier  TokenVerifier
}

// New configures a Server with the given service implementations.
func New(generator GenerateService, playlists PlaylistService, verifier TokenVerifier) *Server {
	return &Server{
		generator: generator,
		playlists: playlists,
		verifier:  verifier,
	}
}

// Routes exposes the HTTP handlers for playlist generation and management.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/playlists/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/v1/playlists", s.handleListPlaylists)
	mux.HandleFunc("GET /api/v1/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/tracks/{trackId}", s.handleDeleteTrack)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// authenticate resolves the Authorization header into provider credentials
// and stamps the caller's id onto the request context for downstream logs.
// It writes the failure response itself and reports ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (auth.Credentials, *http.Request, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return auth.Credentials{}, r, false
	}

	creds, err := s.verifier.Parse(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid bearer token"})
		return auth.Credentials{}, r, false
	}

	ctx := context.WithValue(r.Context(), logging.UserIDKey, creds.ProviderUserID)
	return *creds, r.WithContext(ctx), true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
