package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"moodlist/internal/playlistgen"
	"moodlist/internal/store"
	"moodlist/shared/go/models"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	creds, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req playlistgen.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	result, err := s.generator.Generate(r.Context(), creds, req)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// writeGenerateError maps pipeline failures onto HTTP responses. Kinds carry
// their own status so callers can distinguish quota, input, and upstream
// failures without parsing text.
func writeGenerateError(w http.ResponseWriter, err error) {
	var genErr *playlistgen.Error
	if errors.As(err, &genErr) {
		writeJSON(w, genErr.Status, struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}{
			Error: genErr.Error(),
			Kind:  string(genErr.Kind),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "playlist generation failed"})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	creds, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlists, err := s.playlists.List(r.Context(), creds.ProviderUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list playlists"})
		return
	}

	if playlists == nil {
		playlists = []*models.Playlist{}
	}
	writeJSON(w, http.StatusOK, struct {
		Playlists []*models.Playlist `json:"playlists"`
	}{Playlists: playlists})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	creds, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist ID"})
		return
	}

	playlist, err := s.playlists.Get(r.Context(), creds.ProviderUserID, id)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	creds, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist ID"})
		return
	}

	if err := s.playlists.Delete(r.Context(), creds.ProviderUserID, id); err != nil {
		writeOwnershipError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	creds, r, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist ID"})
		return
	}
	trackID, err := strconv.ParseInt(r.PathValue("trackId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid track ID"})
		return
	}

	if err := s.playlists.RemoveTrack(r.Context(), creds.ProviderUserID, playlistID, trackID); err != nil {
		writeOwnershipError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeOwnershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPlaylistNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "playlist not found"})
	case errors.Is(err, store.ErrTrackNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "track not found"})
	case errors.Is(err, store.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not the playlist owner"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "playlist request failed"})
	}
}
