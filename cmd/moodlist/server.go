package main

import (
	"net/http"

	"moodlist/internal/app/playlists"
	"moodlist/internal/auth"
	"moodlist/internal/genai"
	"moodlist/internal/httpapi"
	"moodlist/internal/musicapi"
	"moodlist/internal/playlistgen"
	"moodlist/internal/store"
	"moodlist/shared/go/middleware"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	var spotifyOpts []musicapi.SpotifyOption
	if cfg.SpotifyAPIURL != "" {
		spotifyOpts = append(spotifyOpts, musicapi.WithBaseURL(cfg.SpotifyAPIURL))
	}
	provider := musicapi.NewSpotifyClient(spotifyOpts...)

	var geminiOpts []genai.GeminiOption
	if cfg.GeminiAPIURL != "" {
		geminiOpts = append(geminiOpts, genai.WithBaseURL(cfg.GeminiAPIURL))
	}
	textGen := genai.NewGeminiClient(cfg.GeminiAPIKey, geminiOpts...)

	generator := playlistgen.NewService(dataStore, provider, textGen)
	playlistSvc := playlists.New(dataStore)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	handler := httpapi.New(generator, playlistSvc, verifier).Routes()
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	return handler
}
