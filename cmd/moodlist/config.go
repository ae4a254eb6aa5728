package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL    string
	DBConnectWait  time.Duration
	Addr           string
	AllowedOrigins []string

	JWTSecret string

	SpotifyAPIURL string
	GeminiAPIKey  string
	GeminiAPIURL  string

	LogLevel  string
	LogFormat string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET env var is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY env var is required")
	}

	connectWait, err := time.ParseDuration(envOrDefault("DB_CONNECT_WAIT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONNECT_WAIT: %w", err)
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	return Config{
		DatabaseURL:    dsn,
		DBConnectWait:  connectWait,
		Addr:           addr,
		AllowedOrigins: origins,
		JWTSecret:      secret,
		SpotifyAPIURL:  os.Getenv("SPOTIFY_API_URL"),
		GeminiAPIKey:   apiKey,
		GeminiAPIURL:   os.Getenv("GEMINI_API_URL"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
