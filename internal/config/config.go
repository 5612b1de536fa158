// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Required outside of dev.
	JWTSecret string

	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration

	// AllowedOrigins is the CORS origin list; "*" allows all.
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine; env vars alone are a valid setup.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "./data/events.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       24 * time.Hour,
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},
	}

	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %q", raw)
		}
		cfg.TokenTTL = time.Duration(hours) * time.Hour
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
