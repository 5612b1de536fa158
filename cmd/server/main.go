package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/eventbuddy/backend/internal/auth"
	"github.com/eventbuddy/backend/internal/config"
	"github.com/eventbuddy/backend/internal/server"
	"github.com/eventbuddy/backend/internal/storage/sqlite"
	"github.com/eventbuddy/backend/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	srv := server.New(store, authenticator, jwtManager)
	router := srv.Router(cfg.AllowedOrigins)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
