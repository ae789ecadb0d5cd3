// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

// Package main is the entry point for the SMSBoard server.
//
// SMSBoard receives SMS messages forwarded by a phone-side automation app,
// persists them in DuckDB, and pushes each new message to a password-protected
// live web page over WebSockets.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. Database: DuckDB file with the messages table
//  3. WebSocket hub: fan-out of stored rows to connected viewers
//  4. Authentication: ingest API key guard and viewer Basic auth
//  5. HTTP server: ingest endpoint, viewer page, /ws, health and metrics
//
// Components 3 and 5 run under a suture supervision tree.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required for a working deployment:
//   - API_SECRET_KEY: shared secret the forwarding app presents in x-api-key
//   - SITE_USERNAME / SITE_PASSWORD: Basic-auth credentials for the viewer page
//
// Leaving any of these unset does not prevent startup; the affected endpoint
// simply rejects every request and a warning is logged.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes all websocket viewers and the database
//
// # Example Usage
//
//	export API_SECRET_KEY=$(openssl rand -hex 32)
//	export SITE_USERNAME=admin
//	export SITE_PASSWORD=secure-password
//	export DUCKDB_PATH=/data/smsboard.duckdb
//	./smsboard
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/smsboard/internal/api"
	"github.com/tomtom215/smsboard/internal/auth"
	"github.com/tomtom215/smsboard/internal/config"
	"github.com/tomtom215/smsboard/internal/database"
	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/supervisor"
	"github.com/tomtom215/smsboard/internal/supervisor/services"
	ws "github.com/tomtom215/smsboard/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config is not available yet
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("listen", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Int("history_limit", cfg.Viewer.HistoryLimit).
		Msg("Configuration loaded")

	// Unconfigured credentials are a warning, not a fatal error: the
	// affected guard denies every request until credentials are set.
	if !cfg.HasAPISecret() {
		logging.Warn().Msg("API_SECRET_KEY is not set - all ingest requests will be rejected")
	}
	if !cfg.HasSiteCredentials() {
		logging.Warn().Msg("SITE_USERNAME/SITE_PASSWORD are not set - the viewer page will reject all logins")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsHub := ws.NewHub()

	apiKeyGuard := auth.NewAPIKeyGuard(cfg.Security.APISecretKey)

	var basicAuthManager *auth.BasicAuthManager
	if cfg.HasSiteCredentials() {
		basicAuthManager, err = auth.NewBasicAuthManager(cfg.Security.SiteUsername, cfg.Security.SitePassword)
	} else {
		basicAuthManager, err = auth.NewDenyAllBasicAuthManager()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
	}

	handler, err := api.NewHandler(cfg, db, wsHub, apiKeyGuard, basicAuthManager)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize HTTP handlers")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// The slog adapter bridges zerolog to sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
