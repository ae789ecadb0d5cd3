// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

// Package api wires the HTTP surface of the service: the SMS ingest endpoint,
// the Basic-auth viewer page, the websocket push route, health and metrics.
package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/smsboard/internal/auth"
	"github.com/tomtom215/smsboard/internal/config"
	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/metrics"
	"github.com/tomtom215/smsboard/internal/models"
	"github.com/tomtom215/smsboard/internal/templates"
	ws "github.com/tomtom215/smsboard/internal/websocket"
)

// MessageStore is the persistence surface the handlers depend on.
// *database.DB satisfies it.
type MessageStore interface {
	InsertMessage(ctx context.Context, sender, text string) (*models.Message, error)
	ListRecent(ctx context.Context, limit, offset int) ([]models.Message, error)
	CountMessages(ctx context.Context) (int64, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	store     MessageStore
	hub       *ws.Hub
	apiKey    *auth.APIKeyGuard
	basicAuth *auth.BasicAuthManager
	tmpl      *template.Template
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewHandler creates a Handler. When cfg.Viewer.TemplatePath is empty the
// embedded viewer template is used.
func NewHandler(cfg *config.Config, store MessageStore, hub *ws.Hub,
	apiKey *auth.APIKeyGuard, basicAuth *auth.BasicAuthManager) (*Handler, error) {

	tmpl := templates.Index()
	if cfg.Viewer.TemplatePath != "" {
		custom, err := template.ParseFiles(cfg.Viewer.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse viewer template %s: %w", cfg.Viewer.TemplatePath, err)
		}
		tmpl = custom
	}

	return &Handler{
		cfg:       cfg,
		store:     store,
		hub:       hub,
		apiKey:    apiKey,
		basicAuth: basicAuth,
		tmpl:      tmpl,
		upgrader:  newUpgrader(cfg.Security.CORSOrigins),
		startTime: time.Now(),
	}, nil
}

// newUpgrader builds the websocket upgrader with origin checking against the
// configured CORS origins.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return checkWebSocketOrigin(r, allowedOrigins)
		},
	}
}

// checkWebSocketOrigin validates the Origin header against the allowed list.
// Requests without an Origin header are admitted; non-browser clients
// (monitoring probes, CLI tools) do not send one and the endpoint itself
// only pushes data.
func checkWebSocketOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}

	return false
}

// HandleWebSocket upgrades the connection and registers the client with the
// hub. After Start the client's pumps own the connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}

// HandleHealth reports service liveness, uptime and basic counters.
// Storage trouble degrades the report instead of failing the endpoint.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"clients":        h.hub.GetClientCount(),
	}

	count, err := h.store.CountMessages(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("health check failed to count messages")
		data["status"] = "degraded"
		data["database"] = "unreachable"
	} else {
		data["messages"] = count
	}

	respondJSON(w, r, http.StatusOK, data)
}
