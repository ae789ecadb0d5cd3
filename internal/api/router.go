// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/smsboard/internal/config"
	"github.com/tomtom215/smsboard/internal/middleware"
)

// NewRouter assembles the HTTP routes with the shared middleware stack.
func NewRouter(h *Handler, cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", apiKeyHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// The websocket route stays outside the metrics wrapper: the wrapped
	// response writer does not implement http.Hijacker, which the upgrade
	// requires. Connection counts are tracked by the hub instead.
	r.Get("/ws", h.HandleWebSocket)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", h.HandleIndex)
		r.Get("/api/health", h.HandleHealth)
		r.Post("/api/sms", h.HandleSMSReceive)
	})

	if cfg.Viewer.StaticDir != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.Viewer.StaticDir)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	return r
}
