// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"bytes"
	"net/http"

	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/models"
)

// indexRow is one rendered history row. Fields are plain strings; the
// template escapes them, matching the escaping of pushed row fragments.
type indexRow struct {
	Time   string
	Sender string
	Text   string
}

// indexData is the data passed to the viewer page template.
type indexData struct {
	Rows         []indexRow
	HistoryLimit int
}

// HandleIndex serves the viewer page behind Basic auth. The page carries the
// most recent messages newest-first; live updates arrive over /ws.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	username, err := h.basicAuth.ValidateCredentials(r.Header.Get("Authorization"))
	if err != nil {
		w.Header().Set("WWW-Authenticate", h.basicAuth.GetWWWAuthenticateHeader())
		respondError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized,
			"authentication required", nil)
		return
	}

	messages, err := h.store.ListRecent(r.Context(), h.cfg.Viewer.HistoryLimit, 0)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to load message history")
		respondError(w, http.StatusInternalServerError, models.ErrCodeStorage,
			"failed to load message history", nil)
		return
	}

	data := indexData{
		Rows:         make([]indexRow, 0, len(messages)),
		HistoryLimit: h.cfg.Viewer.HistoryLimit,
	}
	for i := range messages {
		msg := &messages[i]
		data.Rows = append(data.Rows, indexRow{
			Time:   msg.ReceivedAt.UTC().Format(models.TableRowTimeFormat),
			Sender: msg.Sender,
			Text:   msg.Text,
		})
	}

	// Render to a buffer first so a template failure yields a clean 500
	// instead of a truncated page.
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to render viewer page")
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
			"failed to render page", nil)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("username", sanitizeLogValue(username)).
		Int("rows", len(data.Rows)).
		Msg("viewer page served")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write viewer page")
	}
}
