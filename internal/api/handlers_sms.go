// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"net/http"

	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/metrics"
	"github.com/tomtom215/smsboard/internal/models"
)

// apiKeyHeader carries the shared ingest secret.
const apiKeyHeader = "x-api-key"

// HandleSMSReceive accepts a forwarded SMS, persists it and pushes the
// rendered row to connected viewers.
//
// The order is fixed: authenticate, validate, insert, broadcast, respond.
// A request rejected by the key check causes no storage write and no push.
// A failed insert causes no push. The broadcast is enqueued before the 201
// is written, so a pushed row always refers to a committed record.
func (h *Handler) HandleSMSReceive(w http.ResponseWriter, r *http.Request) {
	if !h.apiKey.Validate(r.Header.Get(apiKeyHeader)) {
		metrics.RecordSMSRejected("unauthorized")
		respondError(w, http.StatusUnauthorized, models.ErrCodeUnauthorized,
			"invalid or missing API key", nil)
		return
	}

	var req models.SMSRequest
	if !decodeAndValidate(w, r, &req) {
		metrics.RecordSMSRejected("validation")
		return
	}

	msg, err := h.store.InsertMessage(r.Context(), *req.Sender, *req.Text)
	if err != nil {
		metrics.RecordSMSRejected("storage")
		logging.Ctx(r.Context()).Error().Err(err).
			Str("sender", sanitizeLogValue(*req.Sender)).
			Msg("failed to store message")
		respondError(w, http.StatusInternalServerError, models.ErrCodeStorage,
			"failed to store message", nil)
		return
	}

	h.hub.Broadcast(msg.TableRow())
	metrics.RecordSMSReceived()

	logging.Ctx(r.Context()).Info().
		Int64("message_id", msg.ID).
		Str("sender", sanitizeLogValue(msg.Sender)).
		Int("text_length", len(msg.Text)).
		Msg("message stored")

	respondJSON(w, r, http.StatusCreated, msg)
}
