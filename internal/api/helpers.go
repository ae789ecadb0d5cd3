// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/models"
	"github.com/tomtom215/smsboard/internal/validation"
)

// maxLogValueLength limits user-supplied values in log output.
const maxLogValueLength = 100

// sanitizeLogValue neutralizes user-controlled input before logging.
// Newlines are escaped to prevent log injection and the value is truncated.
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", "\\n")
	value = strings.ReplaceAll(value, "\r", "\\r")

	if len(value) > maxLogValueLength {
		value = value[:maxLogValueLength] + "..."
	}

	return value
}

// generateETag computes a validator for a response body using FNV-1a.
func generateETag(body []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(body) // fnv.Write never returns an error
	return fmt.Sprintf(`"%016x"`, h.Sum64())
}

// respondJSON writes a success envelope. GET responses carry an ETag so
// pollers can use If-None-Match semantics at a proxy layer.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	resp := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method == http.MethodGet && status == http.StatusOK {
		w.Header().Set("ETag", generateETag(body))
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

// respondError writes an error envelope with a structured error code.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// decodeAndValidate decodes the request body into dst and validates it.
// On failure it writes a 422 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusUnprocessableEntity, models.ErrCodeValidation,
			"request body is not valid JSON", nil)
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}

	return true
}
