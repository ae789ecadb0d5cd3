// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/smsboard/internal/models"
)

// postSMS sends an ingest request with the given key and body.
func postSMS(h *Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/sms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(apiKeyHeader, key)
	}

	rec := httptest.NewRecorder()
	h.HandleSMSReceive(rec, req)
	return rec
}

func TestSMSReceiveRejectsMissingKey(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, "", `{"sender":"+15550100","text":"hello"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	resp := decodeEnvelope(t, rec.Body.Bytes())
	if resp.Error == nil || resp.Error.Code != models.ErrCodeUnauthorized {
		t.Errorf("error = %+v, want code %s", resp.Error, models.ErrCodeUnauthorized)
	}

	// A rejected request must leave no trace in storage.
	if store.count() != 0 {
		t.Errorf("stored messages = %d, want 0", store.count())
	}
}

func TestSMSReceiveRejectsWrongKey(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, "wrong-secret", `{"sender":"+15550100","text":"hello"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if store.count() != 0 {
		t.Errorf("stored messages = %d, want 0", store.count())
	}
}

func TestSMSReceiveRejectsWhenKeyUnconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Security.APISecretKey = ""
	store := &fakeStore{}
	h, _ := newTestHandler(t, cfg, store)

	// Even an empty provided key must not match an empty configured key.
	rec := postSMS(h, "", `{"sender":"a","text":"b"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSMSReceiveStoresMessage(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, testAPIKey, `{"sender":"+15550100","text":"hello world"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\nbody: %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec.Body.Bytes())
	if resp.Status != "success" {
		t.Errorf("envelope status = %q, want success", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	if data["sender"] != "+15550100" || data["text"] != "hello world" {
		t.Errorf("data = %v", data)
	}
	if id, ok := data["id"].(float64); !ok || id < 1 {
		t.Errorf("id = %v, want positive integer", data["id"])
	}

	if store.count() != 1 {
		t.Errorf("stored messages = %d, want 1", store.count())
	}
}

func TestSMSReceiveAcceptsEmptyStrings(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, testAPIKey, `{"sender":"","text":""}`)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201 for empty string fields\nbody: %s", rec.Code, rec.Body.String())
	}
}

func TestSMSReceiveRejectsMissingField(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, testAPIKey, `{"sender":"+15550100"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	resp := decodeEnvelope(t, rec.Body.Bytes())
	if resp.Error == nil || resp.Error.Code != models.ErrCodeValidation {
		t.Fatalf("error = %+v, want code %s", resp.Error, models.ErrCodeValidation)
	}
	if !strings.Contains(resp.Error.Message, "Text is required") {
		t.Errorf("message = %q, want mention of missing Text", resp.Error.Message)
	}

	if store.count() != 0 {
		t.Errorf("stored messages = %d, want 0", store.count())
	}
}

func TestSMSReceiveRejectsMalformedJSON(t *testing.T) {
	store := &fakeStore{}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, testAPIKey, `{"sender": not json`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if store.count() != 0 {
		t.Errorf("stored messages = %d, want 0", store.count())
	}
}

func TestSMSReceiveStorageFailure(t *testing.T) {
	store := &fakeStore{failInsert: true}
	h, _ := newTestHandler(t, testConfig(), store)

	rec := postSMS(h, testAPIKey, `{"sender":"+15550100","text":"hello"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	resp := decodeEnvelope(t, rec.Body.Bytes())
	if resp.Error == nil || resp.Error.Code != models.ErrCodeStorage {
		t.Errorf("error = %+v, want code %s", resp.Error, models.ErrCodeStorage)
	}
}
