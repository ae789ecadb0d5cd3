// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package api

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/smsboard/internal/auth"
	"github.com/tomtom215/smsboard/internal/config"
	"github.com/tomtom215/smsboard/internal/logging"
	"github.com/tomtom215/smsboard/internal/models"
	ws "github.com/tomtom215/smsboard/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

const (
	testAPIKey   = "test-secret"
	testUsername = "admin"
	testPassword = "hunter2"
)

// fixedReceivedAt keeps rendered timestamps predictable in assertions.
var fixedReceivedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory MessageStore for handler tests.
type fakeStore struct {
	mu         sync.Mutex
	messages   []models.Message
	nextID     int64
	failInsert bool
	failList   bool
}

func (s *fakeStore) InsertMessage(_ context.Context, sender, text string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failInsert {
		return nil, errors.New("write failed")
	}

	s.nextID++
	msg := models.Message{
		ID:         s.nextID,
		Sender:     sender,
		Text:       text,
		ReceivedAt: fixedReceivedAt,
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *fakeStore) ListRecent(_ context.Context, limit, offset int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failList {
		return nil, errors.New("read failed")
	}

	// Newest first: insertion order reversed.
	out := make([]models.Message, 0, limit)
	for i := len(s.messages) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.messages[i])
	}
	return out, nil
}

func (s *fakeStore) CountMessages(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.messages)), nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// testConfig returns a config suitable for handler tests.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000, Timeout: 5 * time.Second},
		Security: config.SecurityConfig{
			APISecretKey: testAPIKey,
			SiteUsername: testUsername,
			SitePassword: testPassword,
			CORSOrigins:  []string{"*"},
		},
		Viewer: config.ViewerConfig{HistoryLimit: 50},
	}
}

// newTestHandler builds a Handler with a running hub and configured guards.
func newTestHandler(t *testing.T, cfg *config.Config, store MessageStore) (*Handler, *ws.Hub) {
	t.Helper()

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("hub did not stop after context cancel")
		}
	})

	basicAuth, err := auth.NewBasicAuthManager(cfg.Security.SiteUsername, cfg.Security.SitePassword)
	if err != nil {
		// Credentials not set in this test config: fall back to deny-all.
		basicAuth, err = auth.NewDenyAllBasicAuthManager()
		if err != nil {
			t.Fatalf("failed to create deny-all auth manager: %v", err)
		}
	}

	h, err := NewHandler(cfg, store, hub, auth.NewAPIKeyGuard(cfg.Security.APISecretKey), basicAuth)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return h, hub
}

// decodeEnvelope parses a response body into the standard envelope.
func decodeEnvelope(t *testing.T, body []byte) models.APIResponse {
	t.Helper()

	var resp models.APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response envelope: %v\nbody: %s", err, body)
	}
	return resp
}
