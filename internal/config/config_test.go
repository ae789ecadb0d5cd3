// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() failed: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("default timeout = %s, want 30s", cfg.Server.Timeout)
	}
	if cfg.Database.Path != "/data/smsboard.duckdb" {
		t.Errorf("default db path = %q", cfg.Database.Path)
	}
	if cfg.Viewer.HistoryLimit != 50 {
		t.Errorf("default history limit = %d, want 50", cfg.Viewer.HistoryLimit)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("default CORS origins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.HasAPISecret() {
		t.Error("API secret should be unconfigured by default")
	}
	if cfg.HasSiteCredentials() {
		t.Error("site credentials should be unconfigured by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("API_SECRET_KEY", "test-secret")
	t.Setenv("SITE_USERNAME", "admin")
	t.Setenv("SITE_PASSWORD", "hunter2")
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("VIEWER_HISTORY_LIMIT", "25")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Security.APISecretKey != "test-secret" {
		t.Errorf("api secret = %q", cfg.Security.APISecretKey)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Viewer.HistoryLimit != 25 {
		t.Errorf("history limit = %d, want 25", cfg.Viewer.HistoryLimit)
	}
	if !cfg.HasAPISecret() {
		t.Error("HasAPISecret() = false with secret set")
	}
	if !cfg.HasSiteCredentials() {
		t.Error("HasSiteCredentials() = false with credentials set")
	}
}

func TestCORSOriginsCommaSeparated(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() failed: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORS origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("CORS origin[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], origin)
		}
	}
}

func TestConfigFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9999\nviewer:\n  history_limit: 10\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port from file = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Viewer.HistoryLimit != 10 {
		t.Errorf("history limit from file = %d, want 10", cfg.Viewer.HistoryLimit)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7777")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() failed: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, true},
		{"zero history limit", func(c *Config) { c.Viewer.HistoryLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"API_SECRET_KEY", "security.api_secret_key"},
		{"SITE_USERNAME", "security.site_username"},
		{"SITE_PASSWORD", "security.site_password"},
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"LOG_LEVEL", "logging.level"},
		{"VIEWER_HISTORY_LIMIT", "viewer.history_limit"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
