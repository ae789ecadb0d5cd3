// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

// Package config provides centralized configuration management for SMSBoard.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Server.Port, cfg.Database.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Viewer   ViewerConfig   `koanf:"viewer"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8000)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/smsboard.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU() (default: 0)
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// SecurityConfig holds the two credential checks and CORS settings.
//
// Environment Variables:
//   - API_SECRET_KEY: Shared secret for the SMS ingest endpoint
//   - SITE_USERNAME: Basic-auth username for the viewer page
//   - SITE_PASSWORD: Basic-auth password for the viewer page
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//
// Any credential left empty causes the corresponding guard to deny all
// requests. A startup warning is logged so the misconfiguration is visible.
type SecurityConfig struct {
	APISecretKey string   `koanf:"api_secret_key"`
	SiteUsername string   `koanf:"site_username"`
	SitePassword string   `koanf:"site_password"`
	CORSOrigins  []string `koanf:"cors_origins"`
}

// ViewerConfig holds viewer page settings.
//
// Environment Variables:
//   - VIEWER_HISTORY_LIMIT: Rows rendered on the history page (default: 50)
//   - VIEWER_TEMPLATE_PATH: Custom page template (default: built-in)
//   - VIEWER_STATIC_DIR: Directory served under /static/ (default: disabled)
type ViewerConfig struct {
	HistoryLimit int    `koanf:"history_limit"`
	TemplatePath string `koanf:"template_path"`
	StaticDir    string `koanf:"static_dir"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads and validates the configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Validate checks the configuration for malformed values.
// Missing credentials are not an error here; the affected guard denies all
// requests and a startup warning is logged instead.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database threads must not be negative, got %d", c.Database.Threads)
	}
	if c.Viewer.HistoryLimit < 1 {
		return fmt.Errorf("viewer history limit must be at least 1, got %d", c.Viewer.HistoryLimit)
	}
	return nil
}

// HasAPISecret reports whether the ingest secret is configured.
func (c *Config) HasAPISecret() bool {
	return c.Security.APISecretKey != ""
}

// HasSiteCredentials reports whether the viewer credentials are configured.
func (c *Config) HasSiteCredentials() bool {
	return c.Security.SiteUsername != "" && c.Security.SitePassword != ""
}
