// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package auth

import (
	"crypto/subtle"
)

// APIKeyGuard validates the shared secret presented in the x-api-key header
// of ingest requests. The guard is stateless and fails closed: an
// unconfigured secret or an empty provided key is always rejected.
type APIKeyGuard struct {
	secret     []byte
	configured bool
}

// NewAPIKeyGuard creates a guard for the given shared secret. An empty
// secret yields a guard that denies every request.
func NewAPIKeyGuard(secret string) *APIKeyGuard {
	return &APIKeyGuard{
		secret:     []byte(secret),
		configured: secret != "",
	}
}

// Configured reports whether a secret is set.
func (g *APIKeyGuard) Configured() bool {
	return g.configured
}

// Validate checks the provided key against the configured secret using a
// constant-time comparison.
func (g *APIKeyGuard) Validate(provided string) bool {
	if !g.configured || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(provided)) == 1
}
