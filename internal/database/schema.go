// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the message table, its ID sequence and indexes.
// All statements are idempotent so startup against an existing file is safe.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		// Sequence-backed IDs make insertion order recoverable even when
		// received_at timestamps collide.
		`CREATE SEQUENCE IF NOT EXISTS messages_id_seq`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGINT PRIMARY KEY DEFAULT nextval('messages_id_seq'),
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			received_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_received_at ON messages(received_at)`,
	}
}
