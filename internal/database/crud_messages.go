// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/smsboard/internal/metrics"
	"github.com/tomtom215/smsboard/internal/models"
)

// InsertMessage stores a new message and returns the persisted record.
// The server assigns received_at at insert time (UTC); the ID comes from the
// messages_id_seq sequence. The returned record reflects the committed row.
func (db *DB) InsertMessage(ctx context.Context, sender, text string) (*models.Message, error) {
	receivedAt := time.Now().UTC()

	start := time.Now()
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO messages (sender, text, received_at) VALUES (?, ?, ?) RETURNING id`,
		sender, text, receivedAt,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "messages", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return &models.Message{
		ID:         id,
		Sender:     sender,
		Text:       text,
		ReceivedAt: receivedAt,
	}, nil
}

// ListRecent returns stored messages newest-first. Ties on received_at are
// broken by id descending, so later insertions sort first. A limit of 0
// returns an empty slice; negative limit or offset is rejected.
func (db *DB) ListRecent(ctx context.Context, limit, offset int) ([]models.Message, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", limit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative, got %d", offset)
	}
	if limit == 0 {
		return []models.Message{}, nil
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, sender, text, received_at
		 FROM messages
		 ORDER BY received_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	metrics.RecordDBQuery("list_recent", "messages", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer closeQuietly(rows)

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Text, &msg.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.ReceivedAt = msg.ReceivedAt.UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}

	return messages, nil
}

// CountMessages returns the total number of stored messages.
func (db *DB) CountMessages(ctx context.Context) (int64, error) {
	start := time.Now()
	var count int64
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	metrics.RecordDBQuery("count", "messages", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}
