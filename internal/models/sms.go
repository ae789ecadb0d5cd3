// SMSBoard - Real-Time SMS Ingest and Viewer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smsboard

package models

import (
	"fmt"
	"html"
	"time"
)

// TableRowTimeFormat is the timestamp layout used in pushed and rendered
// history rows.
const TableRowTimeFormat = "2006-01-02 15:04:05"

// Message is a stored SMS record.
//
// ReceivedAt is assigned by the server at insert time and is always UTC.
type Message struct {
	ID         int64     `json:"id"`
	Sender     string    `json:"sender"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// SMSRequest is the ingest payload for POST /api/sms.
//
// Both fields are pointers so that a missing key can be distinguished from an
// empty string. Empty strings are accepted; absent fields are not.
type SMSRequest struct {
	Sender *string `json:"sender" validate:"required"`
	Text   *string `json:"text" validate:"required"`
}

// TableRow renders the message as an HTML table row fragment. This is the
// exact payload pushed to connected viewers and the row shape rendered on the
// history page. Sender and text are HTML-escaped; the timestamp is UTC.
func (m *Message) TableRow() string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
		m.ReceivedAt.UTC().Format(TableRowTimeFormat),
		html.EscapeString(m.Sender),
		html.EscapeString(m.Text),
	)
}
