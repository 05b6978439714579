// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/vitrine/internal/listing"
)

const eventColumns = "id, level, category, message, user_id, metadata, created_at"

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.CreatedAt)
	return e, err
}

// EventList lists audit events by message or category, newest first.
var EventList = ListSpec[Event]{
	From:    "events",
	Columns: eventColumns,
	Search:  []string{"message", "category"},
	OrderBy: "created_at DESC, id DESC",
	Scan:    scanEvent,
}

// CreateEventParams holds the columns of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    *int64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an audit event.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	if arg.CreatedAt.IsZero() {
		arg.CreatedAt = now()
	}
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.CreatedAt.UTC())
	if err != nil {
		return Event{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Event{}, err
	}
	return scanEvent(q.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id))
}

// ListEvents returns one page of events.
func (q *Queries) ListEvents(ctx context.Context, req listing.Request) (listing.Page[Event], error) {
	return List(ctx, q.db, EventList, req)
}

// DeleteEventsBefore purges events older than cutoff and returns how many were removed.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
