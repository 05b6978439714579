// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func newLogger(t *testing.T) (*slog.Logger, *sql.DB) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return slog.New(NewEventLogHandler(discardHandler{}, db)), db
}

func events(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	page, err := store.New(db).ListEvents(context.Background(), listing.Request{Page: 1, PageSize: 100})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return page.Rows
}

func TestEventLogHandler_Levels(t *testing.T) {
	logger, db := newLogger(t)

	logger.Debug("debug detail")
	logger.Info("server started")
	logger.Warn("slow query detected", "duration_ms", 5000)
	logger.Error("database connection failed", "host", "localhost")

	got := events(t, db)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	// Newest first.
	if got[0].Level != service.EventLevelError || got[0].Message != "database connection failed" {
		t.Errorf("events[0] = %+v", got[0])
	}
	if got[1].Level != service.EventLevelWarning || got[1].Message != "slow query detected" {
		t.Errorf("events[1] = %+v", got[1])
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("ignored warning")
	logger.Error("kept error")

	got := events(t, db)
	if len(got) != 1 || got[0].Message != "kept error" {
		t.Fatalf("events = %+v", got)
	}
}

func TestEventLogHandler_Category(t *testing.T) {
	tests := []struct {
		message string
		args    []any
		want    string
	}{
		{"login failed", nil, service.EventCategoryAuth},
		{"translation failed, keeping source text", nil, service.EventCategoryTranslation},
		{"redis cache unavailable", nil, service.EventCategoryCache},
		{"blog shadow missing", nil, service.EventCategoryContent},
		{"disk almost full", nil, service.EventCategorySystem},
		{"something odd", []any{"category", "custom"}, "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			logger, db := newLogger(t)
			logger.Warn(tt.message, tt.args...)

			got := events(t, db)
			if len(got) != 1 {
				t.Fatalf("expected 1 event, got %d", len(got))
			}
			if got[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", got[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandler_Metadata(t *testing.T) {
	logger, db := newLogger(t)
	admin := testutil.CreateAdmin(t, db, "admin@example.com")

	logger.With("component", "api", "user_id", admin.ID).WithGroup("req").Warn("rate limited",
		"category", "security", "path", `/api/v1/"tags"`)

	got := events(t, db)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	ev := got[0]
	if ev.Category != "security" {
		t.Errorf("Category = %q", ev.Category)
	}
	if ev.UserID == nil || *ev.UserID != admin.ID {
		t.Errorf("UserID = %v, want %d", ev.UserID, admin.ID)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata %q is not JSON: %v", ev.Metadata, err)
	}
	if meta["component"] != "api" || meta["req.path"] != `/api/v1/"tags"` {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category copied into metadata")
	}
}

func TestEventLogHandler_EmptyMetadata(t *testing.T) {
	logger, db := newLogger(t)
	logger.Error("plain failure")

	got := events(t, db)
	if len(got) != 1 || got[0].Metadata != "{}" || got[0].UserID != nil {
		t.Fatalf("events = %+v", got)
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, service.EventLevelInfo},
		{slog.LevelInfo, service.EventLevelInfo},
		{slog.LevelWarn, service.EventLevelWarning},
		{slog.LevelError, service.EventLevelError},
		{slog.LevelError + 4, service.EventLevelError},
	}
	for _, tt := range tests {
		if got := slogLevelToEventLevel(tt.level); got != tt.want {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
