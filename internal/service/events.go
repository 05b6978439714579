// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
)

// Event levels and categories.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"

	EventCategoryAuth        = "auth"
	EventCategoryContent     = "content"
	EventCategoryTranslation = "translation"
	EventCategoryCache       = "cache"
	EventCategorySystem      = "system"
)

// EventService records and reads the audit log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    userID,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Debug("failed to log event", "error", err)
	}
	return err
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID *int64, metadata map[string]any) error {
	return s.LogEvent(ctx, level, EventCategoryAuth, message, userID, metadata)
}

// List returns one page of events matching message or category.
func (s *EventService) List(ctx context.Context, req listing.Request) (listing.Page[store.Event], error) {
	return s.queries.ListEvents(ctx, req)
}

// Prune deletes events older than retention and returns how many went.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-retention))
}
