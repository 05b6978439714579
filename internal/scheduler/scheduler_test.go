// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
)

func TestScheduler_StartStop(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(service.NewEventService(db), 24*time.Hour, testutil.TestLoggerSilent())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].Name != "event-retention" || jobs[0].Schedule != RetentionSchedule {
		t.Fatalf("Jobs() = %+v", jobs)
	}
	if jobs[0].NextRun.IsZero() {
		t.Error("NextRun not computed")
	}
}

func TestScheduler_NoRetention(t *testing.T) {
	s := New(nil, 0, testutil.TestLoggerSilent())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()

	if len(s.Jobs()) != 0 {
		t.Errorf("Jobs() = %+v, want none", s.Jobs())
	}
}

func TestPruneEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)

	for _, age := range []time.Duration{48 * time.Hour, 72 * time.Hour, time.Hour} {
		if _, err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     service.EventLevelInfo,
			Category:  service.EventCategorySystem,
			Message:   "event",
			CreatedAt: time.Now().Add(-age),
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	s := New(service.NewEventService(db), 24*time.Hour, testutil.TestLoggerSilent())
	n, err := s.PruneEvents(ctx)
	if err != nil {
		t.Fatalf("PruneEvents: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d events, want 2", n)
	}
}
