// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/vitrine/internal/service"
)

// RetentionSchedule runs the event log purge every night at 03:15.
const RetentionSchedule = "15 3 * * *"

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// JobInfo describes a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	NextRun  time.Time
	LastRun  time.Time
}

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
}

// Scheduler handles scheduled maintenance such as event log retention.
type Scheduler struct {
	cron      *cron.Cron
	events    *service.EventService
	retention time.Duration
	logger    *slog.Logger
	jobs      []job
}

// New creates a scheduler. A retention <= 0 disables the event purge.
func New(events *service.EventService, retention time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(),
		events:    events,
		retention: retention,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.events != nil && s.retention > 0 {
		if err := s.add("event-retention", RetentionSchedule, func(ctx context.Context) error {
			_, err := s.PruneEvents(ctx)
			return err
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs lists the registered jobs with their next and last run.
func (s *Scheduler) Jobs() []JobInfo {
	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		infos = append(infos, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			NextRun:  entry.Next,
			LastRun:  entry.Prev,
		})
	}
	return infos
}

// PruneEvents deletes audit events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	n, err := s.events.Prune(ctx, s.retention)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned old events", "count", n, "retention", s.retention.String())
	}
	return n, nil
}

func (s *Scheduler) add(name, schedule string, fn func(ctx context.Context) error) error {
	id, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	s.jobs = append(s.jobs, job{name: name, schedule: schedule, entryID: id})
	return nil
}
