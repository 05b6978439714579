// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrRunnerClosed is returned by Go after Close.
var ErrRunnerClosed = errors.New("translation runner closed")

// Runner runs translation jobs outside the request that scheduled them.
// Each job gets its own deadline; at most limit jobs run at once and
// extra jobs wait for a slot.
type Runner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	slots   chan struct{}
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRunner creates a Runner. limit <= 0 means 4.
func NewRunner(timeout time.Duration, limit int, logger *slog.Logger) *Runner {
	if limit <= 0 {
		limit = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		slots:   make(chan struct{}, limit),
		logger:  logger,
	}
}

// Go schedules job. The job's context is detached from the caller and
// bounded by the runner timeout.
func (r *Runner) Go(name string, job func(ctx context.Context) error) error {
	return r.GoWithin(name, r.timeout, job)
}

// GoWithin is Go with a deadline of its own; timeout <= 0 means none.
func (r *Runner) GoWithin(name string, timeout time.Duration, job func(ctx context.Context) error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRunnerClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		select {
		case r.slots <- struct{}{}:
		case <-r.ctx.Done():
			return
		}
		defer func() { <-r.slots }()

		ctx := r.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("translation job panicked", "category", "translation", "job", name, "panic", rec)
			}
		}()

		start := time.Now()
		if err := job(ctx); err != nil {
			r.logger.Warn("translation job failed", "category", "translation", "job", name, "error", err)
			return
		}
		r.logger.Debug("translation job done", "job", name, "duration", time.Since(start))
	}()
	return nil
}

// Wait blocks until every scheduled job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting jobs and waits for running ones until ctx ends,
// then cancels whatever is left.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}
