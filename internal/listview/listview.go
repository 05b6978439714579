// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listview implements the controller behind a paginated, filterable
// list screen. It owns only ephemeral view state (page, filter text, the
// in-flight request) and re-queries its Fetcher for everything else.
//
// Filter edits are applied to the view at once but queried after a debounce
// window, and reset the page to 1. Page changes query immediately. Every
// query supersedes the previous one: its context is cancelled and its
// result, should it still arrive, is discarded. A refresh that lands past
// the last page (after deleting the only row of that page) is clamped to
// the new last page and queried again.
package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/olegiv/vitrine/internal/listing"
)

// DefaultDebounce is the delay between the last filter edit and the query.
const DefaultDebounce = 500 * time.Millisecond

// ErrPageOutOfRange is returned by GoTo for pages outside [1, TotalPages].
var ErrPageOutOfRange = errors.New("page out of range")

// ErrClosed is returned by operations on a closed controller.
var ErrClosed = errors.New("list view closed")

// errTimerReplaced reports a debounce timer that fired after being
// stopped or replaced. It never leaves the package.
var errTimerReplaced = errors.New("debounce timer replaced")

// Fetcher runs one listing query.
type Fetcher[T any] func(ctx context.Context, req listing.Request) (listing.Page[T], error)

// Status is the phase of the controller.
type Status int

// Controller phases.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a snapshot of the view.
type State[T any] struct {
	Status Status
	// Page is the page shown or being loaded.
	Page int
	// FilterText is what the user typed; Query is the filter of the
	// last issued request. They differ while a debounce is pending.
	FilterText string
	Query      string
	// Result is the last applied page. Loaded is false until one arrives.
	Result listing.Page[T]
	Loaded bool
	// Err is set in StatusFailed.
	Err error
}

// Pending reports whether a query is in flight or a filter edit waits
// for its debounce.
func (s State[T]) Pending() bool {
	return s.Status == StatusLoading || s.FilterText != s.Query
}

// Options configure a Controller.
type Options[T any] struct {
	PageSize int
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// OnChange is called after every state change, outside the lock.
	OnChange func(State[T])
}

// Controller is the list view state machine. It is safe for concurrent use;
// one Controller serves one list screen.
type Controller[T any] struct {
	fetch    Fetcher[T]
	pageSize int
	debounce time.Duration
	onChange func(State[T])

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	cancel context.CancelFunc
	timer  *time.Timer
	// timerGen numbers debounce timers so a late callback can tell it
	// was replaced.
	timerGen uint64
	closed   bool
	wg       sync.WaitGroup
}

// New creates a controller on page 1 with no filter. Call Load to issue
// the first query.
func New[T any](fetch Fetcher[T], opts Options[T]) *Controller[T] {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller[T]{
		fetch:    fetch,
		pageSize: opts.PageSize,
		debounce: debounce,
		onChange: opts.OnChange,
		state:    State[T]{Page: 1},
	}
}

// State returns a snapshot of the view.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load queries the current page and filter.
func (c *Controller[T]) Load() error {
	return c.change(func() error {
		c.issueLocked(c.state.Page, c.state.Query)
		return nil
	})
}

// SetFilter records text and schedules a query for page 1 once no further
// edit arrives within the debounce window.
func (c *Controller[T]) SetFilter(text string) error {
	return c.change(func() error {
		c.state.FilterText = text
		c.stopTimerLocked()
		c.timerGen++
		gen := c.timerGen
		c.timer = time.AfterFunc(c.debounce, func() { c.commitFilter(gen) })
		return nil
	})
}

// FlushFilter commits a pending filter edit now instead of waiting.
func (c *Controller[T]) FlushFilter() error {
	return c.change(func() error {
		if c.timer == nil {
			return nil
		}
		c.stopTimerLocked()
		c.issueLocked(1, c.state.FilterText)
		return nil
	})
}

// commitFilter runs when the timer of generation gen fires. Stop does not
// cancel a callback already waiting on the lock, so gen must still be the
// armed timer.
func (c *Controller[T]) commitFilter(gen uint64) {
	_ = c.change(func() error {
		if c.timer == nil || c.timerGen != gen {
			return errTimerReplaced
		}
		c.timer = nil
		c.issueLocked(1, c.state.FilterText)
		return nil
	})
}

// GoTo queries page immediately with the current filter. Only pages in
// [1, TotalPages] of the last result are accepted; page 1 always is.
func (c *Controller[T]) GoTo(page int) error {
	return c.change(func() error {
		if page != 1 && (!c.state.Loaded || page < 1 || page > c.state.Result.TotalPages) {
			return ErrPageOutOfRange
		}
		c.issueLocked(page, c.state.Query)
		return nil
	})
}

// Next and Prev move by one page.
func (c *Controller[T]) Next() error { return c.GoTo(c.State().Page + 1) }

// Prev moves to the previous page.
func (c *Controller[T]) Prev() error { return c.GoTo(c.State().Page - 1) }

// Refresh re-queries the current page and filter, typically after a
// successful mutation.
func (c *Controller[T]) Refresh() error {
	return c.Load()
}

// Close stops the debounce timer, cancels the in-flight query and waits
// for its goroutine.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// change runs fn under the lock and notifies OnChange afterwards.
func (c *Controller[T]) change(fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	err := fn()
	state := c.state
	c.mu.Unlock()

	if err == nil {
		c.notify(state)
	}
	return err
}

func (c *Controller[T]) notify(state State[T]) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// issueLocked supersedes the in-flight query and starts a new one.
func (c *Controller[T]) issueLocked(page int, query string) {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	id := c.seq

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.Status = StatusLoading
	c.state.Page = page
	c.state.Query = query
	c.state.Err = nil

	req := listing.Request{Page: page, Query: query, PageSize: c.pageSize}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		result, err := c.fetch(ctx, req)
		c.apply(id, result, err)
	}()
}

// apply installs the result of request id unless a newer request was issued.
func (c *Controller[T]) apply(id uint64, result listing.Page[T], err error) {
	c.mu.Lock()
	if id != c.seq || c.closed {
		c.mu.Unlock()
		return
	}
	c.cancel = nil

	switch {
	case err != nil:
		c.state.Status = StatusFailed
		c.state.Err = err
	case result.BeyondLast():
		// The page emptied under us; fall back to the new last page.
		c.state.Result = result
		c.state.Loaded = true
		c.issueLocked(listing.ClampPage(c.state.Page, result.TotalPages), c.state.Query)
	default:
		c.state.Status = StatusIdle
		c.state.Result = result
		c.state.Loaded = true
		c.state.Page = result.Page
	}
	state := c.state
	c.mu.Unlock()

	c.notify(state)
}
