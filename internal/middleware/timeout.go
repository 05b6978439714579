// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// TimeoutMessage is sent when a request runs out of time.
const TimeoutMessage = "The request took too long. Please try again."

// Timeout gives next at most d. A handler that has not begun its response
// by then is answered with 503: API clients get the error envelope, browsers
// a plain message. Whatever the handler writes afterwards is dropped.
//
// The deadline also reaches the handler through its context, which cancels
// any store or translation call still in flight.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(gw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if gw.expire() {
					writeTimeout(w, r)
				}
			}
		})
	}
}

// writeTimeout answers a request whose handler ran out of time.
func writeTimeout(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteAPIError(w, http.StatusServiceUnavailable, "timeout", TimeoutMessage, nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(TimeoutMessage))
}

// guardedWriter lets either the handler or the timeout answer, never both.
type guardedWriter struct {
	http.ResponseWriter

	mu      sync.Mutex
	started bool
	expired bool
}

// expire marks the response as timed out. It reports false when the
// handler had already started answering.
func (g *guardedWriter) expire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return false
	}
	g.expired = true
	return true
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started || g.expired {
		return
	}
	g.started = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !g.started {
		g.started = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(b)
}
