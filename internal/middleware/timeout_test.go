// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// slowHandler waits for its context, then reports whether a late write
// was refused.
func slowHandler(lateErr chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		_, err := w.Write([]byte("late"))
		lateErr <- err
	})
}

func TestTimeout_FastHandler(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/admin/products")
		w.WriteHeader(http.StatusSeeOther)
		_, _ = w.Write([]byte("moved"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/admin/products" {
		t.Errorf("Location = %q", got)
	}
	if rr.Body.String() != "moved" {
		t.Errorf("body = %q, want %q", rr.Body.String(), "moved")
	}
}

func TestTimeout_SlowPage(t *testing.T) {
	late := make(chan error, 1)
	handler := Timeout(20 * time.Millisecond)(slowHandler(late))

	req := httptest.NewRequest(http.MethodGet, "/admin/blogs", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if rr.Body.String() != TimeoutMessage {
		t.Errorf("body = %q, want %q", rr.Body.String(), TimeoutMessage)
	}

	select {
	case err := <-late:
		if !errors.Is(err, http.ErrHandlerTimeout) {
			t.Errorf("late write error = %v, want ErrHandlerTimeout", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never returned")
	}
}

func TestTimeout_SlowAPI(t *testing.T) {
	late := make(chan error, 1)
	handler := Timeout(20 * time.Millisecond)(slowHandler(late))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	<-late

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var body APIError
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Code != "timeout" || body.Error.Message != TimeoutMessage {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestGuardedWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	g := &guardedWriter{ResponseWriter: rr}

	g.WriteHeader(http.StatusCreated)
	g.WriteHeader(http.StatusNotFound)
	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want the first one", rr.Code)
	}
	if g.expire() {
		t.Error("expire succeeded after the handler answered")
	}
	if _, err := g.Write([]byte("ok")); err != nil {
		t.Errorf("Write() error = %v", err)
	}
}

func TestGuardedWriter_ImplicitOK(t *testing.T) {
	rr := httptest.NewRecorder()
	g := &guardedWriter{ResponseWriter: rr}

	n, err := g.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
