// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simpleOKHandler returns an http.Handler that writes 200 OK.
var simpleOKHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// executeAuthRequest creates a test request with an auth header and executes it.
func executeAuthRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/banners", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestWriteAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAPIError(w, http.StatusBadRequest, "validation_error", "Invalid input", map[string]string{"title": "required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeAPIError(t, w)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "Invalid input", resp.Error.Message)
	assert.Equal(t, "required", resp.Error.Details["title"])
}

func TestAPITokenAuth(t *testing.T) {
	handler := APITokenAuth("s3cret-token")(simpleOKHandler)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"no token part", "Bearer", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer s3cret-token", http.StatusOK},
		{"lowercase scheme", "bearer s3cret-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeAuthRequest(handler, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized", decodeAPIError(t, w).Error.Code)
			}
		})
	}
}

func TestAPITokenAuthEmptyTokenRejectsAll(t *testing.T) {
	handler := APITokenAuth("")(simpleOKHandler)
	w := executeAuthRequest(handler, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(simpleOKHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = ip + ":4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, send("198.51.100.1").Code)

	w := send("198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limit_exceeded", decodeAPIError(t, w).Error.Code)

	assert.Equal(t, http.StatusOK, send("198.51.100.2").Code, "other clients keep their budget")
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	a := lc.get("a")
	assert.Same(t, a, lc.get("a"))
	assert.NotSame(t, a, lc.get("b"))

	assert.False(t, lc.clearIfExceeds(5))
	assert.True(t, lc.clearIfExceeds(1))
	assert.NotSame(t, a, lc.get("a"), "cleared cache hands out fresh limiters")
}
