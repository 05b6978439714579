// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/cache"
)

func TestStaticCache(t *testing.T) {
	handler := StaticCache(3600)(simpleOKHandler)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
}

func TestListETag(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	hints := cache.NewPathVersions(mem)

	calls := 0
	handler := ListETag(hints, "/admin/banners")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	get := func(target, inm string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if inm != "" {
			req.Header.Set("If-None-Match", inm)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	first := get("/admin/banners?page=2", "")
	require.Equal(t, http.StatusOK, first.Code)
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	assert.Equal(t, http.StatusNotModified, get("/admin/banners?page=2", tag).Code)
	assert.Equal(t, 1, calls)

	other := get("/admin/banners?page=3", tag)
	assert.Equal(t, http.StatusOK, other.Code, "different query yields a different tag")
	assert.NotEqual(t, tag, other.Header().Get("ETag"))

	require.NoError(t, hints.Bump(context.Background(), "/admin/banners"))
	bumped := get("/admin/banners?page=2", tag)
	assert.Equal(t, http.StatusOK, bumped.Code, "mutation invalidates the tag")
	assert.NotEqual(t, tag, bumped.Header().Get("ETag"))
}

func TestListETagSkipsWrites(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })

	handler := ListETag(cache.NewPathVersions(mem), "/admin/banners")(simpleOKHandler)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/banners", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
}

func TestMatchesETag(t *testing.T) {
	tag := `W/"3-abc"`
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`W/"3-abc"`, true},
		{`"3-abc"`, true},
		{`W/"1-xyz", W/"3-abc"`, true},
		{"*", true},
		{`W/"4-abc"`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesETag(tt.header, tag), "header %q", tt.header)
	}
}
