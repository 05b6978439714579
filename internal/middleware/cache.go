// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/vitrine/internal/cache"
)

// StaticCache adds Cache-Control headers for static files.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}

// ListETag derives a weak ETag for GET requests from the version counter of
// path and the request query, and answers a matching If-None-Match with 304.
// Any mutation of the listing bumps the counter, which changes the tag.
// If the counter cannot be read the request passes through untagged.
func ListETag(hints *cache.PathVersions, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hints == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			version, err := hints.Version(r.Context(), path)
			if err != nil {
				slog.Warn("reading listing version", "category", "cache", "path", path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			tag := listTag(version, r.URL.RawQuery)
			w.Header().Set("ETag", tag)
			w.Header().Set("Cache-Control", "private, no-cache")

			if matchesETag(r.Header.Get("If-None-Match"), tag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func listTag(version int64, query string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(query))
	return fmt.Sprintf(`W/"%d-%x"`, version, h.Sum64())
}

func matchesETag(header, tag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || "W/"+candidate == tag {
			return true
		}
	}
	return false
}
