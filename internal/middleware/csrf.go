// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"filippo.io/csrf/gorilla"
)

// CSRFDeniedMessage is the body of a refused form post.
const CSRFDeniedMessage = "This form was rejected because it did not come from the admin console. Reload the page and try again."

// CSRFConfig configures cross-site protection of the admin forms.
// Protection relies on Fetch metadata headers, so there is no token field
// and no cookie to configure.
type CSRFConfig struct {
	// Key authenticates the legacy token fallback. The session secret is used.
	Key []byte
	// Origins are host:port values allowed to post cross-origin.
	Origins []string
	// Denied answers refused requests. Nil means a plain 403.
	Denied http.Handler
}

// DefaultCSRFConfig trusts the loopback addresses of port in development
// and nothing else in production.
func DefaultCSRFConfig(key []byte, isDev bool, port int) CSRFConfig {
	cfg := CSRFConfig{Key: key}
	if isDev {
		p := strconv.Itoa(port)
		cfg.Origins = []string{"localhost:" + p, "127.0.0.1:" + p}
	}
	return cfg
}

// CSRF refuses cross-site unsafe requests: a forged delete or settings post
// never reaches a handler.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	denied := cfg.Denied
	if denied == nil {
		denied = http.HandlerFunc(csrfDenied)
	}

	opts := []csrf.Option{csrf.ErrorHandler(denied)}
	if len(cfg.Origins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.Origins))
	}
	return csrf.Protect(cfg.Key, opts...)
}

// csrfDenied logs the refusal to the event log and answers 403.
func csrfDenied(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("cross-site request refused",
		"category", "security",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
	)
	http.Error(w, CSRFDeniedMessage, http.StatusForbidden)
}
