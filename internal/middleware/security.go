// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the vitrine admin.
package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

const (
	prodCSP = "default-src 'self'; img-src 'self' data:; media-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; script-src 'self'; " +
		"frame-src https://www.youtube.com https://www.google.com; " +
		"frame-ancestors 'self'; base-uri 'self'; form-action 'self'"
	devCSP = "default-src 'self' 'unsafe-inline' 'unsafe-eval' data: blob:; " +
		"img-src 'self' data: blob:; frame-ancestors 'self'"
)

// SecureHeadersOptions returns the header policy applied to every response.
// Development relaxes CSP and turns off HSTS and HTTPS redirects.
func SecureHeadersOptions(isDev bool) secure.Options {
	opts := secure.Options{
		FrameDeny:               false,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		BrowserXssFilter:        true,
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		PermissionsPolicy:       "camera=(), microphone=(), geolocation=(), payment=()",
		ContentSecurityPolicy:   prodCSP,
		STSSeconds:              31536000,
		STSIncludeSubdomains:    true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:           isDev,
	}
	if isDev {
		opts.ContentSecurityPolicy = devCSP
	}
	return opts
}

// SecureHeaders sets security response headers using unrolled/secure.
func SecureHeaders(isDev bool) func(http.Handler) http.Handler {
	return secure.New(SecureHeadersOptions(isDev)).Handler
}
