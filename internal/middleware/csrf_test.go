// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var csrfKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(csrfKey, true, 9090)
	want := []string{"localhost:9090", "127.0.0.1:9090"}
	if len(dev.Origins) != len(want) {
		t.Fatalf("Origins = %v, want %v", dev.Origins, want)
	}
	for i, o := range want {
		if dev.Origins[i] != o {
			t.Errorf("Origins[%d] = %q, want %q", i, dev.Origins[i], o)
		}
		// The library matches host:port, a scheme would never match.
		if strings.Contains(dev.Origins[i], "://") {
			t.Errorf("origin %q carries a scheme", dev.Origins[i])
		}
	}

	prod := DefaultCSRFConfig(csrfKey, false, 9090)
	if len(prod.Origins) != 0 {
		t.Errorf("production trusts %v, want nothing", prod.Origins)
	}
}

func TestCSRF(t *testing.T) {
	tests := []struct {
		name   string
		method string
		site   string
		want   int
	}{
		{"same-origin delete", http.MethodPost, "same-origin", http.StatusOK},
		{"cross-site delete", http.MethodPost, "cross-site", http.StatusForbidden},
		{"cross-site read", http.MethodGet, "cross-site", http.StatusOK},
		{"typed address", http.MethodPost, "none", http.StatusOK},
	}

	handler := CSRF(DefaultCSRFConfig(csrfKey, false, 8080))(simpleOKHandler)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/admin/banners/1/delete", nil)
			req.Header.Set("Sec-Fetch-Site", tt.site)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusForbidden && !strings.Contains(w.Body.String(), "Reload the page") {
				t.Errorf("body = %q, want the refusal message", w.Body.String())
			}
		})
	}
}

func TestCSRF_CustomDenied(t *testing.T) {
	cfg := DefaultCSRFConfig(csrfKey, true, 8080)
	called := false
	cfg.Denied = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "nope", http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/settings", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	CSRF(cfg)(simpleOKHandler).ServeHTTP(w, req)

	if !called {
		t.Error("custom handler was not called for a cross-site POST")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}
