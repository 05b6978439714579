// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/session"
	"github.com/olegiv/vitrine/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser ContextKey = "user"
	ContextKeySite ContextKey = "site"
)

// DefaultSiteName is shown when the settings row cannot be read.
const DefaultSiteName = "Vitrine"

// Auth creates middleware that requires authentication.
// It checks for a valid user session and redirects to login if not authenticated.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.UserID(r.Context(), sm) == 0 {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request context.
// This should be used after Auth middleware.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Deleted account or unreadable row: start over.
				_ = session.Logout(r.Context(), sm)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetUserIDPtr returns a pointer to the current user's ID, or nil.
// Useful for optional user ID parameters in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// RequireAdmin creates middleware that lets only ADMIN accounts through.
// Other signed-in accounts get 403 and an auth event when events is set.
func RequireAdmin(events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if !user.IsAdmin() {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"remote_addr", r.RemoteAddr,
				)
				if events != nil {
					userID := user.ID
					_ = events.LogAuthEvent(r.Context(), service.EventLevelWarning,
						"Access denied: administrator role required", &userID,
						map[string]any{"method": r.Method, "path": r.URL.Path, "user_role": user.Role})
				}
				http.Error(w, "Forbidden: administrator role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadSiteSettings puts the cached site snapshot into the request context.
// A failed read is logged and the request continues with defaults.
func LoadSiteSettings(settings *cache.SettingsCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, err := settings.Get(r.Context())
			if err != nil {
				slog.Warn("loading site settings failed", "category", "cache", "error", err)
				snap.Settings.SiteName = DefaultSiteName
			}
			ctx := context.WithValue(r.Context(), ContextKeySite, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSite returns the site snapshot loaded by LoadSiteSettings.
func GetSite(r *http.Request) cache.SiteSnapshot {
	snap, ok := r.Context().Value(ContextKeySite).(cache.SiteSnapshot)
	if !ok {
		snap.Settings.SiteName = DefaultSiteName
	}
	if snap.Settings.SiteName == "" {
		snap.Settings.SiteName = DefaultSiteName
	}
	return snap
}
