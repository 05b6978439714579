// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and the values the
// admin keeps in it: the signed-in user and one-shot flash messages.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID    = "user_id"
	keyFlash     = "flash"
	keyFlashType = "flash_type"
)

// Flash types, used as CSS modifiers by the admin layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Lifetime is how long an idle admin session lasts.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = "vitrine_session"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-vitrine"
	}
	return sm
}

// Login stores userID in a fresh session token.
func Login(ctx context.Context, sm *scs.SessionManager, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// UserID returns the signed-in user, or 0.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Message string
	Type    string
}

// SetFlash queues a message for the next page.
func SetFlash(ctx context.Context, sm *scs.SessionManager, message, typ string) {
	sm.Put(ctx, keyFlash, message)
	sm.Put(ctx, keyFlashType, typ)
}

// PopFlash returns and clears the queued message. The zero Flash means
// there is none.
func PopFlash(ctx context.Context, sm *scs.SessionManager) Flash {
	msg := sm.PopString(ctx, keyFlash)
	if msg == "" {
		return Flash{}
	}
	typ := sm.PopString(ctx, keyFlashType)
	if typ == "" {
		typ = FlashInfo
	}
	return Flash{Message: msg, Type: typ}
}
