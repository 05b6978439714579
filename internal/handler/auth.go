// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/session"
)

// LoginView is the data of the sign-in page.
type LoginView struct {
	Email string
	Error string
}

// LoginForm renders the sign-in page. Signed-in users go to the dashboard.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.UserID(r.Context(), h.sessions) > 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "auth/login", "Sign in", LoginView{})
}

// Login handles the sign-in form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectLogin, "Invalid form data")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostForm.Get("email")))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	events := h.services.Events
	meta := map[string]any{"email": email, "ip": r.RemoteAddr}

	if h.guard != nil {
		if st := h.guard.Status(email); st.Locked {
			_ = events.LogAuthEvent(r.Context(), service.EventLevelWarning, "Login attempt on locked account", nil, meta)
			flashError(w, r, h.renderer, redirectLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(st.RetryIn)))
			return
		}
	}

	user, err := h.services.Users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("database error during login", "error", err)
			flashError(w, r, h.renderer, redirectLogin, "Something went wrong. Please try again.")
			return
		}
		_ = events.LogAuthEvent(r.Context(), service.EventLevelWarning, "Login failed", nil, meta)
		flashError(w, r, h.renderer, redirectLogin, h.failedLoginMessage(email))
		return
	}

	if !user.IsAdmin() {
		_ = events.LogAuthEvent(r.Context(), service.EventLevelWarning, "Login refused: not an administrator", &user.ID, meta)
		flashError(w, r, h.renderer, redirectLogin, "Your account does not have access to the admin console.")
		return
	}

	if h.guard != nil {
		h.guard.Succeed(email)
	}
	if err := session.Login(r.Context(), h.sessions, user.ID); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = events.LogAuthEvent(r.Context(), service.EventLevelInfo, "User logged in", &user.ID, meta)
	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back, "+user.Name)
}

// failedLoginMessage records the failure and words the reply: a lockout,
// a warning when few attempts remain, or the plain rejection.
func (h *Handler) failedLoginMessage(email string) string {
	const invalid = "Invalid email or password"
	if h.guard == nil {
		return invalid
	}
	switch st := h.guard.Fail(email); {
	case st.Locked:
		return fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(st.RetryIn))
	case st.Remaining > 0 && st.Remaining <= 3:
		return fmt.Sprintf("%s. %d attempts remaining.", invalid, st.Remaining)
	default:
		return invalid
	}
}

// Logout ends the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessions)
	if userID > 0 {
		_ = h.services.Events.LogAuthEvent(r.Context(), service.EventLevelInfo, "User logged out", &userID, nil)
	}

	if err := session.Logout(r.Context(), h.sessions); err != nil {
		h.logger.Error("session destroy error", "error", err)
	}

	h.logger.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out.", session.FlashInfo)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
