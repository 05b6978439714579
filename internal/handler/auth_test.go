// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/auth"
	"github.com/olegiv/vitrine/internal/store"
)

func createUser(t *testing.T, env *testEnv, email, password, role string) store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := store.New(env.db).CreateUser(context.Background(), store.CreateUserParams{
		Name: "Test", Email: email, PasswordHash: hash, Role: role,
	})
	require.NoError(t, err)
	return u
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)

	resp, _ := env.post("/login", url.Values{"email": {" Admin@Example.com "}, "password": {"changeme123"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	// Signed in: the login page sends the user on.
	resp, _ = env.get("/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)

	resp, _ := env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"nope"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := env.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t, 10)

	env.post("/login", url.Values{"email": {"admin@example.com"}})
	_, body := env.get("/login")
	assert.Contains(t, body, "Email and password are required")
}

func TestLoginRefusesNonAdmin(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "user@example.com", "changeme123", store.RoleUser)

	env.post("/login", url.Values{"email": {"user@example.com"}, "password": {"changeme123"}})
	resp, body := env.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "still signed out")
	assert.Contains(t, body, "does not have access")
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)

	// Spellings of one address share the same count.
	for _, email := range []string{"admin@example.com", "ADMIN@example.com", " Admin@Example.com"} {
		env.post("/login", url.Values{"email": {email}, "password": {"wrong"}})
	}
	_, body := env.get("/login")
	assert.Contains(t, body, "2 attempts remaining")

	for range 2 {
		env.post("/login", url.Values{"email": {"admin@EXAMPLE.com"}, "password": {"wrong"}})
	}
	_, body = env.get("/login")
	assert.Contains(t, body, "Too many failed attempts. Try again in 15 minutes.")

	// Even the right password is refused while locked.
	env.clock.Advance(10 * time.Minute)
	env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"changeme123"}})
	_, body = env.get("/login")
	assert.Contains(t, body, "Account temporarily locked. Try again in 5 minutes.")

	env.clock.Advance(5*time.Minute + time.Second)
	resp, _ := env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"changeme123"}})
	assert.Equal(t, "/admin", resp.Header.Get("Location"), "lock expired")
}

func TestLoginFailuresOutsideWindowForgotten(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)

	for range 4 {
		env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
		env.clock.Advance(time.Minute)
	}
	env.clock.Advance(15 * time.Minute)

	env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
	_, body := env.get("/login")
	assert.Contains(t, body, "Invalid email or password")
	assert.NotContains(t, body, "Too many failed attempts")
	assert.NotContains(t, body, "attempts remaining")
}

func TestLoginLockIsPerEmail(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)
	createUser(t, env, "chef@example.com", "changeme456", store.RoleAdmin)

	for range 5 {
		env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
	}

	resp, _ := env.post("/login", url.Values{"email": {"chef@example.com"}, "password": {"changeme456"}})
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, 10)
	createUser(t, env, "admin@example.com", "changeme123", store.RoleAdmin)
	env.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"changeme123"}})

	resp, _ := env.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := env.get("/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "You have been signed out.")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{5 * time.Hour, "5 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
