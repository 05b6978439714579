// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for vitrine packages.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/vitrine/internal/store"
)

// TestLogger creates a logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a migrated temporary database. The returned cleanup
// closes it; the file lives in t.TempDir().
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "vitrine-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// CreateAdmin inserts an administrator and returns it. The password hash is
// not a valid hash; use auth.HashPassword when the test signs in.
func CreateAdmin(t *testing.T, db *sql.DB, email string) store.User {
	t.Helper()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Name:         "Admin",
		Email:        email,
		PasswordHash: "x",
		Role:         store.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// StubTranslator is a translate.Translator replacement that prefixes text
// with the target language. It is safe for concurrent use.
type StubTranslator struct {
	mu    sync.Mutex
	Err   error
	Calls int
	// Delay, when set, is how long translating text takes. The wait ends
	// early with the context error.
	Delay func(text string) time.Duration
}

// Translate returns "[target] text" or Err.
func (s *StubTranslator) Translate(ctx context.Context, text, _, target string) (string, error) {
	if s.Delay != nil {
		select {
		case <-time.After(s.Delay(text)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return "", s.Err
	}
	if text == "" {
		return "", nil
	}
	return "[" + target + "] " + text, nil
}

// CallCount returns the number of Translate calls so far.
func (s *StubTranslator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}
