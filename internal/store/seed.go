// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/vitrine/internal/auth"
)

// DefaultAdminName is the display name of the seeded administrator.
const DefaultAdminName = "Administrator"

// SeedAdmin creates the first administrator when the users table is empty.
// It is a no-op once any account exists or when email is blank.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" {
		return nil
	}
	q := New(db)

	n, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		slog.Debug("users exist, skipping admin seed")
		return nil
	}
	if password == "" {
		return fmt.Errorf("admin password is required to seed %s", email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := q.CreateUser(ctx, CreateUserParams{
		Name:         DefaultAdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "user_id", user.ID, "email", user.Email)
	return nil
}
