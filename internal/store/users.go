// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/vitrine/internal/listing"
)

const userColumns = "id, name, email, password_hash, role, last_login_at, created_at, updated_at"

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UserList lists users by name or email, newest first.
var UserList = ListSpec[User]{
	From:    "users",
	Columns: userColumns,
	Search:  []string{"name", "email"},
	OrderBy: "created_at DESC, id DESC",
	Scan:    scanUser,
}

// CreateUserParams holds the columns of a new user.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// CreateUser inserts a user.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.PasswordHash, arg.Role, ts, ts)
	if err != nil {
		return User{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// GetUserByID returns one user.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	return u, classify(err)
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	return u, classify(err)
}

// ListUsers returns one page of users.
func (q *Queries) ListUsers(ctx context.Context, req listing.Request) (listing.Page[User], error) {
	return List(ctx, q.db, UserList, req)
}

// UpdateUserParams holds the editable columns of a user.
type UpdateUserParams struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// UpdateUser updates profile columns.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, role = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Email, arg.Role, now(), arg.ID)
	if err != nil {
		return User{}, classify(err)
	}
	if err := affected(res); err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, arg.ID)
}

// UpdateUserPassword replaces the password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, now(), id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// TouchUserLogin records a successful sign-in.
func (q *Queries) TouchUserLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx, "UPDATE users SET last_login_at = ? WHERE id = ?", at.UTC(), id)
	return classify(err)
}

// DeleteUser removes a user.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// CountUsers counts all users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return q.count(ctx, "users")
}

// CountAdmins counts users with the ADMIN role.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", RoleAdmin).Scan(&n)
	return n, err
}

// count returns the number of rows of a table. The table name is never user input.
func (q *Queries) count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}
