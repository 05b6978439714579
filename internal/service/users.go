// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/auth"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

// ErrInvalidCredentials is returned by Authenticate for any unknown email
// or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// MinPasswordLength applies to new and changed passwords.
const MinPasswordLength = 8

// UserInput is the form of a user account. Password is required on create
// and optional on update, where empty keeps the current one.
type UserInput struct {
	Name     string `form:"name" json:"name" validate:"notblank,min=2,max=50" label:"Name"`
	Email    string `form:"email" json:"email" validate:"required,email,max=254" label:"Email"`
	Role     string `form:"role" json:"role" validate:"required,oneof=ADMIN USER" label:"Role"`
	Password string `form:"password" json:"password" validate:"omitempty,min=8,max=128" label:"Password"`
}

func (in *UserInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// UserService manages accounts and sign-in.
type UserService struct {
	base
}

// NewUserService creates a UserService.
func NewUserService(d Deps) *UserService {
	return &UserService{base: newBase(d)}
}

// List returns one page of users matching name or email.
func (s *UserService) List(ctx context.Context, req listing.Request) (listing.Page[store.User], error) {
	return s.queries.ListUsers(ctx, req)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (store.User, error) {
	return s.queries.GetUserByID(ctx, id)
}

// Create validates in and inserts a user with a hashed password.
func (s *UserService) Create(ctx context.Context, in UserInput) action.Outcome[store.User] {
	u, err := s.create(ctx, in)
	return outcome("User", "created", u, err)
}

func (s *UserService) create(ctx context.Context, in UserInput) (store.User, error) {
	in.normalize()
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		fields, ok := validation.As(err)
		if !ok {
			return store.User{}, err
		}
		errs = fields
	}
	if in.Password == "" {
		errs.Add("password", "Password is required")
	}
	if err := errs.Err(); err != nil {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}
	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		return store.User{}, err
	}
	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	s.touched(ctx, PathUsers)
	return u, nil
}

// Update validates in and rewrites user id. The last administrator cannot
// lose the ADMIN role.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput) action.Outcome[store.User] {
	u, err := s.update(ctx, id, in)
	return outcome("User", "updated", u, err)
}

func (s *UserService) update(ctx context.Context, id int64, in UserInput) (store.User, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return store.User{}, err
	}
	current, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return store.User{}, err
	}
	if current.Role == store.RoleAdmin && in.Role != store.RoleAdmin {
		if err := s.requireOtherAdmin(ctx); err != nil {
			return store.User{}, err
		}
	}

	var u store.User
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		u, err = q.UpdateUser(ctx, store.UpdateUserParams{ID: id, Name: in.Name, Email: in.Email, Role: in.Role})
		if err != nil || in.Password == "" {
			return err
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		return q.UpdateUserPassword(ctx, id, hash)
	})
	if err != nil {
		return store.User{}, err
	}
	s.logger.Info("user updated", "user_id", u.ID, "password_changed", in.Password != "")
	s.touched(ctx, PathUsers)
	return u, nil
}

// Delete removes user id on behalf of actorID. Nobody can delete their own
// account, and the last administrator stays.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) action.Outcome[action.None] {
	err := s.delete(ctx, actorID, id)
	return deleted("User", err)
}

func (s *UserService) delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return action.Reject(action.KindForbidden, "You cannot delete your own account")
	}
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == store.RoleAdmin {
		if err := s.requireOtherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.queries.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id, "by", actorID)
	s.touched(ctx, PathUsers)
	return nil
}

func (s *UserService) requireOtherAdmin(ctx context.Context) error {
	n, err := s.queries.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return action.Reject(action.KindForbidden, "At least one administrator is required")
	}
	return nil
}

// Authenticate checks credentials and records the sign-in. Outdated
// password hashes are replaced transparently.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, err
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		s.logger.Warn("unreadable password hash", "category", "auth", "user_id", u.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, u.ID, hash); err != nil {
				s.logger.Warn("rehashing password failed", "category", "auth", "user_id", u.ID, "error", err)
			}
		}
	}
	if err := s.queries.TouchUserLogin(ctx, u.ID, time.Now()); err != nil {
		s.logger.Warn("recording login failed", "category", "auth", "user_id", u.ID, "error", err)
	}
	return u, nil
}
