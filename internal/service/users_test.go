// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/auth"
	"github.com/olegiv/vitrine/internal/store"
)

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noPass := f.svc.Users.Create(ctx, UserInput{Name: "Ana", Email: "ana@example.com", Role: store.RoleAdmin})
	assert.Equal(t, "Password is required", noPass.Fields["password"])

	short := f.svc.Users.Create(ctx, UserInput{Name: "A", Email: "ana@example.com", Role: "ROOT", Password: "x"})
	assert.Equal(t, action.KindValidation, short.Kind)
	assert.Contains(t, short.Fields, "name")
	assert.Contains(t, short.Fields, "role")
	assert.Contains(t, short.Fields, "password")

	out := f.svc.Users.Create(ctx, UserInput{Name: "Ana", Email: "Ana@Example.com", Role: store.RoleAdmin, Password: "correct horse"})
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "ana@example.com", out.Data.Email)

	u, err := f.svc.Users.Authenticate(ctx, "ANA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, out.Data.ID, u.ID)

	_, err = f.svc.Users.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Users.Authenticate(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	dup := f.svc.Users.Create(ctx, UserInput{Name: "Ana2", Email: "ana@example.com", Role: store.RoleUser, Password: "12345678"})
	assert.Equal(t, action.KindConflict, dup.Kind)
}

func TestUsers_LegacyHashRehashed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q := store.New(f.db)

	legacy, err := bcrypt.GenerateFromPassword([]byte("ancien-mot"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := q.CreateUser(ctx, store.CreateUserParams{Name: "Old", Email: "old@example.com", PasswordHash: string(legacy), Role: store.RoleUser})
	require.NoError(t, err)

	_, err = f.svc.Users.Authenticate(ctx, "old@example.com", "ancien-mot")
	require.NoError(t, err)

	after, err := q.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, auth.NeedsRehash(after.PasswordHash))
	assert.NotNil(t, after.LastLoginAt)
}

func TestUsers_AdminGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.svc.Users.Create(ctx, UserInput{Name: "Root", Email: "root@example.com", Role: store.RoleAdmin, Password: "12345678"})
	require.True(t, admin.Success)
	id := admin.Data.ID

	self := f.svc.Users.Delete(ctx, id, id)
	assert.Equal(t, action.KindForbidden, self.Kind)
	assert.Equal(t, "You cannot delete your own account", self.Message)

	demote := f.svc.Users.Update(ctx, id, UserInput{Name: "Root", Email: "root@example.com", Role: store.RoleUser})
	assert.Equal(t, "At least one administrator is required", demote.Message)

	other := f.svc.Users.Create(ctx, UserInput{Name: "Second", Email: "second@example.com", Role: store.RoleAdmin, Password: "12345678"})
	require.True(t, other.Success)

	del := f.svc.Users.Delete(ctx, other.Data.ID, id)
	assert.True(t, del.Success, del.Message)

	last := f.svc.Users.Delete(ctx, 0, other.Data.ID)
	assert.Equal(t, action.KindForbidden, last.Kind)
}

func TestUsers_UpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.svc.Users.Create(ctx, UserInput{Name: "Léa", Email: "lea@example.com", Role: store.RoleUser, Password: "premier-mot"})
	require.True(t, out.Success)

	keep := f.svc.Users.Update(ctx, out.Data.ID, UserInput{Name: "Léa M.", Email: "lea@example.com", Role: store.RoleUser})
	require.True(t, keep.Success, keep.Message)
	_, err := f.svc.Users.Authenticate(ctx, "lea@example.com", "premier-mot")
	require.NoError(t, err)

	change := f.svc.Users.Update(ctx, out.Data.ID, UserInput{Name: "Léa M.", Email: "lea@example.com", Role: store.RoleUser, Password: "second-mot"})
	require.True(t, change.Success)
	_, err = f.svc.Users.Authenticate(ctx, "lea@example.com", "second-mot")
	require.NoError(t, err)
}
