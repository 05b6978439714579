// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/testutil"
)

type fixture struct {
	db         *sql.DB
	svc        *Services
	translator *testutil.StubTranslator
	mem        *cache.MemoryCache
	hints      *cache.PathVersions
}

// newFixture wires services with an inline translator, so shadows are
// final when a mutation returns.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })

	f := &fixture{db: db, translator: &testutil.StubTranslator{}, mem: mem, hints: cache.NewPathVersions(mem)}
	f.svc = New(Deps{
		DB:         db,
		Logger:     testutil.TestLoggerSilent(),
		Hints:      f.hints,
		Settings:   cache.NewSettingsCache(mem, db),
		Translator: f.translator,
	})
	return f
}

func (f *fixture) version(t *testing.T, path string) int64 {
	t.Helper()
	v, err := f.hints.Version(context.Background(), path)
	require.NoError(t, err)
	return v
}

func TestProducts_CreateDerivesSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.svc.Products.Create(ctx, ProductInput{Name: "Crème Brûlée", Active: true})
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "Product created", out.Message)
	assert.Equal(t, "creme-brulee", out.Data.Slug)
	assert.Equal(t, int64(1), f.version(t, PathProducts))

	dup := f.svc.Products.Create(ctx, ProductInput{Name: "Creme brulee"})
	assert.False(t, dup.Success)
	assert.Nil(t, dup.Data)
	assert.Equal(t, action.KindValidation, dup.Kind)
	assert.Equal(t, "Slug is already in use", dup.Fields["slug"])
}

func TestProducts_Validation(t *testing.T) {
	f := newFixture(t)

	out := f.svc.Products.Create(context.Background(), ProductInput{Name: "  ", Slug: "Bad Slug"})
	assert.False(t, out.Success)
	assert.Equal(t, action.KindValidation, out.Kind)
	assert.Contains(t, out.Fields, "name")
	assert.Contains(t, out.Fields, "slug")
	assert.Equal(t, 0, int(f.version(t, PathProducts)), "failed mutations issue no hint")
}

func TestProducts_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.svc.Products.Create(ctx, ProductInput{Name: "Pain"})
	require.True(t, created.Success)
	id := created.Data.ID

	updated := f.svc.Products.Update(ctx, id, ProductInput{Name: "Pain complet"})
	require.True(t, updated.Success, updated.Message)
	assert.Equal(t, "pain", updated.Data.Slug)

	missing := f.svc.Products.Update(ctx, id+100, ProductInput{Name: "X"})
	assert.Equal(t, action.KindNotFound, missing.Kind)
	assert.Equal(t, "Product not found", missing.Message)

	del := f.svc.Products.Delete(ctx, id)
	assert.True(t, del.Success)
	assert.Equal(t, "Product deleted", del.Message)

	again := f.svc.Products.Delete(ctx, id)
	assert.False(t, again.Success)
	assert.Equal(t, action.KindNotFound, again.Kind)
}

func TestMessages_SubmitAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := f.svc.Messages.Submit(ctx, ContactInput{Name: "A", Email: "nope"})
	assert.False(t, bad.Success)
	assert.Contains(t, bad.Message, "Email must be a valid email address")

	ok := f.svc.Messages.Submit(ctx, ContactInput{Name: "Alice", Email: " alice@example.com ", Subject: "Devis", Message: "Bonjour"})
	require.True(t, ok.Success, ok.Message)
	assert.Equal(t, "alice@example.com", ok.Data.Email)

	page, err := f.svc.Messages.List(ctx, listing.Request{Page: 1, Query: "devis"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestNewsletter_SubscribeIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.svc.Newsletters.Subscribe(ctx, SubscribeInput{Email: "Bob@Example.com"})
	require.True(t, first.Success)
	assert.Equal(t, "bob@example.com", first.Data.Email)

	second := f.svc.Newsletters.Subscribe(ctx, SubscribeInput{Email: "bob@example.com"})
	require.True(t, second.Success)
	assert.Equal(t, "You are already subscribed", second.Message)
	assert.Equal(t, first.Data.ID, second.Data.ID)

	page, err := f.svc.Newsletters.List(ctx, listing.Request{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestDashboard_Counts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.True(t, f.svc.Products.Create(ctx, ProductInput{Name: "A"}).Success)
	require.True(t, f.svc.Products.Create(ctx, ProductInput{Name: "B"}).Success)
	require.True(t, f.svc.Blogs.Create(ctx, BlogInput{Title: "Post"}).Success)

	c, err := f.svc.Dashboard.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardCounts{Products: 2, Blogs: 1}, c)
}

func TestEvents_LogListPrune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Events.LogEvent(ctx, EventLevelWarning, EventCategoryTranslation, "fallback", nil, map[string]any{"job": "blog:1"}))
	page, err := f.svc.Events.List(ctx, listing.Request{Page: 1, Query: "translation"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.JSONEq(t, `{"job":"blog:1"}`, page.Rows[0].Metadata)

	n, err := f.svc.Events.Prune(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
