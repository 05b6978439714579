// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/listing"
)

func TestTerms_DeleteCategoryDetachesBlogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cat := f.svc.BlogCategories.Create(ctx, TermInput{Name: "Saisons"})
	require.True(t, cat.Success)
	assert.Equal(t, "Blog category created", cat.Message)

	blog := f.svc.Blogs.Create(ctx, BlogInput{Title: "Printemps", CategoryID: &cat.Data.ID})
	require.True(t, blog.Success)

	del := f.svc.BlogCategories.Delete(ctx, cat.Data.ID)
	require.True(t, del.Success, del.Message)
	assert.Equal(t, "Blog category deleted", del.Message)

	got, err := f.svc.Blogs.Get(ctx, blog.Data.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, int64(2), f.version(t, PathBlogs), "blog listing bumped by create and by detach")
}

func TestTerms_DeleteTagRemovesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag := f.svc.Tags.Create(ctx, TermInput{Name: "Été"})
	require.True(t, tag.Success)
	assert.Equal(t, "ete", tag.Data.Slug)

	blog := f.svc.Blogs.Create(ctx, BlogInput{Title: "Glaces", TagIDs: []int64{tag.Data.ID}})
	require.True(t, blog.Success)

	page, err := f.svc.Tags.List(ctx, listing.Request{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, int64(1), page.Rows[0].UsageCount)

	require.True(t, f.svc.Tags.Delete(ctx, tag.Data.ID).Success)

	got, err := f.svc.Blogs.Get(ctx, blog.Data.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TagIDs)
}

func TestTerms_ShadowAndManualEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag := f.svc.Tags.Create(ctx, TermInput{Name: "Chocolat"})
	require.True(t, tag.Success)

	tr, err := f.svc.Tags.Translation(ctx, tag.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "[en] Chocolat", tr.Name)

	require.True(t, f.svc.Tags.SaveTranslation(ctx, tag.Data.ID, TermTranslationInput{Name: "Chocolate"}).Success)
	require.True(t, f.svc.Tags.Update(ctx, tag.Data.ID, TermInput{Name: "Chocolat noir"}).Success)

	tr, err = f.svc.Tags.Translation(ctx, tag.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chocolate", tr.Name)
	assert.Equal(t, "chocolate", tr.Slug)
}

func TestTerms_SlugConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.True(t, f.svc.RecipeCategories.Create(ctx, TermInput{Name: "Desserts"}).Success)
	dup := f.svc.RecipeCategories.Create(ctx, TermInput{Name: "desserts"})
	assert.False(t, dup.Success)
	assert.Equal(t, "Slug is already in use", dup.Message)
}
