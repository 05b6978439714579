// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/testutil"
)

func TestReadThrough_LoadsOnceUntilInvalidated(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var loads atomic.Int32
	rt := NewReadThrough(c, "k", 0, func(context.Context) (map[string]int, error) {
		n := int(loads.Add(1))
		return map[string]int{"n": n}, nil
	})

	for range 3 {
		v, err := rt.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v["n"])
	}
	assert.Equal(t, int32(1), loads.Load())

	require.NoError(t, rt.Invalidate(ctx))
	v, err := rt.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v["n"])
}

func TestReadThrough_LoaderError(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()

	boom := errors.New("boom")
	rt := NewReadThrough(c, "k", 0, func(context.Context) (int, error) { return 0, boom })

	_, err := rt.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	ok, _ := c.Has(context.Background(), "k")
	assert.False(t, ok, "failed loads are not cached")
}

func TestReadThrough_ClosedBackendStillLoads(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	_ = c.Close()

	rt := NewReadThrough(c, "k", 0, func(context.Context) (string, error) { return "fresh", nil })
	v, err := rt.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestReadThrough_LoadRacingInvalidateIsNotServed(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()
	rc, _ := newTestRedis(t)

	for name, c := range map[string]Cache{"memory": mem, "redis": rc} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var current atomic.Value
			current.Store("Avant")
			started := make(chan struct{}, 1)
			release := make(chan struct{})
			var blocked atomic.Bool
			blocked.Store(true)

			rt := NewReadThrough(c, "site:"+name, 0, func(context.Context) (string, error) {
				v := current.Load().(string)
				if blocked.Load() {
					started <- struct{}{}
					<-release
				}
				return v, nil
			})

			done := make(chan string)
			go func() {
				v, _ := rt.Get(ctx)
				done <- v
			}()

			<-started
			current.Store("Après")
			require.NoError(t, rt.Invalidate(ctx))
			blocked.Store(false)
			close(release)
			assert.Equal(t, "Avant", <-done, "the racing request keeps what it read")

			v, err := rt.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Après", v)

			v, err = rt.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Après", v)
		})
	}
}

func TestSettingsCache(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)

	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()
	sc := NewSettingsCache(c, db)

	require.NoError(t, q.SaveSiteSettings(ctx, store.SiteSettings{SiteName: "Avant"}))
	_, err := q.CreateBanner(ctx, store.BannerParams{Title: "Slide", Active: true})
	require.NoError(t, err)

	snap, err := sc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Avant", snap.Settings.SiteName)
	assert.Len(t, snap.Banners, 1)
	assert.NotNil(t, snap.Contact.Emails)

	require.NoError(t, q.SaveSiteSettings(ctx, store.SiteSettings{SiteName: "Après"}))
	snap, err = sc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Avant", snap.Settings.SiteName, "no TTL: stale until invalidated")

	require.NoError(t, sc.Invalidate(ctx))
	snap, err = sc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Après", snap.Settings.SiteName)
}

func TestPathVersions(t *testing.T) {
	ctx := context.Background()
	backends := map[string]Cache{
		"memory": NewMemoryCache(MemoryCacheOptions{}),
	}
	rc, _ := newTestRedis(t)
	backends["redis"] = rc

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			pv := NewPathVersions(c)

			v, err := pv.Version(ctx, "/admin/blogs")
			require.NoError(t, err)
			assert.Equal(t, int64(0), v)

			require.NoError(t, pv.Bump(ctx, "/admin/blogs", "/admin/tags"))
			require.NoError(t, pv.Bump(ctx, "/admin/blogs"))

			v, _ = pv.Version(ctx, "/admin/blogs")
			assert.Equal(t, int64(2), v)
			v, _ = pv.Version(ctx, "/admin/tags")
			assert.Equal(t, int64(1), v)
		})
	}
}
