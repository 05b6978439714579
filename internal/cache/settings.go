// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/vitrine/internal/store"
)

// settingsKey is the cache key of the site settings snapshot.
const settingsKey = "settings:site"

// SiteSnapshot is the cached view of the global site configuration:
// the settings row, the active home banners and the contact coordinates.
type SiteSnapshot struct {
	Settings store.SiteSettings `json:"settings"`
	Banners  []store.Banner     `json:"banners"`
	Contact  store.ContactInfo  `json:"contact"`
}

// SettingsCache serves the SiteSnapshot read-through, with no TTL.
// Every write to settings, banners or contact info must call Invalidate.
type SettingsCache struct {
	rt *ReadThrough[SiteSnapshot]
}

// NewSettingsCache creates a settings cache reading from db on a miss.
func NewSettingsCache(c Cache, db store.DBTX) *SettingsCache {
	q := store.New(db)
	return &SettingsCache{rt: NewReadThrough(c, settingsKey, NoExpiry, func(ctx context.Context) (SiteSnapshot, error) {
		return loadSnapshot(ctx, q)
	})}
}

// Get returns the snapshot, reading the database on the first call after
// an invalidation.
func (s *SettingsCache) Get(ctx context.Context) (SiteSnapshot, error) {
	return s.rt.Get(ctx)
}

// Invalidate drops the cached snapshot.
func (s *SettingsCache) Invalidate(ctx context.Context) error {
	return s.rt.Invalidate(ctx)
}

// loadSnapshot reads the three parts. Missing singleton rows yield zero values.
func loadSnapshot(ctx context.Context, q *store.Queries) (SiteSnapshot, error) {
	var snap SiteSnapshot

	settings, err := q.GetSiteSettings(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snap, fmt.Errorf("reading site settings: %w", err)
	}
	snap.Settings = settings

	banners, err := q.ActiveBanners(ctx)
	if err != nil {
		return snap, fmt.Errorf("reading banners: %w", err)
	}
	snap.Banners = banners

	contact, err := q.GetContactInfo(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snap, fmt.Errorf("reading contact info: %w", err)
	}
	if contact.PhoneNumbers == nil {
		contact.PhoneNumbers = []string{}
	}
	if contact.Emails == nil {
		contact.Emails = []string{}
	}
	snap.Contact = contact

	return snap, nil
}
