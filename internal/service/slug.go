// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"

	"github.com/olegiv/vitrine/internal/util"
	"github.com/olegiv/vitrine/internal/validation"
)

// slugTakenFunc reports whether slug is used by a row other than exceptID.
type slugTakenFunc func(ctx context.Context, slug string, exceptID int64) (bool, error)

// createSlug returns the explicit slug or derives one from the title.
func createSlug(explicit, title string) (string, error) {
	slug := strings.TrimSpace(explicit)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if slug == "" {
		return "", validation.Errors{"slug": "Slug could not be derived from the title; enter one"}
	}
	return slug, nil
}

// updateSlug keeps the stored slug unless an explicit one is supplied.
// Titles are never re-slugified on update.
func updateSlug(explicit, stored string) string {
	if slug := strings.TrimSpace(explicit); slug != "" {
		return slug
	}
	return stored
}

// checkSlug reports a field error when slug is already used.
func checkSlug(ctx context.Context, taken slugTakenFunc, slug string, exceptID int64) error {
	used, err := taken(ctx, slug, exceptID)
	if err != nil {
		return err
	}
	if used {
		return validation.Errors{"slug": "Slug is already in use"}
	}
	return nil
}
