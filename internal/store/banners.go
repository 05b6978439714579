// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/vitrine/internal/listing"
)

const bannerColumns = "id, title, subtitle, description, image_path, position, active, created_at, updated_at"

func scanBanner(row rowScanner) (Banner, error) {
	var b Banner
	err := row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Description, &b.ImagePath,
		&b.Position, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// BannerList lists carousel slides in display order.
var BannerList = ListSpec[Banner]{
	From:    "home_banners",
	Columns: bannerColumns,
	Search:  []string{"title"},
	OrderBy: "position ASC, id ASC",
	Scan:    scanBanner,
}

// BannerParams holds the writable columns of a banner.
type BannerParams struct {
	Title       string
	Subtitle    string
	Description string
	ImagePath   string
	Position    int64
	Active      bool
}

// CreateBanner inserts a banner.
func (q *Queries) CreateBanner(ctx context.Context, arg BannerParams) (Banner, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO home_banners (title, subtitle, description, image_path, position, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Subtitle, arg.Description, arg.ImagePath, arg.Position, arg.Active, ts, ts)
	if err != nil {
		return Banner{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Banner{}, err
	}
	return q.GetBannerByID(ctx, id)
}

// GetBannerByID returns one banner.
func (q *Queries) GetBannerByID(ctx context.Context, id int64) (Banner, error) {
	b, err := scanBanner(q.db.QueryRowContext(ctx, "SELECT "+bannerColumns+" FROM home_banners WHERE id = ?", id))
	return b, classify(err)
}

// ListBanners returns one page of banners.
func (q *Queries) ListBanners(ctx context.Context, req listing.Request) (listing.Page[Banner], error) {
	return List(ctx, q.db, BannerList, req)
}

// ActiveBanners returns the slides shown on the home page.
func (q *Queries) ActiveBanners(ctx context.Context) ([]Banner, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+bannerColumns+" FROM home_banners WHERE active = 1 ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	banners := []Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

// UpdateBanner rewrites every writable column of a banner.
func (q *Queries) UpdateBanner(ctx context.Context, id int64, arg BannerParams) (Banner, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE home_banners SET title = ?, subtitle = ?, description = ?, image_path = ?,
		        position = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Subtitle, arg.Description, arg.ImagePath, arg.Position, arg.Active, now(), id)
	if err != nil {
		return Banner{}, classify(err)
	}
	if err := affected(res); err != nil {
		return Banner{}, err
	}
	return q.GetBannerByID(ctx, id)
}

// DeleteBanner removes a banner and its shadow.
func (q *Queries) DeleteBanner(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM home_banners WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

const bannerTranslationColumns = "id, banner_id, lang, title, subtitle, description, is_auto, updated_at"

// GetBannerTranslation returns the shadow of a banner in lang.
func (q *Queries) GetBannerTranslation(ctx context.Context, bannerID int64, lang string) (BannerTranslation, error) {
	var t BannerTranslation
	err := q.db.QueryRowContext(ctx,
		"SELECT "+bannerTranslationColumns+" FROM home_banner_translations WHERE banner_id = ? AND lang = ?",
		bannerID, lang).Scan(&t.ID, &t.BannerID, &t.Lang, &t.Title, &t.Subtitle, &t.Description, &t.IsAuto, &t.UpdatedAt)
	return t, classify(err)
}

// CreateBannerTranslation inserts the shadow of a banner. An existing shadow is left as is.
func (q *Queries) CreateBannerTranslation(ctx context.Context, t BannerTranslation) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO home_banner_translations (banner_id, lang, title, subtitle, description, is_auto, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(banner_id, lang) DO NOTHING`,
		t.BannerID, t.Lang, t.Title, t.Subtitle, t.Description, t.IsAuto, now())
	return classify(err)
}

// UpdateAutoBannerTranslation overwrites the shadow only while it is still automatic.
func (q *Queries) UpdateAutoBannerTranslation(ctx context.Context, t BannerTranslation) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE home_banner_translations SET title = ?, subtitle = ?, description = ?, updated_at = ?
		 WHERE banner_id = ? AND lang = ? AND is_auto = 1`,
		t.Title, t.Subtitle, t.Description, now(), t.BannerID, t.Lang)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
