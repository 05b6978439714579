// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/translate"
	"github.com/olegiv/vitrine/internal/validation"
)

// BannerInput is the form of a home carousel slide.
type BannerInput struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=200" label:"Title"`
	Subtitle    string `form:"subtitle" json:"subtitle" validate:"max=200" label:"Subtitle"`
	Description string `form:"description" json:"description" validate:"max=2000" label:"Description"`
	ImagePath   string `form:"image_path" json:"image_path" validate:"required,max=500" label:"Image"`
	Position    int64  `form:"position" json:"position" validate:"gte=0,lte=1000" label:"Position"`
	Active      bool   `form:"active" json:"active"`
}

func (in BannerInput) params() store.BannerParams {
	return store.BannerParams{
		Title:       strings.TrimSpace(in.Title),
		Subtitle:    strings.TrimSpace(in.Subtitle),
		Description: in.Description,
		ImagePath:   in.ImagePath,
		Position:    in.Position,
		Active:      in.Active,
	}
}

// BannerService manages home carousel slides. Writes invalidate the
// settings cache, which carries the active slides.
type BannerService struct {
	base
}

// NewBannerService creates a BannerService.
func NewBannerService(d Deps) *BannerService {
	return &BannerService{base: newBase(d)}
}

// List returns one page of banners in display order.
func (s *BannerService) List(ctx context.Context, req listing.Request) (listing.Page[store.Banner], error) {
	return s.queries.ListBanners(ctx, req)
}

// Get returns one banner.
func (s *BannerService) Get(ctx context.Context, id int64) (store.Banner, error) {
	return s.queries.GetBannerByID(ctx, id)
}

// Translation returns the shadow of banner id.
func (s *BannerService) Translation(ctx context.Context, id int64) (store.BannerTranslation, error) {
	return s.queries.GetBannerTranslation(ctx, id, s.shadows.lang())
}

// Create validates in and inserts a banner with a provisional shadow.
func (s *BannerService) Create(ctx context.Context, in BannerInput) action.Outcome[store.Banner] {
	b, err := s.create(ctx, in)
	return outcome("Banner", "created", b, err)
}

func (s *BannerService) create(ctx context.Context, in BannerInput) (store.Banner, error) {
	if err := validation.Struct(in); err != nil {
		return store.Banner{}, err
	}

	var b store.Banner
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if b, err = q.CreateBanner(ctx, in.params()); err != nil {
			return err
		}
		return q.CreateBannerTranslation(ctx, s.sourceShadow(b))
	})
	if err != nil {
		return store.Banner{}, err
	}

	s.logger.Info("banner created", "banner_id", b.ID)
	s.translate(nil, b)
	s.invalidateSettings(ctx)
	s.touched(ctx, PathBanners)
	return b, nil
}

// Update validates in and rewrites banner id. Only fields whose source
// text changed are sent for translation again.
func (s *BannerService) Update(ctx context.Context, id int64, in BannerInput) action.Outcome[store.Banner] {
	b, err := s.update(ctx, id, in)
	return outcome("Banner", "updated", b, err)
}

func (s *BannerService) update(ctx context.Context, id int64, in BannerInput) (store.Banner, error) {
	if err := validation.Struct(in); err != nil {
		return store.Banner{}, err
	}
	previous, err := s.queries.GetBannerByID(ctx, id)
	if err != nil {
		return store.Banner{}, err
	}

	var b store.Banner
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if b, err = q.UpdateBanner(ctx, id, in.params()); err != nil {
			return err
		}
		return q.CreateBannerTranslation(ctx, s.sourceShadow(b))
	})
	if err != nil {
		return store.Banner{}, err
	}

	s.logger.Info("banner updated", "banner_id", b.ID)
	s.translate(&previous, b)
	s.invalidateSettings(ctx)
	s.touched(ctx, PathBanners)
	return b, nil
}

// Delete removes banner id.
func (s *BannerService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteBanner(ctx, id)
	if err == nil {
		s.logger.Info("banner deleted", "banner_id", id)
		s.invalidateSettings(ctx)
		s.touched(ctx, PathBanners)
	}
	return deleted("Banner", err)
}

func (s *BannerService) sourceShadow(b store.Banner) store.BannerTranslation {
	return store.BannerTranslation{
		BannerID:    b.ID,
		Lang:        s.shadows.lang(),
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Description: b.Description,
		IsAuto:      true,
	}
}

// translate refreshes the shadow of b. With a previous version, fields
// whose text did not change keep their current translation.
func (s *BannerService) translate(previous *store.Banner, b store.Banner) {
	s.shadows.schedule(fmt.Sprintf("banner:%d", b.ID), 3, func(ctx context.Context, tr *translate.Bounded) (func(context.Context) error, error) {
		current, err := s.queries.GetBannerTranslation(ctx, b.ID, tr.Target)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if !current.IsAuto {
			return nil, nil
		}

		next := store.BannerTranslation{
			BannerID:    b.ID,
			Lang:        tr.Target,
			Title:       current.Title,
			Subtitle:    current.Subtitle,
			Description: current.Description,
		}
		fields := []struct {
			source, old string
			dst         *string
		}{
			{b.Title, previousField(previous, func(p *store.Banner) string { return p.Title }), &next.Title},
			{b.Subtitle, previousField(previous, func(p *store.Banner) string { return p.Subtitle }), &next.Subtitle},
			{b.Description, previousField(previous, func(p *store.Banner) string { return p.Description }), &next.Description},
		}

		var texts []string
		var dsts []*string
		for _, f := range fields {
			// The shadow still holds source text right after creation.
			if previous == nil || f.source != f.old || *f.dst == f.source {
				texts = append(texts, f.source)
				dsts = append(dsts, f.dst)
			}
		}
		if len(texts) == 0 {
			return nil, nil
		}
		for i, out := range tr.Texts(ctx, texts...) {
			*dsts[i] = out
		}

		return func(ctx context.Context) error {
			_, err := s.queries.UpdateAutoBannerTranslation(ctx, next)
			return err
		}, nil
	})
}

func previousField(p *store.Banner, get func(*store.Banner) string) string {
	if p == nil {
		return ""
	}
	return get(p)
}
