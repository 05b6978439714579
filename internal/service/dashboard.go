// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/vitrine/internal/store"
)

// DashboardCounts are the totals shown on the admin home page.
type DashboardCounts struct {
	Products    int64 `json:"products"`
	Blogs       int64 `json:"blogs"`
	Recipes     int64 `json:"recipes"`
	Messages    int64 `json:"messages"`
	Newsletters int64 `json:"newsletters"`
}

// DashboardService reads the admin home page aggregates.
type DashboardService struct {
	queries *store.Queries
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{queries: store.New(db)}
}

// Counts reads every total in parallel. The first failure cancels the rest.
func (s *DashboardService) Counts(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&c.Products, s.queries.CountProducts)
	count(&c.Blogs, s.queries.CountBlogs)
	count(&c.Recipes, s.queries.CountRecipes)
	count(&c.Messages, s.queries.CountMessages)
	count(&c.Newsletters, s.queries.CountNewsletters)

	if err := g.Wait(); err != nil {
		return DashboardCounts{}, err
	}
	return c, nil
}
