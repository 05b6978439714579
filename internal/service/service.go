// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the mutation actions of every admin entity.
// Each create, update and delete validates its typed input, writes through
// the store and reports an action.Outcome; nothing returns a raw error to
// the rendering layer. Side effects (translation shadows, settings cache
// invalidation, listing version hints) are issued after the write.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/translate"
)

// Admin listing paths bumped after mutations.
const (
	PathProducts         = "/admin/products"
	PathBlogs            = "/admin/blogs"
	PathRecipes          = "/admin/recipes"
	PathBlogCategories   = "/admin/blog-categories"
	PathRecipeCategories = "/admin/recipe-categories"
	PathTags             = "/admin/tags"
	PathMessages         = "/admin/messages"
	PathNewsletters      = "/admin/newsletters"
	PathBanners          = "/admin/banners"
	PathUsers            = "/admin/users"
	PathEvents           = "/admin/events"
	PathBenefits         = "/admin/services/benefits"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	DB     *sql.DB
	Logger *slog.Logger

	// Hints receives listing version bumps. Optional.
	Hints *cache.PathVersions
	// Settings is invalidated by settings, contact and banner writes. Optional.
	Settings *cache.SettingsCache

	// Translator produces the shadows. Nil disables translation: shadows
	// keep the source text.
	Translator translate.Translator
	// Runner runs translation jobs in the background. Nil runs them inline
	// before the mutation returns.
	Runner           *translate.Runner
	SourceLang       string
	TargetLang       string
	TranslateTimeout time.Duration
}

// base carries the plumbing every entity service embeds.
type base struct {
	db       *sql.DB
	queries  *store.Queries
	logger   *slog.Logger
	hints    *cache.PathVersions
	settings *cache.SettingsCache
	shadows  *shadows
}

func newBase(d Deps) base {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		db:       d.DB,
		queries:  store.New(d.DB),
		logger:   logger,
		hints:    d.Hints,
		settings: d.Settings,
		shadows:  newShadows(d, logger),
	}
}

// touched issues the cache-invalidation hint for listing paths. Failures
// are logged only: the list view re-fetches after every mutation anyway.
func (b *base) touched(ctx context.Context, paths ...string) {
	if b.hints == nil {
		return
	}
	if err := b.hints.Bump(ctx, paths...); err != nil {
		b.logger.Warn("bumping listing version failed", "category", "cache", "paths", paths, "error", err)
	}
}

// invalidateSettings drops the cached site snapshot.
func (b *base) invalidateSettings(ctx context.Context) {
	if b.settings == nil {
		return
	}
	if err := b.settings.Invalidate(ctx); err != nil {
		b.logger.Warn("invalidating settings cache failed", "category", "cache", "error", err)
	}
}

// outcome converts a service result into an Outcome.
func outcome[T any](subject, verb string, v T, err error) action.Outcome[T] {
	if err != nil {
		return action.FromError[T](err, subject)
	}
	return action.OK(subject+" "+verb, v)
}

// deleted converts the result of a delete into an Outcome.
func deleted(subject string, err error) action.Outcome[action.None] {
	if err != nil {
		return action.FromError[action.None](err, subject)
	}
	return action.Done(subject + " deleted")
}

// Services bundles the entity services wired to one set of Deps.
type Services struct {
	Products         *ProductService
	Blogs            *BlogService
	Recipes          *RecipeService
	BlogCategories   *TermService
	RecipeCategories *TermService
	Tags             *TermService
	Messages         *MessageService
	Newsletters      *NewsletterService
	Banners          *BannerService
	Users            *UserService
	Settings         *SettingsService
	Events           *EventService
	Dashboard        *DashboardService
}

// New wires every service.
func New(d Deps) *Services {
	return &Services{
		Products:         NewProductService(d),
		Blogs:            NewBlogService(d),
		Recipes:          NewRecipeService(d),
		BlogCategories:   NewTermService(d, store.BlogCategories, PathBlogCategories),
		RecipeCategories: NewTermService(d, store.RecipeCategories, PathRecipeCategories),
		Tags:             NewTermService(d, store.Tags, PathTags),
		Messages:         NewMessageService(d),
		Newsletters:      NewNewsletterService(d),
		Banners:          NewBannerService(d),
		Users:            NewUserService(d),
		Settings:         NewSettingsService(d),
		Events:           NewEventService(d.DB),
		Dashboard:        NewDashboardService(d.DB),
	}
}
