// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
)

// Per-IP request budgets.
const (
	requestsPerMinute = 120
	submitsPerMinute  = 5
)

// apiActorID is the acting user of deletes made with the API token. No
// account has it, so the self-delete rule never triggers; the last-admin
// rule still does.
const apiActorID = 0

// Routes builds the /api/v1 router. The admin resources are mounted only
// when token is set.
func (h *Handler) Routes(token string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RateLimit(requestsPerMinute, time.Minute))

	r.Get("/status", h.Status)
	r.Get("/settings", h.Settings)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(submitsPerMinute, time.Minute))
		r.Post("/public/contact", h.SubmitContact)
		r.Post("/public/newsletter", h.Subscribe)
	})

	if token != "" {
		r.Group(func(r chi.Router) {
			r.Use(middleware.APITokenAuth(token))
			for _, res := range h.resources() {
				res.routes(r)
			}
		})
	}
	return r
}

type router interface {
	routes(r chi.Router)
}

func (h *Handler) resources() []router {
	s := h.services
	return []router{
		&resource[store.Product, service.ProductInput]{
			h: h, kind: "products", path: service.PathProducts, subject: "Product",
			list: s.Products.List, get: getter(s.Products.Get),
			create: creator(s.Products.Create), update: updater(s.Products.Update), remove: remover(s.Products.Delete),
		},
		&resource[store.BlogListRow, service.BlogInput]{
			h: h, kind: "blogs", path: service.PathBlogs, subject: "Blog",
			list: s.Blogs.List, get: getter(s.Blogs.Get),
			create: creator(s.Blogs.Create), update: updater(s.Blogs.Update), remove: remover(s.Blogs.Delete),
		},
		&resource[store.RecipeListRow, service.RecipeInput]{
			h: h, kind: "recipes", path: service.PathRecipes, subject: "Recipe",
			list: s.Recipes.List, get: getter(s.Recipes.Get),
			create: creator(s.Recipes.Create), update: updater(s.Recipes.Update), remove: remover(s.Recipes.Delete),
		},
		h.terms(s.BlogCategories, "blog-categories", service.PathBlogCategories, "Category"),
		h.terms(s.RecipeCategories, "recipe-categories", service.PathRecipeCategories, "Category"),
		h.terms(s.Tags, "tags", service.PathTags, "Tag"),
		&resource[store.Banner, service.BannerInput]{
			h: h, kind: "banners", path: service.PathBanners, subject: "Banner",
			list: s.Banners.List, get: getter(s.Banners.Get),
			create: creator(s.Banners.Create), update: updater(s.Banners.Update), remove: remover(s.Banners.Delete),
		},
		&resource[store.ContactMessage, struct{}]{
			h: h, kind: "messages", path: service.PathMessages, subject: "Message",
			list: s.Messages.List, get: getter(s.Messages.Get), remove: remover(s.Messages.Delete),
		},
		&resource[store.NewsletterEmail, service.SubscribeInput]{
			h: h, kind: "newsletters", path: service.PathNewsletters, subject: "Subscription",
			list: s.Newsletters.List, get: getter(s.Newsletters.Get),
			create: creator(s.Newsletters.Subscribe), remove: remover(s.Newsletters.Delete),
		},
		&resource[store.User, service.UserInput]{
			h: h, kind: "users", path: service.PathUsers, subject: "User",
			list: s.Users.List, get: getter(s.Users.Get),
			create: creator(s.Users.Create), update: updater(s.Users.Update),
			remove: func(ctx context.Context, id int64) result {
				return s.Users.Delete(ctx, apiActorID, id)
			},
		},
		&resource[store.Event, struct{}]{
			h: h, kind: "events", path: service.PathEvents, subject: "Event",
			list: s.Events.List,
		},
		&resource[store.ServiceBenefit, service.BenefitInput]{
			h: h, kind: "benefits", path: service.PathBenefits, subject: "Benefit",
			list: func(ctx context.Context, req listing.Request) (listing.Page[store.ServiceBenefit], error) {
				all, err := s.Settings.Benefits(ctx)
				if err != nil {
					return listing.Page[store.ServiceBenefit]{}, err
				}
				return listing.Slice(all, req), nil
			},
			get:    getter(s.Settings.Benefit),
			create: creator(s.Settings.CreateBenefit), update: updater(s.Settings.UpdateBenefit), remove: remover(s.Settings.DeleteBenefit),
		},
	}
}

func (h *Handler) terms(svc *service.TermService, kind, path, subject string) *resource[store.Term, service.TermInput] {
	return &resource[store.Term, service.TermInput]{
		h: h, kind: kind, path: path, subject: subject,
		list: svc.List, get: getter(svc.Get),
		create: creator(svc.Create), update: updater(svc.Update), remove: remover(svc.Delete),
	}
}

func getter[T any](fn func(context.Context, int64) (T, error)) func(context.Context, int64) (any, error) {
	return func(ctx context.Context, id int64) (any, error) {
		return fn(ctx, id)
	}
}

func creator[In, T any](fn func(context.Context, In) action.Outcome[T]) func(context.Context, In) result {
	return func(ctx context.Context, in In) result {
		return fn(ctx, in)
	}
}

func updater[In, T any](fn func(context.Context, int64, In) action.Outcome[T]) func(context.Context, int64, In) result {
	return func(ctx context.Context, id int64, in In) result {
		return fn(ctx, id, in)
	}
}

func remover(fn func(context.Context, int64) action.Outcome[action.None]) func(context.Context, int64) result {
	return func(ctx context.Context, id int64) result {
		return fn(ctx, id)
	}
}
