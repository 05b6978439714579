// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/service"
)

// router is implemented by every route group of the admin.
type router interface {
	routes(r chi.Router)
}

// RegisterAuth mounts the sign-in and sign-out routes. Rate limiting of
// POST /login is left to the caller.
func (h *Handler) RegisterAuth(r chi.Router) {
	r.Get(RouteLogin, h.LoginForm)
	r.Post(RouteLogin, h.Login)
	r.Post(RouteLogout, h.Logout)
}

// RegisterAdmin mounts the admin console under /admin. The caller applies
// authentication and the admin role gate.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get(redirectAdmin, h.Dashboard)
	r.Post(redirectAdmin+RouteUpload, h.Upload)
	r.Get(redirectAdmin+RouteSlug, h.Slug)

	services := h.services
	groups := []router{
		h.products(),
		h.blogs(),
		h.blogTranslations(),
		h.recipes(),
		h.recipeTranslations(),
		h.terms(services.BlogCategories, service.PathBlogCategories, "Blog category", "Blog categories"),
		h.termTranslations(services.BlogCategories, service.PathBlogCategories, "Blog category"),
		h.terms(services.RecipeCategories, service.PathRecipeCategories, "Recipe category", "Recipe categories"),
		h.termTranslations(services.RecipeCategories, service.PathRecipeCategories, "Recipe category"),
		h.terms(services.Tags, service.PathTags, "Tag", "Tags"),
		h.termTranslations(services.Tags, service.PathTags, "Tag"),
		h.banners(),
		h.messages(),
		h.newsletters(),
		h.users(),
		h.events(),
		h.benefits(),
		h.siteSettings(),
		h.aboutPage(),
		h.servicesPage(),
		h.contactPage(),
	}
	for _, g := range groups {
		g.routes(r)
	}

	r.Get(service.PathMessages+RouteParamID, h.ViewMessage)
	r.Get(service.PathBlogs+RouteParamID+RouteSuffixPreview, h.PreviewBlog)
}
