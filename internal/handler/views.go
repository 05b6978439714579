// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
)

// DashboardView is the data of the admin home page.
type DashboardView struct {
	Counts service.DashboardCounts
	Failed bool
}

// MessageView is the data of the contact message page.
type MessageView struct {
	Message store.ContactMessage
}

// PreviewView is the data of the blog preview page.
type PreviewView struct {
	Preview service.BlogPreview
}

// Dashboard renders the entity totals.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.services.Dashboard.Counts(r.Context())
	if err != nil {
		h.logger.Error("loading dashboard counts failed", "error", err)
		h.render(w, r, http.StatusInternalServerError, "admin/dashboard", "Dashboard", DashboardView{Failed: true})
		return
	}
	h.render(w, r, http.StatusOK, "admin/dashboard", "Dashboard", DashboardView{Counts: counts})
}

// ViewMessage renders one contact message.
func (h *Handler) ViewMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	m, err := h.services.Messages.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, "loading message failed", "id", id, "error", err)
		return
	}
	h.render(w, r, http.StatusOK, "admin/message", m.Subject, MessageView{Message: m})
}

// PreviewBlog renders a blog's content next to its translation.
func (h *Handler) PreviewBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p, err := h.services.Blogs.Preview(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, "rendering blog preview failed", "id", id, "error", err)
		return
	}
	h.render(w, r, http.StatusOK, "admin/blog_preview", p.Blog.Title, PreviewView{Preview: p})
}
