// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the server-rendered admin console. Every list
// screen goes through the same resource type: a page request parsed from
// the URL, the list view's failed state on read errors, clamping when the
// requested page no longer exists, and a confirmation page in front of
// every delete.
package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/confirm"
	"github.com/olegiv/vitrine/internal/imaging"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/service"
)

// Deps are the collaborators of the admin handlers.
type Deps struct {
	DB         *sql.DB
	Renderer   *render.Renderer
	Sessions   *scs.SessionManager
	Services   *service.Services
	Uploads    *imaging.Processor
	LoginGuard *middleware.LoginGuard
	// Hints serves list ETags. Optional.
	Hints    *cache.PathVersions
	PageSize int
	Logger   *slog.Logger
}

// Handler holds the admin handlers.
type Handler struct {
	db       *sql.DB
	renderer *render.Renderer
	sessions *scs.SessionManager
	services *service.Services
	uploads  *imaging.Processor
	guard    *middleware.LoginGuard
	hints    *cache.PathVersions
	gate     *confirm.Gate
	pageSize int
	logger   *slog.Logger
}

// New creates the admin handlers.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &Handler{
		db:       d.DB,
		renderer: d.Renderer,
		sessions: d.Sessions,
		services: d.Services,
		uploads:  d.Uploads,
		guard:    d.LoginGuard,
		hints:    d.Hints,
		gate:     confirm.NewGate(d.Sessions),
		pageSize: pageSize,
		logger:   logger,
	}
}

// ErrorView is the data of the error page.
type ErrorView struct {
	Status  int
	Message string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	err := h.renderer.RenderStatus(w, r, status, name, render.TemplateData{Title: title, Data: data})
	if err != nil {
		logAndInternalError(w, "render failed", "template", name, "error", err)
	}
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "errors/error", http.StatusText(status), ErrorView{Status: status, Message: message})
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, args ...any) {
	h.logger.Error(msg, args...)
	h.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
