// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API: the token-protected admin resources
// consumed by vitrinectl, the public submission endpoints and the cached
// site settings.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/version"
)

// Deps are the collaborators of the API handlers.
type Deps struct {
	Services *service.Services
	// Hints serves list ETags. Optional.
	Hints    *cache.PathVersions
	PageSize int
	Logger   *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	services *service.Services
	hints    *cache.PathVersions
	pageSize int
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &Handler{
		services: d.Services,
		hints:    d.Hints,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Response is the wrapper of single-object reads.
type Response struct {
	Data any `json:"data"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response wrapping data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string       `json:"status"`
	API     string       `json:"api"`
	Version version.Info `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		API:     "v1",
		Version: version.Get(),
	})
}

// Settings serves the cached site snapshot: settings row, active banners
// and contact coordinates.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	snap, err := h.services.Settings.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("reading site settings", "error", err)
		WriteInternalError(w, "Failed to load settings")
		return
	}
	WriteSuccess(w, snap)
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
