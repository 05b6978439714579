// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot      = "/"
	RouteSuffixNew = "/new"
	RouteParamID   = "/{id}"
	RouteLogin     = "/login"
	RouteLogout    = "/logout"
	RouteUpload    = "/upload"
	RouteSlug      = "/slug"

	RouteSuffixEdit        = "/edit"
	RouteSuffixDelete      = "/delete"
	RouteSuffixTranslation = "/translation"
	RouteSuffixPreview     = "/preview"

	redirectAdmin = "/admin"
	redirectLogin = "/login"
)

// Form field carrying the one-time delete confirmation token.
const confirmTokenField = "confirm_token"

// Message shown when a delete form comes back without a valid token.
const msgConfirmExpired = "The confirmation expired. Please confirm the deletion again."

// Singleton settings pages.
const (
	pathSettings = "/admin/settings"
	pathAbout    = "/admin/about"
	pathServices = "/admin/services"
	pathContact  = "/admin/contact"
)
