// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/vitrine/internal/service"
)

// SubmitContact stores a message from the public contact form.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[service.ContactInput](w, r)
	if !ok {
		return
	}
	out := h.services.Messages.Submit(r.Context(), in)
	if !out.Success {
		WriteJSON(w, out.Status(), out.Drop())
		return
	}
	// The stored row is not echoed back to anonymous callers.
	WriteJSON(w, http.StatusCreated, out.Drop())
}

// Subscribe adds an email to the newsletter. Subscribing twice succeeds.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[service.SubscribeInput](w, r)
	if !ok {
		return
	}
	out := h.services.Newsletters.Subscribe(r.Context(), in)
	WriteJSON(w, out.Status(), out.Drop())
}
