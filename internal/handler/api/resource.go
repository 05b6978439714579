// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/store"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// result is an action.Outcome of any payload type.
type result interface {
	Status() int
}

// resource serves one entity kind:
//
//	GET    /{kind}?page=&query=&per_page=  listing.Page
//	GET    /{kind}/{id}                    {"data": item}
//	POST   /{kind}                         action.Outcome
//	PUT    /{kind}/{id}                    action.Outcome
//	DELETE /{kind}/{id}                    action.Outcome
//
// Mutations are registered only when their func is set.
type resource[T, In any] struct {
	h       *Handler
	kind    string
	path    string // admin listing path whose version tags the list
	subject string

	list   func(context.Context, listing.Request) (listing.Page[T], error)
	get    func(context.Context, int64) (any, error)
	create func(context.Context, In) result
	update func(context.Context, int64, In) result
	remove func(context.Context, int64) result
}

func (res *resource[T, In]) routes(r chi.Router) {
	base := "/" + res.kind
	item := base + "/{id}"

	r.With(middleware.ListETag(res.h.hints, res.path)).Get(base, res.index)
	if res.get != nil {
		r.Get(item, res.show)
	}
	if res.create != nil {
		r.Post(base, res.createJSON)
	}
	if res.update != nil {
		r.Put(item, res.updateJSON)
	}
	if res.remove != nil {
		r.Delete(item, res.deleteJSON)
	}
}

func (res *resource[T, In]) index(w http.ResponseWriter, r *http.Request) {
	req := listing.ParseRequest(r.URL.Query(), res.h.pageSize)
	page, err := res.list(r.Context(), req)
	if err != nil {
		res.h.logger.Error("listing failed", "kind", res.kind, "error", err)
		WriteInternalError(w, "Failed to load "+res.kind)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (res *resource[T, In]) show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteBadRequest(w, "Invalid "+res.subject+" ID")
		return
	}
	item, err := res.get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, res.subject+" not found")
	case err != nil:
		res.h.logger.Error("reading item failed", "kind", res.kind, "id", id, "error", err)
		WriteInternalError(w, "Failed to load "+res.subject)
	default:
		WriteSuccess(w, item)
	}
}

func (res *resource[T, In]) createJSON(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[In](w, r)
	if !ok {
		return
	}
	out := res.create(r.Context(), in)
	status := out.Status()
	if status == http.StatusOK {
		status = http.StatusCreated
	}
	WriteJSON(w, status, out)
}

func (res *resource[T, In]) updateJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteBadRequest(w, "Invalid "+res.subject+" ID")
		return
	}
	in, ok := decodeInput[In](w, r)
	if !ok {
		return
	}
	out := res.update(r.Context(), id, in)
	WriteJSON(w, out.Status(), out)
}

func (res *resource[T, In]) deleteJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteBadRequest(w, "Invalid "+res.subject+" ID")
		return
	}
	out := res.remove(r.Context(), id)
	WriteJSON(w, out.Status(), out)
}

// decodeInput reads a JSON body into In. A malformed body is answered with
// a failed outcome so clients only ever parse one mutation shape.
func decodeInput[In any](w http.ResponseWriter, r *http.Request) (In, bool) {
	var in In
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		WriteJSON(w, http.StatusBadRequest, action.Fail[action.None](action.KindValidation, "Invalid request body: "+err.Error()))
		return in, false
	}
	return in, true
}
