// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/store"
)

// autoField toggles whether a shadow follows the source automatically.
var autoField = render.Field{
	Name:  "is_auto",
	Label: "Translate automatically",
	Type:  render.FieldCheckbox,
	Help:  "Leave unchecked to keep this text when the source changes.",
}

// shadowEditor serves the hand-edit form of a translation shadow at
// {base}/{id}/translation.
type shadowEditor[S, In any] struct {
	h        *Handler
	base     string
	singular string
	fields   []render.Field
	get      func(context.Context, int64) (S, error)
	save     func(context.Context, int64, In) action.Outcome[S]
}

func (s *shadowEditor[S, In]) routes(r chi.Router) {
	path := s.base + RouteParamID + RouteSuffixTranslation
	r.Get(path, s.form)
	r.Post(path, s.post)
}

func (s *shadowEditor[S, In]) view(id int64) FormView {
	target := s.base + "/" + strconv.FormatInt(id, 10) + RouteSuffixTranslation
	return FormView{
		Heading: "Translate " + strings.ToLower(s.singular),
		Action:  target,
		Back:    s.base,
		Submit:  "Save translation",
		Fields:  append(append([]render.Field(nil), s.fields...), autoField),
	}
}

func (s *shadowEditor[S, In]) form(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		s.h.NotFound(w, r)
		return
	}
	shadow, err := s.get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.h.NotFound(w, r)
		return
	}
	if err != nil {
		s.h.serverError(w, r, "loading translation failed", "path", s.base, "id", id, "error", err)
		return
	}
	view := s.view(id)
	view.Values = valuesOf(shadow)
	s.h.render(w, r, http.StatusOK, "admin/form", view.Heading, view)
}

func (s *shadowEditor[S, In]) post(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		s.h.NotFound(w, r)
		return
	}

	var (
		in  In
		out action.Outcome[S]
	)
	if err := decodeForm(r, &in); err != nil {
		out = action.FromError[S](err, "Translation")
	} else {
		out = s.save(r.Context(), id, in)
	}
	switch {
	case out.Success:
		flashSuccess(w, r, s.h.renderer, s.base, out.Message)
	case out.Kind == action.KindNotFound:
		s.h.NotFound(w, r)
	default:
		view := s.view(id)
		view.Values = r.PostForm
		view.Message = out.Message
		view.Errors = out.Fields
		s.h.render(w, r, out.Status(), "admin/form", view.Heading, view)
	}
}
