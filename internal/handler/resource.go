// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

// ListView is the data of the generic list page.
type ListView struct {
	Heading    string
	BasePath   string
	Columns    []string
	Page       listing.Page[ListRow]
	Query      string
	Return     string
	Failed     bool
	Searchable bool
	CanCreate  bool
	CanEdit    bool
	CanView    bool
	CanDelete  bool
	RowLinks   []RowLink
}

// ListRow is one table row.
type ListRow struct {
	ID    int64
	Cells []string
}

// RowLink is an extra per-row action, linked at {base}/{id}/{Suffix}.
type RowLink struct {
	Label  string
	Suffix string
}

// FormView is the data of the generic form page.
type FormView struct {
	Heading  string
	Action   string
	Back     string
	Submit   string
	Message  string
	Fields   []render.Field
	Values   url.Values
	Errors   validation.Errors
	Preview  template.HTML
	Children *ListView
}

// ConfirmView is the data of the delete confirmation page.
type ConfirmView struct {
	Heading string
	Subject string
	Label   string
	Action  string
	Token   string
	Return  string
	Cancel  string
}

// resource serves the list, form and delete screens of one entity kind.
// Nil create, update or remove functions leave those routes out.
type resource[T, In any] struct {
	h          *Handler
	base       string
	singular   string
	heading    string
	columns    []string
	cells      func(T) []string
	id         func(T) int64
	label      func(T) string
	fields     func(context.Context) ([]render.Field, error)
	defaults   url.Values
	searchable bool
	canView    bool
	links      []RowLink

	list func(context.Context, listing.Request) (listing.Page[T], error)
	get  func(context.Context, int64) (T, error)
	// edit loads what refills the edit form when T is only a list row.
	edit   func(context.Context, int64) (any, error)
	create func(context.Context, In) action.Outcome[T]
	update func(context.Context, int64, In) action.Outcome[T]
	remove func(*http.Request, int64) action.Outcome[action.None]
}

func (res *resource[T, In]) routes(r chi.Router) {
	r.Get(res.base, res.listPage)
	if res.create != nil {
		r.Get(res.base+RouteSuffixNew, res.newForm)
		r.Post(res.base, res.createPost)
	}
	if res.update != nil {
		r.Get(res.base+RouteParamID+RouteSuffixEdit, res.editForm)
		r.Post(res.base+RouteParamID, res.updatePost)
	}
	if res.remove != nil {
		r.Get(res.base+RouteParamID+RouteSuffixDelete, res.confirmDelete)
		r.Post(res.base+RouteParamID+RouteSuffixDelete, res.deletePost)
	}
}

func (res *resource[T, In]) listView(req listing.Request) ListView {
	return ListView{
		Heading:    res.heading,
		BasePath:   res.base,
		Columns:    res.columns,
		Query:      req.Query,
		Return:     render.PageURL(res.base, req.Query, req.Page),
		Searchable: res.searchable,
		CanCreate:  res.create != nil,
		CanEdit:    res.update != nil,
		CanView:    res.canView,
		CanDelete:  res.remove != nil,
		RowLinks:   res.links,
	}
}

func (res *resource[T, In]) row(item T) ListRow {
	return ListRow{ID: res.id(item), Cells: res.cells(item)}
}

// listPage renders one page of the listing. A failed read renders the
// failed state with 500; a page past the end redirects to the last one.
func (res *resource[T, In]) listPage(w http.ResponseWriter, r *http.Request) {
	req := listing.ParseRequest(r.URL.Query(), res.h.pageSize)
	view := res.listView(req)

	page, err := res.list(r.Context(), req)
	if err != nil {
		res.h.logger.Error("loading list failed",
			"path", res.base, "page", req.Page, "query", req.Query, "error", err)
		view.Failed = true
		view.Page = listing.Page[ListRow]{Page: req.Page, PageSize: req.PageSize}
		res.h.render(w, r, http.StatusInternalServerError, "admin/list", res.heading, view)
		return
	}

	if page.BeyondLast() {
		target := listing.ClampPage(req.Page, page.TotalPages)
		http.Redirect(w, r, render.PageURL(res.base, req.Query, target), http.StatusSeeOther)
		return
	}

	view.Page = listing.Map(page, res.row)
	res.h.render(w, r, http.StatusOK, "admin/list", res.heading, view)
}

func (res *resource[T, In]) formView(ctx context.Context, heading, actionURL, submit string) (FormView, error) {
	fields, err := res.fields(ctx)
	if err != nil {
		return FormView{}, err
	}
	return FormView{
		Heading: heading,
		Action:  actionURL,
		Back:    res.base,
		Submit:  submit,
		Fields:  fields,
		Values:  url.Values{},
	}, nil
}

func (res *resource[T, In]) newForm(w http.ResponseWriter, r *http.Request) {
	view, err := res.formView(r.Context(), "New "+strings.ToLower(res.singular), res.base, "Create")
	if err != nil {
		res.h.serverError(w, r, "loading form options failed", "path", res.base, "error", err)
		return
	}
	for k, v := range res.defaults {
		view.Values[k] = append([]string(nil), v...)
	}
	res.h.render(w, r, http.StatusOK, "admin/form", view.Heading, view)
}

func (res *resource[T, In]) createPost(w http.ResponseWriter, r *http.Request) {
	var (
		in  In
		out action.Outcome[T]
	)
	if err := decodeForm(r, &in); err != nil {
		out = action.FromError[T](err, res.singular)
	} else {
		out = res.create(r.Context(), in)
	}
	if out.Success {
		flashSuccess(w, r, res.h.renderer, res.base, out.Message)
		return
	}
	res.rerender(w, r, "New "+strings.ToLower(res.singular), res.base, "Create", out)
}

func (res *resource[T, In]) editForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		res.h.NotFound(w, r)
		return
	}

	var (
		src any
		err error
	)
	if res.edit != nil {
		src, err = res.edit(r.Context(), id)
	} else {
		src, err = res.get(r.Context(), id)
	}
	if !res.found(w, r, id, err) {
		return
	}

	view, err := res.formView(r.Context(), "Edit "+strings.ToLower(res.singular), res.itemURL(id), "Save")
	if err != nil {
		res.h.serverError(w, r, "loading form options failed", "path", res.base, "error", err)
		return
	}
	view.Values = valuesOf(src)
	res.h.render(w, r, http.StatusOK, "admin/form", view.Heading, view)
}

func (res *resource[T, In]) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		res.h.NotFound(w, r)
		return
	}

	var (
		in  In
		out action.Outcome[T]
	)
	if err := decodeForm(r, &in); err != nil {
		out = action.FromError[T](err, res.singular)
	} else {
		out = res.update(r.Context(), id, in)
	}
	switch {
	case out.Success:
		flashSuccess(w, r, res.h.renderer, res.base, out.Message)
	case out.Kind == action.KindNotFound:
		res.h.NotFound(w, r)
	default:
		res.rerender(w, r, "Edit "+strings.ToLower(res.singular), res.itemURL(id), "Save", out)
	}
}

// rerender shows the submitted form again with the failure message and
// per-field errors.
func (res *resource[T, In]) rerender(w http.ResponseWriter, r *http.Request, heading, actionURL, submit string, out action.Outcome[T]) {
	view, err := res.formView(r.Context(), heading, actionURL, submit)
	if err != nil {
		res.h.serverError(w, r, "loading form options failed", "path", res.base, "error", err)
		return
	}
	view.Values = r.PostForm
	view.Message = out.Message
	view.Errors = out.Fields
	res.h.render(w, r, out.Status(), "admin/form", heading, view)
}

func (res *resource[T, In]) confirmDelete(w http.ResponseWriter, r *http.Request) {
	item, ok := res.load(w, r)
	if !ok {
		return
	}
	id := res.id(item)
	back := safeReturn(r.URL.Query().Get("return"), res.base)
	subject := strings.ToLower(res.singular)

	res.h.render(w, r, http.StatusOK, "admin/confirm_delete", "Delete "+subject, ConfirmView{
		Heading: "Delete " + subject,
		Subject: subject,
		Label:   res.label(item),
		Action:  res.itemURL(id) + RouteSuffixDelete,
		Token:   res.h.gate.Issue(r.Context(), res.itemURL(id)),
		Return:  back,
		Cancel:  back,
	})
}

// deletePost deletes only with the token issued by confirmDelete, then
// returns to the listing page the delete started from.
func (res *resource[T, In]) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		res.h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, res.h.renderer, res.base, "Invalid form data")
		return
	}
	back := safeReturn(r.PostForm.Get("return"), res.base)

	if !res.h.gate.Confirm(r.Context(), res.itemURL(id), r.PostForm.Get(confirmTokenField)) {
		flashError(w, r, res.h.renderer, back, msgConfirmExpired)
		return
	}

	out := res.remove(r, id)
	flashOutcome(w, r, res.h.renderer, back, out)
}

// load fetches the {id} item, rendering 404 or 500 itself on failure.
func (res *resource[T, In]) load(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	id, ok := parseIDParam(r)
	if !ok {
		res.h.NotFound(w, r)
		return zero, false
	}
	item, err := res.get(r.Context(), id)
	if !res.found(w, r, id, err) {
		return zero, false
	}
	return item, true
}

// found reports whether err is nil, rendering the 404 or 500 page when not.
func (res *resource[T, In]) found(w http.ResponseWriter, r *http.Request, id int64, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrNotFound):
		res.h.NotFound(w, r)
	default:
		res.h.serverError(w, r, "loading item failed", "path", res.base, "id", id, "error", err)
	}
	return false
}

func (res *resource[T, In]) itemURL(id int64) string {
	return res.base + "/" + strconv.FormatInt(id, 10)
}

// staticFields adapts a fixed field list to resource.fields.
func staticFields(fields ...render.Field) func(context.Context) ([]render.Field, error) {
	return func(context.Context) ([]render.Field, error) {
		return fields, nil
	}
}
