// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/service"
)

// singleton serves the edit form of a one-row settings section.
type singleton[T, In any] struct {
	h       *Handler
	path    string
	heading string
	fields  []render.Field
	get     func(context.Context) (T, error)
	save    func(context.Context, In) action.Outcome[T]

	// Optional extras shown under the form.
	preview  func(context.Context) (template.HTML, error)
	children func(context.Context) (*ListView, error)
}

func (s *singleton[T, In]) routes(r chi.Router) {
	r.Get(s.path, s.form)
	r.Post(s.path, s.post)
}

func (s *singleton[T, In]) view(ctx context.Context) (FormView, error) {
	view := FormView{
		Heading: s.heading,
		Action:  s.path,
		Submit:  "Save",
		Fields:  s.fields,
	}
	if s.preview != nil {
		html, err := s.preview(ctx)
		if err != nil {
			return view, err
		}
		view.Preview = html
	}
	if s.children != nil {
		list, err := s.children(ctx)
		if err != nil {
			return view, err
		}
		view.Children = list
	}
	return view, nil
}

func (s *singleton[T, In]) form(w http.ResponseWriter, r *http.Request) {
	current, err := s.get(r.Context())
	if err != nil {
		s.h.serverError(w, r, "loading settings failed", "path", s.path, "error", err)
		return
	}
	view, err := s.view(r.Context())
	if err != nil {
		s.h.serverError(w, r, "loading settings extras failed", "path", s.path, "error", err)
		return
	}
	view.Values = valuesOf(current)
	s.h.render(w, r, http.StatusOK, "admin/form", s.heading, view)
}

func (s *singleton[T, In]) post(w http.ResponseWriter, r *http.Request) {
	var (
		in  In
		out action.Outcome[T]
	)
	if err := decodeForm(r, &in); err != nil {
		out = action.FromError[T](err, s.heading)
	} else {
		out = s.save(r.Context(), in)
	}
	if out.Success {
		flashSuccess(w, r, s.h.renderer, s.path, out.Message)
		return
	}

	view, err := s.view(r.Context())
	if err != nil {
		s.h.serverError(w, r, "loading settings extras failed", "path", s.path, "error", err)
		return
	}
	view.Values = r.PostForm
	view.Message = out.Message
	view.Errors = out.Fields
	s.h.render(w, r, out.Status(), "admin/form", s.heading, view)
}

func (h *Handler) siteSettings() *singleton[any, service.SiteSettingsInput] {
	svc := h.services.Settings
	return &singleton[any, service.SiteSettingsInput]{
		h:       h,
		path:    pathSettings,
		heading: "Site settings",
		fields: []render.Field{
			{Name: "site_name", Label: "Site name", Type: render.FieldText, Required: true},
			{Name: "site_description", Label: "Description", Type: render.FieldTextarea},
			{Name: "slogan", Label: "Slogan", Type: render.FieldText},
			{Name: "url", Label: "Site URL", Type: render.FieldURL},
			{Name: "logo_path", Label: "Logo", Type: render.FieldImage},
			{Name: "favicon_path", Label: "Favicon", Type: render.FieldImage},
			{Name: "newsletter_video", Label: "Newsletter video", Type: render.FieldImage},
			{Name: "maintenance_mode", Label: "Maintenance mode", Type: render.FieldCheckbox},
			{Name: "maintenance_message", Label: "Maintenance message", Type: render.FieldTextarea},
		},
		get: func(ctx context.Context) (any, error) { return svc.Site(ctx) },
		save: func(ctx context.Context, in service.SiteSettingsInput) action.Outcome[any] {
			return dropData[any](svc.SaveSite(ctx, in))
		},
	}
}

func (h *Handler) aboutPage() *singleton[any, service.AboutInput] {
	svc := h.services.Settings
	return &singleton[any, service.AboutInput]{
		h:       h,
		path:    pathAbout,
		heading: "About page",
		fields: []render.Field{
			{Name: "small_title", Label: "Small title", Type: render.FieldText},
			{Name: "main_title", Label: "Main title", Type: render.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: render.FieldMarkdown, Help: "Markdown."},
			{Name: "left_image", Label: "Left image", Type: render.FieldImage},
			{Name: "right_image", Label: "Right image", Type: render.FieldImage},
			{Name: "experience_years", Label: "Years of experience", Type: render.FieldNumber},
			{Name: "experience_text", Label: "Experience text", Type: render.FieldText},
			{Name: "satisfaction_rate", Label: "Satisfaction rate (%)", Type: render.FieldNumber},
			{Name: "satisfaction_text", Label: "Satisfaction text", Type: render.FieldText},
			{Name: "video_url", Label: "Video", Type: render.FieldImage},
		},
		get: func(ctx context.Context) (any, error) { return svc.About(ctx) },
		save: func(ctx context.Context, in service.AboutInput) action.Outcome[any] {
			return dropData[any](svc.SaveAbout(ctx, in))
		},
		preview: svc.AboutPreview,
	}
}

func (h *Handler) servicesPage() *singleton[any, service.ServicesInput] {
	svc := h.services.Settings
	return &singleton[any, service.ServicesInput]{
		h:       h,
		path:    pathServices,
		heading: "Services page",
		fields: []render.Field{
			{Name: "subtitle", Label: "Subtitle", Type: render.FieldText},
			{Name: "title", Label: "Title", Type: render.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: render.FieldTextarea},
			{Name: "image", Label: "Image", Type: render.FieldImage},
		},
		get: func(ctx context.Context) (any, error) { return svc.Services(ctx) },
		save: func(ctx context.Context, in service.ServicesInput) action.Outcome[any] {
			return dropData[any](svc.SaveServices(ctx, in))
		},
		children: func(ctx context.Context) (*ListView, error) {
			all, err := svc.Benefits(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]ListRow, 0, len(all))
			for _, b := range all {
				rows = append(rows, ListRow{ID: b.ID, Cells: benefitCells(b)})
			}
			req := listing.Request{Page: 1, PageSize: max(len(rows), 1)}
			return &ListView{
				Heading:  "Benefits",
				BasePath: service.PathBenefits,
				Columns:  benefitColumns,
				Page:     listing.NewPage(req, rows, int64(len(rows))),
			}, nil
		},
	}
}

func (h *Handler) contactPage() *singleton[any, service.ContactInfoInput] {
	svc := h.services.Settings
	return &singleton[any, service.ContactInfoInput]{
		h:       h,
		path:    pathContact,
		heading: "Contact information",
		fields: []render.Field{
			{Name: "address_text", Label: "Address", Type: render.FieldTextarea},
			{Name: "address_url", Label: "Address link", Type: render.FieldURL},
			{Name: "phone_numbers", Label: "Phone numbers", Type: render.FieldLines, Help: "One per line."},
			{Name: "emails", Label: "Emails", Type: render.FieldLines, Help: "One per line."},
			{Name: "map_url", Label: "Map URL", Type: render.FieldURL},
		},
		get: func(ctx context.Context) (any, error) { return svc.Contact(ctx) },
		save: func(ctx context.Context, in service.ContactInfoInput) action.Outcome[any] {
			return dropData[any](svc.SaveContact(ctx, in))
		},
	}
}
