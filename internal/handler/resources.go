// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/middleware"
	"github.com/olegiv/vitrine/internal/render"
	"github.com/olegiv/vitrine/internal/service"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/util"
)

const stampLayout = "2006-01-02 15:04"

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(stampLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func id64(id int64) string {
	return strconv.FormatInt(id, 10)
}

// deleteBy adapts a service delete to resource.remove.
func deleteBy(del func(context.Context, int64) action.Outcome[action.None]) func(*http.Request, int64) action.Outcome[action.None] {
	return func(r *http.Request, id int64) action.Outcome[action.None] {
		return del(r.Context(), id)
	}
}

func statusOptions(values ...string) []render.Option {
	opts := make([]render.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, render.Option{Value: v, Label: v})
	}
	return opts
}

// termOptions lists the terms of a taxonomy as select options, optionally
// led by an empty choice.
func termOptions(ctx context.Context, terms *service.TermService, empty string) ([]render.Option, error) {
	all, err := terms.All(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]render.Option, 0, len(all)+1)
	if empty != "" {
		opts = append(opts, render.Option{Value: "", Label: empty})
	}
	for _, t := range all {
		opts = append(opts, render.Option{Value: id64(t.ID), Label: t.Name})
	}
	return opts, nil
}

func (h *Handler) products() *resource[store.Product, service.ProductInput] {
	svc := h.services.Products
	return &resource[store.Product, service.ProductInput]{
		h:        h,
		base:     service.PathProducts,
		singular: "Product",
		heading:  "Products",
		columns:  []string{"Name", "Category", "Active", "Updated"},
		cells: func(p store.Product) []string {
			return []string{p.Name, p.Category, yesNo(p.Active), stamp(p.UpdatedAt)}
		},
		id:         func(p store.Product) int64 { return p.ID },
		label:      func(p store.Product) string { return p.Name },
		searchable: true,
		defaults:   url.Values{"active": {"true"}},
		fields: func(ctx context.Context) ([]render.Field, error) {
			cats, err := svc.Categories(ctx)
			if err != nil {
				return nil, err
			}
			opts := []render.Option{{Value: "", Label: "Uncategorised"}}
			for _, c := range cats {
				opts = append(opts, render.Option{Value: c.Name, Label: c.Name})
			}
			return []render.Field{
				{Name: "name", Label: "Name", Type: render.FieldText, Required: true},
				{Name: "slug", Label: "Slug", Type: render.FieldSlug, Source: "name", Help: "Generated from the name when left blank."},
				{Name: "category", Label: "Category", Type: render.FieldSelect, Options: opts},
				{Name: "description", Label: "Description", Type: render.FieldTextarea},
				{Name: "image_path", Label: "Main image", Type: render.FieldImage},
				{Name: "image_2", Label: "Image 2", Type: render.FieldImage},
				{Name: "image_3", Label: "Image 3", Type: render.FieldImage},
				{Name: "image_4", Label: "Image 4", Type: render.FieldImage},
				{Name: "additional_info", Label: "Additional information", Type: render.FieldTextarea},
				{Name: "active", Label: "Active", Type: render.FieldCheckbox},
			}, nil
		},
		list:   svc.List,
		get:    svc.Get,
		create: svc.Create,
		update: svc.Update,
		remove: deleteBy(svc.Delete),
	}
}

var blogTextFields = []render.Field{
	{Name: "title", Label: "Title", Type: render.FieldText, Required: true},
	{Name: "slug", Label: "Slug", Type: render.FieldSlug, Source: "title", Help: "Generated from the title when left blank."},
	{Name: "short_description", Label: "Short description", Type: render.FieldTextarea},
	{Name: "paragraph_1", Label: "Paragraph 1", Type: render.FieldTextarea},
	{Name: "paragraph_2", Label: "Paragraph 2", Type: render.FieldTextarea},
	{Name: "author_bio", Label: "Author bio", Type: render.FieldTextarea},
}

func (h *Handler) blogs() *resource[store.BlogListRow, service.BlogInput] {
	svc := h.services.Blogs
	return &resource[store.BlogListRow, service.BlogInput]{
		h:        h,
		base:     service.PathBlogs,
		singular: "Blog post",
		heading:  "Blog",
		columns:  []string{"Title", "Category", "Tags", "Status", "Featured", "Created"},
		cells: func(b store.BlogListRow) []string {
			return []string{b.Title, util.Deref(b.CategoryName), b.TagNames, b.Status, yesNo(b.Featured), stamp(b.CreatedAt)}
		},
		id:         func(b store.BlogListRow) int64 { return b.ID },
		label:      func(b store.BlogListRow) string { return b.Title },
		searchable: true,
		defaults:   url.Values{"status": {store.BlogStatusDraft}},
		links: []RowLink{
			{Label: "Preview", Suffix: "preview"},
			{Label: "Translation", Suffix: "translation"},
		},
		fields: func(ctx context.Context) ([]render.Field, error) {
			cats, err := termOptions(ctx, h.services.BlogCategories, "No category")
			if err != nil {
				return nil, err
			}
			tags, err := termOptions(ctx, h.services.Tags, "")
			if err != nil {
				return nil, err
			}
			fields := append([]render.Field(nil), blogTextFields...)
			return append(fields,
				render.Field{Name: "full_content", Label: "Content", Type: render.FieldMarkdown, Help: "Markdown. Sanitised before display."},
				render.Field{Name: "image_url", Label: "Image", Type: render.FieldImage},
				render.Field{Name: "single_image_xl", Label: "Large image", Type: render.FieldImage},
				render.Field{Name: "status", Label: "Status", Type: render.FieldSelect,
					Options: statusOptions(store.BlogStatusDraft, store.BlogStatusPublished, store.BlogStatusArchived)},
				render.Field{Name: "featured", Label: "Featured", Type: render.FieldCheckbox},
				render.Field{Name: "category_id", Label: "Category", Type: render.FieldSelect, Options: cats},
				render.Field{Name: "tag_ids", Label: "Tags", Type: render.FieldMultiSelect, Options: tags},
			), nil
		},
		list: svc.List,
		get: func(ctx context.Context, id int64) (store.BlogListRow, error) {
			b, err := svc.Get(ctx, id)
			return store.BlogListRow{ID: b.ID, Title: b.Title, Slug: b.Slug, Status: b.Status, Featured: b.Featured, CreatedAt: b.CreatedAt}, err
		},
		edit: func(ctx context.Context, id int64) (any, error) {
			return svc.Get(ctx, id)
		},
		create: func(ctx context.Context, in service.BlogInput) action.Outcome[store.BlogListRow] {
			return dropData[store.BlogListRow](svc.Create(ctx, in))
		},
		update: func(ctx context.Context, id int64, in service.BlogInput) action.Outcome[store.BlogListRow] {
			return dropData[store.BlogListRow](svc.Update(ctx, id, in))
		},
		remove: deleteBy(svc.Delete),
	}
}

// dropData retypes an outcome whose payload the admin screens never show.
func dropData[U, T any](out action.Outcome[T]) action.Outcome[U] {
	return action.Outcome[U]{Success: out.Success, Message: out.Message, Kind: out.Kind, Fields: out.Fields}
}

func (h *Handler) blogTranslations() *shadowEditor[store.BlogTranslation, service.BlogTranslationInput] {
	svc := h.services.Blogs
	return &shadowEditor[store.BlogTranslation, service.BlogTranslationInput]{
		h:        h,
		base:     service.PathBlogs,
		singular: "Blog post",
		fields:   blogTextFields,
		get:      svc.Translation,
		save:     svc.SaveTranslation,
	}
}

var recipeTextFields = []render.Field{
	{Name: "title", Label: "Title", Type: render.FieldText, Required: true},
	{Name: "slug", Label: "Slug", Type: render.FieldSlug, Source: "title", Help: "Generated from the title when left blank."},
	{Name: "short_description", Label: "Short description", Type: render.FieldTextarea},
	{Name: "paragraph_1", Label: "Paragraph 1", Type: render.FieldTextarea},
	{Name: "paragraph_2", Label: "Paragraph 2", Type: render.FieldTextarea},
}

func (h *Handler) recipes() *resource[store.RecipeListRow, service.RecipeInput] {
	svc := h.services.Recipes
	return &resource[store.RecipeListRow, service.RecipeInput]{
		h:        h,
		base:     service.PathRecipes,
		singular: "Recipe",
		heading:  "Recipes",
		columns:  []string{"Title", "Category", "Status", "Active", "Created"},
		cells: func(rc store.RecipeListRow) []string {
			return []string{rc.Title, util.Deref(rc.CategoryName), rc.Status, yesNo(rc.IsActive), stamp(rc.CreatedAt)}
		},
		id:         func(rc store.RecipeListRow) int64 { return rc.ID },
		label:      func(rc store.RecipeListRow) string { return rc.Title },
		searchable: true,
		defaults:   url.Values{"status": {store.RecipeStatusDraft}, "is_active": {"true"}},
		links:      []RowLink{{Label: "Translation", Suffix: "translation"}},
		fields: func(ctx context.Context) ([]render.Field, error) {
			cats, err := termOptions(ctx, h.services.RecipeCategories, "No category")
			if err != nil {
				return nil, err
			}
			fields := append([]render.Field(nil), recipeTextFields...)
			return append(fields,
				render.Field{Name: "image", Label: "Image", Type: render.FieldImage},
				render.Field{Name: "image_url", Label: "Image URL", Type: render.FieldURL},
				render.Field{Name: "status", Label: "Status", Type: render.FieldSelect,
					Options: statusOptions(store.RecipeStatusDraft, store.RecipeStatusPublished)},
				render.Field{Name: "is_active", Label: "Active", Type: render.FieldCheckbox},
				render.Field{Name: "category_id", Label: "Category", Type: render.FieldSelect, Options: cats},
			), nil
		},
		list: svc.List,
		get: func(ctx context.Context, id int64) (store.RecipeListRow, error) {
			rc, err := svc.Get(ctx, id)
			return store.RecipeListRow{ID: rc.ID, Title: rc.Title, Slug: rc.Slug, Status: rc.Status, IsActive: rc.IsActive, CreatedAt: rc.CreatedAt}, err
		},
		edit: func(ctx context.Context, id int64) (any, error) {
			return svc.Get(ctx, id)
		},
		create: func(ctx context.Context, in service.RecipeInput) action.Outcome[store.RecipeListRow] {
			return dropData[store.RecipeListRow](svc.Create(ctx, in))
		},
		update: func(ctx context.Context, id int64, in service.RecipeInput) action.Outcome[store.RecipeListRow] {
			return dropData[store.RecipeListRow](svc.Update(ctx, id, in))
		},
		remove: deleteBy(svc.Delete),
	}
}

func (h *Handler) recipeTranslations() *shadowEditor[store.RecipeTranslation, service.RecipeTranslationInput] {
	svc := h.services.Recipes
	return &shadowEditor[store.RecipeTranslation, service.RecipeTranslationInput]{
		h:        h,
		base:     service.PathRecipes,
		singular: "Recipe",
		fields:   recipeTextFields,
		get:      svc.Translation,
		save:     svc.SaveTranslation,
	}
}

var termFields = []render.Field{
	{Name: "name", Label: "Name", Type: render.FieldText, Required: true},
	{Name: "slug", Label: "Slug", Type: render.FieldSlug, Source: "name", Help: "Generated from the name when left blank."},
}

func (h *Handler) terms(svc *service.TermService, base, singular, heading string) *resource[store.Term, service.TermInput] {
	return &resource[store.Term, service.TermInput]{
		h:          h,
		base:       base,
		singular:   singular,
		heading:    heading,
		columns:    []string{"Name", "Slug", "Used by", "Updated"},
		cells:      func(t store.Term) []string { return []string{t.Name, t.Slug, id64(t.UsageCount), stamp(t.UpdatedAt)} },
		id:         func(t store.Term) int64 { return t.ID },
		label:      func(t store.Term) string { return t.Name },
		searchable: true,
		links:      []RowLink{{Label: "Translation", Suffix: "translation"}},
		fields:     staticFields(termFields...),
		list:       svc.List,
		get:        svc.Get,
		create:     svc.Create,
		update:     svc.Update,
		remove:     deleteBy(svc.Delete),
	}
}

func (h *Handler) termTranslations(svc *service.TermService, base, singular string) *shadowEditor[store.TermTranslation, service.TermTranslationInput] {
	return &shadowEditor[store.TermTranslation, service.TermTranslationInput]{
		h:        h,
		base:     base,
		singular: singular,
		fields:   termFields,
		get:      svc.Translation,
		save:     svc.SaveTranslation,
	}
}

func (h *Handler) banners() *resource[store.Banner, service.BannerInput] {
	svc := h.services.Banners
	return &resource[store.Banner, service.BannerInput]{
		h:        h,
		base:     service.PathBanners,
		singular: "Banner",
		heading:  "Banners",
		columns:  []string{"Title", "Subtitle", "Position", "Active"},
		cells: func(b store.Banner) []string {
			return []string{b.Title, b.Subtitle, id64(b.Position), yesNo(b.Active)}
		},
		id:       func(b store.Banner) int64 { return b.ID },
		label:    func(b store.Banner) string { return b.Title },
		defaults: url.Values{"active": {"true"}, "position": {"0"}},
		fields: staticFields(
			render.Field{Name: "title", Label: "Title", Type: render.FieldText, Required: true},
			render.Field{Name: "subtitle", Label: "Subtitle", Type: render.FieldText},
			render.Field{Name: "description", Label: "Description", Type: render.FieldTextarea},
			render.Field{Name: "image_path", Label: "Image", Type: render.FieldImage, Required: true},
			render.Field{Name: "position", Label: "Position", Type: render.FieldNumber},
			render.Field{Name: "active", Label: "Active", Type: render.FieldCheckbox},
		),
		list:   svc.List,
		get:    svc.Get,
		create: svc.Create,
		update: svc.Update,
		remove: deleteBy(svc.Delete),
	}
}

func (h *Handler) messages() *resource[store.ContactMessage, struct{}] {
	svc := h.services.Messages
	return &resource[store.ContactMessage, struct{}]{
		h:        h,
		base:     service.PathMessages,
		singular: "Message",
		heading:  "Messages",
		columns:  []string{"Name", "Email", "Subject", "Received"},
		cells: func(m store.ContactMessage) []string {
			return []string{m.Name, m.Email, m.Subject, stamp(m.CreatedAt)}
		},
		id:         func(m store.ContactMessage) int64 { return m.ID },
		label:      func(m store.ContactMessage) string { return m.Subject },
		searchable: true,
		canView:    true,
		list:       svc.List,
		get:        svc.Get,
		remove:     deleteBy(svc.Delete),
	}
}

func (h *Handler) newsletters() *resource[store.NewsletterEmail, struct{}] {
	svc := h.services.Newsletters
	return &resource[store.NewsletterEmail, struct{}]{
		h:          h,
		base:       service.PathNewsletters,
		singular:   "Subscription",
		heading:    "Newsletter",
		columns:    []string{"Email", "Subscribed"},
		cells:      func(n store.NewsletterEmail) []string { return []string{n.Email, stamp(n.CreatedAt)} },
		id:         func(n store.NewsletterEmail) int64 { return n.ID },
		label:      func(n store.NewsletterEmail) string { return n.Email },
		searchable: true,
		list:       svc.List,
		get:        svc.Get,
		remove:     deleteBy(svc.Delete),
	}
}

func (h *Handler) users() *resource[store.User, service.UserInput] {
	svc := h.services.Users
	return &resource[store.User, service.UserInput]{
		h:        h,
		base:     service.PathUsers,
		singular: "User",
		heading:  "Users",
		columns:  []string{"Name", "Email", "Role", "Last login"},
		cells: func(u store.User) []string {
			last := ""
			if u.LastLoginAt != nil {
				last = stamp(*u.LastLoginAt)
			}
			return []string{u.Name, u.Email, u.Role, last}
		},
		id:         func(u store.User) int64 { return u.ID },
		label:      func(u store.User) string { return u.Email },
		searchable: true,
		defaults:   url.Values{"role": {store.RoleUser}},
		fields: staticFields(
			render.Field{Name: "name", Label: "Name", Type: render.FieldText, Required: true},
			render.Field{Name: "email", Label: "Email", Type: render.FieldEmail, Required: true},
			render.Field{Name: "role", Label: "Role", Type: render.FieldSelect, Options: statusOptions(store.RoleAdmin, store.RoleUser)},
			render.Field{Name: "password", Label: "Password", Type: render.FieldPassword,
				Help: "At least 8 characters. Leave blank to keep the current password."},
		),
		list:   svc.List,
		get:    svc.Get,
		create: svc.Create,
		update: svc.Update,
		remove: func(r *http.Request, id int64) action.Outcome[action.None] {
			return svc.Delete(r.Context(), middleware.GetUserID(r), id)
		},
	}
}

func (h *Handler) events() *resource[store.Event, struct{}] {
	svc := h.services.Events
	return &resource[store.Event, struct{}]{
		h:        h,
		base:     service.PathEvents,
		singular: "Event",
		heading:  "Event log",
		columns:  []string{"Time", "Level", "Category", "Message"},
		cells: func(e store.Event) []string {
			return []string{stamp(e.CreatedAt), e.Level, e.Category, e.Message}
		},
		id:         func(e store.Event) int64 { return e.ID },
		label:      func(e store.Event) string { return e.Message },
		searchable: true,
		list:       svc.List,
	}
}

func (h *Handler) benefits() *resource[store.ServiceBenefit, service.BenefitInput] {
	svc := h.services.Settings
	return &resource[store.ServiceBenefit, service.BenefitInput]{
		h:        h,
		base:     service.PathBenefits,
		singular: "Benefit",
		heading:  "Service benefits",
		columns:  benefitColumns,
		cells:    benefitCells,
		id:       func(b store.ServiceBenefit) int64 { return b.ID },
		label:    func(b store.ServiceBenefit) string { return b.Title },
		defaults: url.Values{"active": {"true"}, "position": {"0"}},
		fields: staticFields(
			render.Field{Name: "title", Label: "Title", Type: render.FieldText, Required: true},
			render.Field{Name: "description", Label: "Description", Type: render.FieldTextarea},
			render.Field{Name: "position", Label: "Position", Type: render.FieldNumber},
			render.Field{Name: "active", Label: "Active", Type: render.FieldCheckbox},
		),
		list: func(ctx context.Context, req listing.Request) (listing.Page[store.ServiceBenefit], error) {
			all, err := svc.Benefits(ctx)
			if err != nil {
				return listing.Page[store.ServiceBenefit]{}, err
			}
			return listing.Slice(all, req), nil
		},
		get:    svc.Benefit,
		create: svc.CreateBenefit,
		update: svc.UpdateBenefit,
		remove: deleteBy(svc.DeleteBenefit),
	}
}

var benefitColumns = []string{"Title", "Position", "Active"}

func benefitCells(b store.ServiceBenefit) []string {
	return []string{b.Title, id64(b.Position), yesNo(b.Active)}
}
