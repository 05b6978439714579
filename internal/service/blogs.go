// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/content"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/translate"
	"github.com/olegiv/vitrine/internal/util"
	"github.com/olegiv/vitrine/internal/validation"
)

// DefaultAuthorBio is stored when a blog is created without an author bio.
const DefaultAuthorBio = "Nous vous tenons informés grâce à nos articles."

// BlogInput is the form of a blog post.
type BlogInput struct {
	Title            string  `form:"title" json:"title" validate:"notblank,max=255" label:"Title"`
	Slug             string  `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	ShortDescription string  `form:"short_description" json:"short_description" validate:"max=1000" label:"Short description"`
	FullContent      string  `form:"full_content" json:"full_content" validate:"max=100000" label:"Content"`
	Paragraph1       string  `form:"paragraph_1" json:"paragraph_1" validate:"max=10000" label:"Paragraph 1"`
	Paragraph2       string  `form:"paragraph_2" json:"paragraph_2" validate:"max=10000" label:"Paragraph 2"`
	AuthorBio        string  `form:"author_bio" json:"author_bio" validate:"max=1000" label:"Author bio"`
	ImageURL         string  `form:"image_url" json:"image_url" validate:"max=500" label:"Image"`
	SingleImageXL    string  `form:"single_image_xl" json:"single_image_xl" validate:"max=500" label:"Large image"`
	Status           string  `form:"status" json:"status" validate:"omitempty,oneof=published draft archived" label:"Status"`
	Featured         bool    `form:"featured" json:"featured"`
	CategoryID       *int64  `form:"category_id" json:"category_id" label:"Category"`
	TagIDs           []int64 `form:"tag_ids" json:"tag_ids" label:"Tags"`
}

func (in BlogInput) params(slug string) store.BlogParams {
	status := in.Status
	if status == "" {
		status = store.BlogStatusPublished
	}
	return store.BlogParams{
		Title:            strings.TrimSpace(in.Title),
		Slug:             slug,
		ShortDescription: in.ShortDescription,
		FullContent:      content.Sanitize(in.FullContent),
		Paragraph1:       in.Paragraph1,
		Paragraph2:       in.Paragraph2,
		AuthorBio:        in.AuthorBio,
		ImageURL:         in.ImageURL,
		SingleImageXL:    in.SingleImageXL,
		Status:           status,
		Featured:         in.Featured,
		CategoryID:       in.CategoryID,
	}
}

// BlogTranslationInput is the form of a hand-edited English shadow.
type BlogTranslationInput struct {
	Title            string `form:"title" json:"title" validate:"notblank,max=255" label:"Title"`
	Slug             string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	ShortDescription string `form:"short_description" json:"short_description" validate:"max=1000" label:"Short description"`
	Paragraph1       string `form:"paragraph_1" json:"paragraph_1" validate:"max=10000" label:"Paragraph 1"`
	Paragraph2       string `form:"paragraph_2" json:"paragraph_2" validate:"max=10000" label:"Paragraph 2"`
	AuthorBio        string `form:"author_bio" json:"author_bio" validate:"max=1000" label:"Author bio"`
	// Auto hands the shadow back to automatic translation.
	Auto bool `form:"is_auto" json:"is_auto"`
}

// BlogService manages blog posts and their English shadows.
type BlogService struct {
	base
}

// NewBlogService creates a BlogService.
func NewBlogService(d Deps) *BlogService {
	return &BlogService{base: newBase(d)}
}

// List returns one page of blogs with category and tag names.
func (s *BlogService) List(ctx context.Context, req listing.Request) (listing.Page[store.BlogListRow], error) {
	return s.queries.ListBlogs(ctx, req)
}

// Get returns one blog with its tag ids.
func (s *BlogService) Get(ctx context.Context, id int64) (store.Blog, error) {
	return s.queries.GetBlogByID(ctx, id)
}

// Translation returns the shadow of blog id.
func (s *BlogService) Translation(ctx context.Context, id int64) (store.BlogTranslation, error) {
	return s.queries.GetBlogTranslation(ctx, id, s.shadows.lang())
}

// Create validates in, inserts the blog, its tags and a provisional shadow
// in one transaction, then schedules the translation of the shadow.
func (s *BlogService) Create(ctx context.Context, in BlogInput) action.Outcome[store.Blog] {
	b, err := s.create(ctx, in)
	return outcome("Blog", "created", b, err)
}

func (s *BlogService) create(ctx context.Context, in BlogInput) (store.Blog, error) {
	if err := s.validate(ctx, in); err != nil {
		return store.Blog{}, err
	}
	slug, err := createSlug(in.Slug, in.Title)
	if err != nil {
		return store.Blog{}, err
	}
	if err := checkSlug(ctx, s.queries.BlogSlugTaken, slug, 0); err != nil {
		return store.Blog{}, err
	}
	if strings.TrimSpace(in.AuthorBio) == "" {
		in.AuthorBio = DefaultAuthorBio
	}

	var b store.Blog
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if b, err = q.CreateBlog(ctx, in.params(slug)); err != nil {
			return err
		}
		if err := q.ReplaceBlogTags(ctx, b.ID, in.TagIDs); err != nil {
			return fmt.Errorf("storing tags: %w", err)
		}
		return q.CreateBlogTranslation(ctx, s.sourceShadow(b))
	})
	if err != nil {
		return store.Blog{}, err
	}
	if b.TagIDs, err = s.queries.BlogTagIDs(ctx, b.ID); err != nil {
		return store.Blog{}, err
	}

	s.logger.Info("blog created", "blog_id", b.ID, "slug", b.Slug)
	s.translate(b)
	s.touched(ctx, PathBlogs)
	return b, nil
}

// Update validates in and rewrites blog id. The tag set is replaced as a
// whole. The shadow is re-translated only while it is automatic.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) action.Outcome[store.Blog] {
	b, err := s.update(ctx, id, in)
	return outcome("Blog", "updated", b, err)
}

func (s *BlogService) update(ctx context.Context, id int64, in BlogInput) (store.Blog, error) {
	if err := s.validate(ctx, in); err != nil {
		return store.Blog{}, err
	}
	current, err := s.queries.GetBlogByID(ctx, id)
	if err != nil {
		return store.Blog{}, err
	}
	slug := updateSlug(in.Slug, current.Slug)
	if err := checkSlug(ctx, s.queries.BlogSlugTaken, slug, id); err != nil {
		return store.Blog{}, err
	}

	var b store.Blog
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if b, err = q.UpdateBlog(ctx, id, in.params(slug)); err != nil {
			return err
		}
		if err := q.ReplaceBlogTags(ctx, id, in.TagIDs); err != nil {
			return fmt.Errorf("storing tags: %w", err)
		}
		// Blogs written before shadows existed get one now.
		return q.CreateBlogTranslation(ctx, s.sourceShadow(b))
	})
	if err != nil {
		return store.Blog{}, err
	}
	if b.TagIDs, err = s.queries.BlogTagIDs(ctx, id); err != nil {
		return store.Blog{}, err
	}

	s.logger.Info("blog updated", "blog_id", b.ID)
	s.translate(b)
	s.touched(ctx, PathBlogs)
	return b, nil
}

// Delete removes blog id. Its tag links and shadow cascade.
func (s *BlogService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteBlog(ctx, id)
	if err == nil {
		s.logger.Info("blog deleted", "blog_id", id)
		s.touched(ctx, PathBlogs)
	}
	return deleted("Blog", err)
}

// SaveTranslation stores a hand-edited shadow. Unless in.Auto is set the
// shadow is marked manual and later updates of the blog leave it alone.
func (s *BlogService) SaveTranslation(ctx context.Context, id int64, in BlogTranslationInput) action.Outcome[store.BlogTranslation] {
	t, err := s.saveTranslation(ctx, id, in)
	return outcome("Translation", "saved", t, err)
}

func (s *BlogService) saveTranslation(ctx context.Context, id int64, in BlogTranslationInput) (store.BlogTranslation, error) {
	if err := validation.Struct(in); err != nil {
		return store.BlogTranslation{}, err
	}
	if _, err := s.queries.GetBlogByID(ctx, id); err != nil {
		return store.BlogTranslation{}, err
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(in.Title)
	}
	err := s.queries.SetBlogTranslation(ctx, store.BlogTranslation{
		BlogID:           id,
		Lang:             s.shadows.lang(),
		Title:            strings.TrimSpace(in.Title),
		Slug:             slug,
		ShortDescription: in.ShortDescription,
		Paragraph1:       in.Paragraph1,
		Paragraph2:       in.Paragraph2,
		AuthorBio:        in.AuthorBio,
		IsAuto:           in.Auto,
	})
	if err != nil {
		return store.BlogTranslation{}, err
	}
	s.logger.Info("blog translation saved", "blog_id", id, "is_auto", in.Auto)
	return s.queries.GetBlogTranslation(ctx, id, s.shadows.lang())
}

// validate checks the input shape and that category and tags exist.
func (s *BlogService) validate(ctx context.Context, in BlogInput) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		fields, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fields
	}
	if in.CategoryID != nil {
		ok, err := s.queries.TermsExist(ctx, store.BlogCategories, []int64{*in.CategoryID})
		if err != nil {
			return err
		}
		if !ok {
			errs.Add("category_id", "Category does not exist")
		}
	}
	ok, err := s.queries.TermsExist(ctx, store.Tags, in.TagIDs)
	if err != nil {
		return err
	}
	if !ok {
		errs.Add("tag_ids", "One or more tags do not exist")
	}
	return errs.Err()
}

// sourceShadow is the provisional shadow holding untranslated text.
func (s *BlogService) sourceShadow(b store.Blog) store.BlogTranslation {
	return store.BlogTranslation{
		BlogID:           b.ID,
		Lang:             s.shadows.lang(),
		Title:            b.Title,
		Slug:             b.Slug,
		ShortDescription: b.ShortDescription,
		Paragraph1:       b.Paragraph1,
		Paragraph2:       b.Paragraph2,
		AuthorBio:        b.AuthorBio,
		IsAuto:           true,
	}
}

func (s *BlogService) translate(b store.Blog) {
	s.shadows.schedule(fmt.Sprintf("blog:%d", b.ID), 5, func(ctx context.Context, tr *translate.Bounded) (func(context.Context) error, error) {
		out := tr.Texts(ctx, b.Title, b.ShortDescription, b.Paragraph1, b.Paragraph2, b.AuthorBio)
		slug := util.Slugify(out[0])
		if slug == "" {
			slug = b.Slug
		}
		shadow := store.BlogTranslation{
			BlogID:           b.ID,
			Lang:             tr.Target,
			Title:            out[0],
			Slug:             slug,
			ShortDescription: out[1],
			Paragraph1:       out[2],
			Paragraph2:       out[3],
			AuthorBio:        out[4],
		}
		return func(ctx context.Context) error {
			written, err := s.queries.UpdateAutoBlogTranslation(ctx, shadow)
			if err != nil {
				return err
			}
			if !written {
				s.logger.Debug("blog translation is manual, left unchanged", "blog_id", b.ID)
			}
			return nil
		}, nil
	})
}

// BlogPreview is a blog rendered for review next to its shadow.
type BlogPreview struct {
	Blog        store.Blog
	Content     template.HTML
	Translation *store.BlogTranslation
}

// Preview renders the full content of blog id. A missing shadow leaves
// Translation nil.
func (s *BlogService) Preview(ctx context.Context, id int64) (BlogPreview, error) {
	b, err := s.queries.GetBlogByID(ctx, id)
	if err != nil {
		return BlogPreview{}, err
	}
	html, err := content.Markdown(b.FullContent)
	if err != nil {
		return BlogPreview{}, fmt.Errorf("rendering blog %d: %w", id, err)
	}
	p := BlogPreview{Blog: b, Content: html}

	t, err := s.queries.GetBlogTranslation(ctx, id, s.shadows.lang())
	switch {
	case err == nil:
		p.Translation = &t
	case !errors.Is(err, store.ErrNotFound):
		return BlogPreview{}, err
	}
	return p, nil
}
