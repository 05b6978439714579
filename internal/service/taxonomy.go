// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/translate"
	"github.com/olegiv/vitrine/internal/util"
	"github.com/olegiv/vitrine/internal/validation"
)

// TermInput is the form of a category or tag.
type TermInput struct {
	Name string `form:"name" json:"name" validate:"notblank,max=100" label:"Name"`
	Slug string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
}

// TermTranslationInput is the form of a hand-edited term shadow.
type TermTranslationInput struct {
	Name string `form:"name" json:"name" validate:"notblank,max=100" label:"Name"`
	Slug string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	Auto bool   `form:"is_auto" json:"is_auto"`
}

// TermService manages the terms of one taxonomy: blog categories,
// recipe categories or tags.
type TermService struct {
	base
	tax     store.Taxonomy
	path    string
	subject string
}

// NewTermService creates a TermService for tax. path is the admin
// listing bumped after mutations.
func NewTermService(d Deps, tax store.Taxonomy, path string) *TermService {
	subject := tax.Kind
	if subject != "" {
		subject = strings.ToUpper(subject[:1]) + subject[1:]
	}
	return &TermService{base: newBase(d), tax: tax, path: path, subject: subject}
}

// Taxonomy returns the taxonomy served.
func (s *TermService) Taxonomy() store.Taxonomy {
	return s.tax
}

// List returns one page of terms with usage counts.
func (s *TermService) List(ctx context.Context, req listing.Request) (listing.Page[store.Term], error) {
	return s.queries.ListTerms(ctx, s.tax, req)
}

// All returns every term, by name, for select boxes.
func (s *TermService) All(ctx context.Context) ([]store.Term, error) {
	return s.queries.AllTerms(ctx, s.tax)
}

// Get returns one term.
func (s *TermService) Get(ctx context.Context, id int64) (store.Term, error) {
	return s.queries.GetTerm(ctx, s.tax, id)
}

// Translation returns the shadow of term id.
func (s *TermService) Translation(ctx context.Context, id int64) (store.TermTranslation, error) {
	return s.queries.GetTermTranslation(ctx, s.tax, id, s.shadows.lang())
}

// Create validates in and inserts a term with a provisional shadow.
func (s *TermService) Create(ctx context.Context, in TermInput) action.Outcome[store.Term] {
	t, err := s.create(ctx, in)
	return outcome(s.subject, "created", t, err)
}

func (s *TermService) create(ctx context.Context, in TermInput) (store.Term, error) {
	if err := validation.Struct(in); err != nil {
		return store.Term{}, err
	}
	slug, err := createSlug(in.Slug, in.Name)
	if err != nil {
		return store.Term{}, err
	}
	if err := checkSlug(ctx, s.slugTaken, slug, 0); err != nil {
		return store.Term{}, err
	}

	var t store.Term
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if t, err = q.CreateTerm(ctx, s.tax, strings.TrimSpace(in.Name), slug); err != nil {
			return err
		}
		return q.CreateTermTranslation(ctx, s.tax, s.sourceShadow(t))
	})
	if err != nil {
		return store.Term{}, err
	}

	s.logger.Info("term created", "taxonomy", s.tax.Kind, "term_id", t.ID, "slug", t.Slug)
	s.translate(t)
	s.touched(ctx, s.path)
	return t, nil
}

// Update validates in and renames term id. An empty slug keeps the stored one.
func (s *TermService) Update(ctx context.Context, id int64, in TermInput) action.Outcome[store.Term] {
	t, err := s.update(ctx, id, in)
	return outcome(s.subject, "updated", t, err)
}

func (s *TermService) update(ctx context.Context, id int64, in TermInput) (store.Term, error) {
	if err := validation.Struct(in); err != nil {
		return store.Term{}, err
	}
	current, err := s.queries.GetTerm(ctx, s.tax, id)
	if err != nil {
		return store.Term{}, err
	}
	slug := updateSlug(in.Slug, current.Slug)
	if err := checkSlug(ctx, s.slugTaken, slug, id); err != nil {
		return store.Term{}, err
	}

	var t store.Term
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if t, err = q.UpdateTerm(ctx, s.tax, id, strings.TrimSpace(in.Name), slug); err != nil {
			return err
		}
		return q.CreateTermTranslation(ctx, s.tax, s.sourceShadow(t))
	})
	if err != nil {
		return store.Term{}, err
	}

	s.logger.Info("term updated", "taxonomy", s.tax.Kind, "term_id", t.ID)
	s.translate(t)
	s.touched(ctx, s.path)
	return t, nil
}

// Delete detaches every dependent row, then removes term id, in one
// transaction. A failure at either step leaves the store unchanged.
func (s *TermService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	var detached int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if detached, err = q.DetachTerm(ctx, s.tax, id); err != nil {
			return fmt.Errorf("detaching dependents: %w", err)
		}
		return q.DeleteTerm(ctx, s.tax, id)
	})
	if err == nil {
		s.logger.Info("term deleted", "taxonomy", s.tax.Kind, "term_id", id, "detached", detached)
		s.touched(ctx, s.path, s.dependentPath())
	}
	return deleted(s.subject, err)
}

// SaveTranslation stores a hand-edited shadow.
func (s *TermService) SaveTranslation(ctx context.Context, id int64, in TermTranslationInput) action.Outcome[store.TermTranslation] {
	t, err := s.saveTranslation(ctx, id, in)
	return outcome("Translation", "saved", t, err)
}

func (s *TermService) saveTranslation(ctx context.Context, id int64, in TermTranslationInput) (store.TermTranslation, error) {
	if err := validation.Struct(in); err != nil {
		return store.TermTranslation{}, err
	}
	if _, err := s.queries.GetTerm(ctx, s.tax, id); err != nil {
		return store.TermTranslation{}, err
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(in.Name)
	}
	err := s.queries.SetTermTranslation(ctx, s.tax, store.TermTranslation{
		TermID: id,
		Lang:   s.shadows.lang(),
		Name:   strings.TrimSpace(in.Name),
		Slug:   slug,
		IsAuto: in.Auto,
	})
	if err != nil {
		return store.TermTranslation{}, err
	}
	return s.queries.GetTermTranslation(ctx, s.tax, id, s.shadows.lang())
}

func (s *TermService) slugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return s.queries.TermSlugTaken(ctx, s.tax, slug, exceptID)
}

// dependentPath is the listing showing the term names next to dependents.
func (s *TermService) dependentPath() string {
	switch {
	case s.tax.JoinTable == "blog_tags", s.tax.DependentTable == "blogs":
		return PathBlogs
	case s.tax.DependentTable == "recipes":
		return PathRecipes
	}
	return s.path
}

func (s *TermService) sourceShadow(t store.Term) store.TermTranslation {
	return store.TermTranslation{TermID: t.ID, Lang: s.shadows.lang(), Name: t.Name, Slug: t.Slug, IsAuto: true}
}

func (s *TermService) translate(t store.Term) {
	name := fmt.Sprintf("%s:%d", strings.ReplaceAll(s.tax.Kind, " ", "-"), t.ID)
	s.shadows.schedule(name, 1, func(ctx context.Context, tr *translate.Bounded) (func(context.Context) error, error) {
		translated := tr.Text(ctx, t.Name)
		slug := util.Slugify(translated)
		if slug == "" {
			slug = t.Slug
		}
		return func(ctx context.Context) error {
			_, err := s.queries.UpdateAutoTermTranslation(ctx, s.tax, t.ID, tr.Target, translated, slug)
			return err
		}, nil
	})
}
