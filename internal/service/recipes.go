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

// RecipeInput is the form of a recipe.
type RecipeInput struct {
	Title            string `form:"title" json:"title" validate:"notblank,max=255" label:"Title"`
	Slug             string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	ShortDescription string `form:"short_description" json:"short_description" validate:"max=1000" label:"Short description"`
	Image            string `form:"image" json:"image" validate:"max=500" label:"Image"`
	ImageURL         string `form:"image_url" json:"image_url" validate:"max=500" label:"Image URL"`
	Status           string `form:"status" json:"status" validate:"omitempty,oneof=draft published" label:"Status"`
	IsActive         bool   `form:"is_active" json:"is_active"`
	CategoryID       *int64 `form:"category_id" json:"category_id" label:"Category"`
	Paragraph1       string `form:"paragraph_1" json:"paragraph_1" validate:"max=10000" label:"Paragraph 1"`
	Paragraph2       string `form:"paragraph_2" json:"paragraph_2" validate:"max=10000" label:"Paragraph 2"`
}

func (in RecipeInput) params(slug string) store.RecipeParams {
	status := in.Status
	if status == "" {
		status = store.RecipeStatusDraft
	}
	return store.RecipeParams{
		Title:            strings.TrimSpace(in.Title),
		Slug:             slug,
		ShortDescription: in.ShortDescription,
		Image:            in.Image,
		ImageURL:         in.ImageURL,
		Status:           status,
		IsActive:         in.IsActive,
		CategoryID:       in.CategoryID,
		Paragraph1:       in.Paragraph1,
		Paragraph2:       in.Paragraph2,
	}
}

// RecipeTranslationInput is the form of a hand-edited English shadow.
type RecipeTranslationInput struct {
	Title            string `form:"title" json:"title" validate:"notblank,max=255" label:"Title"`
	Slug             string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	ShortDescription string `form:"short_description" json:"short_description" validate:"max=1000" label:"Short description"`
	Paragraph1       string `form:"paragraph_1" json:"paragraph_1" validate:"max=10000" label:"Paragraph 1"`
	Paragraph2       string `form:"paragraph_2" json:"paragraph_2" validate:"max=10000" label:"Paragraph 2"`
	Auto             bool   `form:"is_auto" json:"is_auto"`
}

// RecipeService manages recipes and their English shadows.
type RecipeService struct {
	base
}

// NewRecipeService creates a RecipeService.
func NewRecipeService(d Deps) *RecipeService {
	return &RecipeService{base: newBase(d)}
}

// List returns one page of recipes with their category name.
func (s *RecipeService) List(ctx context.Context, req listing.Request) (listing.Page[store.RecipeListRow], error) {
	return s.queries.ListRecipes(ctx, req)
}

// Get returns one recipe.
func (s *RecipeService) Get(ctx context.Context, id int64) (store.Recipe, error) {
	return s.queries.GetRecipeByID(ctx, id)
}

// Translation returns the shadow of recipe id.
func (s *RecipeService) Translation(ctx context.Context, id int64) (store.RecipeTranslation, error) {
	return s.queries.GetRecipeTranslation(ctx, id, s.shadows.lang())
}

// Create validates in, inserts the recipe with a provisional shadow and
// schedules its translation.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) action.Outcome[store.Recipe] {
	r, err := s.create(ctx, in)
	return outcome("Recipe", "created", r, err)
}

func (s *RecipeService) create(ctx context.Context, in RecipeInput) (store.Recipe, error) {
	if err := s.validate(ctx, in); err != nil {
		return store.Recipe{}, err
	}
	slug, err := createSlug(in.Slug, in.Title)
	if err != nil {
		return store.Recipe{}, err
	}
	if err := checkSlug(ctx, s.queries.RecipeSlugTaken, slug, 0); err != nil {
		return store.Recipe{}, err
	}

	var r store.Recipe
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if r, err = q.CreateRecipe(ctx, in.params(slug)); err != nil {
			return err
		}
		return q.CreateRecipeTranslation(ctx, s.sourceShadow(r))
	})
	if err != nil {
		return store.Recipe{}, err
	}

	s.logger.Info("recipe created", "recipe_id", r.ID, "slug", r.Slug)
	s.translate(r)
	s.touched(ctx, PathRecipes)
	return r, nil
}

// Update validates in and rewrites recipe id. An empty slug keeps the stored one.
func (s *RecipeService) Update(ctx context.Context, id int64, in RecipeInput) action.Outcome[store.Recipe] {
	r, err := s.update(ctx, id, in)
	return outcome("Recipe", "updated", r, err)
}

func (s *RecipeService) update(ctx context.Context, id int64, in RecipeInput) (store.Recipe, error) {
	if err := s.validate(ctx, in); err != nil {
		return store.Recipe{}, err
	}
	current, err := s.queries.GetRecipeByID(ctx, id)
	if err != nil {
		return store.Recipe{}, err
	}
	slug := updateSlug(in.Slug, current.Slug)
	if err := checkSlug(ctx, s.queries.RecipeSlugTaken, slug, id); err != nil {
		return store.Recipe{}, err
	}

	var r store.Recipe
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		if r, err = q.UpdateRecipe(ctx, id, in.params(slug)); err != nil {
			return err
		}
		return q.CreateRecipeTranslation(ctx, s.sourceShadow(r))
	})
	if err != nil {
		return store.Recipe{}, err
	}

	s.logger.Info("recipe updated", "recipe_id", r.ID)
	s.translate(r)
	s.touched(ctx, PathRecipes)
	return r, nil
}

// Delete removes recipe id.
func (s *RecipeService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteRecipe(ctx, id)
	if err == nil {
		s.logger.Info("recipe deleted", "recipe_id", id)
		s.touched(ctx, PathRecipes)
	}
	return deleted("Recipe", err)
}

// SaveTranslation stores a hand-edited shadow.
func (s *RecipeService) SaveTranslation(ctx context.Context, id int64, in RecipeTranslationInput) action.Outcome[store.RecipeTranslation] {
	t, err := s.saveTranslation(ctx, id, in)
	return outcome("Translation", "saved", t, err)
}

func (s *RecipeService) saveTranslation(ctx context.Context, id int64, in RecipeTranslationInput) (store.RecipeTranslation, error) {
	if err := validation.Struct(in); err != nil {
		return store.RecipeTranslation{}, err
	}
	if _, err := s.queries.GetRecipeByID(ctx, id); err != nil {
		return store.RecipeTranslation{}, err
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(in.Title)
	}
	err := s.queries.SetRecipeTranslation(ctx, store.RecipeTranslation{
		RecipeID:         id,
		Lang:             s.shadows.lang(),
		Title:            strings.TrimSpace(in.Title),
		Slug:             slug,
		ShortDescription: in.ShortDescription,
		Paragraph1:       in.Paragraph1,
		Paragraph2:       in.Paragraph2,
		IsAuto:           in.Auto,
	})
	if err != nil {
		return store.RecipeTranslation{}, err
	}
	return s.queries.GetRecipeTranslation(ctx, id, s.shadows.lang())
}

func (s *RecipeService) validate(ctx context.Context, in RecipeInput) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		fields, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fields
	}
	if in.CategoryID != nil {
		ok, err := s.queries.TermsExist(ctx, store.RecipeCategories, []int64{*in.CategoryID})
		if err != nil {
			return err
		}
		if !ok {
			errs.Add("category_id", "Category does not exist")
		}
	}
	return errs.Err()
}

func (s *RecipeService) sourceShadow(r store.Recipe) store.RecipeTranslation {
	return store.RecipeTranslation{
		RecipeID:         r.ID,
		Lang:             s.shadows.lang(),
		Title:            r.Title,
		Slug:             r.Slug,
		ShortDescription: r.ShortDescription,
		Paragraph1:       r.Paragraph1,
		Paragraph2:       r.Paragraph2,
		IsAuto:           true,
	}
}

func (s *RecipeService) translate(r store.Recipe) {
	s.shadows.schedule(fmt.Sprintf("recipe:%d", r.ID), 4, func(ctx context.Context, tr *translate.Bounded) (func(context.Context) error, error) {
		out := tr.Texts(ctx, r.Title, r.ShortDescription, r.Paragraph1, r.Paragraph2)
		slug := util.Slugify(out[0])
		if slug == "" {
			slug = r.Slug
		}
		shadow := store.RecipeTranslation{
			RecipeID:         r.ID,
			Lang:             tr.Target,
			Title:            out[0],
			Slug:             slug,
			ShortDescription: out[1],
			Paragraph1:       out[2],
			Paragraph2:       out[3],
		}
		return func(ctx context.Context) error {
			_, err := s.queries.UpdateAutoRecipeTranslation(ctx, shadow)
			return err
		}, nil
	})
}
