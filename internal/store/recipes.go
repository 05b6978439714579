// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/vitrine/internal/listing"
)

const recipeColumns = `id, title, slug, short_description, image, image_url, status, is_active,
	category_id, paragraph_1, paragraph_2, created_at, updated_at`

func scanRecipe(row rowScanner) (Recipe, error) {
	var r Recipe
	err := row.Scan(&r.ID, &r.Title, &r.Slug, &r.ShortDescription, &r.Image, &r.ImageURL,
		&r.Status, &r.IsActive, &r.CategoryID, &r.Paragraph1, &r.Paragraph2, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// RecipeList lists recipes by title, newest first, with the category name.
var RecipeList = ListSpec[RecipeListRow]{
	From:    "recipes r LEFT JOIN recipe_categories c ON c.id = r.category_id",
	Columns: "r.id, r.title, r.slug, r.status, r.is_active, c.name, r.created_at",
	Search:  []string{"r.title"},
	OrderBy: "r.created_at DESC, r.id DESC",
	Scan: func(row rowScanner) (RecipeListRow, error) {
		var r RecipeListRow
		err := row.Scan(&r.ID, &r.Title, &r.Slug, &r.Status, &r.IsActive, &r.CategoryName, &r.CreatedAt)
		return r, err
	},
}

// RecipeParams holds the writable columns of a recipe.
type RecipeParams struct {
	Title            string
	Slug             string
	ShortDescription string
	Image            string
	ImageURL         string
	Status           string
	IsActive         bool
	CategoryID       *int64
	Paragraph1       string
	Paragraph2       string
}

// CreateRecipe inserts a recipe.
func (q *Queries) CreateRecipe(ctx context.Context, arg RecipeParams) (Recipe, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO recipes (title, slug, short_description, image, image_url, status, is_active,
		                      category_id, paragraph_1, paragraph_2, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.ShortDescription, arg.Image, arg.ImageURL, arg.Status, arg.IsActive,
		arg.CategoryID, arg.Paragraph1, arg.Paragraph2, ts, ts)
	if err != nil {
		return Recipe{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Recipe{}, err
	}
	return q.GetRecipeByID(ctx, id)
}

// GetRecipeByID returns one recipe.
func (q *Queries) GetRecipeByID(ctx context.Context, id int64) (Recipe, error) {
	r, err := scanRecipe(q.db.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id))
	return r, classify(err)
}

// ListRecipes returns one page of recipes.
func (q *Queries) ListRecipes(ctx context.Context, req listing.Request) (listing.Page[RecipeListRow], error) {
	return List(ctx, q.db, RecipeList, req)
}

// UpdateRecipe rewrites every writable column of a recipe.
func (q *Queries) UpdateRecipe(ctx context.Context, id int64, arg RecipeParams) (Recipe, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE recipes SET title = ?, slug = ?, short_description = ?, image = ?, image_url = ?,
		        status = ?, is_active = ?, category_id = ?, paragraph_1 = ?, paragraph_2 = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Slug, arg.ShortDescription, arg.Image, arg.ImageURL,
		arg.Status, arg.IsActive, arg.CategoryID, arg.Paragraph1, arg.Paragraph2, now(), id)
	if err != nil {
		return Recipe{}, classify(err)
	}
	if err := affected(res); err != nil {
		return Recipe{}, err
	}
	return q.GetRecipeByID(ctx, id)
}

// DeleteRecipe removes a recipe and, by cascade, its shadow.
func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// RecipeSlugTaken reports whether another recipe uses slug.
func (q *Queries) RecipeSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return q.slugTaken(ctx, "recipes", slug, exceptID)
}

// CountRecipes counts all recipes.
func (q *Queries) CountRecipes(ctx context.Context) (int64, error) {
	return q.count(ctx, "recipes")
}

const recipeTranslationColumns = `id, recipe_id, lang, title, slug, short_description, paragraph_1,
	paragraph_2, is_auto, updated_at`

// GetRecipeTranslation returns the shadow of a recipe in lang.
func (q *Queries) GetRecipeTranslation(ctx context.Context, recipeID int64, lang string) (RecipeTranslation, error) {
	var t RecipeTranslation
	err := q.db.QueryRowContext(ctx,
		"SELECT "+recipeTranslationColumns+" FROM recipe_translations WHERE recipe_id = ? AND lang = ?",
		recipeID, lang).Scan(&t.ID, &t.RecipeID, &t.Lang, &t.Title, &t.Slug, &t.ShortDescription,
		&t.Paragraph1, &t.Paragraph2, &t.IsAuto, &t.UpdatedAt)
	return t, classify(err)
}

// CreateRecipeTranslation inserts the shadow of a recipe. An existing shadow is left as is.
func (q *Queries) CreateRecipeTranslation(ctx context.Context, t RecipeTranslation) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO recipe_translations (recipe_id, lang, title, slug, short_description, paragraph_1,
		                                  paragraph_2, is_auto, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(recipe_id, lang) DO NOTHING`,
		t.RecipeID, t.Lang, t.Title, t.Slug, t.ShortDescription, t.Paragraph1, t.Paragraph2, t.IsAuto, now())
	return classify(err)
}

// UpdateAutoRecipeTranslation overwrites the shadow only while it is still automatic.
func (q *Queries) UpdateAutoRecipeTranslation(ctx context.Context, t RecipeTranslation) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE recipe_translations SET title = ?, slug = ?, short_description = ?, paragraph_1 = ?,
		        paragraph_2 = ?, updated_at = ?
		 WHERE recipe_id = ? AND lang = ? AND is_auto = 1`,
		t.Title, t.Slug, t.ShortDescription, t.Paragraph1, t.Paragraph2, now(), t.RecipeID, t.Lang)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetRecipeTranslation stores a hand-written shadow with the given is_auto flag.
func (q *Queries) SetRecipeTranslation(ctx context.Context, t RecipeTranslation) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO recipe_translations (recipe_id, lang, title, slug, short_description, paragraph_1,
		                                  paragraph_2, is_auto, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(recipe_id, lang) DO UPDATE SET
		     title = excluded.title, slug = excluded.slug, short_description = excluded.short_description,
		     paragraph_1 = excluded.paragraph_1, paragraph_2 = excluded.paragraph_2,
		     is_auto = excluded.is_auto, updated_at = excluded.updated_at`,
		t.RecipeID, t.Lang, t.Title, t.Slug, t.ShortDescription, t.Paragraph1, t.Paragraph2, t.IsAuto, now())
	return classify(err)
}
