// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/vitrine/internal/listing"
)

// Taxonomy names the tables behind one kind of term. Categories are
// referenced through a nullable column of the dependent table; tags are
// referenced through a join table.
type Taxonomy struct {
	Kind             string
	Table            string
	TranslationTable string
	TranslationFK    string

	// Category semantics: DependentTable.DependentColumn is nulled before delete.
	DependentTable  string
	DependentColumn string

	// Tag semantics: rows of JoinTable matching JoinColumn are removed before delete.
	JoinTable  string
	JoinColumn string
}

// Known taxonomies.
var (
	BlogCategories = Taxonomy{
		Kind:             "blog category",
		Table:            "blog_categories",
		TranslationTable: "blog_category_translations",
		TranslationFK:    "category_id",
		DependentTable:   "blogs",
		DependentColumn:  "category_id",
	}
	RecipeCategories = Taxonomy{
		Kind:             "recipe category",
		Table:            "recipe_categories",
		TranslationTable: "recipe_category_translations",
		TranslationFK:    "category_id",
		DependentTable:   "recipes",
		DependentColumn:  "category_id",
	}
	Tags = Taxonomy{
		Kind:             "tag",
		Table:            "tags",
		TranslationTable: "tag_translations",
		TranslationFK:    "tag_id",
		JoinTable:        "blog_tags",
		JoinColumn:       "tag_id",
	}
)

// usageExpr counts the rows depending on term t.id.
func (t Taxonomy) usageExpr() string {
	if t.JoinTable != "" {
		return fmt.Sprintf("(SELECT COUNT(*) FROM %s j WHERE j.%s = t.id)", t.JoinTable, t.JoinColumn)
	}
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s d WHERE d.%s = t.id)", t.DependentTable, t.DependentColumn)
}

func (t Taxonomy) columns() string {
	return "t.id, t.name, t.slug, " + t.usageExpr() + ", t.created_at, t.updated_at"
}

func scanTerm(row rowScanner) (Term, error) {
	var term Term
	err := row.Scan(&term.ID, &term.Name, &term.Slug, &term.UsageCount, &term.CreatedAt, &term.UpdatedAt)
	return term, err
}

// ListSpec returns the listing of the taxonomy: by name, newest first.
func (t Taxonomy) ListSpec() ListSpec[Term] {
	return ListSpec[Term]{
		From:    t.Table + " t",
		Columns: t.columns(),
		Search:  []string{"t.name"},
		OrderBy: "t.created_at DESC, t.id DESC",
		Scan:    scanTerm,
	}
}

// ListTerms returns one page of terms.
func (q *Queries) ListTerms(ctx context.Context, t Taxonomy, req listing.Request) (listing.Page[Term], error) {
	return List(ctx, q.db, t.ListSpec(), req)
}

// AllTerms returns every term alphabetically, for select inputs.
func (q *Queries) AllTerms(ctx context.Context, t Taxonomy) ([]Term, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+t.columns()+" FROM "+t.Table+" t ORDER BY t.name, t.id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var terms []Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// GetTerm returns one term.
func (q *Queries) GetTerm(ctx context.Context, t Taxonomy, id int64) (Term, error) {
	term, err := scanTerm(q.db.QueryRowContext(ctx, "SELECT "+t.columns()+" FROM "+t.Table+" t WHERE t.id = ?", id))
	return term, classify(err)
}

// CreateTerm inserts a term.
func (q *Queries) CreateTerm(ctx context.Context, t Taxonomy, name, slug string) (Term, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO "+t.Table+" (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, slug, ts, ts)
	if err != nil {
		return Term{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Term{}, err
	}
	return q.GetTerm(ctx, t, id)
}

// UpdateTerm renames a term.
func (q *Queries) UpdateTerm(ctx context.Context, t Taxonomy, id int64, name, slug string) (Term, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE "+t.Table+" SET name = ?, slug = ?, updated_at = ? WHERE id = ?",
		name, slug, now(), id)
	if err != nil {
		return Term{}, classify(err)
	}
	if err := affected(res); err != nil {
		return Term{}, err
	}
	return q.GetTerm(ctx, t, id)
}

// DetachTerm releases every row depending on the term: the category column
// is nulled, or the join rows are deleted. It returns the number of rows touched.
func (q *Queries) DetachTerm(ctx context.Context, t Taxonomy, id int64) (int64, error) {
	var stmt string
	if t.JoinTable != "" {
		stmt = fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.JoinTable, t.JoinColumn)
	} else {
		stmt = fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", t.DependentTable, t.DependentColumn, t.DependentColumn)
	}
	res, err := q.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// DeleteTerm removes a term. It fails with ErrReferenced while dependents exist.
func (q *Queries) DeleteTerm(ctx context.Context, t Taxonomy, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM "+t.Table+" WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// TermSlugTaken reports whether another term of the taxonomy uses slug.
func (q *Queries) TermSlugTaken(ctx context.Context, t Taxonomy, slug string, exceptID int64) (bool, error) {
	return q.slugTaken(ctx, t.Table, slug, exceptID)
}

// TermsExist reports whether all ids name existing terms.
func (q *Queries) TermsExist(ctx context.Context, t Taxonomy, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	query, args := inClause("SELECT COUNT(DISTINCT id) FROM "+t.Table+" WHERE id IN ", ids)
	var n int
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == len(uniqueIDs(ids)), nil
}

const termTranslationColumns = "id, %s, lang, name, slug, is_auto, updated_at"

func (t Taxonomy) translationColumns() string {
	return fmt.Sprintf(termTranslationColumns, t.TranslationFK)
}

// GetTermTranslation returns the shadow of a term in lang.
func (q *Queries) GetTermTranslation(ctx context.Context, t Taxonomy, termID int64, lang string) (TermTranslation, error) {
	var tr TermTranslation
	err := q.db.QueryRowContext(ctx,
		"SELECT "+t.translationColumns()+" FROM "+t.TranslationTable+" WHERE "+t.TranslationFK+" = ? AND lang = ?",
		termID, lang).Scan(&tr.ID, &tr.TermID, &tr.Lang, &tr.Name, &tr.Slug, &tr.IsAuto, &tr.UpdatedAt)
	return tr, classify(err)
}

// CreateTermTranslation inserts the shadow of a term. An existing shadow is left as is.
func (q *Queries) CreateTermTranslation(ctx context.Context, t Taxonomy, tr TermTranslation) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO "+t.TranslationTable+" ("+t.TranslationFK+", lang, name, slug, is_auto, updated_at)"+
			" VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT("+t.TranslationFK+", lang) DO NOTHING",
		tr.TermID, tr.Lang, tr.Name, tr.Slug, tr.IsAuto, now())
	return classify(err)
}

// UpdateAutoTermTranslation overwrites the shadow only while it is still automatic.
// It reports whether a row was written.
func (q *Queries) UpdateAutoTermTranslation(ctx context.Context, t Taxonomy, termID int64, lang, name, slug string) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE "+t.TranslationTable+" SET name = ?, slug = ?, updated_at = ?"+
			" WHERE "+t.TranslationFK+" = ? AND lang = ? AND is_auto = 1",
		name, slug, now(), termID, lang)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetTermTranslation stores a hand-written shadow with the given is_auto flag.
func (q *Queries) SetTermTranslation(ctx context.Context, t Taxonomy, tr TermTranslation) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO "+t.TranslationTable+" ("+t.TranslationFK+", lang, name, slug, is_auto, updated_at)"+
			" VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT("+t.TranslationFK+", lang) DO UPDATE SET"+
			" name = excluded.name, slug = excluded.slug, is_auto = excluded.is_auto, updated_at = excluded.updated_at",
		tr.TermID, tr.Lang, tr.Name, tr.Slug, tr.IsAuto, now())
	return classify(err)
}

// inClause appends "(?, ?, ...)" for ids to prefix.
func inClause(prefix string, ids []int64) (string, []any) {
	args := make([]any, len(ids))
	placeholders := make([]byte, 0, len(ids)*3)
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ", "...)
		}
		placeholders = append(placeholders, '?')
		args[i] = id
	}
	return prefix + "(" + string(placeholders) + ")", args
}

// uniqueIDs drops duplicate ids, keeping the first occurrence.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
