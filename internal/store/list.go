// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/vitrine/internal/listing"
)

// ListSpec describes how one entity kind is listed: its source relation,
// projected columns, searchable columns and a stable ordering.
type ListSpec[T any] struct {
	// From is the FROM clause, joins included.
	From string
	// Columns is the projection, in the order Scan expects.
	Columns string
	// Search lists the columns matched by a Unicode case-insensitive
	// contains. Several columns are OR-ed.
	Search []string
	// OrderBy must be total so that pages do not shuffle.
	OrderBy string
	// Scan reads one row.
	Scan func(rowScanner) (T, error)
}

// likeEscaper protects LIKE wildcards typed by users.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the filter clause. An empty query yields no clause,
// so "" and an omitted filter select the same rows.
func (s ListSpec[T]) where(query string) (string, []any) {
	query = strings.TrimSpace(query)
	if query == "" || len(s.Search) == 0 {
		return "", nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	conds := make([]string, len(s.Search))
	args := make([]any, len(s.Search))
	for i, col := range s.Search {
		conds[i] = foldFunc + "(" + col + ") LIKE " + foldFunc + `(?) ESCAPE '\'`
		args[i] = pattern
	}
	return " WHERE " + strings.Join(conds, " OR "), args
}

// FindPage runs the filtered fetch and the filtered count for one page.
// The two statements are not linked by a transaction.
func FindPage[T any](ctx context.Context, db DBTX, spec ListSpec[T], req listing.Request) ([]T, int64, error) {
	req = req.Normalize()
	where, args := spec.where(req.Query)

	var total int64
	countSQL := "SELECT COUNT(*) FROM " + spec.From + where
	if err := db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting rows: %w", err)
	}

	selectSQL := "SELECT " + spec.Columns + " FROM " + spec.From + where +
		" ORDER BY " + spec.OrderBy + " LIMIT ? OFFSET ?"
	rows, err := db.QueryContext(ctx, selectSQL, append(args, req.PageSize, req.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []T{}
	for rows.Next() {
		item, err := spec.Scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}

	return items, total, nil
}

// List runs FindPage and assembles the listing.Page.
func List[T any](ctx context.Context, db DBTX, spec ListSpec[T], req listing.Request) (listing.Page[T], error) {
	req = req.Normalize()
	rows, total, err := FindPage(ctx, db, spec, req)
	if err != nil {
		return listing.Page[T]{}, err
	}
	return listing.NewPage(req, rows, total), nil
}
