// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/vitrine/internal/listing"
)

const productColumns = "id, name, slug, description, category, image_path, image_2, image_3, image_4, additional_info, active, created_at, updated_at"

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category,
		&p.ImagePath, &p.Image2, &p.Image3, &p.Image4, &p.AdditionalInfo,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ProductList lists products by name, newest first.
var ProductList = ListSpec[Product]{
	From:    "products",
	Columns: productColumns,
	Search:  []string{"name"},
	OrderBy: "created_at DESC, id DESC",
	Scan:    scanProduct,
}

// ProductParams holds the writable columns of a product.
type ProductParams struct {
	Name           string
	Slug           string
	Description    string
	Category       string
	ImagePath      string
	Image2         string
	Image3         string
	Image4         string
	AdditionalInfo string
	Active         bool
}

// CreateProduct inserts a product.
func (q *Queries) CreateProduct(ctx context.Context, arg ProductParams) (Product, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO products (name, slug, description, category, image_path, image_2, image_3, image_4,
		                       additional_info, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Slug, arg.Description, arg.Category, arg.ImagePath, arg.Image2, arg.Image3, arg.Image4,
		arg.AdditionalInfo, arg.Active, ts, ts)
	if err != nil {
		return Product{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Product{}, err
	}
	return q.GetProductByID(ctx, id)
}

// GetProductByID returns one product.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(q.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	return p, classify(err)
}

// ListProducts returns one page of products.
func (q *Queries) ListProducts(ctx context.Context, req listing.Request) (listing.Page[Product], error) {
	return List(ctx, q.db, ProductList, req)
}

// UpdateProduct rewrites every writable column of a product.
func (q *Queries) UpdateProduct(ctx context.Context, id int64, arg ProductParams) (Product, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE products SET name = ?, slug = ?, description = ?, category = ?, image_path = ?,
		        image_2 = ?, image_3 = ?, image_4 = ?, additional_info = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Name, arg.Slug, arg.Description, arg.Category, arg.ImagePath,
		arg.Image2, arg.Image3, arg.Image4, arg.AdditionalInfo, arg.Active, now(), id)
	if err != nil {
		return Product{}, classify(err)
	}
	if err := affected(res); err != nil {
		return Product{}, err
	}
	return q.GetProductByID(ctx, id)
}

// DeleteProduct removes a product.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// ProductSlugTaken reports whether another product uses slug.
func (q *Queries) ProductSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return q.slugTaken(ctx, "products", slug, exceptID)
}

// CountProducts counts all products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	return q.count(ctx, "products")
}

// ListProductCategories returns the category choices, alphabetically.
func (q *Queries) ListProductCategories(ctx context.Context) ([]ProductCategory, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT id, name FROM product_categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ProductCategory
	for rows.Next() {
		var c ProductCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// slugTaken checks slug uniqueness in table, ignoring the row exceptID.
func (q *Queries) slugTaken(ctx context.Context, table, slug string, exceptID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE slug = ? AND id <> ?", slug, exceptID).Scan(&n)
	return n > 0, err
}
