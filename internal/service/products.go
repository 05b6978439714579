// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

// ProductInput is the form of a product.
type ProductInput struct {
	Name           string `form:"name" json:"name" validate:"notblank,max=200" label:"Name"`
	Slug           string `form:"slug" json:"slug" validate:"omitempty,slug" label:"Slug"`
	Description    string `form:"description" json:"description" validate:"max=10000" label:"Description"`
	Category       string `form:"category" json:"category" validate:"max=100" label:"Category"`
	ImagePath      string `form:"image_path" json:"image_path" validate:"max=500" label:"Main image"`
	Image2         string `form:"image_2" json:"image_2" validate:"max=500" label:"Image 2"`
	Image3         string `form:"image_3" json:"image_3" validate:"max=500" label:"Image 3"`
	Image4         string `form:"image_4" json:"image_4" validate:"max=500" label:"Image 4"`
	AdditionalInfo string `form:"additional_info" json:"additional_info" validate:"max=10000" label:"Additional information"`
	Active         bool   `form:"active" json:"active"`
}

func (in ProductInput) params(slug string) store.ProductParams {
	return store.ProductParams{
		Name:           strings.TrimSpace(in.Name),
		Slug:           slug,
		Description:    in.Description,
		Category:       strings.TrimSpace(in.Category),
		ImagePath:      in.ImagePath,
		Image2:         in.Image2,
		Image3:         in.Image3,
		Image4:         in.Image4,
		AdditionalInfo: in.AdditionalInfo,
		Active:         in.Active,
	}
}

// ProductService manages products.
type ProductService struct {
	base
}

// NewProductService creates a ProductService.
func NewProductService(d Deps) *ProductService {
	return &ProductService{base: newBase(d)}
}

// List returns one page of products.
func (s *ProductService) List(ctx context.Context, req listing.Request) (listing.Page[store.Product], error) {
	return s.queries.ListProducts(ctx, req)
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id int64) (store.Product, error) {
	return s.queries.GetProductByID(ctx, id)
}

// Categories returns the selectable product categories.
func (s *ProductService) Categories(ctx context.Context) ([]store.ProductCategory, error) {
	return s.queries.ListProductCategories(ctx)
}

// Create validates in and inserts a product, deriving the slug from the
// name when none is given.
func (s *ProductService) Create(ctx context.Context, in ProductInput) action.Outcome[store.Product] {
	p, err := s.create(ctx, in)
	return outcome("Product", "created", p, err)
}

func (s *ProductService) create(ctx context.Context, in ProductInput) (store.Product, error) {
	if err := validation.Struct(in); err != nil {
		return store.Product{}, err
	}
	slug, err := createSlug(in.Slug, in.Name)
	if err != nil {
		return store.Product{}, err
	}
	if err := checkSlug(ctx, s.queries.ProductSlugTaken, slug, 0); err != nil {
		return store.Product{}, err
	}

	p, err := s.queries.CreateProduct(ctx, in.params(slug))
	if err != nil {
		return store.Product{}, err
	}
	s.logger.Info("product created", "product_id", p.ID, "slug", p.Slug)
	s.touched(ctx, PathProducts)
	return p, nil
}

// Update validates in and rewrites product id. An empty slug keeps the stored one.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) action.Outcome[store.Product] {
	p, err := s.update(ctx, id, in)
	return outcome("Product", "updated", p, err)
}

func (s *ProductService) update(ctx context.Context, id int64, in ProductInput) (store.Product, error) {
	if err := validation.Struct(in); err != nil {
		return store.Product{}, err
	}
	current, err := s.queries.GetProductByID(ctx, id)
	if err != nil {
		return store.Product{}, err
	}
	slug := updateSlug(in.Slug, current.Slug)
	if err := checkSlug(ctx, s.queries.ProductSlugTaken, slug, id); err != nil {
		return store.Product{}, err
	}

	p, err := s.queries.UpdateProduct(ctx, id, in.params(slug))
	if err != nil {
		return store.Product{}, err
	}
	s.logger.Info("product updated", "product_id", p.ID)
	s.touched(ctx, PathProducts)
	return p, nil
}

// Delete removes product id.
func (s *ProductService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteProduct(ctx, id)
	if err == nil {
		s.logger.Info("product deleted", "product_id", id)
		s.touched(ctx, PathProducts)
	}
	return deleted("Product", err)
}
