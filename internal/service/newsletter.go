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

// SubscribeInput is the public newsletter form.
type SubscribeInput struct {
	Email string `form:"email" json:"email" validate:"required,email,max=254" label:"Email"`
}

// NewsletterService manages newsletter subscriptions.
type NewsletterService struct {
	base
}

// NewNewsletterService creates a NewsletterService.
func NewNewsletterService(d Deps) *NewsletterService {
	return &NewsletterService{base: newBase(d)}
}

// List returns one page of subscriptions.
func (s *NewsletterService) List(ctx context.Context, req listing.Request) (listing.Page[store.NewsletterEmail], error) {
	return s.queries.ListNewsletters(ctx, req)
}

// Get returns one subscription.
func (s *NewsletterService) Get(ctx context.Context, id int64) (store.NewsletterEmail, error) {
	return s.queries.GetNewsletterByID(ctx, id)
}

// Subscribe records an address. Subscribing twice succeeds without a
// second row.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) action.Outcome[store.NewsletterEmail] {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.NewsletterEmail](err, "Subscription")
	}

	sub, created, err := s.queries.Subscribe(ctx, in.Email)
	if err != nil {
		return action.FromError[store.NewsletterEmail](err, "Subscription")
	}
	if !created {
		return action.OK("You are already subscribed", sub)
	}
	s.logger.Info("newsletter subscription", "subscription_id", sub.ID)
	s.touched(ctx, PathNewsletters)
	return action.OK("Thank you for subscribing", sub)
}

// Delete removes subscription id.
func (s *NewsletterService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteNewsletter(ctx, id)
	if err == nil {
		s.logger.Info("newsletter subscription deleted", "subscription_id", id)
		s.touched(ctx, PathNewsletters)
	}
	return deleted("Subscription", err)
}
