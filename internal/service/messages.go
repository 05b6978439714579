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

// ContactInput is a message sent through the public contact form.
type ContactInput struct {
	Name    string `form:"name" json:"name" validate:"notblank,max=100" label:"Name"`
	Email   string `form:"email" json:"email" validate:"required,email,max=254" label:"Email"`
	Subject string `form:"subject" json:"subject" validate:"notblank,max=200" label:"Subject"`
	Message string `form:"message" json:"message" validate:"notblank,max=5000" label:"Message"`
}

// MessageService manages contact messages.
type MessageService struct {
	base
}

// NewMessageService creates a MessageService.
func NewMessageService(d Deps) *MessageService {
	return &MessageService{base: newBase(d)}
}

// List returns one page of messages matching name, email or subject.
func (s *MessageService) List(ctx context.Context, req listing.Request) (listing.Page[store.ContactMessage], error) {
	return s.queries.ListMessages(ctx, req)
}

// Get returns one message.
func (s *MessageService) Get(ctx context.Context, id int64) (store.ContactMessage, error) {
	return s.queries.GetMessageByID(ctx, id)
}

// Submit validates and stores a public contact message.
func (s *MessageService) Submit(ctx context.Context, in ContactInput) action.Outcome[store.ContactMessage] {
	m, err := s.submit(ctx, in)
	if err != nil {
		return action.FromError[store.ContactMessage](err, "Message")
	}
	return action.OK("Thank you, your message has been sent", m)
}

func (s *MessageService) submit(ctx context.Context, in ContactInput) (store.ContactMessage, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return store.ContactMessage{}, err
	}
	m, err := s.queries.CreateMessage(ctx, store.CreateMessageParams{
		Name:    strings.TrimSpace(in.Name),
		Email:   in.Email,
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	})
	if err != nil {
		return store.ContactMessage{}, err
	}
	s.logger.Info("contact message received", "message_id", m.ID)
	s.touched(ctx, PathMessages)
	return m, nil
}

// Delete removes message id.
func (s *MessageService) Delete(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteMessage(ctx, id)
	if err == nil {
		s.logger.Info("contact message deleted", "message_id", id)
		s.touched(ctx, PathMessages)
	}
	return deleted("Message", err)
}
