// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package action defines Outcome, the uniform result of every create,
// update and delete, and the mapping from errors to outcomes.
package action

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

// Kind classifies a failed outcome. It never reaches JSON; handlers use it
// to pick a status code or page.
type Kind int

// Outcome kinds.
const (
	KindNone Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindReferenced
	KindForbidden
	KindUnavailable
	KindInternal
)

// GenericMessage is shown for failures that must not leak details.
const GenericMessage = "Something went wrong. Please try again."

// Outcome is the result of a mutation: {success, message, data?}.
// Data is nil whenever Success is false.
type Outcome[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`

	Kind   Kind              `json:"-"`
	Fields validation.Errors `json:"-"`
}

// None is the payload type of outcomes that carry no data, such as deletes.
type None struct{}

// OK builds a successful outcome carrying data.
func OK[T any](message string, data T) Outcome[T] {
	return Outcome[T]{Success: true, Message: message, Data: &data}
}

// Done builds a successful outcome without data.
func Done(message string) Outcome[None] {
	return Outcome[None]{Success: true, Message: message}
}

// Fail builds a failed outcome.
func Fail[T any](kind Kind, message string) Outcome[T] {
	return Outcome[T]{Kind: kind, Message: message}
}

// Error is a failure whose message is meant for the user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Reject returns an *Error, for business rules checked by services.
func Reject(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// FromError converts err into a failed outcome. subject names the entity
// in messages ("Blog", "Tag"). Unexpected errors are logged and replaced by
// GenericMessage.
func FromError[T any](err error, subject string) Outcome[T] {
	if errs, ok := validation.As(err); ok {
		return Outcome[T]{Kind: KindValidation, Message: errs.Error(), Fields: errs}
	}

	var ue *Error
	switch {
	case errors.As(err, &ue):
		return Fail[T](ue.Kind, ue.Message)
	case errors.Is(err, store.ErrNotFound):
		return Fail[T](KindNotFound, subject+" not found")
	case errors.Is(err, store.ErrConflict):
		return Fail[T](KindConflict, "A "+strings.ToLower(subject)+" with the same slug or email already exists")
	case errors.Is(err, store.ErrReferenced):
		return Fail[T](KindReferenced, subject+" is still referenced by other records")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Fail[T](KindUnavailable, "The request took too long. Please try again.")
	}

	slog.Error("mutation failed", "subject", subject, "error", err)
	return Fail[T](KindInternal, GenericMessage)
}

// Status maps the outcome onto an HTTP status code.
func (o Outcome[T]) Status() int {
	if o.Success {
		return http.StatusOK
	}
	switch o.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindReferenced:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Drop discards the payload type, keeping success and message.
func (o Outcome[T]) Drop() Outcome[None] {
	return Outcome[None]{Success: o.Success, Message: o.Message, Kind: o.Kind, Fields: o.Fields}
}
