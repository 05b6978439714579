// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/url"

	"github.com/olegiv/vitrine/internal/validation"
)

// Field types understood by the "field" partial. Any other value is used
// as the type attribute of a plain input.
const (
	FieldText        = "text"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNumber      = "number"
	FieldURL         = "url"
	FieldTextarea    = "textarea"
	FieldMarkdown    = "markdown"
	FieldLines       = "lines"
	FieldCheckbox    = "checkbox"
	FieldSelect      = "select"
	FieldMultiSelect = "multiselect"
	FieldImage       = "image"
	FieldSlug        = "slug"
)

// Field describes one form control. Name matches the `form` tag of the
// input struct the form decodes into.
type Field struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Help     string
	Options  []Option
	// Source names the field a slug is derived from.
	Source string
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// FieldContext is what the "field" partial renders.
type FieldContext struct {
	Field  Field
	Values url.Values
	Error  string
}

func fieldContext(f Field, values url.Values, errs validation.Errors) FieldContext {
	return FieldContext{Field: f, Values: values, Error: errs[f.Name]}
}
