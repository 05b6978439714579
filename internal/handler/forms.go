// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/olegiv/vitrine/internal/util"
	"github.com/olegiv/vitrine/internal/validation"
)

// maxFormBytes bounds urlencoded admin form bodies.
const maxFormBytes = 2 << 20

var int64PtrType = reflect.TypeOf((*int64)(nil))

// decodeForm fills the fields of the struct pointed to by dst from the
// posted form, keyed by their `form` tags. Unparseable numbers come back
// as validation.Errors so they surface next to the field.
func decodeForm(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}
	return decodeValues(r.PostForm, dst)
}

func decodeValues(form url.Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decodeForm: want pointer to struct, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	errs := validation.Errors{}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		raw := form[name]
		first := ""
		if len(raw) > 0 {
			first = raw[0]
		}

		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(first)
		case fv.Kind() == reflect.Bool:
			fv.SetBool(isChecked(first))
		case fv.Kind() == reflect.Int64:
			s := strings.TrimSpace(first)
			if s == "" {
				fv.SetInt(0)
				continue
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				errs.Add(name, fieldLabel(sf)+" must be a whole number")
				continue
			}
			fv.SetInt(n)
		case fv.Type() == int64PtrType:
			if id := util.ParseIDPtr(first); id != nil {
				fv.Set(reflect.ValueOf(id))
			} else {
				fv.Set(reflect.Zero(fv.Type()))
			}
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Int64:
			fv.Set(reflect.ValueOf(util.ParseIDs(raw)))
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
			lines := []string{}
			for _, v := range raw {
				lines = append(lines, util.SplitLines(v)...)
			}
			fv.Set(reflect.ValueOf(lines))
		}
	}
	return errs.Err()
}

func isChecked(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func fieldLabel(sf reflect.StructField) string {
	if l := sf.Tag.Get("label"); l != "" {
		return l
	}
	return sf.Name
}

// valuesOf flattens the JSON form of v into form values, so a stored
// entity can refill the form whose fields share its JSON names.
func valuesOf(v any) url.Values {
	out := url.Values{}
	data, err := json.Marshal(v)
	if err != nil {
		return out
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return out
	}
	for k, val := range m {
		switch x := val.(type) {
		case []any:
			for _, item := range x {
				if s, ok := scalar(item); ok {
					out.Add(k, s)
				}
			}
		default:
			if s, ok := scalar(x); ok {
				out.Set(k, s)
			}
		}
	}
	return out
}

func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
