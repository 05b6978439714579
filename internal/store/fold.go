// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// foldFunc is the SQL name of the Unicode case folding function.
// SQLite's own LIKE and lower() only fold ASCII.
const foldFunc = "fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldValue)
}

// foldValue folds TEXT and BLOB arguments; NULL stays NULL and other
// types pass through so comparisons keep SQLite's affinity rules.
func foldValue(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return foldString(v), nil
	case []byte:
		return foldString(string(v)), nil
	default:
		return v, nil
	}
}

// foldString applies full Unicode case folding. A Caser is stateful,
// so one is built per call.
func foldString(s string) string {
	return cases.Fold().String(s)
}
