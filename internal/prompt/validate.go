// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package prompt reads validated values from the user. Validation rules are
// plain functions so the interactive loop and the flag-driven commands share
// them.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrEmpty is returned by rules that require a value.
var ErrEmpty = errors.New("value must not be empty")

// IntRule bounds an integer. Nil bounds are not checked.
type IntRule struct {
	Min       *int64 // value >= Min
	GreaterTo *int64 // value > GreaterTo
}

// AtLeast returns a rule requiring value >= n.
func AtLeast(n int64) IntRule { return IntRule{Min: &n} }

// GreaterThan returns a rule requiring value > n.
func GreaterThan(n int64) IntRule { return IntRule{GreaterTo: &n} }

// Check validates v against the rule.
func (r IntRule) Check(v int64) error {
	if r.Min != nil && v < *r.Min {
		return fmt.Errorf("value must be >= %d", *r.Min)
	}
	if r.GreaterTo != nil && v <= *r.GreaterTo {
		return fmt.Errorf("value must be > %d", *r.GreaterTo)
	}
	return nil
}

// NonEmpty trims s and requires it to be non-empty and at most maxLen
// characters long. maxLen <= 0 means unbounded.
func NonEmpty(s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	return s, checkLen(s, maxLen)
}

// Optional trims s; an empty result is allowed.
func Optional(s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	return s, checkLen(s, maxLen)
}

func checkLen(s string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return fmt.Errorf("length must not exceed %d", maxLen)
	}
	return nil
}

// Int parses s as a base-10 integer and applies rule.
func Int(s string, rule IntRule) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.New("an integer is required")
	}
	if err := rule.Check(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Bool parses a yes/no answer. An empty answer yields def when def is set.
func Bool(s string, def *bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if def != nil {
			return *def, nil
		}
	case "y", "yes", "1", "true", "t":
		return true, nil
	case "n", "no", "0", "false", "f":
		return false, nil
	}
	return false, errors.New("enter y/n")
}
