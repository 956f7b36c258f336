// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package prompt

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
)

// Asker reads one line of input for a label.
type Asker interface {
	Ask(label string) (string, error)
}

// Selector lets the user pick one of options and returns its index.
type Selector interface {
	Select(label string, options []string) (int, error)
}

// Prompter repeats each question until the answer passes validation.
// Rejections go to Warn; errors from the underlying input end the question.
type Prompter struct {
	In   Asker
	Menu Selector
	Warn func(msg string)
}

// Terminal returns a Prompter backed by pterm's interactive widgets.
func Terminal() *Prompter {
	return &Prompter{
		In:   ptermAsker{},
		Menu: ptermSelector{},
		Warn: func(msg string) { pterm.Warning.Println(msg) },
	}
}

func (p *Prompter) warn(err error) {
	if p.Warn != nil {
		p.Warn(err.Error())
	}
}

// loop asks label until parse accepts the answer.
func loop[T any](p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := p.In.Ask(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		p.warn(err)
	}
}

// NonEmpty asks for a required string of at most maxLen characters.
func (p *Prompter) NonEmpty(label string, maxLen int) (string, error) {
	return loop(p, label, func(s string) (string, error) { return NonEmpty(s, maxLen) })
}

// Optional asks for a string that may be left empty.
func (p *Prompter) Optional(label string, maxLen int) (string, error) {
	return loop(p, label, func(s string) (string, error) { return Optional(s, maxLen) })
}

// StringOr asks for a string; an empty answer keeps current.
func (p *Prompter) StringOr(label, current string, maxLen int) (string, error) {
	return loop(p, fmt.Sprintf("%s [%s]", label, current), func(s string) (string, error) {
		v, err := Optional(s, maxLen)
		if err != nil || v != "" {
			return v, err
		}
		return current, nil
	})
}

// Int asks for an integer satisfying rule.
func (p *Prompter) Int(label string, rule IntRule) (int64, error) {
	return loop(p, label, func(s string) (int64, error) { return Int(s, rule) })
}

// IntOr asks for an integer satisfying rule; an empty answer keeps current.
func (p *Prompter) IntOr(label string, current int64, rule IntRule) (int64, error) {
	return loop(p, fmt.Sprintf("%s [%d]", label, current), func(s string) (int64, error) {
		if v, _ := Optional(s, 0); v == "" {
			return current, nil
		}
		return Int(s, rule)
	})
}

// Confirm asks a yes/no question; an empty answer yields def.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "n"
	if def {
		hint = "y"
	}
	return loop(p, fmt.Sprintf("%s (y/n) [%s]", label, hint), func(s string) (bool, error) { return Bool(s, &def) })
}

// Position asks for a 1-based position in a list of n items.
func (p *Prompter) Position(label string, n int) (int, error) {
	v, err := loop(p, label, func(s string) (int64, error) {
		v, err := Int(s, AtLeast(1))
		if err == nil && v > int64(n) {
			return 0, fmt.Errorf("no item number %d", v)
		}
		return v, err
	})
	return int(v), err
}

// Select shows a menu and returns the chosen index.
func (p *Prompter) Select(label string, options []string) (int, error) {
	return p.Menu.Select(label, options)
}

type ptermAsker struct{}

func (ptermAsker) Ask(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(label)
}

type ptermSelector struct{}

func (ptermSelector) Select(label string, options []string) (int, error) {
	// Numbered so equal labels stay distinguishable.
	numbered := make([]string, len(options))
	for i, o := range options {
		numbered[i] = strconv.Itoa(i+1) + ". " + o
	}
	chosen, err := pterm.DefaultInteractiveSelect.
		WithOptions(numbered).
		WithDefaultText(label).
		WithMaxHeight(len(numbered)).
		Show()
	if err != nil {
		return 0, err
	}
	for i, o := range numbered {
		if o == chosen {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown selection %q", chosen)
}
