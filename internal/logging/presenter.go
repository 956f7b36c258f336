// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Reporter prints operation failures. Its Report method is meant to be the
// out-of-band message sink of a dberr.Guard.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w, or to pterm's default output
// when w is nil.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report prints a masked failure message. Continuation lines are indented
// under the error prefix.
func (r *Reporter) Report(msg string) {
	printer := pterm.Error
	if r.w != nil {
		printer = *printer.WithWriter(r.w)
	}
	printer.Println(strings.TrimRight(Mask(msg), "\n"))
}
