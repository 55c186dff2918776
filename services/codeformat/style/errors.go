// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package style

import (
	"errors"
	"fmt"
)

// Sentinel errors for style checking.
var (
	// ErrTokenize indicates the source could not be tokenized.
	ErrTokenize = errors.New("tokenize failed")

	// ErrNilReport indicates Check was called without a Report.
	ErrNilReport = errors.New("report must not be nil")
)

// CheckError describes a failed check of one source unit.
type CheckError struct {
	// Filename is the name passed to Check.
	Filename string

	// Line is the 1-based line where the failure was detected, or 0.
	Line int

	// Message is a human-readable description.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// tokenizeError builds a CheckError wrapping ErrTokenize.
func tokenizeError(line int, msg string) *CheckError {
	return &CheckError{Line: line, Message: msg, Cause: ErrTokenize}
}
