// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pyast

import (
	"errors"
	"fmt"
)

// Sentinel errors for parsing.
var (
	// ErrSyntax indicates the source is not valid Python 3.
	ErrSyntax = errors.New("syntax error")

	// ErrSourceTooLarge indicates the source exceeds the parser's size limit.
	ErrSourceTooLarge = errors.New("source too large")

	// ErrInvalidSource indicates the source is not valid UTF-8.
	ErrInvalidSource = errors.New("source is not valid UTF-8")
)

// ParseError reports where parsing failed.
type ParseError struct {
	// Line is the 1-based line of the first offending node, or 0.
	Line int

	// Column is the 1-based column of the first offending node, or 0.
	Column int

	// Cause is one of the sentinel errors above or a tree-sitter failure.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
