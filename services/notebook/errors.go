// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package notebook

import (
	"errors"
	"fmt"
)

// Sentinel errors for notebook loading.
var (
	// ErrUnsupportedFormat indicates the file extension maps to no known format.
	ErrUnsupportedFormat = errors.New("unsupported cell document format")

	// ErrMalformed indicates the document could not be decoded.
	ErrMalformed = errors.New("malformed cell document")

	// ErrInvalidSource indicates a cell source that is neither a string nor a list of strings.
	ErrInvalidSource = errors.New("cell source must be a string or a list of strings")
)

// LoadError describes a failure to load one cell document.
type LoadError struct {
	// Path is the file being loaded, if known.
	Path string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load notebook: %v", e.Cause)
	}
	return fmt.Sprintf("load notebook %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
