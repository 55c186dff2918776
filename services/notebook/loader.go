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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of a cell document.
type Format string

const (
	// FormatJSON is a JSON cell document.
	FormatJSON Format = "json"

	// FormatYAML is a YAML cell document.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
//
// Returns ErrUnsupportedFormat for anything other than .json, .yaml, .yml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads one cell document.
//
// Description:
//
//	Decodes a JSON or YAML document of the shape
//	{path, code_cells: [{source}]}. A missing code_cells field yields
//	an empty, non-nil slice. An empty document is treated the same way.
//
// Inputs:
//
//	r      - Document reader.
//	format - FormatJSON or FormatYAML.
//
// Outputs:
//
//	*NotebookContent - Decoded content. Never nil on success.
//	error            - Wraps ErrMalformed or ErrUnsupportedFormat.
func Decode(r io.Reader, format Format) (*NotebookContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cell document: %w", err)
	}

	content := &NotebookContent{}
	if len(strings.TrimSpace(string(data))) > 0 {
		switch format {
		case FormatJSON:
			err = json.Unmarshal(data, content)
		case FormatYAML:
			err = yaml.Unmarshal(data, content)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if content.CodeCells == nil {
		content.CodeCells = []CodeCell{}
	}
	return content, nil
}

// LoadFile reads a cell document from disk.
//
// The format comes from the extension. When the document carries no
// path, the file path is used instead.
func LoadFile(path string) (*NotebookContent, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	defer f.Close()

	content, err := Decode(f, format)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	if content.Path == "" {
		content.Path = path
	}
	return content, nil
}
