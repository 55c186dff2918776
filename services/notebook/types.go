// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package notebook defines the input shape consumed by the code-format
// analyzer and loads it from extracted cell documents.
//
// A cell document is the output of whatever tool pulled the code cells out
// of a notebook container:
//
//	{"path": "analysis.ipynb", "code_cells": [{"source": "import os\n"}]}
//
// Reading the container format itself is outside this package.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NotebookContent is the analyzer input: ordered code cells plus an
// optional path identifier. It is not modified during analysis.
type NotebookContent struct {
	// Path identifies the notebook. Passed through to the result.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// CodeCells in notebook order. A missing field decodes as empty.
	CodeCells []CodeCell `json:"code_cells" yaml:"code_cells"`
}

// CodeCell is one unit of source text.
type CodeCell struct {
	// Source is the raw cell text, possibly multi-line or blank.
	Source string `json:"source" yaml:"source"`
}

// NonEmptyCells returns the number of cells with non-whitespace source.
func (n *NotebookContent) NonEmptyCells() int {
	if n == nil {
		return 0
	}
	count := 0
	for _, c := range n.CodeCells {
		if strings.TrimSpace(c.Source) != "" {
			count++
		}
	}
	return count
}

// UnmarshalJSON accepts "source" as a string or as a list of strings.
//
// Notebook storage commonly keeps cell source as a list of lines that
// already carry their trailing newlines, so list items are joined as-is.
func (c *CodeCell) UnmarshalJSON(data []byte) error {
	var raw struct {
		Source json.RawMessage `json:"source"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	src := bytes.TrimSpace(raw.Source)
	if len(src) == 0 || bytes.Equal(src, []byte("null")) {
		c.Source = ""
		return nil
	}

	switch src[0] {
	case '"':
		return json.Unmarshal(src, &c.Source)
	case '[':
		var parts []string
		if err := json.Unmarshal(src, &parts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		c.Source = strings.Join(parts, "")
		return nil
	default:
		return ErrInvalidSource
	}
}

// UnmarshalYAML accepts "source" as a scalar or a sequence of scalars.
func (c *CodeCell) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Source yaml.Node `yaml:"source"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch raw.Source.Kind {
	case 0:
		c.Source = ""
		return nil
	case yaml.ScalarNode:
		if raw.Source.Tag == "!!null" {
			c.Source = ""
			return nil
		}
		c.Source = raw.Source.Value
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := raw.Source.Decode(&parts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		c.Source = strings.Join(parts, "")
		return nil
	default:
		return ErrInvalidSource
	}
}
