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

// DocumentationMetrics counts comments and docstrings.
type DocumentationMetrics struct {
	// CommentLines is the number of distinct lines holding a comment.
	CommentLines int `json:"comment_lines" yaml:"comment_lines"`

	// Definitions is the number of function and class definitions.
	// Async functions are not included.
	Definitions int `json:"definitions" yaml:"definitions"`

	// Documented is the number of definitions with a docstring.
	Documented int `json:"documented" yaml:"documented"`
}

// Add accumulates o into m.
func (m *DocumentationMetrics) Add(o DocumentationMetrics) {
	m.CommentLines += o.CommentLines
	m.Definitions += o.Definitions
	m.Documented += o.Documented
}

// MeasureDocumentation walks the tree rooted at root and returns its
// documentation metrics.
func MeasureDocumentation(root *Node) DocumentationMetrics {
	var m DocumentationMetrics
	commentLines := make(map[int]bool)
	Walk(root, func(n *Node) bool {
		switch n.Kind {
		case KindComment:
			commentLines[n.StartLine] = true
		case KindFunctionDef:
			if n.Async {
				break
			}
			m.Definitions++
			if n.Docstring {
				m.Documented++
			}
		case KindClassDef:
			m.Definitions++
			if n.Docstring {
				m.Documented++
			}
		}
		return true
	})
	m.CommentLines = len(commentLines)
	return m
}
