// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package codeformat analyzes the code style of notebook code cells.
//
// An Analyzer runs three passes over every non-empty cell of a
// notebook.NotebookContent:
//
//   - a style check (package style) whose violations are collected per cell
//   - lexical line metrics over the raw cell text
//   - a syntax tree pass (package pyast) counting complex constructs
//
// Each cell is checked as a standalone unit, so line numbers restart at 1
// and a broken cell never affects its neighbours. A cell that fails to
// tokenize contributes no violations and is listed in
// AnalysisResult.SkippedStyleCells. A cell that fails to parse contributes
// no complexity and is listed in AnalysisResult.SyntaxErrorCells.
//
// # Usage
//
//	analyzer := codeformat.NewAnalyzer()
//	result := analyzer.Analyze(ctx, content)
//	fmt.Println(result.CodeStyleMetrics.ComplexLines)
//
// # Thread Safety
//
// An Analyzer holds only configuration and is safe for concurrent use.
// Analyze never shares state between calls.
package codeformat
