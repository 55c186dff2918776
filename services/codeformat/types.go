// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package codeformat

import (
	"github.com/AleutianAI/nbinspect/services/codeformat/pyast"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
)

// LineLengthLimit is the threshold for StyleMetrics.LinesOverLimit. It is
// independent of the style checker's E501 setting.
const LineLengthLimit = 79

// StyleMetrics holds the lexical and complexity totals for a notebook.
type StyleMetrics struct {
	// TotalLines is the number of lines across all non-empty cells.
	TotalLines int `json:"total_lines" yaml:"total_lines"`

	// ComplexLines is the number of complex constructs across all cells
	// that parsed.
	ComplexLines int `json:"complex_lines" yaml:"complex_lines"`

	// AvgLineLength is the mean line length in characters, or 0.
	AvgLineLength float64 `json:"avg_line_length" yaml:"avg_line_length"`

	// MaxLineLength is the longest line in characters.
	MaxLineLength int `json:"max_line_length" yaml:"max_line_length"`

	// LinesOverLimit counts lines longer than LineLengthLimit.
	LinesOverLimit int `json:"lines_over_limit" yaml:"lines_over_limit"`
}

// CellReport summarizes one non-empty cell.
type CellReport struct {
	// Index is the cell's position in the input, starting at 0.
	Index int `json:"index" yaml:"index"`

	Lines        int  `json:"lines" yaml:"lines"`
	Violations   int  `json:"violations" yaml:"violations"`
	ComplexNodes int  `json:"complex_nodes" yaml:"complex_nodes"`
	StyleChecked bool `json:"style_checked" yaml:"style_checked"`
	Parsed       bool `json:"parsed" yaml:"parsed"`
}

// StructureSummary is the notebook-wide structure metrics and their score.
type StructureSummary struct {
	pyast.StructureMetrics `yaml:",inline"`

	// Score is 100 minus the weighted structure penalty, floored at 0.
	Score float64 `json:"score" yaml:"score"`
}

// DocumentationSummary is the notebook-wide documentation metrics.
type DocumentationSummary struct {
	pyast.DocumentationMetrics `yaml:",inline"`

	// CommentRatio is comment lines divided by total lines, or 0.
	CommentRatio float64 `json:"comment_ratio" yaml:"comment_ratio"`

	// Coverage is the percentage of definitions with a docstring. It is
	// 100 when there are no definitions.
	Coverage float64 `json:"coverage" yaml:"coverage"`
}

// AnalysisResult is the outcome of analyzing one notebook.
type AnalysisResult struct {
	// NotebookPath echoes the input path.
	NotebookPath string `json:"notebook_path" yaml:"notebook_path"`

	// PEP8Violations renders each violation as "<CODE> <message> at line <n>",
	// in cell order and then line order.
	PEP8Violations []string `json:"pep8_violations" yaml:"pep8_violations"`

	// CodeStyleMetrics holds the line and complexity totals.
	CodeStyleMetrics StyleMetrics `json:"code_style_metrics" yaml:"code_style_metrics"`

	// Violations is the structured form of PEP8Violations.
	Violations []style.Violation `json:"violations" yaml:"violations"`

	// ViolationTypes counts violations by two-character code prefix, e.g. "E2".
	ViolationTypes map[string]int `json:"violation_types" yaml:"violation_types"`

	// StyleScore is 100 minus the violation rate per line as a percentage,
	// floored at 0. It is 100 when there are no lines.
	StyleScore float64 `json:"style_score" yaml:"style_score"`

	Structure     StructureSummary     `json:"structure_metrics" yaml:"structure_metrics"`
	Documentation DocumentationSummary `json:"documentation_metrics" yaml:"documentation_metrics"`

	// Cells has one entry per non-empty cell, in input order.
	Cells []CellReport `json:"cells" yaml:"cells"`

	// SkippedStyleCells lists cells whose style check failed.
	SkippedStyleCells []int `json:"skipped_style_cells" yaml:"skipped_style_cells"`

	// SyntaxErrorCells lists cells excluded from the syntax tree pass.
	SyntaxErrorCells []int `json:"syntax_error_cells" yaml:"syntax_error_cells"`
}

func newResult(path string) *AnalysisResult {
	return &AnalysisResult{
		NotebookPath:      path,
		PEP8Violations:    []string{},
		Violations:        []style.Violation{},
		ViolationTypes:    map[string]int{},
		StyleScore:        100,
		Structure:         StructureSummary{Score: 100},
		Documentation:     DocumentationSummary{Coverage: 100},
		Cells:             []CellReport{},
		SkippedStyleCells: []int{},
		SyntaxErrorCells:  []int{},
	}
}
