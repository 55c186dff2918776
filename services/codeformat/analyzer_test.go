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
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/notebook"
)

func content(sources ...string) *notebook.NotebookContent {
	nc := &notebook.NotebookContent{Path: "test.ipynb", CodeCells: []notebook.CodeCell{}}
	for _, s := range sources {
		nc.CodeCells = append(nc.CodeCells, notebook.CodeCell{Source: s})
	}
	return nc
}

func analyze(t *testing.T, sources ...string) *AnalysisResult {
	t.Helper()
	result := NewAnalyzer().Analyze(context.Background(), content(sources...))
	require.NotNil(t, result)
	return result
}

// =============================================================================
// Empty input
// =============================================================================

func TestAnalyze_Empty(t *testing.T) {
	tests := []struct {
		name    string
		content *notebook.NotebookContent
	}{
		{"nil content", nil},
		{"no cells", content()},
		{"whitespace cells", content("", "   ", "\n\n", "\t \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewAnalyzer().Analyze(context.Background(), tt.content)
			require.NotNil(t, result)

			assert.Equal(t, StyleMetrics{}, result.CodeStyleMetrics)
			assert.Empty(t, result.PEP8Violations)
			assert.NotNil(t, result.PEP8Violations)
			assert.Empty(t, result.Cells)
			assert.Equal(t, 100.0, result.StyleScore)
		})
	}
}

func TestAnalyze_EmptyMarshalsAsLists(t *testing.T) {
	result := analyze(t)
	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["pep8_violations"])
	assert.Equal(t, "test.ipynb", decoded["notebook_path"])

	metrics, ok := decoded["code_style_metrics"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"total_lines", "complex_lines", "avg_line_length", "max_line_length", "lines_over_limit"} {
		assert.Equal(t, 0.0, metrics[key], key)
	}
}

// =============================================================================
// Lexical metrics
// =============================================================================

func TestAnalyze_LineOverLimit(t *testing.T) {
	result := analyze(t, strings.Repeat("a", 80))

	assert.Equal(t, 1, result.CodeStyleMetrics.TotalLines)
	assert.Equal(t, 1, result.CodeStyleMetrics.LinesOverLimit)
	assert.Equal(t, 80, result.CodeStyleMetrics.MaxLineLength)
	assert.Equal(t, 80.0, result.CodeStyleMetrics.AvgLineLength)
}

func TestAnalyze_LineAtLimit(t *testing.T) {
	result := analyze(t, strings.Repeat("a", 79))
	assert.Equal(t, 0, result.CodeStyleMetrics.LinesOverLimit)
	assert.Equal(t, 79, result.CodeStyleMetrics.MaxLineLength)
}

func TestAnalyze_AverageAcrossCells(t *testing.T) {
	result := analyze(t, strings.Repeat("a", 10), strings.Repeat("b", 20))

	assert.Equal(t, 2, result.CodeStyleMetrics.TotalLines)
	assert.Equal(t, 15.0, result.CodeStyleMetrics.AvgLineLength)
	assert.Equal(t, 20, result.CodeStyleMetrics.MaxLineLength)
}

func TestAnalyze_LineSplitting(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantLines int
		wantMax   int
	}{
		{"trailing newline adds an empty line", "x = 1\n", 2, 5},
		{"carriage return is a character", "x = 1\r\ny = 22\r\n", 3, 7},
		{"characters not bytes", "s = 'héllo'", 1, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, tt.source)
			assert.Equal(t, tt.wantLines, result.CodeStyleMetrics.TotalLines)
			assert.Equal(t, tt.wantMax, result.CodeStyleMetrics.MaxLineLength)
		})
	}
}

// =============================================================================
// Complexity
// =============================================================================

func TestAnalyze_ComplexLines(t *testing.T) {
	source := "if x:\n    pass\nfor i in y:\n    pass\ntry:\n    pass\nexcept E:\n    pass\ndef f():\n    pass\n"
	result := analyze(t, source)
	assert.Equal(t, 4, result.CodeStyleMetrics.ComplexLines)
}

func TestAnalyze_SyntaxErrorIsolated(t *testing.T) {
	result := analyze(t, "if x:\n    pass", "def (:\n")

	assert.Equal(t, 1, result.CodeStyleMetrics.ComplexLines)
	assert.Equal(t, []int{1}, result.SyntaxErrorCells)
	require.Len(t, result.Cells, 2)
	assert.True(t, result.Cells[0].Parsed)
	assert.False(t, result.Cells[1].Parsed)
	assert.Equal(t, 4, result.CodeStyleMetrics.TotalLines)
}

func TestAnalyze_IndentationErrorIsolated(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing indent", "def f():\nreturn 1\n"},
		{"unexpected indent", "if x:\n  a\n    b\n"},
		{"bad dedent", "if x:\n    a\n  else:\n    b\n"},
		{"diamond operator", "if a <> b:\n    pass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, "if x:\n    pass\n", tt.source)

			assert.Equal(t, 1, result.CodeStyleMetrics.ComplexLines)
			assert.Equal(t, []int{1}, result.SyntaxErrorCells)
		})
	}
}

func TestAnalyze_MagicCellCountsLinesOnly(t *testing.T) {
	result := analyze(t, "%matplotlib inline\nimport numpy as np\n")

	assert.Equal(t, []int{0}, result.SyntaxErrorCells)
	assert.Equal(t, 0, result.CodeStyleMetrics.ComplexLines)
	assert.Equal(t, 3, result.CodeStyleMetrics.TotalLines)
}

// =============================================================================
// Style violations
// =============================================================================

func TestAnalyze_ViolationsPerCell(t *testing.T) {
	result := analyze(t, "x=1\n", "   \n", "y=2\n")

	want := "E225 missing whitespace around operator at line 1"
	assert.Equal(t, []string{want, want}, result.PEP8Violations)

	require.Len(t, result.Violations, 2)
	assert.Equal(t, 0, result.Violations[0].Cell)
	assert.Equal(t, 2, result.Violations[1].Cell)
	assert.Equal(t, map[string]int{"E2": 2}, result.ViolationTypes)

	require.Len(t, result.Cells, 2)
	assert.Equal(t, 0, result.Cells[0].Index)
	assert.Equal(t, 2, result.Cells[1].Index)
	assert.Equal(t, 1, result.Cells[1].Violations)
}

func TestAnalyze_ViolationLinesWithinCell(t *testing.T) {
	sources := []string{
		"import os, sys\nx=1\n\n\n\n\ny = 2  \n",
		"def f():\n    '''doc\n    string'''\n    return 1",
		"if x == None :\n\tpass\n\n",
	}
	result := analyze(t, sources...)
	require.NotEmpty(t, result.Violations)

	for _, v := range result.Violations {
		lines := len(strings.Split(sources[v.Cell], "\n"))
		assert.GreaterOrEqual(t, v.Line, 1, v.String())
		assert.LessOrEqual(t, v.Line, lines, v.String())
	}
}

func TestAnalyze_LineNumbersRestartPerCell(t *testing.T) {
	result := analyze(t, "a = 1\nb = 2\nc=3\n", "d=4\n")

	require.Len(t, result.Violations, 2)
	assert.Equal(t, 3, result.Violations[0].Line)
	assert.Equal(t, 1, result.Violations[1].Line)
}

func TestAnalyze_TokenizeFailureSkipsStyleOnly(t *testing.T) {
	result := analyze(t, "s = 'oops\nx=1\n", "y=2\n")

	assert.Equal(t, []int{0}, result.SkippedStyleCells)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, 1, result.Violations[0].Cell)

	require.Len(t, result.Cells, 2)
	assert.False(t, result.Cells[0].StyleChecked)
	assert.True(t, result.Cells[1].StyleChecked)
	assert.Equal(t, 5, result.CodeStyleMetrics.TotalLines)
}

func TestAnalyze_CheckerOptions(t *testing.T) {
	source := strings.Repeat("#", 90) + "\n"

	strict := NewAnalyzer().Analyze(context.Background(), content(source))
	relaxed := NewAnalyzer(WithChecker(style.NewChecker(style.WithMaxLineLength(100)))).
		Analyze(context.Background(), content(source))

	assert.Len(t, strict.PEP8Violations, 1)
	assert.Empty(t, relaxed.PEP8Violations)
	assert.Equal(t, 1, relaxed.CodeStyleMetrics.LinesOverLimit)
}

func TestAnalyze_StyleScore(t *testing.T) {
	assert.Equal(t, 50.0, analyze(t, "x=1\n").StyleScore)
	assert.Equal(t, 100.0, analyze(t, "x = 1\n").StyleScore)
	assert.Equal(t, 0.0, analyze(t, "a=1\nb=2").StyleScore)
}

// =============================================================================
// Structure and documentation
// =============================================================================

func TestAnalyze_StructureAcrossCells(t *testing.T) {
	result := analyze(t,
		"for a in b:\n    for c in d:\n        if e and f:\n            pass\n",
		"while x:\n    pass\n",
	)

	s := result.Structure
	assert.Equal(t, 1, s.NestedStructures)
	assert.Equal(t, 1, s.ComplexExpressions)
	assert.Equal(t, 7, s.CognitiveComplexity)
	assert.Equal(t, 100-2.0-1.5-3.5, s.Score)
}

func TestAnalyze_Documentation(t *testing.T) {
	result := analyze(t, "def f():\n    \"\"\"Doc.\"\"\"\n    # note\n    return 1\n", "class A:\n    pass\n")

	d := result.Documentation
	assert.Equal(t, 2, d.Definitions)
	assert.Equal(t, 1, d.Documented)
	assert.Equal(t, 1, d.CommentLines)
	assert.Equal(t, 50.0, d.Coverage)
	assert.Equal(t, 0.13, d.CommentRatio)
}

// =============================================================================
// Properties
// =============================================================================

func TestAnalyze_Idempotent(t *testing.T) {
	nc := content("import os, sys\nx=1\n", "def f(:\n", "if a:\n    b = [i for i in c]\n")
	analyzer := NewAnalyzer()

	first := analyzer.Analyze(context.Background(), nc)
	second := analyzer.Analyze(context.Background(), nc)
	assert.Equal(t, first, second)
}

func TestAnalyze_MonotonicInCells(t *testing.T) {
	cells := []string{
		"x = 1\n",
		"def f(:\n",
		"if a:\n    pass\n",
		"   ",
		"for i in range(3):\n    print(i)\n",
	}

	prev := StyleMetrics{}
	for n := 1; n <= len(cells); n++ {
		got := analyze(t, cells[:n]...).CodeStyleMetrics
		assert.GreaterOrEqual(t, got.TotalLines, prev.TotalLines, "cells=%d", n)
		assert.GreaterOrEqual(t, got.ComplexLines, prev.ComplexLines, "cells=%d", n)
		prev = got
	}
	assert.Equal(t, 2, prev.ComplexLines)
}

func TestAnalyze_ConcurrentUse(t *testing.T) {
	analyzer := NewAnalyzer()
	nc := content("x=1\n", "if a:\n    pass\n")
	want := analyzer.Analyze(context.Background(), nc)

	results := make(chan *AnalysisResult, 8)
	for i := 0; i < 8; i++ {
		go func() { results <- analyzer.Analyze(context.Background(), nc) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-results)
	}
}
