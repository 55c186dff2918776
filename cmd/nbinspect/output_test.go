// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/nbinspect/pkg/ux"
	"github.com/AleutianAI/nbinspect/services/codeformat"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
)

func sampleResult(path string) *codeformat.AnalysisResult {
	return &codeformat.AnalysisResult{
		NotebookPath:   path,
		PEP8Violations: []string{"W291 trailing whitespace at line 2"},
		CodeStyleMetrics: codeformat.StyleMetrics{
			TotalLines:    4,
			AvgLineLength: 12.5,
			MaxLineLength: 30,
		},
		Violations: []style.Violation{
			{Cell: 1, Line: 2, Column: 6, Code: "W291", Message: "trailing whitespace"},
		},
		ViolationTypes:    map[string]int{"W2": 1},
		StyleScore:        75,
		SkippedStyleCells: []int{3},
		SyntaxErrorCells:  []int{0, 3},
	}
}

func TestWriteReport_JSONShape(t *testing.T) {
	plain := ux.NewPainter(ux.PersonalityMachine)

	var one bytes.Buffer
	require.NoError(t, writeReport(&one, FormatJSON, plain, []*codeformat.AnalysisResult{sampleResult("a")}))
	var obj map[string]any
	require.NoError(t, json.Unmarshal(one.Bytes(), &obj), "one result is a single object")
	assert.Equal(t, "a", obj["notebook_path"])

	var many bytes.Buffer
	require.NoError(t, writeReport(&many, FormatJSON, plain, []*codeformat.AnalysisResult{sampleResult("a"), sampleResult("b")}))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(many.Bytes(), &list), "several results are a list")
	assert.Len(t, list, 2)

	var none bytes.Buffer
	require.NoError(t, writeReport(&none, FormatJSON, plain, nil))
	assert.Equal(t, "[]\n", none.String())
}

func TestWriteReport_TextPlain(t *testing.T) {
	var buf bytes.Buffer
	err := writeReport(&buf, FormatText, ux.NewPainter(ux.PersonalityMachine), []*codeformat.AnalysisResult{sampleResult("nb.ipynb")})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "nb.ipynb\nlines 4  complex 0  avg length 12.50  max length 30  over 79: 0\n"), out)
	assert.Contains(t, out, "style score 75.00")
	assert.Contains(t, out, "✗ W291 trailing whitespace (cell 1, line 2, col 6)")
	assert.Contains(t, out, "by type: W2=1")
	assert.Contains(t, out, "style check skipped for cells 3")
	assert.Contains(t, out, "syntax errors in cells 0, 3")
	assert.Contains(t, out, "1 notebooks  1 violations")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
}

func TestWriteReport_TextClean(t *testing.T) {
	res := codeformat.NewAnalyzer().Analyze(t.Context(), nil)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, FormatText, ux.NewPainter(ux.PersonalityMachine), []*codeformat.AnalysisResult{res}))
	assert.Contains(t, buf.String(), "(unnamed notebook)")
	assert.Contains(t, buf.String(), "✓ no style violations")
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	err := writeReport(&bytes.Buffer{}, "xml", ux.NewPainter(ux.PersonalityMachine), nil)
	assert.Error(t, err)
}

func TestFormatTypeCounts(t *testing.T) {
	assert.Equal(t, "E2=3 E5=1 W2=2", formatTypeCounts(map[string]int{"W2": 2, "E5": 1, "E2": 3}))
	assert.Equal(t, "", formatTypeCounts(nil))
}
