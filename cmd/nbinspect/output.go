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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/nbinspect/pkg/ux"
	"github.com/AleutianAI/nbinspect/services/codeformat"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// writeReport renders results in the requested format.
//
// JSON and YAML emit a single object for one notebook and a list
// otherwise.
func writeReport(w io.Writer, format string, painter ux.Painter, results []*codeformat.AnalysisResult) error {
	if results == nil {
		results = []*codeformat.AnalysisResult{}
	}
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}

	switch format {
	case FormatJSON:
		return OutputJSON(w, payload)
	case FormatYAML:
		return OutputYAML(w, payload)
	case FormatText, "":
		return writeText(w, painter, results)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// OutputJSON writes data as indented JSON.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// OutputYAML writes data as YAML with two-space indentation.
func OutputYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, p ux.Painter, results []*codeformat.AnalysisResult) error {
	var b strings.Builder
	total := 0
	for _, r := range results {
		writeResultText(&b, p, r)
		total += len(r.Violations)
	}

	fmt.Fprintf(&b, "%s %s  %s %s\n",
		p.Paint(ux.Styles.Bold, fmt.Sprintf("%d", len(results))), p.Paint(ux.Styles.Muted, "notebooks"),
		p.Paint(violationStyle(total), fmt.Sprintf("%d", total)), p.Paint(ux.Styles.Muted, "violations"),
	)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeResultText(b *strings.Builder, p ux.Painter, r *codeformat.AnalysisResult) {
	m := r.CodeStyleMetrics
	var body strings.Builder
	fmt.Fprintf(&body, "lines %d  complex %d  avg length %.2f  max length %d  over %d: %d\n",
		m.TotalLines, m.ComplexLines, m.AvgLineLength, m.MaxLineLength, codeformat.LineLengthLimit, m.LinesOverLimit)
	fmt.Fprintf(&body, "style score %.2f  structure score %.2f  docstring coverage %.2f%%",
		r.StyleScore, r.Structure.Score, r.Documentation.Coverage)

	title := r.NotebookPath
	if title == "" {
		title = "(unnamed notebook)"
	}
	b.WriteString(p.Box(title, body.String()))
	b.WriteString("\n")

	for _, v := range r.Violations {
		fmt.Fprintf(b, "  %s %s %s %s\n",
			p.Icon(ux.IconError),
			p.Paint(ux.Styles.Highlight, v.Code),
			v.Message,
			p.Paint(ux.Styles.Muted, fmt.Sprintf("(cell %d, line %d, col %d)", v.Cell, v.Line, v.Column)),
		)
	}
	if len(r.Violations) == 0 {
		fmt.Fprintf(b, "  %s %s\n", p.Icon(ux.IconSuccess), p.Paint(ux.Styles.Success, "no style violations"))
	} else {
		fmt.Fprintf(b, "  %s %s\n", p.Icon(ux.IconBullet), p.Paint(ux.Styles.Muted, "by type: "+formatTypeCounts(r.ViolationTypes)))
	}

	if len(r.SkippedStyleCells) > 0 {
		fmt.Fprintf(b, "  %s %s %s\n", p.Icon(ux.IconWarning),
			p.Paint(ux.Styles.Warning, "style check skipped for cells"), joinInts(r.SkippedStyleCells))
	}
	if len(r.SyntaxErrorCells) > 0 {
		fmt.Fprintf(b, "  %s %s %s\n", p.Icon(ux.IconWarning),
			p.Paint(ux.Styles.Warning, "syntax errors in cells"), joinInts(r.SyntaxErrorCells))
	}
	b.WriteString("\n")
}

func violationStyle(n int) lipgloss.Style {
	if n == 0 {
		return ux.Styles.Success
	}
	return ux.Styles.Warning
}

// formatTypeCounts renders {"E2": 3, "W2": 1} as "E2=3 W2=1".
func formatTypeCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ", ")
}
