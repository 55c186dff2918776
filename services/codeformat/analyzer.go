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
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/AleutianAI/nbinspect/services/codeformat/pyast"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/notebook"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithChecker sets the style checker. Default: style.NewChecker().
func WithChecker(c *style.Checker) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.checker = c
		}
	}
}

// WithParser sets the Python parser. Default: pyast.NewParser().
func WithParser(p *pyast.Parser) Option {
	return func(a *Analyzer) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// Analyzer computes style results for notebooks.
//
// Thread Safety: Safe for concurrent use.
type Analyzer struct {
	checker *style.Checker
	parser  *pyast.Parser
	logger  *slog.Logger
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		checker: style.NewChecker(),
		parser:  pyast.NewParser(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Checker returns the style checker in use.
func (a *Analyzer) Checker() *style.Checker {
	return a.checker
}

// Analyze computes the code style result for one notebook.
//
// Description:
//
//	Cells are processed in input order. Whitespace-only cells are
//	skipped entirely. For every other cell the style check, the line
//	metrics and the complexity count run independently: a cell that
//	fails to tokenize still contributes lines and complexity, and a cell
//	that fails to parse still contributes violations and lines.
//
// Inputs:
//
//	ctx - Context for tracing and cancellation of parsing.
//	content - The notebook's code cells. Nil is treated as empty.
//
// Outputs:
//
//	*AnalysisResult - Never nil. Analysis never fails as a whole.
//
// Thread Safety: Safe for concurrent use.
func (a *Analyzer) Analyze(ctx context.Context, content *notebook.NotebookContent) *AnalysisResult {
	if content == nil {
		content = &notebook.NotebookContent{}
	}

	ctx, span := startAnalyzeSpan(ctx, content.Path, len(content.CodeCells))
	defer span.End()
	start := time.Now()

	result := newResult(content.Path)
	var totals lineTotals
	var structure pyast.StructureMetrics
	var docs pyast.DocumentationMetrics

	for i, cell := range content.CodeCells {
		if strings.TrimSpace(cell.Source) == "" {
			continue
		}
		report := CellReport{Index: i}

		violations, err := a.checker.CheckSource(ctx, cellFilename(i), cell.Source)
		if err != nil {
			a.logger.Debug("style check skipped cell",
				slog.String("notebook", content.Path),
				slog.Int("cell", i),
				slog.String("error", err.Error()))
			result.SkippedStyleCells = append(result.SkippedStyleCells, i)
		} else {
			report.StyleChecked = true
			report.Violations = len(violations)
			for _, v := range violations {
				v.Cell = i
				result.Violations = append(result.Violations, v)
				result.PEP8Violations = append(result.PEP8Violations, v.String())
				result.ViolationTypes[violationType(v.Code)]++
			}
		}

		report.Lines = totals.accumulate(cell.Source)

		tree, err := a.parser.Parse(ctx, cell.Source)
		if err != nil {
			a.logger.Debug("syntax pass skipped cell",
				slog.String("notebook", content.Path),
				slog.Int("cell", i),
				slog.String("error", err.Error()))
			result.SyntaxErrorCells = append(result.SyntaxErrorCells, i)
		} else {
			report.Parsed = true
			report.ComplexNodes = pyast.CountComplexity(tree.Root)
			result.CodeStyleMetrics.ComplexLines += report.ComplexNodes
			structure.Add(pyast.MeasureStructure(tree.Root))
			docs.Add(pyast.MeasureDocumentation(tree.Root))
		}

		result.Cells = append(result.Cells, report)
	}

	finalize(result, &totals, structure, docs)

	setAnalyzeSpanResult(span, result)
	recordAnalyzeMetrics(ctx, time.Since(start), result)
	a.logger.Debug("notebook analyzed",
		slog.String("notebook", content.Path),
		slog.Int("cells", len(result.Cells)),
		slog.Int("violations", len(result.Violations)),
		slog.Duration("duration", time.Since(start)))

	return result
}

func finalize(r *AnalysisResult, totals *lineTotals, structure pyast.StructureMetrics, docs pyast.DocumentationMetrics) {
	r.CodeStyleMetrics.TotalLines = totals.lines
	r.CodeStyleMetrics.AvgLineLength = totals.average()
	r.CodeStyleMetrics.MaxLineLength = totals.maxLength
	r.CodeStyleMetrics.LinesOverLimit = totals.overLimit

	if totals.lines > 0 {
		rate := float64(len(r.Violations)) / float64(totals.lines) * 100
		r.StyleScore = round2(math.Max(0, 100-rate))
		r.Documentation.CommentRatio = round2(float64(docs.CommentLines) / float64(totals.lines))
	}

	r.Structure = StructureSummary{StructureMetrics: structure, Score: structure.Score()}

	r.Documentation.DocumentationMetrics = docs
	if docs.Definitions > 0 {
		r.Documentation.Coverage = round2(float64(docs.Documented) / float64(docs.Definitions) * 100)
	}
}

func cellFilename(index int) string {
	return fmt.Sprintf("cell_%d.py", index+1)
}

// violationType returns the code family, e.g. "E2" for "E225".
func violationType(code string) string {
	if len(code) > 2 {
		return code[:2]
	}
	return code
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
