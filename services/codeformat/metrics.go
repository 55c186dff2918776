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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for notebook analysis.
var (
	tracer = otel.Tracer("nbinspect.codeformat")
	meter  = otel.Meter("nbinspect.codeformat")
)

// Metrics for notebook analysis.
var (
	analyzeLatency metric.Float64Histogram
	analyzeTotal   metric.Int64Counter
	cellsAnalyzed  metric.Int64Counter
	cellsSkipped   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analyzeLatency, err = meter.Float64Histogram(
			"codeformat_analyze_duration_seconds",
			metric.WithDescription("Duration of notebook analyses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analyzeTotal, err = meter.Int64Counter(
			"codeformat_analyze_total",
			metric.WithDescription("Total number of notebook analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cellsAnalyzed, err = meter.Int64Counter(
			"codeformat_cells_total",
			metric.WithDescription("Total number of non-empty cells analyzed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cellsSkipped, err = meter.Int64Counter(
			"codeformat_cells_skipped_total",
			metric.WithDescription("Cells excluded from a pass, by pass"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startAnalyzeSpan(ctx context.Context, path string, cells int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Analyzer.Analyze",
		trace.WithAttributes(
			attribute.String("codeformat.notebook", path),
			attribute.Int("codeformat.cells", cells),
		),
	)
}

func setAnalyzeSpanResult(span trace.Span, r *AnalysisResult) {
	span.SetAttributes(
		attribute.Int("codeformat.violations", len(r.Violations)),
		attribute.Int("codeformat.total_lines", r.CodeStyleMetrics.TotalLines),
		attribute.Int("codeformat.complex_lines", r.CodeStyleMetrics.ComplexLines),
		attribute.Int("codeformat.skipped_style_cells", len(r.SkippedStyleCells)),
		attribute.Int("codeformat.syntax_error_cells", len(r.SyntaxErrorCells)),
	)
}

func recordAnalyzeMetrics(ctx context.Context, duration time.Duration, r *AnalysisResult) {
	if initMetrics() != nil {
		return
	}

	analyzeLatency.Record(ctx, duration.Seconds())
	analyzeTotal.Add(ctx, 1)
	cellsAnalyzed.Add(ctx, int64(len(r.Cells)))
	if n := len(r.SkippedStyleCells); n > 0 {
		cellsSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("pass", "style")))
	}
	if n := len(r.SyntaxErrorCells); n > 0 {
		cellsSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("pass", "syntax")))
	}
}
