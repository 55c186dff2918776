// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package style

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for style checks.
var (
	tracer = otel.Tracer("nbinspect.style")
	meter  = otel.Meter("nbinspect.style")
)

// Metrics for style checks.
var (
	checkLatency    metric.Float64Histogram
	checkTotal      metric.Int64Counter
	violationsFound metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checkLatency, err = meter.Float64Histogram(
			"style_check_duration_seconds",
			metric.WithDescription("Duration of style checks per source unit"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checkTotal, err = meter.Int64Counter(
			"style_check_total",
			metric.WithDescription("Total number of style checks"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		violationsFound, err = meter.Int64Counter(
			"style_violations_total",
			metric.WithDescription("Total number of style violations delivered"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startCheckSpan(ctx context.Context, filename string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Checker.Check",
		trace.WithAttributes(
			attribute.String("style.filename", filename),
		),
	)
}

func setCheckSpanResult(span trace.Span, violations int, err error) {
	span.SetAttributes(attribute.Int("style.violations", violations))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func recordCheckMetrics(ctx context.Context, duration time.Duration, violations int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	checkLatency.Record(ctx, duration.Seconds(), attrs)
	checkTotal.Add(ctx, 1, attrs)
	if success {
		violationsFound.Add(ctx, int64(violations))
	}
}
