// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/nbinspect/services/codeformat"
	"github.com/AleutianAI/nbinspect/services/codeformat/pyast"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/telemetry"
)

// Handlers contains the HTTP handlers for code-format analysis.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	checkerOpts  []style.Option
	checker      *style.Checker
	parser       *pyast.Parser
	maxBodyBytes int64
	version      string
}

// NewHandlers creates handlers using cfg for defaults and limits.
func NewHandlers(cfg Config) *Handlers {
	cfg = cfg.withDefaults()
	return &Handlers{
		checkerOpts:  cfg.StyleOptions,
		checker:      style.NewChecker(cfg.StyleOptions...),
		parser:       pyast.NewParser(),
		maxBodyBytes: cfg.MaxBodyBytes,
		version:      cfg.Version,
	}
}

// HandleAnalyze handles POST /v1/codeformat/analyze.
//
// Description:
//
//	Decodes and validates an AnalyzeRequest, then analyzes its cells.
//	Request options replace the matching server style settings.
//
// Responses:
//
//	200 - AnalyzeResponse
//	400 - ErrorResponse with INVALID_REQUEST or VALIDATION_FAILED
//	413 - ErrorResponse with BODY_TOO_LARGE
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	ctx := c.Request.Context()
	logger := telemetry.LoggerWithTrace(ctx, slog.Default()).With(
		"request_id", requestID, "handler", "HandleAnalyze")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Request body too large", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "Request body too large",
				Code:  "BODY_TOO_LARGE",
			})
			return
		}
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := req.Validate(); err != nil {
		logger.Warn("Request validation failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_FAILED",
		})
		return
	}

	analyzer := codeformat.NewAnalyzer(
		codeformat.WithChecker(h.checkerFor(req.Options)),
		codeformat.WithParser(h.parser),
		codeformat.WithLogger(logger),
	)
	result := analyzer.Analyze(ctx, req.content())

	logger.Info("Notebook analyzed",
		"notebook", result.NotebookPath,
		"cells", len(result.Cells),
		"violations", len(result.Violations),
		"complex_lines", result.CodeStyleMetrics.ComplexLines)

	c.JSON(http.StatusOK, AnalyzeResponse{RequestID: requestID, Result: result})
}

// checkerFor returns the server checker, or a new one when the request
// carries options. Each request field replaces the matching server
// setting; fields left empty keep it.
func (h *Handlers) checkerFor(opts *AnalyzeOptions) *style.Checker {
	if opts == nil {
		return h.checker
	}
	all := append([]style.Option{}, h.checkerOpts...)
	if opts.MaxLineLength > 0 {
		all = append(all, style.WithMaxLineLength(opts.MaxLineLength))
	}
	if len(opts.Select) > 0 {
		all = append(all, style.ReplaceSelect(opts.Select...))
	}
	if len(opts.Ignore) > 0 {
		all = append(all, style.ReplaceIgnore(opts.Ignore...))
	}
	return style.NewChecker(all...)
}

// HandleRules handles GET /v1/codeformat/rules.
func (h *Handlers) HandleRules(c *gin.Context) {
	getOrCreateRequestID(c)

	resp := NewRulesResponse(h.checker)
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// getOrCreateRequestID returns the X-Request-ID header or a new UUID, and
// echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
