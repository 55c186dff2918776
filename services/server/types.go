// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes notebook code-format analysis over HTTP.
//
// Routes (under /v1):
//
//	POST /v1/codeformat/analyze  analyze one notebook's code cells
//	GET  /v1/codeformat/rules    list the style rules and whether they are enabled
//	GET  /v1/health              liveness
//
// plus GET /metrics for Prometheus.
package server

import (
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/nbinspect/services/codeformat"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/notebook"
)

// requestValidate validates decoded request bodies.
var requestValidate = validator.New()

// AnalyzeRequest is the body of POST /v1/codeformat/analyze.
type AnalyzeRequest struct {
	// Path is echoed back as notebook_path.
	Path string `json:"path" validate:"max=4096"`

	// CodeCells are the cells to analyze. Each source may be a string or
	// a list of strings.
	CodeCells []notebook.CodeCell `json:"code_cells" validate:"max=10000"`

	// Options overrides the server's style settings for this request.
	Options *AnalyzeOptions `json:"options,omitempty"`
}

// AnalyzeOptions tunes the style checker for one request.
type AnalyzeOptions struct {
	MaxLineLength int      `json:"max_line_length,omitempty" validate:"omitempty,min=20,max=1000"`
	Select        []string `json:"select,omitempty" validate:"omitempty,max=64,dive,alphanum,max=8"`
	Ignore        []string `json:"ignore,omitempty" validate:"omitempty,max=64,dive,alphanum,max=8"`
}

// Validate checks the request against its validation tags.
func (r *AnalyzeRequest) Validate() error {
	return requestValidate.Struct(r)
}

// content converts the request into analyzer input.
func (r *AnalyzeRequest) content() *notebook.NotebookContent {
	cells := r.CodeCells
	if cells == nil {
		cells = []notebook.CodeCell{}
	}
	return &notebook.NotebookContent{Path: r.Path, CodeCells: cells}
}

// AnalyzeResponse is the body returned by a successful analysis.
type AnalyzeResponse struct {
	RequestID string                     `json:"request_id"`
	Result    *codeformat.AnalysisResult `json:"result"`
}

// RuleInfo describes one style rule.
type RuleInfo struct {
	style.Rule `yaml:",inline"`
	Enabled    bool `json:"enabled" yaml:"enabled"`
}

// RulesResponse is the body of GET /v1/codeformat/rules.
type RulesResponse struct {
	MaxLineLength int        `json:"max_line_length" yaml:"max_line_length"`
	Rules         []RuleInfo `json:"rules" yaml:"rules"`
}

// NewRulesResponse lists every rule with its status under checker.
func NewRulesResponse(checker *style.Checker) RulesResponse {
	rules := style.Rules()
	resp := RulesResponse{
		MaxLineLength: checker.MaxLineLength(),
		Rules:         make([]RuleInfo, 0, len(rules)),
	}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, RuleInfo{Rule: r, Enabled: checker.Enabled(r.Code)})
	}
	return resp
}

// HealthResponse is the body of GET /v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for all failed requests.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`
}
