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
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// CHECKER
// =============================================================================

// DefaultMaxLineLength is the E501 threshold.
const DefaultMaxLineLength = 79

// DefaultIgnore lists codes that are off unless explicitly selected.
var DefaultIgnore = []string{"E121", "E123", "E126", "E226", "E24", "E704", "W503", "W504"}

// Checker evaluates Python source against the rule set.
//
// Description:
//
//	A Checker holds only configuration. Each Check call builds its own
//	state, so one Checker can serve many cells and goroutines.
//
// Thread Safety: Safe for concurrent use.
type Checker struct {
	maxLineLength int
	selected      []string
	ignored       []string
	ignoreSet     bool
}

// Option configures the Checker.
type Option func(*Checker)

// WithMaxLineLength sets the E501 threshold. Values below 1 are ignored.
func WithMaxLineLength(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxLineLength = n
		}
	}
}

// WithSelect enables only codes that start with one of the prefixes,
// unless WithIgnore is also given.
func WithSelect(prefixes ...string) Option {
	return func(c *Checker) {
		c.selected = appendPrefixes(c.selected, prefixes)
	}
}

// WithIgnore disables codes that start with one of the prefixes.
// It replaces DefaultIgnore.
func WithIgnore(prefixes ...string) Option {
	return func(c *Checker) {
		c.ignored = appendPrefixes(c.ignored, prefixes)
		c.ignoreSet = true
	}
}

// ReplaceSelect is WithSelect, discarding prefixes set by earlier options.
func ReplaceSelect(prefixes ...string) Option {
	return func(c *Checker) {
		c.selected = appendPrefixes(nil, prefixes)
	}
}

// ReplaceIgnore is WithIgnore, discarding prefixes set by earlier options.
func ReplaceIgnore(prefixes ...string) Option {
	return func(c *Checker) {
		c.ignored = appendPrefixes(nil, prefixes)
		c.ignoreSet = true
	}
}

func appendPrefixes(dst, prefixes []string) []string {
	for _, p := range prefixes {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			dst = append(dst, p)
		}
	}
	return dst
}

// NewChecker creates a checker with pycodestyle defaults.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{maxLineLength: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(c)
	}
	if !c.ignoreSet {
		if len(c.selected) > 0 {
			c.ignored = nil
		} else {
			c.ignored = append([]string(nil), DefaultIgnore...)
		}
	}
	return c
}

// MaxLineLength returns the configured E501 threshold.
func (c *Checker) MaxLineLength() int {
	return c.maxLineLength
}

// Enabled reports whether a code would be delivered to a Report.
func (c *Checker) Enabled(code string) bool {
	if len(c.selected) > 0 && !c.ignoreSet {
		return hasAnyPrefix(code, c.selected)
	}
	if hasAnyPrefix(code, c.ignored) {
		return hasAnyPrefix(code, c.selected)
	}
	return true
}

func (c *Checker) anyEnabled(codes []string) bool {
	for _, code := range codes {
		if c.Enabled(code) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Check evaluates one source unit as if it were a standalone file.
//
// Description:
//
//	Splits the source into physical lines (CRLF is read as LF), tokenizes
//	it, and runs the physical and logical checks. Violations are buffered,
//	ordered by line then offset, and only delivered to the report when the
//	whole unit was processed. Nothing is written outside the report.
//
// Inputs:
//
//	ctx      - Used for tracing only. Check never blocks.
//	filename - Name handed to Report.InitFile and used in errors.
//	source   - Python source text.
//	report   - Receives all output. Must not be nil.
//
// Outputs:
//
//	error - *CheckError wrapping ErrTokenize when the source cannot be
//	        tokenized. In that case the report receives InitFile and Finish
//	        but no violations.
//
// Thread Safety: Safe for concurrent use with distinct reports.
func (c *Checker) Check(ctx context.Context, filename, source string, report Report) (err error) {
	if report == nil {
		return ErrNilReport
	}

	ctx, span := startCheckSpan(ctx, filename)
	defer span.End()
	start := time.Now()

	lines := splitLines(source)
	report.InitFile(filename, lines, 0)
	defer report.Finish()

	tokens, err := tokenize(lines)
	if err != nil {
		var checkErr *CheckError
		if errors.As(err, &checkErr) {
			checkErr.Filename = filename
		}
		setCheckSpanResult(span, 0, err)
		recordCheckMetrics(ctx, time.Since(start), 0, false)
		slog.Debug("style check skipped",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return err
	}

	r := newRun(c, lines, tokens, report)
	for i := 1; i <= len(lines); i++ {
		report.NewLine(i)
		r.physicalLine(i)
	}
	r.logicalLines()

	sort.SliceStable(r.found, func(i, j int) bool {
		a, b := r.found[i], r.found[j]
		if a.line != b.line {
			return a.line < b.line
		}
		return a.offset < b.offset
	})
	for _, f := range r.found {
		report.RecordError(f.line, f.offset, f.code, f.code+" "+f.message, f.check)
	}

	setCheckSpanResult(span, len(r.found), nil)
	recordCheckMetrics(ctx, time.Since(start), len(r.found), true)
	return nil
}

// CheckSource is Check with an in-memory Collector.
func (c *Checker) CheckSource(ctx context.Context, filename, source string) ([]Violation, error) {
	collector := NewCollector()
	if err := c.Check(ctx, filename, source, collector); err != nil {
		return nil, err
	}
	return collector.Violations(), nil
}

// splitLines splits after each line feed, keeping it, after reading CRLF as LF.
// A lone CR stays part of its line.
func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	if source == "" {
		return nil
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// =============================================================================
// RUN STATE
// =============================================================================

type found struct {
	line    int
	offset  int
	code    string
	message string
	check   string
}

// run is the per-call state of one Check.
type run struct {
	checker *Checker
	report  Report
	lines   []string
	tokens  []token
	found   []found

	phys         *physicalState
	indentCharAt []rune

	indentLevel               int
	previousIndentLevel       int
	previousLogical           string
	previousUnindentedLogical string
	blankLines                int
	blankBefore               int
}

func newRun(c *Checker, lines []string, tokens []token, report Report) *run {
	multiline := make(map[int]bool)
	for _, tok := range tokens {
		if tok.typ == tokString && tok.end.row > tok.start.row {
			for row := tok.start.row; row <= tok.end.row; row++ {
				multiline[row] = true
			}
		}
	}
	return &run{
		checker:      c,
		report:       report,
		lines:        lines,
		tokens:       tokens,
		phys:         &physicalState{lines: lines, multiline: multiline},
		indentCharAt: make([]rune, len(lines)+2),
	}
}

// add buffers a violation if its code is enabled. Positions are clamped to
// the source so a report never sees a line outside the unit.
func (r *run) add(line, offset int, code, message, check string) {
	if !r.checker.Enabled(code) {
		return
	}
	if line < 1 {
		line = 1
	}
	if line > len(r.lines) {
		line = len(r.lines)
	}
	if offset < 0 {
		offset = 0
	}
	r.found = append(r.found, found{line: line, offset: offset, code: code, message: message, check: check})
}
