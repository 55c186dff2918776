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
	"fmt"
	"strings"
	"sync"
)

// =============================================================================
// VIOLATION
// =============================================================================

// Violation is one rule breach inside a source unit.
type Violation struct {
	// Cell is the index of the notebook cell, set by the caller. -1 if unset.
	Cell int `json:"cell" yaml:"cell"`

	// Line is 1-based within the source unit.
	Line int `json:"line" yaml:"line"`

	// Column is 1-based, counted in characters.
	Column int `json:"column" yaml:"column"`

	// Code is the rule code, e.g. "E501".
	Code string `json:"code" yaml:"code"`

	// Message is the rule text without the code.
	Message string `json:"message" yaml:"message"`
}

// Text returns "CODE message", the form a Report receives.
func (v Violation) Text() string {
	return v.Code + " " + v.Message
}

// String returns "CODE message at line N".
func (v Violation) String() string {
	return fmt.Sprintf("%s at line %d", v.Text(), v.Line)
}

// =============================================================================
// REPORT
// =============================================================================

// Report receives the output of a check.
//
// Description:
//
//	The checker calls InitFile once, then NewLine, IncrementToken, and
//	IncrementLogicalLine as it walks the source, then RecordError for
//	each violation in ascending (line, offset) order, then Finish.
//	Finish is called on every path, including tokenizer failure.
//
// Thread Safety: A Report is used by one Check call at a time.
type Report interface {
	// InitFile resets the report for a new source unit.
	InitFile(filename string, lines []string, lineOffset int)

	// NewLine is called once per physical line.
	NewLine(lineNumber int)

	// IncrementLogicalLine is called once per logical line.
	IncrementLogicalLine()

	// IncrementToken is called once per token.
	IncrementToken()

	// RecordError receives one violation.
	//
	// lineNumber is 1-based, offset is a 0-based character offset, text is
	// "CODE message", and check names the rule function that produced it.
	RecordError(lineNumber, offset int, code, text, check string)

	// Finish is called after the last violation.
	Finish()
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Counter names kept by Collector.
const (
	CounterPhysicalLines = "physical lines"
	CounterLogicalLines  = "logical lines"
	CounterTokens        = "tokens"
)

// Collector is an in-memory Report.
//
// Thread Safety: Safe for concurrent reads after Finish.
type Collector struct {
	mu         sync.Mutex
	filename   string
	lineOffset int
	lines      int
	violations []Violation
	counters   map[string]int
	finished   bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	c := &Collector{}
	c.reset("", nil, 0)
	return c
}

func (c *Collector) reset(filename string, lines []string, lineOffset int) {
	c.filename = filename
	c.lineOffset = lineOffset
	c.lines = len(lines)
	c.violations = nil
	c.counters = map[string]int{
		CounterPhysicalLines: 0,
		CounterLogicalLines:  0,
		CounterTokens:        0,
	}
	c.finished = false
}

// InitFile implements Report.
func (c *Collector) InitFile(filename string, lines []string, lineOffset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(filename, lines, lineOffset)
}

// NewLine implements Report.
func (c *Collector) NewLine(lineNumber int) {
	c.mu.Lock()
	c.counters[CounterPhysicalLines]++
	c.mu.Unlock()
}

// IncrementLogicalLine implements Report.
func (c *Collector) IncrementLogicalLine() {
	c.mu.Lock()
	c.counters[CounterLogicalLines]++
	c.mu.Unlock()
}

// IncrementToken implements Report.
func (c *Collector) IncrementToken() {
	c.mu.Lock()
	c.counters[CounterTokens]++
	c.mu.Unlock()
}

// RecordError implements Report.
func (c *Collector) RecordError(lineNumber, offset int, code, text, check string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.violations = append(c.violations, Violation{
		Cell:    -1,
		Line:    lineNumber + c.lineOffset,
		Column:  offset + 1,
		Code:    code,
		Message: strings.TrimSpace(strings.TrimPrefix(text, code)),
	})
	c.counters[code]++
}

// Finish implements Report.
func (c *Collector) Finish() {
	c.mu.Lock()
	c.finished = true
	c.mu.Unlock()
}

// Filename returns the name given to InitFile.
func (c *Collector) Filename() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filename
}

// Finished reports whether Finish has been called since the last InitFile.
func (c *Collector) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// Violations returns a copy of the recorded violations in delivery order.
func (c *Collector) Violations() []Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Violation, len(c.violations))
	copy(out, c.violations)
	return out
}

// Count returns a counter value: a rule code or one of the Counter* names.
func (c *Collector) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// TotalErrors returns the number of recorded violations.
func (c *Collector) TotalErrors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.violations)
}

var _ Report = (*Collector)(nil)
