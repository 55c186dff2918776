// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines how rich the CLI output is.
type PersonalityLevel string

const (
	// PersonalityFull enables colors, icons, and boxes.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityMachine outputs plain text suitable for scripting and parsing.
	PersonalityMachine PersonalityLevel = "machine"
)

// ParsePersonalityLevel converts a string to PersonalityLevel.
//
// Unknown values map to PersonalityFull.
func ParsePersonalityLevel(s string) PersonalityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "machine", "plain", "none":
		return PersonalityMachine
	default:
		return PersonalityFull
	}
}

// DetectLevel picks the level for a destination.
//
// Description:
//
//	Returns PersonalityMachine when w is not a terminal or NO_COLOR is
//	set, otherwise PersonalityFull. Cygwin terminals count as terminals.
//
// Inputs:
//
//	w - Where the report is written. Anything other than *os.File is
//	    treated as a non-terminal.
//
// Outputs:
//
//	PersonalityLevel - The detected level.
func DetectLevel(w io.Writer) PersonalityLevel {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return PersonalityMachine
	}
	f, ok := w.(*os.File)
	if !ok {
		return PersonalityMachine
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return PersonalityFull
	}
	return PersonalityMachine
}

// Painter applies Styles only when the level allows it.
//
// # Thread Safety
//
// Painter is immutable and safe for concurrent use.
type Painter struct {
	Level PersonalityLevel
}

// NewPainter returns a Painter for the given level.
func NewPainter(level PersonalityLevel) Painter {
	return Painter{Level: level}
}

// Plain reports whether styling is disabled.
func (p Painter) Plain() bool {
	return p.Level == PersonalityMachine
}

// Paint renders text with style, or returns it unchanged when plain.
func (p Painter) Paint(style lipgloss.Style, text string) string {
	if p.Plain() {
		return text
	}
	return style.Render(text)
}

// Icon renders an icon, or its plain glyph when plain.
func (p Painter) Icon(i Icon) string {
	if p.Plain() {
		return string(i)
	}
	return i.Render()
}

// Box wraps content in the rounded box style under a title.
//
// In plain mode the title is printed on its own line above the content.
func (p Painter) Box(title, content string) string {
	if p.Plain() {
		return title + "\n" + content
	}
	return Styles.Box.Render(Styles.Title.Render(title) + "\n" + content)
}
