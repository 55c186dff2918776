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
	"regexp"
	"strings"
)

var noqaRegex = regexp.MustCompile(`(?i)# no(?:qa|pep8)\b`)

// physicalState is threaded through the physical checks of one source unit.
type physicalState struct {
	lines      []string
	indentChar rune

	// multiline marks rows covered by a string literal spanning lines.
	multiline map[int]bool
}

// physicalLine runs every physical check against one line.
func (r *run) physicalLine(lineNumber int) {
	st := r.phys
	line := st.lines[lineNumber-1]

	if st.indentChar == 0 && line != "" && (line[0] == ' ' || line[0] == '\t') {
		st.indentChar = rune(line[0])
	}

	if offset, ok := tabsOrSpaces(line, st.indentChar); ok {
		r.add(lineNumber, offset, "E101", "indentation contains mixed spaces and tabs", "tabs_or_spaces")
		st.indentChar = rune(line[0])
	}
	if offset, ok := tabsObsolete(line); ok {
		r.add(lineNumber, offset, "W191", "indentation contains tabs", "tabs_obsolete")
	}
	if offset, code, msg, ok := trailingWhitespace(line); ok {
		r.add(lineNumber, offset, code, msg, "trailing_whitespace")
	}
	if offset, code, msg, ok := trailingBlankLines(line, lineNumber, st.lines); ok {
		r.add(lineNumber, offset, code, msg, "trailing_blank_lines")
	}
	if offset, msg, ok := maximumLineLength(line, r.checker.maxLineLength, st.multiline[lineNumber]); ok {
		r.add(lineNumber, offset, "E501", msg, "maximum_line_length")
	}

	r.indentCharAt[lineNumber] = st.indentChar
}

// leadingIndent returns the run of spaces and tabs that starts a line.
func leadingIndent(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// tabsOrSpaces reports the first indent character that differs from the
// established indent character.
func tabsOrSpaces(line string, indentChar rune) (int, bool) {
	for offset, c := range leadingIndent(line) {
		if c != indentChar {
			return offset, true
		}
	}
	return 0, false
}

func tabsObsolete(line string) (int, bool) {
	indent := leadingIndent(line)
	if i := strings.IndexByte(indent, '\t'); i >= 0 {
		return i, true
	}
	return 0, false
}

func trailingWhitespace(line string) (int, string, string, bool) {
	line = strings.TrimRight(line, "\n")
	line = strings.TrimRight(line, "\r")
	line = strings.TrimRight(line, "\x0c")
	stripped := strings.TrimRight(line, " \t\v")
	if line == stripped {
		return 0, "", "", false
	}
	if stripped != "" {
		return runeLen(stripped), "W291", "trailing whitespace", true
	}
	return 0, "W293", "whitespace on blank line", true
}

func trailingBlankLines(line string, lineNumber int, lines []string) (int, string, string, bool) {
	if lineNumber != len(lines) {
		return 0, "", "", false
	}
	strippedLast := strings.TrimRight(line, "\r\n")
	if line != "" && strippedLast == "" {
		return 0, "W391", "blank line at end of file", true
	}
	if strippedLast == line {
		return runeLen(line), "W292", "no newline at end of file", true
	}
	return 0, "", "", false
}

// maximumLineLength implements E501, exempting long URLs in comments and
// single long tokens inside multi-line strings.
func maximumLineLength(line string, maxLength int, multiline bool) (int, string, bool) {
	stripped := strings.TrimRightFunc(line, isPyWhitespace)
	length := runeLen(stripped)
	if length <= maxLength || noqaRegex.MatchString(line) {
		return 0, "", false
	}

	chunks := strings.Fields(stripped)
	if (len(chunks) == 1 && multiline) || (len(chunks) == 2 && chunks[0] == "#") {
		if length-runeLen(chunks[len(chunks)-1]) < maxLength-7 {
			return 0, "", false
		}
	}
	return maxLength, fmt.Sprintf("line too long (%d > %d characters)", length, maxLength), true
}

func isPyWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
