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
	"strings"
	"unicode/utf8"
)

// lineTotals accumulates lexical line statistics across cells.
type lineTotals struct {
	lines       int
	totalLength int
	maxLength   int
	overLimit   int
}

// accumulate adds the lines of source. Lines are split on "\n" only, so a
// trailing newline yields a final empty line and "\r" is an ordinary
// character. Lengths are in characters, not bytes.
func (t *lineTotals) accumulate(source string) int {
	lines := strings.Split(source, "\n")
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		t.lines++
		t.totalLength += n
		if n > t.maxLength {
			t.maxLength = n
		}
		if n > LineLengthLimit {
			t.overLimit++
		}
	}
	return len(lines)
}

func (t *lineTotals) average() float64 {
	if t.lines == 0 {
		return 0
	}
	return float64(t.totalLength) / float64(t.lines)
}
