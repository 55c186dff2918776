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
	"sort"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// LOGICAL LINES
// =============================================================================

type mapEntry struct {
	offset int
	pos    position
}

// logicalLine is one statement joined across physical lines, with comments
// removed and string contents masked.
type logicalLine struct {
	tokens   []token
	text     string
	runes    []rune
	mapping  []mapEntry
	comments []string
	noqa     bool
	startRow int
	endRow   int
}

// position maps a character offset in the logical line back to the source.
func (ll *logicalLine) position(offset int) position {
	idx := sort.Search(len(ll.mapping), func(i int) bool {
		return ll.mapping[i].offset > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	e := ll.mapping[idx]
	return position{row: e.pos.row, col: e.pos.col + offset - e.offset}
}

// byteToRune converts a byte index in the logical text to a character offset.
func (ll *logicalLine) byteToRune(b int) int {
	return utf8.RuneCountInString(ll.text[:b])
}

// buildLogical joins the tokens of one statement.
func (r *run) buildLogical(tokens []token) *logicalLine {
	ll := &logicalLine{tokens: tokens}

	var b strings.Builder
	length := 0
	var prevEnd position
	hasPrev := false

	for _, tok := range tokens {
		if tok.isSkip() {
			continue
		}
		if len(ll.mapping) == 0 {
			ll.mapping = append(ll.mapping, mapEntry{0, tok.start})
			ll.startRow = tok.start.row
		}
		if tok.end.row > ll.endRow {
			ll.endRow = tok.end.row
		}
		if tok.typ == tokComment {
			ll.comments = append(ll.comments, tok.text)
			continue
		}

		text := tok.text
		if tok.typ == tokString {
			text = muteString(text)
		}

		if hasPrev {
			fill := ""
			if prevEnd.row != tok.start.row {
				prevChar := runeAt(r.lines[prevEnd.row-1], prevEnd.col-1)
				if prevChar == ',' || (!strings.ContainsRune("{[(", prevChar) && !isClosing(text)) {
					fill = " "
				}
			} else if prevEnd.col != tok.start.col {
				fill = sliceRunes(r.lines[tok.start.row-1], prevEnd.col, tok.start.col)
			}
			if fill != "" {
				ll.mapping = append(ll.mapping, mapEntry{length, prevEnd})
				b.WriteString(fill)
				length += runeLen(fill)
			}
		}

		ll.mapping = append(ll.mapping, mapEntry{length, tok.start})
		b.WriteString(text)
		length += runeLen(text)
		prevEnd = tok.end
		hasPrev = true
	}

	ll.text = b.String()
	ll.runes = []rune(ll.text)
	if len(ll.comments) > 0 {
		ll.noqa = noqaRegex.MatchString(strings.Join(ll.comments, ""))
	}
	if ll.endRow == 0 {
		ll.endRow = ll.startRow
	}
	return ll
}

// logicalLines groups tokens into statements and checks each one.
func (r *run) logicalLines() {
	var pending []token
	parens := 0

	for _, tok := range r.tokens {
		if tok.start.row > len(r.lines) {
			break
		}
		r.report.IncrementToken()
		pending = append(pending, tok)

		switch {
		case tok.typ == tokOp:
			switch tok.text {
			case "(", "[", "{":
				parens++
			case ")", "]", "}":
				parens--
			}
		case parens == 0 && tok.typ == tokNewline:
			r.checkLogical(pending)
			pending = nil
			r.blankBefore = 0
		case parens == 0 && tok.typ == tokNL:
			if len(pending) == 1 {
				r.blankLines++
			} else {
				r.checkLogical(pending)
			}
			pending = nil
		}
	}

	if len(pending) > 0 {
		r.checkLogical(pending)
	}
}

// checkLogical runs every logical check against one statement.
func (r *run) checkLogical(tokens []token) {
	r.report.IncrementLogicalLine()

	ll := r.buildLogical(tokens)
	if len(ll.mapping) == 0 {
		return
	}

	start := ll.mapping[0].pos
	r.indentLevel = expandIndent(sliceRunes(r.lines[start.row-1], 0, start.col))
	if r.blankBefore < r.blankLines {
		r.blankBefore = r.blankLines
	}

	if !ll.noqa {
		for _, check := range logicalChecks {
			if !r.checker.anyEnabled(check.codes) {
				continue
			}
			for _, f := range check.fn(r, ll) {
				pos := f.pos
				if !f.absolute {
					pos = ll.position(f.offset)
				}
				r.add(pos.row, pos.col, f.code, f.message, check.name)
			}
		}
	}

	if ll.text != "" {
		r.previousIndentLevel = r.indentLevel
		r.previousLogical = ll.text
		if r.indentLevel == 0 {
			r.previousUnindentedLogical = ll.text
		}
	}
	r.blankLines = 0
}

// =============================================================================
// HELPERS
// =============================================================================

// finding is a check result located either by logical offset or by an
// absolute source position.
type finding struct {
	offset   int
	pos      position
	absolute bool
	code     string
	message  string
}

func atOffset(offset int, code, message string) finding {
	return finding{offset: offset, code: code, message: message}
}

func atPos(pos position, code, message string) finding {
	return finding{pos: pos, absolute: true, code: code, message: message}
}

// muteString replaces string contents with 'x', keeping prefix and quotes.
func muteString(text string) string {
	rs := []rune(text)
	if len(rs) < 2 {
		return text
	}
	quote := rs[len(rs)-1]
	start := 0
	for start < len(rs) && rs[start] != quote {
		start++
	}
	start++
	end := len(rs) - 1
	if len(rs) >= 6 && strings.HasSuffix(text, strings.Repeat(string(quote), 3)) {
		start += 2
		end -= 2
	}
	if end <= start {
		return text
	}
	return string(rs[:start]) + strings.Repeat("x", end-start) + string(rs[end:])
}

// expandIndent returns the indentation width with tabs at multiples of 8.
func expandIndent(line string) int {
	line = strings.TrimRight(line, "\n\r")
	result := 0
	for _, c := range line {
		switch c {
		case '\t':
			result = result/8*8 + 8
		case ' ':
			result++
		default:
			return result
		}
	}
	return result
}

func runeAt(s string, i int) rune {
	rs := []rune(s)
	if i < 0 || i >= len(rs) {
		return 0
	}
	return rs[i]
}

func sliceRunes(s string, from, to int) string {
	rs := []rune(s)
	if from < 0 {
		from = 0
	}
	if to > len(rs) {
		to = len(rs)
	}
	if from >= to {
		return ""
	}
	return string(rs[from:to])
}

func isClosing(s string) bool {
	return s == ")" || s == "]" || s == "}"
}
