// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pyast

import (
	"fmt"
	"strings"
	"unicode"
)

// tabSize is the tab stop Python uses when comparing indentation.
const tabSize = 8

// validStringPrefixes lists the lowercased prefixes Python 3 accepts.
var validStringPrefixes = map[string]bool{
	"": true, "r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

// lexer tracks the tokenizer state that tree-sitter's error recovery
// hides: the indentation stack, open brackets and open strings.
type lexer struct {
	indents    []int
	altIndents []int
	depth      int
	quote      string
	needBlock  bool
	joined     bool
	last       rune
}

// checkLexical scans source line by line and reports the first
// indentation error or Python 2 lexeme, or nil.
//
// Description:
//
//	Indentation is checked the way Python's tokenizer does it. A line
//	following a header that ends in ':' must be indented deeper, other
//	lines must not be, and a dedent must land on an enclosing level.
//	Tabs are compared at a tab size of 8 and of 1; a mismatch is the
//	inconsistent use of tabs and spaces. Outside strings and comments
//	the '<>' operator, backticks, leading-zero octals, the 'L' long
//	suffix and unknown string prefixes such as 'ur' are rejected.
//
// Outputs:
//
//	*ParseError - Wrapping ErrSyntax with a 1-based position, or nil.
func checkLexical(source string) *ParseError {
	lx := &lexer{indents: []int{0}, altIndents: []int{0}}
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if err := lx.scanLine(i+1, []rune(strings.TrimSuffix(line, "\r"))); err != nil {
			return err
		}
	}
	end := len(lines) + 1
	switch {
	case lx.quote != "":
		return lexError(end, 1, "unterminated triple-quoted string literal")
	case lx.needBlock:
		return lexError(end, 1, "expected an indented block")
	}
	return nil
}

func lexError(line, col int, msg string) *ParseError {
	return &ParseError{Line: line, Column: col, Cause: fmt.Errorf("%w: %s", ErrSyntax, msg)}
}

func (lx *lexer) continuation() bool {
	return lx.quote != "" || lx.depth > 0 || lx.joined
}

func (lx *lexer) scanLine(lnum int, rs []rune) *ParseError {
	pos := 0
	if !lx.continuation() {
		col, alt := 0, 0
	measure:
		for pos < len(rs) {
			switch rs[pos] {
			case ' ':
				col++
				alt++
			case '\t':
				col = (col/tabSize + 1) * tabSize
				alt++
			case '\f':
				col, alt = 0, 0
			default:
				break measure
			}
			pos++
		}
		if pos == len(rs) || rs[pos] == '#' {
			return nil
		}
		if err := lx.indent(lnum, col, alt); err != nil {
			return err
		}
		lx.last = 0
	}
	lx.joined = false

	for pos < len(rs) {
		if lx.quote != "" {
			pos = lx.scanString(rs, pos)
			continue
		}

		c := rs[pos]
		switch {
		case c == '#':
			pos = len(rs)
			continue
		case c == '\\' && pos == len(rs)-1:
			lx.joined = true
			pos++
			continue
		case c == ' ' || c == '\t' || c == '\f':
			pos++
			continue
		case c == '`':
			return lexError(lnum, pos+1, "backquote is not supported")
		case c == '<' && pos+1 < len(rs) && rs[pos+1] == '>':
			return lexError(lnum, pos+1, "'<>' is not supported, use '!='")
		case c == '"' || c == '\'':
			pos = lx.openString(rs, pos)
			continue
		case isIdentStart(c):
			start := pos
			for pos < len(rs) && isIdentChar(rs[pos]) {
				pos++
			}
			if pos < len(rs) && (rs[pos] == '"' || rs[pos] == '\'') {
				prefix := strings.ToLower(string(rs[start:pos]))
				if !validStringPrefixes[prefix] && strings.Trim(prefix, "rubf") == "" {
					return lexError(lnum, start+1, fmt.Sprintf("invalid string prefix %q", string(rs[start:pos])))
				}
				if validStringPrefixes[prefix] {
					pos = lx.openString(rs, pos)
					continue
				}
			}
			lx.last = rs[pos-1]
			continue
		case isDecimal(c):
			start := pos
			pos = scanNumberToken(rs, pos)
			afterDot := start > 0 && rs[start-1] == '.'
			if err := checkNumber(string(rs[start:pos]), afterDot); err != "" {
				return lexError(lnum, start+1, err)
			}
			lx.last = rs[pos-1]
			continue
		case strings.ContainsRune("([{", c):
			lx.depth++
		case strings.ContainsRune(")]}", c):
			if lx.depth > 0 {
				lx.depth--
			}
		}
		lx.last = c
		pos++
	}

	if len(lx.quote) == 1 && !endsWithBackslash(rs) {
		return lexError(lnum, len(rs)+1, "unterminated string literal")
	}
	if !lx.continuation() {
		lx.needBlock = lx.last == ':'
	}
	return nil
}

// indent applies one logical line's indentation to the stack.
func (lx *lexer) indent(lnum, col, alt int) *ParseError {
	top := len(lx.indents) - 1
	switch {
	case lx.needBlock:
		lx.needBlock = false
		if col <= lx.indents[top] {
			return lexError(lnum, col+1, "expected an indented block")
		}
		if alt <= lx.altIndents[top] {
			return lexError(lnum, col+1, "inconsistent use of tabs and spaces in indentation")
		}
		lx.indents = append(lx.indents, col)
		lx.altIndents = append(lx.altIndents, alt)
	case col > lx.indents[top]:
		return lexError(lnum, col+1, "unexpected indent")
	default:
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.altIndents = lx.altIndents[:len(lx.altIndents)-1]
		}
		top = len(lx.indents) - 1
		if col != lx.indents[top] {
			return lexError(lnum, col+1, "unindent does not match any outer indentation level")
		}
		if alt != lx.altIndents[top] {
			return lexError(lnum, col+1, "inconsistent use of tabs and spaces in indentation")
		}
	}
	return nil
}

// openString records the delimiter starting at pos and scans the rest of
// the line for its end.
func (lx *lexer) openString(rs []rune, pos int) int {
	q := string(rs[pos])
	if pos+2 < len(rs) && rs[pos+1] == rs[pos] && rs[pos+2] == rs[pos] {
		q = strings.Repeat(q, 3)
	}
	lx.quote = q
	lx.last = rs[pos]
	return lx.scanString(rs, pos+len(q))
}

// scanString advances past the closing delimiter of the open string, or
// to the end of the line when the string continues.
func (lx *lexer) scanString(rs []rune, pos int) int {
	q := []rune(lx.quote)
	for pos < len(rs) {
		if rs[pos] == '\\' {
			pos += 2
			continue
		}
		if hasRunes(rs, pos, q) {
			lx.quote = ""
			return pos + len(q)
		}
		pos++
	}
	return len(rs)
}

func hasRunes(rs []rune, pos int, q []rune) bool {
	if pos+len(q) > len(rs) {
		return false
	}
	for i, r := range q {
		if rs[pos+i] != r {
			return false
		}
	}
	return true
}

func endsWithBackslash(rs []rune) bool {
	n := 0
	for i := len(rs) - 1; i >= 0 && rs[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// scanNumberToken returns the end of the numeric literal starting at pos.
// An exponent sign is only consumed in decimal literals.
func scanNumberToken(rs []rune, pos int) int {
	start := pos
	radix := pos+1 < len(rs) && rs[pos] == '0' && strings.ContainsRune("xXoObB", rs[pos+1])
	for pos < len(rs) {
		c := rs[pos]
		switch {
		case isIdentChar(c) || c == '.':
			pos++
		case (c == '+' || c == '-') && !radix && pos > start && (rs[pos-1] == 'e' || rs[pos-1] == 'E'):
			pos++
		default:
			return pos
		}
	}
	return pos
}

// checkNumber rejects Python 2 numeric forms. afterDot marks the digits
// of a float written as '.5'.
func checkNumber(tok string, afterDot bool) string {
	if last := tok[len(tok)-1]; last == 'l' || last == 'L' {
		return fmt.Sprintf("invalid decimal literal %q", tok)
	}
	if afterDot || len(tok) < 2 || tok[0] != '0' {
		return ""
	}
	if strings.Trim(tok, "0123456789_") != "" {
		return ""
	}
	if strings.Trim(tok, "0_") != "" {
		return "leading zeros in decimal integer literals are not permitted"
	}
	return ""
}

func isDecimal(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentChar(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
