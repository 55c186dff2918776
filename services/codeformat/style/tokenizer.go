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
	"strings"
	"unicode"
)

// =============================================================================
// TOKENS
// =============================================================================

type tokenType int

const (
	tokEndMarker tokenType = iota
	tokName
	tokNumber
	tokString
	tokOp
	tokComment
	tokNL
	tokNewline
	tokIndent
	tokDedent
	tokError
)

var tokenTypeNames = map[tokenType]string{
	tokEndMarker: "ENDMARKER",
	tokName:      "NAME",
	tokNumber:    "NUMBER",
	tokString:    "STRING",
	tokOp:        "OP",
	tokComment:   "COMMENT",
	tokNL:        "NL",
	tokNewline:   "NEWLINE",
	tokIndent:    "INDENT",
	tokDedent:    "DEDENT",
	tokError:     "ERRORTOKEN",
}

func (t tokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// position is a token boundary: 1-based row, 0-based column in characters.
type position struct {
	row int
	col int
}

func (p position) before(o position) bool {
	return p.row < o.row || (p.row == o.row && p.col < o.col)
}

type token struct {
	typ   tokenType
	text  string
	start position
	end   position
}

func (t token) isNewline() bool {
	return t.typ == tokNewline || t.typ == tokNL
}

// skipped in logical line construction
func (t token) isSkip() bool {
	return t.isNewline() || t.typ == tokIndent || t.typ == tokDedent
}

// =============================================================================
// TOKENIZER
// =============================================================================

var (
	operators3 = []string{"**=", "//=", ">>=", "<<=", "..."}
	operators2 = []string{
		"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "->", ":=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	}
	operators1 = "+-*/%@&|^~<>()[]{},:;.="

	stringPrefixes = map[string]bool{
		"": true, "r": true, "u": true, "b": true, "f": true,
		"br": true, "rb": true, "fr": true, "rf": true,
	}
)

// openString tracks a string literal that spans physical lines.
type openString struct {
	start  position
	quote  string
	triple bool
	text   strings.Builder
}

type tokenizer struct {
	lines     []string
	tokens    []token
	indents   []int
	parenlev  int
	continued bool
	str       *openString
}

// tokenize splits source lines into Python tokens.
//
// Description:
//
//	Follows the line-oriented model of Python's own tokenizer: INDENT and
//	DEDENT at statement starts, NL for non-logical line ends, NEWLINE at
//	the end of a logical line, and a synthetic empty NEWLINE when the last
//	line lacks a line feed. Trailing DEDENT and ENDMARKER tokens are placed
//	on row len(lines)+1.
//
//	Characters that start no token are emitted as ERRORTOKEN, so cells
//	with shell escapes or magics can still be style-checked.
//
// Outputs:
//
//	[]token - Tokens in source order.
//	error   - *CheckError wrapping ErrTokenize for unterminated strings,
//	          EOF inside brackets or after a continuation, bad dedents, and
//	          stray characters after a line continuation.
func tokenize(lines []string) ([]token, error) {
	t := &tokenizer{lines: lines, indents: []int{0}}

	for lnum := 1; lnum <= len(lines); lnum++ {
		if err := t.line(lnum, []rune(lines[lnum-1])); err != nil {
			return nil, err
		}
	}
	return t.finish()
}

func (t *tokenizer) emit(typ tokenType, text string, start, end position) {
	t.tokens = append(t.tokens, token{typ: typ, text: text, start: start, end: end})
}

func (t *tokenizer) line(lnum int, rs []rune) error {
	pos, max := 0, len(rs)

	switch {
	case t.str != nil:
		end, found, _ := scanString(rs, 0, t.str.quote)
		if !found {
			if !t.str.triple && !endsWithEscapedNewline(rs) {
				return tokenizeError(t.str.start.row, "unterminated string literal")
			}
			t.str.text.WriteString(string(rs))
			return nil
		}
		t.str.text.WriteString(string(rs[:end]))
		t.emit(tokString, t.str.text.String(), t.str.start, position{lnum, end})
		t.str = nil
		pos = end

	case t.parenlev == 0 && !t.continued:
		column := 0
	measure:
		for pos < max {
			switch rs[pos] {
			case ' ':
				column++
			case '\t':
				column = (column/8 + 1) * 8
			case '\f':
				column = 0
			default:
				break measure
			}
			pos++
		}

		if pos == max || rs[pos] == '#' || rs[pos] == '\n' || rs[pos] == '\r' {
			if pos < max && rs[pos] == '#' {
				end := commentEnd(rs, pos)
				t.emit(tokComment, string(rs[pos:end]), position{lnum, pos}, position{lnum, end})
				pos = end
			}
			t.emit(tokNL, string(rs[pos:]), position{lnum, pos}, position{lnum, max})
			return nil
		}

		if column > t.indents[len(t.indents)-1] {
			t.indents = append(t.indents, column)
			t.emit(tokIndent, string(rs[:pos]), position{lnum, 0}, position{lnum, pos})
		}
		for column < t.indents[len(t.indents)-1] {
			if !containsInt(t.indents, column) {
				return tokenizeError(lnum, "unindent does not match any outer indentation level")
			}
			t.indents = t.indents[:len(t.indents)-1]
			t.emit(tokDedent, "", position{lnum, pos}, position{lnum, pos})
		}

	default:
		t.continued = false
	}

	for pos < max {
		for pos < max && isSpace(rs, pos) {
			pos++
		}
		if pos >= max {
			break
		}

		start := pos
		c := rs[pos]

		switch {
		case c == '#':
			pos = commentEnd(rs, pos)
			t.emit(tokComment, string(rs[start:pos]), position{lnum, start}, position{lnum, pos})

		case c == '\n' || c == '\r':
			typ := tokNewline
			if t.parenlev > 0 {
				typ = tokNL
			}
			t.emit(typ, string(rs[start:]), position{lnum, start}, position{lnum, max})
			pos = max

		case c == '\\':
			rest := string(rs[pos+1:])
			if rest != "" && rest != "\n" && rest != "\r\n" {
				return tokenizeError(lnum, "unexpected character after line continuation character")
			}
			t.continued = true
			pos = max

		case isDigit(c) || (c == '.' && pos+1 < max && isDigit(rs[pos+1])):
			pos = scanNumber(rs, pos)
			t.emit(tokNumber, string(rs[start:pos]), position{lnum, start}, position{lnum, pos})

		case isQuoteStart(rs, pos):
			qpos := pos
			for rs[qpos] != '\'' && rs[qpos] != '"' {
				qpos++
			}
			quote := string(rs[qpos])
			if qpos+2 < max && rs[qpos+1] == rs[qpos] && rs[qpos+2] == rs[qpos] {
				quote = strings.Repeat(quote, 3)
			}
			body := qpos + len(quote)
			end, found, hardStop := scanString(rs, body, quote)
			if found {
				pos = end
				t.emit(tokString, string(rs[start:pos]), position{lnum, start}, position{lnum, pos})
				continue
			}
			if len(quote) == 1 && hardStop {
				return tokenizeError(lnum, "unterminated string literal")
			}
			t.str = &openString{start: position{lnum, start}, quote: quote, triple: len(quote) == 3}
			t.str.text.WriteString(string(rs[start:]))
			return nil

		case isIdentStart(c):
			for pos < max && isIdentChar(rs[pos]) {
				pos++
			}
			t.emit(tokName, string(rs[start:pos]), position{lnum, start}, position{lnum, pos})

		default:
			op := matchOperator(rs, pos)
			if op == "" {
				pos++
				t.emit(tokError, string(rs[start:pos]), position{lnum, start}, position{lnum, pos})
				continue
			}
			pos += len([]rune(op))
			switch op {
			case "(", "[", "{":
				t.parenlev++
			case ")", "]", "}":
				if t.parenlev > 0 {
					t.parenlev--
				}
			}
			t.emit(tokOp, op, position{lnum, start}, position{lnum, pos})
		}
	}
	return nil
}

func (t *tokenizer) finish() ([]token, error) {
	n := len(t.lines)

	if t.str != nil {
		return nil, tokenizeError(t.str.start.row, "EOF in multi-line string")
	}
	if t.continued || t.parenlev > 0 {
		return nil, tokenizeError(n, "EOF in multi-line statement")
	}

	if n > 0 {
		last := t.lines[n-1]
		if !strings.HasSuffix(last, "\n") && len(t.tokens) > 0 {
			prev := t.tokens[len(t.tokens)-1]
			if !prev.isNewline() {
				col := len([]rune(last))
				t.emit(tokNewline, "", position{n, col}, position{n, col + 1})
			}
		}
	}

	eof := position{n + 1, 0}
	for i := len(t.indents) - 1; i > 0; i-- {
		t.emit(tokDedent, "", eof, eof)
	}
	t.emit(tokEndMarker, "", eof, eof)
	return t.tokens, nil
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

// scanString finds the end of a string body starting at pos.
//
// Returns the index just past the closing quote and found=true, or
// found=false with hardStop=true when a single-quoted string hits an
// unescaped line end.
func scanString(rs []rune, pos int, quote string) (end int, found bool, hardStop bool) {
	q := []rune(quote)
	for i := pos; i < len(rs); {
		c := rs[i]
		if c == '\\' {
			i += 2
			continue
		}
		if len(q) == 1 && (c == '\n' || c == '\r') {
			return 0, false, true
		}
		if c == q[0] && hasRunesAt(rs, i, q) {
			return i + len(q), true, false
		}
		i++
	}
	return 0, false, false
}

func hasRunesAt(rs []rune, i int, q []rune) bool {
	if i+len(q) > len(rs) {
		return false
	}
	for j, r := range q {
		if rs[i+j] != r {
			return false
		}
	}
	return true
}

func endsWithEscapedNewline(rs []rune) bool {
	s := strings.TrimRight(string(rs), "\r\n")
	if len(s) == len(string(rs)) {
		return false
	}
	backslashes := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}

func commentEnd(rs []rune, pos int) int {
	for pos < len(rs) && rs[pos] != '\n' && !(rs[pos] == '\r' && pos+1 < len(rs) && rs[pos+1] == '\n') {
		pos++
	}
	return pos
}

func scanNumber(rs []rune, pos int) int {
	max := len(rs)
	if rs[pos] == '0' && pos+1 < max && strings.ContainsRune("xXoObB", rs[pos+1]) {
		pos += 2
		for pos < max && (isHexDigit(rs[pos]) || rs[pos] == '_') {
			pos++
		}
		return pos
	}

	digits := func() {
		for pos < max && (isDigit(rs[pos]) || rs[pos] == '_') {
			pos++
		}
	}
	digits()
	if pos < max && rs[pos] == '.' {
		pos++
		digits()
	}
	if pos < max && (rs[pos] == 'e' || rs[pos] == 'E') {
		next := pos + 1
		if next < max && (rs[next] == '+' || rs[next] == '-') {
			next++
		}
		if next < max && isDigit(rs[next]) {
			pos = next
			digits()
		}
	}
	if pos < max && (rs[pos] == 'j' || rs[pos] == 'J') {
		pos++
	}
	return pos
}

func matchOperator(rs []rune, pos int) string {
	rest := string(rs[pos:min(pos+3, len(rs))])
	for _, op := range operators3 {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	for _, op := range operators2 {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	if strings.ContainsRune(operators1, rs[pos]) {
		return string(rs[pos])
	}
	return ""
}

// isQuoteStart reports whether a string literal (with optional prefix) starts at pos.
func isQuoteStart(rs []rune, pos int) bool {
	for n := 0; n <= 2 && pos+n < len(rs); n++ {
		c := rs[pos+n]
		if c == '\'' || c == '"' {
			return stringPrefixes[strings.ToLower(string(rs[pos:pos+n]))]
		}
		if !strings.ContainsRune("rRbBuUfF", c) {
			return false
		}
	}
	return false
}

// isSpace reports inter-token whitespace. A lone CR is treated as blank.
func isSpace(rs []rune, pos int) bool {
	switch rs[pos] {
	case ' ', '\t', '\f':
		return true
	case '\r':
		return pos+1 >= len(rs) || rs[pos+1] != '\n'
	}
	return false
}

func isDigit(c rune) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c rune) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentChar(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
