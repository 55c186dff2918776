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

// logicalCheck is one rule function over a logical line.
type logicalCheck struct {
	name  string
	codes []string
	fn    func(r *run, ll *logicalLine) []finding
}

// logicalChecks run in this order for every logical line.
var logicalChecks = []logicalCheck{
	{"blank_lines", []string{"E301", "E302", "E303", "E304", "E305", "E306"}, checkBlankLines},
	{"extraneous_whitespace", []string{"E201", "E202", "E203"}, checkExtraneousWhitespace},
	{"whitespace_before_parameters", []string{"E211"}, checkWhitespaceBeforeParameters},
	{"missing_whitespace_around_operator", []string{"E225", "E226", "E227", "E228"}, checkWhitespaceAroundOperator},
	{"missing_whitespace", []string{"E231"}, checkMissingWhitespace},
	{"whitespace_around_default_equals", []string{"E251", "E252"}, checkDefaultEquals},
	{"whitespace_before_comment", []string{"E261", "E262", "E265", "E266"}, checkComments},
	{"imports_on_separate_lines", []string{"E401"}, checkImports},
	{"compound_statements", []string{"E701", "E702", "E703", "E704", "E731"}, checkCompoundStatements},
	{"comparison_to_singleton", []string{"E711", "E712"}, checkComparisonToSingleton},
	{"comparison_negative", []string{"E713", "E714"}, checkComparisonNegative},
	{"bare_except", []string{"E722"}, checkBareExcept},
	{"ambiguous_identifier", []string{"E741", "E742", "E743"}, checkAmbiguousIdentifier},
	{"indentation", []string{"E111", "E112", "E113", "E114", "E115", "E116", "E117"}, checkIndentation},
	{"python_3000_invalid_escape_sequence", []string{"W605"}, checkInvalidEscape},
}

var (
	pyKeywords = setOf(
		"False", "None", "True", "and", "as", "assert", "async", "await",
		"break", "class", "continue", "def", "del", "elif", "else", "except",
		"finally", "for", "from", "global", "if", "import", "in", "is",
		"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
		"while", "with", "yield",
	)
	pySoftKeywords = setOf("_", "case", "match", "type")

	// operatorKeywords excludes the singletons and adds print.
	operatorKeywords = func() map[string]bool {
		m := setOf("print")
		for k := range pyKeywords {
			if k != "False" && k != "None" && k != "True" {
				m[k] = true
			}
		}
		return m
	}()

	wsNeededOperators = setOf(
		"**=", "*=", "/=", "//=", "+=", "-=", "!=", "<", ">", "%=", "^=", "&=",
		"|=", "==", "<=", ">=", "<<=", ">>=", "=", "->", ":=", "@=",
	)
	arithmeticOperators = setOf("**", "*", "/", "//", "+", "-", "@")
	wsOptionalOperators = setOf("**", "*", "/", "//", "+", "-", "@", "^", "&", "|", "<<", ">>", "%")
	unaryOperators      = setOf(">>", "**", "*", "+", "-")

	topLevelRegex        = regexp.MustCompile(`^(async\s+def\s+|def\s+|class\s+|@)`)
	defOrClassRegex      = regexp.MustCompile(`^(async\s+def\s+|def\s+|class\s+)`)
	defRegex             = regexp.MustCompile(`^(async\s+def|def)\b`)
	docstringRegex       = regexp.MustCompile(`^u?r?["']`)
	indentStatementRegex = regexp.MustCompile(`^\s*(def|async\s+def|for|async\s+for|if|elif|else|try|except|finally|with|async\s+with|class|while)\b`)
	lambdaRegex          = regexp.MustCompile(`\blambda\b`)
	bareExceptRegex      = regexp.MustCompile(`^except\s*:`)
	identifierRegex      = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

	compareSingletonRegex = regexp.MustCompile(`\b(None|False|True)\s*([=!]=)\s*\b|\s*([=!]=)\s*(None|False|True)\b`)
	compareNegativeRegex  = regexp.MustCompile(`\b(not)\s+[^\]\[)(}{ ]+\s+(in|is)\s`)
)

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func isWhitespaceRune(c rune) bool {
	return c == ' ' || c == '\t' || c == '\u00a0'
}

// =============================================================================
// E1 INDENTATION
// =============================================================================

func checkIndentation(r *run, ll *logicalLine) []finding {
	var out []finding
	base, suffix := 0, ""
	if ll.text == "" {
		base, suffix = 3, " (comment)"
	}
	add := func(n int, msg string) {
		out = append(out, atOffset(0, fmt.Sprintf("E11%d", n), msg+suffix))
	}

	if r.indentLevel%4 != 0 {
		add(1+base, "indentation is not a multiple of 4")
	}
	indentExpect := strings.HasSuffix(r.previousLogical, ":")
	if indentExpect && r.indentLevel <= r.previousIndentLevel {
		add(2+base, "expected an indented block")
	} else if !indentExpect && r.indentLevel > r.previousIndentLevel {
		add(3+base, "unexpected indentation")
	}
	if indentExpect {
		amount := 4
		if r.indentCharAt[ll.endRow] == '\t' {
			amount = 8
		}
		if r.indentLevel > r.previousIndentLevel+amount {
			add(7, "over-indented")
		}
	}
	return out
}

// =============================================================================
// E2 WHITESPACE
// =============================================================================

func checkExtraneousWhitespace(r *run, ll *logicalLine) []finding {
	var out []finding
	rs := ll.runes
	for i := 0; i+1 < len(rs); {
		c, n := rs[i], rs[i+1]
		if strings.ContainsRune("[({", c) && (n == ' ' || n == '\t') {
			out = append(out, atOffset(i+1, "E201", fmt.Sprintf("whitespace after '%c'", c)))
			i += 2
			continue
		}
		if (c == ' ' || c == '\t') && strings.ContainsRune("]}),;:", n) && !(i+2 < len(rs) && rs[i+2] == '=') {
			prev := rs[len(rs)-1]
			if i > 0 {
				prev = rs[i-1]
			}
			if prev != ',' {
				code := "E203"
				if strings.ContainsRune("}])", n) {
					code = "E202"
				}
				out = append(out, atOffset(i, code, fmt.Sprintf("whitespace before '%c'", n)))
			}
			i += 2
			continue
		}
		i++
	}
	return out
}

func checkWhitespaceBeforeParameters(r *run, ll *logicalLine) []finding {
	toks := ll.tokens
	if len(toks) == 0 {
		return nil
	}
	var out []finding
	prev := toks[0]
	for i := 1; i < len(toks); i++ {
		tok := toks[i]
		if tok.typ == tokOp && (tok.text == "(" || tok.text == "[") &&
			tok.start != prev.end &&
			(prev.typ == tokName || isClosing(prev.text)) &&
			(i < 2 || toks[i-2].text != "class") &&
			!pyKeywords[prev.text] &&
			(prev.text == "type" || !pySoftKeywords[prev.text]) {
			out = append(out, atPos(prev.end, "E211", fmt.Sprintf("whitespace before '%s'", tok.text)))
		}
		prev = tok
	}
	return out
}

// needSpace tracks whether the operator just seen requires surrounding space.
type needSpace struct {
	state    int // 0 no, 1 required, 2 optional but must be symmetric
	pos      position
	hadSpace bool
}

func checkWhitespaceAroundOperator(r *run, ll *logicalLine) []finding {
	var out []finding
	parens := 0
	var need needSpace
	prevType := tokOp
	prevText := ""
	var prevEnd position
	hasPrev := false

	for _, tok := range ll.tokens {
		if tok.isSkip() || tok.typ == tokComment || tok.typ == tokError {
			continue
		}
		switch tok.text {
		case "(", "lambda":
			parens++
		case ")":
			parens--
		}

		if need.state != 0 {
			switch {
			case tok.start != prevEnd:
				if need.state == 2 && !need.hadSpace {
					out = append(out, atPos(need.pos, "E225", "missing whitespace around operator"))
				}
				need = needSpace{}
			case tok.text == ">" && (prevText == "<" || prevText == "-"):
			case (prevText == "/" && (tok.text == "," || tok.text == ")" || tok.text == ":")) || (prevText == ")" && tok.text == ":"):
			default:
				if need.state == 1 || need.hadSpace {
					out = append(out, atPos(prevEnd, "E225", "missing whitespace around operator"))
				} else if prevText != "**" {
					code, kind := "E226", "arithmetic"
					if prevText == "%" {
						code, kind = "E228", "modulo"
					} else if !arithmeticOperators[prevText] {
						code, kind = "E227", "bitwise or shift"
					}
					out = append(out, atPos(need.pos, code, fmt.Sprintf("missing whitespace around %s operator", kind)))
				}
				need = needSpace{}
			}
		} else if tok.typ == tokOp && hasPrev {
			optional := false
			switch {
			case tok.text == "=" && parens > 0:
			case wsNeededOperators[tok.text]:
				need.state = 1
			case unaryOperators[tok.text]:
				binary := false
				if prevType == tokOp {
					binary = isClosing(prevText)
				} else {
					binary = !operatorKeywords[prevText]
				}
				if binary {
					optional = true
				}
			case wsOptionalOperators[tok.text]:
				optional = true
			}
			if optional {
				need = needSpace{state: 2, pos: prevEnd, hadSpace: tok.start != prevEnd}
			} else if need.state == 1 && tok.start == prevEnd {
				out = append(out, atPos(prevEnd, "E225", "missing whitespace around operator"))
				need = needSpace{}
			}
		}

		prevType = tok.typ
		prevText = tok.text
		prevEnd = tok.end
		hasPrev = true
	}
	return out
}

func checkMissingWhitespace(r *run, ll *logicalLine) []finding {
	var out []finding
	rs := ll.runes
	for i := 0; i+1 < len(rs); i++ {
		c, n := rs[i], rs[i+1]
		if (c != ',' && c != ';' && c != ':') || isWhitespaceRune(n) {
			continue
		}
		before := string(rs[:i])
		if c == ':' && strings.Count(before, "[") > strings.Count(before, "]") &&
			strings.LastIndex(before, "{") < strings.LastIndex(before, "[") {
			continue
		}
		if c == ',' && (n == ')' || n == ']') {
			continue
		}
		if c == ':' && n == '=' {
			continue
		}
		out = append(out, atOffset(i, "E231", fmt.Sprintf("missing whitespace after '%c'", c)))
	}
	return out
}

func checkDefaultEquals(r *run, ll *logicalLine) []finding {
	const (
		unexpected = "unexpected spaces around keyword / parameter equals"
		missing    = "missing whitespace around parameter equals"
	)
	var out []finding
	parens := 0
	noSpace, requireSpace, annotated := false, false, false
	inDef := defRegex.MatchString(ll.text)
	var prevEnd position

	for _, tok := range ll.tokens {
		if tok.typ == tokNL {
			continue
		}
		if noSpace {
			noSpace = false
			if tok.start != prevEnd {
				out = append(out, atPos(prevEnd, "E251", unexpected))
			}
		}
		if requireSpace {
			requireSpace = false
			if tok.start == prevEnd {
				out = append(out, atPos(prevEnd, "E252", missing))
			}
		}
		if tok.typ == tokOp {
			switch {
			case tok.text == "(" || tok.text == "[":
				parens++
			case tok.text == ")" || tok.text == "]":
				parens--
			case inDef && tok.text == ":" && parens == 1:
				annotated = true
			case parens == 1 && tok.text == ",":
				annotated = false
			case parens > 0 && tok.text == "=":
				if annotated && parens == 1 {
					requireSpace = true
					if tok.start == prevEnd {
						out = append(out, atPos(prevEnd, "E252", missing))
					}
				} else {
					noSpace = true
					if tok.start != prevEnd {
						out = append(out, atPos(prevEnd, "E251", unexpected))
					}
				}
			}
			if parens == 0 {
				annotated = false
			}
		}
		prevEnd = tok.end
	}
	return out
}

func checkComments(r *run, ll *logicalLine) []finding {
	var out []finding
	var prevEnd position
	for _, tok := range ll.tokens {
		if tok.typ != tokComment {
			if tok.typ != tokNL {
				prevEnd = tok.end
			}
			continue
		}

		inline := strings.TrimSpace(sliceRunes(r.lines[tok.start.row-1], 0, tok.start.col)) != ""
		if inline && prevEnd.row == tok.start.row && tok.start.col < prevEnd.col+2 {
			out = append(out, atPos(prevEnd, "E261", "at least two spaces before inline comment"))
		}

		symbol, comment, _ := strings.Cut(tok.text, " ")
		var badPrefix rune
		if symbol != "" && symbol != "#" && symbol != ":" && symbol != "#:" {
			if rest := strings.TrimLeft(symbol, "#"); rest == "" {
				badPrefix = '#'
			} else {
				badPrefix = []rune(rest)[0]
			}
		}

		if inline {
			if badPrefix != 0 || (comment != "" && isWhitespaceRune([]rune(comment)[0])) {
				out = append(out, atPos(tok.start, "E262", "inline comment should start with '# '"))
			}
		} else if badPrefix != 0 && (badPrefix != '!' || tok.start.row > 1) {
			if badPrefix != '#' {
				out = append(out, atPos(tok.start, "E265", "block comment should start with '# '"))
			} else if comment != "" {
				out = append(out, atPos(tok.start, "E266", "too many leading '#' for block comment"))
			}
		}
	}
	return out
}

// =============================================================================
// E3 BLANK LINES
// =============================================================================

func checkBlankLines(r *run, ll *logicalLine) []finding {
	const topLevel, method = 2, 1
	line := ll.text

	if r.previousLogical == "" && r.blankBefore < topLevel {
		return nil
	}

	switch {
	case strings.HasPrefix(r.previousLogical, "@"):
		if r.blankLines > 0 {
			return []finding{atOffset(0, "E304", fmt.Sprintf("blank lines found after function decorator (%d)", r.blankLines))}
		}
	case r.blankLines > topLevel || (r.indentLevel > 0 && r.blankLines == method+1):
		return []finding{atOffset(0, "E303", fmt.Sprintf("too many blank lines (%d)", r.blankLines))}
	case topLevelRegex.MatchString(line):
		if r.blankBefore == 0 && isOneLiner(line) && isOneLiner(r.previousLogical) &&
			firstWord(line) == firstWord(r.previousLogical) {
			return nil
		}
		if r.indentLevel > 0 {
			if r.blankBefore == method || r.previousIndentLevel < r.indentLevel || docstringRegex.MatchString(r.previousLogical) {
				return nil
			}
			ancestor := r.indentLevel
			nested := false
			for row := ll.startRow - 1; row >= 1; row-- {
				src := r.lines[row-1]
				if strings.TrimSpace(src) == "" {
					continue
				}
				if level := expandIndent(src); level < ancestor {
					ancestor = level
					nested = defRegex.MatchString(strings.TrimLeft(src, " \t"))
					if nested || ancestor == 0 {
						break
					}
				}
			}
			if nested {
				return []finding{atOffset(0, "E306", "expected 1 blank line before a nested definition, found 0")}
			}
			return []finding{atOffset(0, "E301", "expected 1 blank line, found 0")}
		}
		if r.blankBefore != topLevel {
			return []finding{atOffset(0, "E302", fmt.Sprintf("expected %d blank lines, found %d", topLevel, r.blankBefore))}
		}
	case line != "" && r.indentLevel == 0 && r.blankBefore != topLevel && defOrClassRegex.MatchString(r.previousUnindentedLogical):
		return []finding{atOffset(0, "E305", fmt.Sprintf("expected %d blank lines after class or function definition, found %d", topLevel, r.blankBefore))}
	}
	return nil
}

// isOneLiner reports whether a compound header carries its body on the same line.
func isOneLiner(line string) bool {
	idx := headerColon([]rune(line))
	return idx >= 0 && idx < len([]rune(line))-1
}

// headerColon returns the offset of the first colon outside brackets, or -1.
func headerColon(rs []rune) int {
	depth := 0
	for i, c := range rs {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == 0 && (i+1 >= len(rs) || rs[i+1] != '=') {
				return i
			}
		}
	}
	return -1
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// =============================================================================
// E4 IMPORTS
// =============================================================================

func checkImports(r *run, ll *logicalLine) []finding {
	line := ll.text
	if !strings.HasPrefix(line, "import ") {
		return nil
	}
	found := strings.Index(line, ",")
	if found > -1 && !strings.Contains(line[:found], ";") {
		return []finding{atOffset(ll.byteToRune(found), "E401", "multiple imports on one line")}
	}
	return nil
}

// =============================================================================
// E7 STATEMENTS
// =============================================================================

func checkCompoundStatements(r *run, ll *logicalLine) []finding {
	var out []finding
	rs := ll.runes
	lastChar := len(rs) - 1
	counts := map[rune]int{}

	found := indexRuneFrom(rs, ':', 0)
	prevFound := 0
	for found > -1 && found < lastChar {
		for _, c := range rs[prevFound:found] {
			if strings.ContainsRune("{}[]()", c) {
				counts[c]++
			}
		}
		if counts['{'] <= counts['}'] && counts['['] <= counts[']'] && counts['('] <= counts[')'] && rs[found+1] != '=' {
			head := string(rs[:found])
			if loc := lambdaRegex.FindStringIndex(head); loc != nil {
				before := strings.TrimRight(head[:loc[0]], " \t")
				if strings.HasSuffix(before, "=") && identifierRegex.MatchString(strings.TrimSpace(before[:len(before)-1])) {
					out = append(out, atOffset(0, "E731", "do not assign a lambda expression, use a def"))
				}
				break
			}
			if defRegex.MatchString(ll.text) {
				out = append(out, atOffset(0, "E704", "multiple statements on one line (def)"))
				break
			}
			if indentStatementRegex.MatchString(ll.text) {
				out = append(out, atOffset(found, "E701", "multiple statements on one line (colon)"))
				break
			}
		}
		prevFound = found
		found = indexRuneFrom(rs, ':', found+1)
	}

	for found = indexRuneFrom(rs, ';', 0); found > -1; found = indexRuneFrom(rs, ';', found+1) {
		if found < lastChar {
			out = append(out, atOffset(found, "E702", "multiple statements on one line (semicolon)"))
		} else {
			out = append(out, atOffset(found, "E703", "statement ends with a semicolon"))
		}
	}
	return out
}

func indexRuneFrom(rs []rune, c rune, from int) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == c {
			return i
		}
	}
	return -1
}

func checkComparisonToSingleton(r *run, ll *logicalLine) []finding {
	var out []finding
	for _, m := range compareSingletonRegex.FindAllStringSubmatchIndex(ll.text, -1) {
		var singleton, op string
		var opStart int
		if m[2] >= 0 {
			singleton = ll.text[m[2]:m[3]]
			op, opStart = ll.text[m[4]:m[5]], m[4]
		} else {
			singleton = ll.text[m[8]:m[9]]
			op, opStart = ll.text[m[6]:m[7]], m[6]
		}
		same := op == "=="

		neg := "not "
		if same {
			neg = ""
		}
		msg := fmt.Sprintf("'if cond is %s%s:'", neg, singleton)
		code := "E711"
		if singleton != "None" {
			code = "E712"
			nonzero := (singleton == "True" && same) || (singleton == "False" && !same)
			prefix := "not "
			if nonzero {
				prefix = ""
			}
			msg += fmt.Sprintf(" or 'if %scond:'", prefix)
		}
		out = append(out, atOffset(ll.byteToRune(opStart), code,
			fmt.Sprintf("comparison to %s should be %s", singleton, msg)))
	}
	return out
}

func checkComparisonNegative(r *run, ll *logicalLine) []finding {
	for _, m := range compareNegativeRegex.FindAllStringSubmatchIndex(ll.text, -1) {
		notStart := m[2]
		if notStart >= 3 {
			pre := ll.text[notStart-3 : notStart]
			if strings.HasPrefix(pre, "is") && isWhitespaceRune(rune(pre[2])) {
				continue
			}
		}
		offset := ll.byteToRune(notStart)
		if ll.text[m[4]:m[5]] == "in" {
			return []finding{atOffset(offset, "E713", "test for membership should be 'not in'")}
		}
		return []finding{atOffset(offset, "E714", "test for object identity should be 'is not'")}
	}
	return nil
}

func checkBareExcept(r *run, ll *logicalLine) []finding {
	if bareExceptRegex.MatchString(ll.text) {
		return []finding{atOffset(0, "E722", "do not use bare 'except'")}
	}
	return nil
}

// checkAmbiguousIdentifier flags l, O, and I as variable, class, or function names.
func checkAmbiguousIdentifier(r *run, ll *logicalLine) []finding {
	var code []token
	for _, tok := range ll.tokens {
		if !tok.isSkip() && tok.typ != tokComment {
			code = append(code, tok)
		}
	}

	ambiguous := func(t token) bool {
		return t.typ == tokName && (t.text == "l" || t.text == "O" || t.text == "I")
	}

	var out []finding
	inDef := defRegex.MatchString(ll.text)
	depth := 0
	for i, tok := range code {
		var prev, next token
		if i > 0 {
			prev = code[i-1]
		}
		if i+1 < len(code) {
			next = code[i+1]
		}

		if tok.typ == tokOp {
			switch tok.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
			continue
		}
		if !ambiguous(tok) {
			continue
		}

		switch {
		case prev.text == "def":
			out = append(out, atPos(tok.start, "E743", fmt.Sprintf("ambiguous function definition '%s'", tok.text)))
		case prev.text == "class":
			out = append(out, atPos(tok.start, "E742", fmt.Sprintf("ambiguous class definition '%s'", tok.text)))
		case prev.text == "as" || prev.text == "for" || prev.text == "global" || prev.text == "nonlocal":
			out = append(out, atPos(tok.start, "E741", fmt.Sprintf("ambiguous variable name '%s'", tok.text)))
		case next.text == ":=":
			out = append(out, atPos(tok.start, "E741", fmt.Sprintf("ambiguous variable name '%s'", tok.text)))
		case depth == 0 && (next.text == "=" || (next.text == "," && i == 0)):
			out = append(out, atPos(tok.start, "E741", fmt.Sprintf("ambiguous variable name '%s'", tok.text)))
		case inDef && depth == 1 && (prev.text == "(" || prev.text == "," || prev.text == "*" || prev.text == "**"):
			out = append(out, atPos(tok.start, "E741", fmt.Sprintf("ambiguous variable name '%s'", tok.text)))
		}
	}
	return out
}

// =============================================================================
// W6 DEPRECATIONS
// =============================================================================

var validEscapes = "\n\\'\"abfnrtv01234567xNuU"

func checkInvalidEscape(r *run, ll *logicalLine) []finding {
	var out []finding
	for _, tok := range ll.tokens {
		if tok.typ != tokString {
			continue
		}
		rs := []rune(tok.text)
		quote := string(rs[len(rs)-1])
		if strings.HasSuffix(tok.text, strings.Repeat(quote, 3)) && len(rs) >= 6 {
			quote = strings.Repeat(quote, 3)
		}
		quotePos := strings.Index(tok.text, quote)
		prefix := strings.ToLower(tok.text[:quotePos])
		if strings.Contains(prefix, "r") {
			continue
		}
		bodyStart := runeLen(tok.text[:quotePos]) + runeLen(quote)
		bodyEnd := len(rs) - runeLen(quote)
		if bodyEnd < bodyStart {
			continue
		}

		row, col := tok.start.row, tok.start.col+bodyStart
		for i := bodyStart; i < bodyEnd; i++ {
			c := rs[i]
			if c == '\\' && i+1 < bodyEnd {
				esc := rs[i+1]
				if !strings.ContainsRune(validEscapes, esc) {
					out = append(out, atPos(position{row, col}, "W605", fmt.Sprintf("invalid escape sequence '\\%c'", esc)))
				}
				if esc == '\n' {
					row++
					col = 0
				} else {
					col += 2
				}
				i++
				continue
			}
			if c == '\n' {
				row++
				col = 0
				continue
			}
			col++
		}
	}
	return out
}
