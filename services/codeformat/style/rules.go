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

import "sort"

// RuleKind says what a rule inspects.
type RuleKind string

const (
	// KindPhysical rules look at one physical line.
	KindPhysical RuleKind = "physical"

	// KindLogical rules look at one statement joined across lines.
	KindLogical RuleKind = "logical"
)

// Rule describes one code in the rule set.
type Rule struct {
	Code        string   `json:"code" yaml:"code"`
	Check       string   `json:"check" yaml:"check"`
	Kind        RuleKind `json:"kind" yaml:"kind"`
	Description string   `json:"description" yaml:"description"`
}

var physicalRules = []Rule{
	{"E101", "tabs_or_spaces", KindPhysical, "indentation contains mixed spaces and tabs"},
	{"W191", "tabs_obsolete", KindPhysical, "indentation contains tabs"},
	{"W291", "trailing_whitespace", KindPhysical, "trailing whitespace"},
	{"W293", "trailing_whitespace", KindPhysical, "whitespace on blank line"},
	{"W391", "trailing_blank_lines", KindPhysical, "blank line at end of file"},
	{"W292", "trailing_blank_lines", KindPhysical, "no newline at end of file"},
	{"E501", "maximum_line_length", KindPhysical, "line too long (N > M characters)"},
}

var logicalDescriptions = map[string]string{
	"E111": "indentation is not a multiple of 4",
	"E112": "expected an indented block",
	"E113": "unexpected indentation",
	"E114": "indentation is not a multiple of 4 (comment)",
	"E115": "expected an indented block (comment)",
	"E116": "unexpected indentation (comment)",
	"E117": "over-indented",
	"E201": "whitespace after '('",
	"E202": "whitespace before ')'",
	"E203": "whitespace before ':'",
	"E211": "whitespace before '('",
	"E225": "missing whitespace around operator",
	"E226": "missing whitespace around arithmetic operator",
	"E227": "missing whitespace around bitwise or shift operator",
	"E228": "missing whitespace around modulo operator",
	"E231": "missing whitespace after ','",
	"E251": "unexpected spaces around keyword / parameter equals",
	"E252": "missing whitespace around parameter equals",
	"E261": "at least two spaces before inline comment",
	"E262": "inline comment should start with '# '",
	"E265": "block comment should start with '# '",
	"E266": "too many leading '#' for block comment",
	"E301": "expected 1 blank line, found 0",
	"E302": "expected 2 blank lines, found N",
	"E303": "too many blank lines (N)",
	"E304": "blank lines found after function decorator (N)",
	"E305": "expected 2 blank lines after class or function definition, found N",
	"E306": "expected 1 blank line before a nested definition, found 0",
	"E401": "multiple imports on one line",
	"E701": "multiple statements on one line (colon)",
	"E702": "multiple statements on one line (semicolon)",
	"E703": "statement ends with a semicolon",
	"E704": "multiple statements on one line (def)",
	"E711": "comparison to None should be 'if cond is None:'",
	"E712": "comparison to True should be 'if cond is True:' or 'if cond:'",
	"E713": "test for membership should be 'not in'",
	"E714": "test for object identity should be 'is not'",
	"E722": "do not use bare 'except'",
	"E731": "do not assign a lambda expression, use a def",
	"E741": "ambiguous variable name 'l'",
	"E742": "ambiguous class definition 'I'",
	"E743": "ambiguous function definition 'l'",
	"W605": "invalid escape sequence '\\d'",
}

// Rules returns every rule sorted by code.
func Rules() []Rule {
	rules := append([]Rule(nil), physicalRules...)
	for _, check := range logicalChecks {
		for _, code := range check.codes {
			rules = append(rules, Rule{
				Code:        code,
				Check:       check.name,
				Kind:        KindLogical,
				Description: logicalDescriptions[code],
			})
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Code < rules[j].Code
	})
	return rules
}

// EnabledRules returns the rules this checker would report.
func (c *Checker) EnabledRules() []Rule {
	var out []Rule
	for _, rule := range Rules() {
		if c.Enabled(rule.Code) {
			out = append(out, rule)
		}
	}
	return out
}
