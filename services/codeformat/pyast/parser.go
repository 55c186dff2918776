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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxSourceSize bounds the size of a single source unit.
const DefaultMaxSourceSize = 1 << 20

// maxDepth stops the error search on pathologically nested trees; HasError
// on the root still rejects them.
const maxDepth = 1000

// python2Statements parse under the tree-sitter grammar but are rejected
// by Python 3.
var python2Statements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithMaxSourceSize sets the largest source, in bytes, Parse accepts.
func WithMaxSourceSize(bytes int) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxSourceSize = bytes
		}
	}
}

// Parser converts Python source into a Tree.
//
// Thread Safety:
//
//	Parser instances are safe for concurrent use. Each Parse call creates
//	its own tree-sitter parser.
type Parser struct {
	maxSourceSize int
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxSourceSize: DefaultMaxSourceSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses one unit of Python source.
//
// Description:
//
//	Runs the tree-sitter Python grammar over source and converts the
//	concrete tree into Nodes. Indentation errors and Python 2 lexemes
//	found by checkLexical, ERROR or MISSING nodes, Python 2 statements
//	and the forms in rejectedForm are reported as ErrSyntax.
//
// Inputs:
//
//	ctx - Context for cancellation. Checked before parsing.
//	source - Python source code.
//
// Outputs:
//
//	*Tree - The converted tree. Nil on error.
//	error - A *ParseError wrapping ErrSyntax, ErrSourceTooLarge,
//	        ErrInvalidSource, or the tree-sitter failure.
//
// Thread Safety: Safe for concurrent use.
func (p *Parser) Parse(ctx context.Context, source string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	ctx, span := startParseSpan(ctx, len(source))
	defer span.End()
	start := time.Now()

	tree, err := p.parse(ctx, source)
	setParseSpanResult(span, tree, err)
	recordParseMetrics(ctx, time.Since(start), err)
	if err != nil {
		slog.Debug("python parse rejected source", slog.String("error", err.Error()))
		return nil, err
	}
	return tree, nil
}

func (p *Parser) parse(ctx context.Context, source string) (*Tree, error) {
	if len(source) > p.maxSourceSize {
		return nil, &ParseError{Cause: fmt.Errorf("%w: size %d exceeds limit %d", ErrSourceTooLarge, len(source), p.maxSourceSize)}
	}
	if !utf8.ValidString(source) {
		return nil, &ParseError{Cause: ErrInvalidSource}
	}

	content := []byte(source)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	st, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, &ParseError{Cause: fmt.Errorf("tree-sitter parse failed: %w", err)}
	}
	defer st.Close()

	if perr := checkLexical(source); perr != nil {
		return nil, perr
	}

	root := st.RootNode()
	if root == nil {
		return nil, &ParseError{Cause: fmt.Errorf("%w: empty tree", ErrSyntax)}
	}
	bad := firstInvalid(root, 0)
	if bad == nil && root.HasError() {
		bad = root
	}
	if bad != nil {
		pos := bad.StartPoint()
		return nil, &ParseError{
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
			Cause:  fmt.Errorf("%w: unexpected %s", ErrSyntax, describe(bad)),
		}
	}

	count := 0
	return &Tree{Root: convert(root, content, &count), Nodes: count}, nil
}

// firstInvalid returns the first node in source order that makes the tree
// unacceptable, or nil.
func firstInvalid(n *sitter.Node, depth int) *sitter.Node {
	if n.IsError() || n.IsMissing() || python2Statements[n.Type()] || rejectedForm(n) {
		return n
	}
	if depth > maxDepth {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstInvalid(n.Child(i), depth+1); bad != nil {
			return bad
		}
	}
	return nil
}

// rejectedForm reports constructs the grammar accepts but Python 3 does
// not: 'raise E, msg', deleting a non-target, misordered parameters and
// misordered call arguments.
func rejectedForm(n *sitter.Node) bool {
	switch n.Type() {
	case "raise_statement":
		return n.NamedChildCount() > 0 && n.NamedChild(0).Type() == "expression_list"
	case "delete_statement":
		return n.NamedChildCount() > 0 && !deletable(n.NamedChild(0))
	case "parameters", "lambda_parameters":
		return !parametersOrdered(n)
	case "argument_list":
		return !argumentsOrdered(n)
	}
	return false
}

func deletable(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier", "attribute", "subscript":
		return true
	case "expression_list", "tuple", "list", "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() != "comment" && !deletable(c) {
				return false
			}
		}
		return true
	}
	return false
}

// parametersOrdered rejects a parameter without a default after one with
// a default, unless a '*' separator or *args came between them, and tuple
// parameters.
func parametersOrdered(params *sitter.Node) bool {
	seenDefault, starred := false, false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		typ := p.Type()
		if typ == "typed_parameter" && p.NamedChildCount() > 0 {
			if inner := p.NamedChild(0).Type(); inner == "list_splat_pattern" || inner == "dictionary_splat_pattern" {
				typ = inner
			}
		}
		switch typ {
		case "default_parameter", "typed_default_parameter":
			seenDefault = true
		case "identifier", "typed_parameter":
			if seenDefault && !starred {
				return false
			}
		case "list_splat_pattern", "keyword_separator", "dictionary_splat_pattern":
			starred = true
		case "tuple_pattern", "list_pattern":
			return false
		}
	}
	return true
}

// argumentsOrdered rejects positional arguments after keyword arguments
// or **kwargs, and *args after **kwargs.
func argumentsOrdered(args *sitter.Node) bool {
	seenKeyword, seenDictSplat := false, false
	for i := 0; i < int(args.NamedChildCount()); i++ {
		switch args.NamedChild(i).Type() {
		case "comment":
		case "keyword_argument":
			seenKeyword = true
		case "dictionary_splat":
			seenDictSplat = true
		case "list_splat", "parenthesized_list_splat":
			if seenDictSplat {
				return false
			}
		default:
			if seenKeyword || seenDictSplat {
				return false
			}
		}
	}
	return true
}

func describe(n *sitter.Node) string {
	switch {
	case n.IsMissing():
		return "end of input, missing " + n.Type()
	case n.IsError():
		return "token"
	default:
		return strings.ReplaceAll(n.Type(), "_", " ")
	}
}

// convert copies the named subtree rooted at n.
func convert(n *sitter.Node, src []byte, count *int) *Node {
	*count++

	typ := n.Type()
	start, end := n.StartPoint(), n.EndPoint()
	endLine := int(end.Row) + 1
	if end.Column == 0 && end.Row > start.Row {
		endLine = int(end.Row)
	}

	node := &Node{
		Kind:      kindByType[typ],
		Type:      typ,
		StartLine: int(start.Row) + 1,
		EndLine:   endLine,
	}

	switch node.Kind {
	case KindFor:
		node.Async = hasAsyncKeyword(n)
	case KindFunctionDef:
		node.Async = hasAsyncKeyword(n)
		node.Name = fieldContent(n, "name", src)
		node.Docstring = hasDocstring(n, src)
	case KindClassDef:
		node.Name = fieldContent(n, "name", src)
		node.Docstring = hasDocstring(n, src)
	case KindIf, KindElif:
		node.BoolTest = isBoolTest(n.ChildByFieldName("condition"))
	case KindTry:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			switch n.NamedChild(i).Type() {
			case "except_clause":
				node.Handlers++
			case "except_group_clause":
				node.Handlers++
				node.Kind = KindTryStar
			}
		}
	}

	nc := int(n.NamedChildCount())
	if nc > 0 {
		node.Children = make([]*Node, 0, nc)
		for i := 0; i < nc; i++ {
			node.Children = append(node.Children, convert(n.NamedChild(i), src, count))
		}
	}
	return node
}

func hasAsyncKeyword(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func fieldContent(n *sitter.Node, field string, src []byte) string {
	if c := n.ChildByFieldName(field); c != nil {
		return c.Content(src)
	}
	return ""
}

// isBoolTest reports whether cond is an and/or expression, looking
// through redundant parentheses.
func isBoolTest(cond *sitter.Node) bool {
	for cond != nil && cond.Type() == "parenthesized_expression" && cond.NamedChildCount() == 1 {
		cond = cond.NamedChild(0)
	}
	return cond != nil && cond.Type() == "boolean_operator"
}

// hasDocstring reports whether the body of a definition starts with a
// non-empty plain string literal.
func hasDocstring(def *sitter.Node, src []byte) bool {
	body := def.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch kindByType[stmt.Type()] {
		case KindComment:
			continue
		case KindExpressionStatement:
			return stmt.NamedChildCount() == 1 && isDocLiteral(stmt.NamedChild(0), src)
		default:
			return false
		}
	}
	return false
}

func isDocLiteral(n *sitter.Node, src []byte) bool {
	if kindByType[n.Type()] != KindString {
		return false
	}
	if n.Type() == "string" {
		body, ok := literalBody(n.Content(src))
		return ok && strings.TrimSpace(body) != ""
	}
	nonEmpty := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		if part.Type() != "string" {
			continue
		}
		body, ok := literalBody(part.Content(src))
		if !ok {
			return false
		}
		if strings.TrimSpace(body) != "" {
			nonEmpty = true
		}
	}
	return nonEmpty
}

// literalBody strips the prefix and quotes from a string literal. It
// returns false for bytes and f-strings, which are not docstrings.
func literalBody(lit string) (string, bool) {
	q := strings.IndexAny(lit, `'"`)
	if q < 0 {
		return "", false
	}
	if strings.ContainsAny(strings.ToLower(lit[:q]), "bf") {
		return "", false
	}
	rest := lit[q:]
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(rest) >= 2*len(quote) && strings.HasPrefix(rest, quote) && strings.HasSuffix(rest, quote) {
			return rest[len(quote) : len(rest)-len(quote)], true
		}
	}
	return "", false
}
