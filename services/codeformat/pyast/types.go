// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pyast parses Python source into a small typed syntax tree.
//
// Parsing is done with the tree-sitter Python grammar. The resulting Node
// tree keeps only named nodes, tagged with a NodeKind for the constructs the
// analyzers care about. Every other node is KindOther and still carries its
// tree-sitter type name.
//
// Sources that tree-sitter can only recover from (ERROR or MISSING nodes),
// indentation errors, and Python 2 statements or lexemes are rejected with
// ErrSyntax, so callers see the same accept/reject decision a Python 3
// compiler would make for common notebook mistakes such as shell escapes
// and magics.
package pyast

// NodeKind identifies the syntactic construct a Node represents.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindModule
	KindIf
	KindElif
	KindFor
	KindWhile
	KindTry
	KindTryStar
	KindFunctionDef
	KindClassDef
	KindListComp
	KindDictComp
	KindSetComp
	KindComment
	KindBlock
	KindExpressionStatement
	KindString
)

var kindNames = map[NodeKind]string{
	KindOther:               "other",
	KindModule:              "module",
	KindIf:                  "if",
	KindElif:                "elif",
	KindFor:                 "for",
	KindWhile:               "while",
	KindTry:                 "try",
	KindTryStar:             "try_star",
	KindFunctionDef:         "function_def",
	KindClassDef:            "class_def",
	KindListComp:            "list_comp",
	KindDictComp:            "dict_comp",
	KindSetComp:             "set_comp",
	KindComment:             "comment",
	KindBlock:               "block",
	KindExpressionStatement: "expression_statement",
	KindString:              "string",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// kindByType maps tree-sitter node types to kinds. Types that need more
// context (async, except groups) are refined in convert.
var kindByType = map[string]NodeKind{
	"module":                   KindModule,
	"if_statement":             KindIf,
	"elif_clause":              KindElif,
	"for_statement":            KindFor,
	"while_statement":          KindWhile,
	"try_statement":            KindTry,
	"function_definition":      KindFunctionDef,
	"class_definition":         KindClassDef,
	"list_comprehension":       KindListComp,
	"dictionary_comprehension": KindDictComp,
	"set_comprehension":        KindSetComp,
	"comment":                  KindComment,
	"block":                    KindBlock,
	"expression_statement":     KindExpressionStatement,
	"string":                   KindString,
	"concatenated_string":      KindString,
}

// Node is one named node of the syntax tree.
type Node struct {
	// Kind is the construct this node represents.
	Kind NodeKind

	// Type is the tree-sitter node type, e.g. "if_statement".
	Type string

	// StartLine and EndLine are 1-based and inclusive.
	StartLine int
	EndLine   int

	// Async is set for "async def" and "async for".
	Async bool

	// Name is the identifier of a function or class definition.
	Name string

	// BoolTest is set for if/elif nodes whose condition is an and/or expression.
	BoolTest bool

	// Handlers is the number of except clauses of a try statement.
	Handlers int

	// Docstring is set for definitions whose body starts with a non-empty
	// string literal.
	Docstring bool

	// Children holds the named child nodes in source order.
	Children []*Node
}

// Tree is the result of a successful parse.
type Tree struct {
	// Root is the module node.
	Root *Node

	// Nodes is the total number of nodes in the tree.
	Nodes int
}

// Walk calls fn for n and each of its descendants in depth-first
// pre-order. When fn returns false the node's children are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
