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

import "math"

// Thresholds and weights for structure scoring.
const (
	// DeepNestingLevel is the level above which a control structure counts
	// as nested.
	DeepNestingLevel = 2

	// LongFunctionLines is the length above which a function counts as long.
	LongFunctionLines = 50

	// MinHandlersForComplexTry is the handler count above which a try
	// statement counts as a complex expression.
	MinHandlersForComplexTry = 2

	weightNested     = 2.0
	weightExpression = 1.5
	weightLong       = 1.0
	weightCognitive  = 0.5
)

// StructureMetrics summarizes control-flow structure.
type StructureMetrics struct {
	// NestedStructures counts if, for, while and try at nesting level > 2.
	NestedStructures int `json:"nested_structures" yaml:"nested_structures"`

	// ComplexExpressions counts if tests using and/or, plus try statements
	// with more than two except clauses.
	ComplexExpressions int `json:"complex_expressions" yaml:"complex_expressions"`

	// LongFunctions counts function definitions spanning more than 50 lines.
	LongFunctions int `json:"long_functions" yaml:"long_functions"`

	// CognitiveComplexity is the sum of the nesting level of every
	// control structure.
	CognitiveComplexity int `json:"cognitive_complexity" yaml:"cognitive_complexity"`
}

// Add accumulates o into m.
func (m *StructureMetrics) Add(o StructureMetrics) {
	m.NestedStructures += o.NestedStructures
	m.ComplexExpressions += o.ComplexExpressions
	m.LongFunctions += o.LongFunctions
	m.CognitiveComplexity += o.CognitiveComplexity
}

// Score returns 100 minus the weighted penalty, floored at 0 and rounded
// to two decimals.
func (m StructureMetrics) Score() float64 {
	penalty := float64(m.NestedStructures)*weightNested +
		float64(m.ComplexExpressions)*weightExpression +
		float64(m.LongFunctions)*weightLong +
		float64(m.CognitiveComplexity)*weightCognitive
	return math.Round(math.Max(0, 100-penalty)*100) / 100
}

// MeasureStructure walks the tree rooted at root and returns its metrics.
//
// Nesting follows Python's own tree: each elif is nested one level deeper
// than the branch before it, and an else after an elif chain sits at the
// level of the last elif. Function and class bodies do not reset nesting.
func MeasureStructure(root *Node) StructureMetrics {
	var w structureWalker
	w.visit(root, 0)
	return w.m
}

type structureWalker struct {
	m StructureMetrics
}

func (w *structureWalker) enter(level int) {
	if level > DeepNestingLevel {
		w.m.NestedStructures++
	}
	w.m.CognitiveComplexity += level
}

func (w *structureWalker) visit(n *Node, level int) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindIf:
		w.visitIf(n, level+1)
		return
	case KindFor:
		if !n.Async {
			level++
			w.enter(level)
		}
	case KindWhile:
		level++
		w.enter(level)
	case KindTry:
		level++
		w.enter(level)
		if n.Handlers > MinHandlersForComplexTry {
			w.m.ComplexExpressions++
		}
	case KindFunctionDef:
		if !n.Async && n.EndLine-n.StartLine+1 > LongFunctionLines {
			w.m.LongFunctions++
		}
	}
	w.visitChildren(n, level)
}

func (w *structureWalker) visitIf(n *Node, level int) {
	w.enter(level)
	if n.BoolTest {
		w.m.ComplexExpressions++
	}
	depth := level
	for _, c := range n.Children {
		switch {
		case c.Kind == KindElif:
			depth++
			w.enter(depth)
			if c.BoolTest {
				w.m.ComplexExpressions++
			}
			w.visitChildren(c, depth)
		case c.Type == "else_clause":
			w.visitChildren(c, depth)
		default:
			w.visit(c, level)
		}
	}
}

func (w *structureWalker) visitChildren(n *Node, level int) {
	for _, c := range n.Children {
		w.visit(c, level)
	}
}
