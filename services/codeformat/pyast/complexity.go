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

// IsComplex reports whether n counts toward a cell's complex-line total.
//
// Counted: if and elif, for, while, try, def, class, and list, dict and
// set comprehensions. Async loops and functions, try blocks with except*
// handlers, generator expressions, lambdas and conditional expressions are
// not counted.
func (n *Node) IsComplex() bool {
	switch n.Kind {
	case KindIf, KindElif, KindWhile, KindTry, KindClassDef,
		KindListComp, KindDictComp, KindSetComp:
		return true
	case KindFor, KindFunctionDef:
		return !n.Async
	default:
		return false
	}
}

// CountComplexity returns the number of complex nodes in the tree rooted
// at root. Nested constructs are each counted once.
func CountComplexity(root *Node) int {
	count := 0
	Walk(root, func(n *Node) bool {
		if n.IsComplex() {
			count++
		}
		return true
	})
	return count
}
