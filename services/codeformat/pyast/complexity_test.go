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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountComplexity(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"empty", "", 0},
		{"plain statements", "x = 1\nprint(x)\n", 0},
		{
			"if for try def",
			"if x:\n    pass\nfor i in y:\n    pass\ntry:\n    pass\nexcept E:\n    pass\ndef f():\n    pass\n",
			4,
		},
		{"elif counts as if", "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n", 2},
		{"while", "while x:\n    x -= 1\n", 1},
		{
			"comprehensions",
			"a = [x for x in y]\nb = {k: v for k, v in z}\nc = {x for x in y}\nd = (x for x in y)\n",
			3,
		},
		{"nested each counted", "class A:\n    def m(self):\n        return [i for i in self]\n", 3},
		{"async not counted", "async def f():\n    async for x in y:\n        pass\n", 0},
		{"lambda and ternary not counted", "while x:\n    f = lambda: 1 if y else 2\n", 1},
		{"with not counted", "with open(p) as f:\n    pass\n", 0},
		{"decorated def", "@dec\ndef f():\n    pass\n", 1},
		{"comprehension filter not counted", "a = [x for x in y if x]\n", 1},
		{"match not counted", "match cmd:\n    case 1:\n        pass\n    case _:\n        pass\n", 0},
		{"except star not counted", "try:\n    pass\nexcept* ValueError:\n    pass\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			assert.Equal(t, tt.want, CountComplexity(tree.Root))
		})
	}
}

func TestCountComplexity_Nil(t *testing.T) {
	assert.Equal(t, 0, CountComplexity(nil))
}

func TestMeasureStructure(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   StructureMetrics
	}{
		{"empty", "", StructureMetrics{}},
		{
			"deep nesting",
			"for a in b:\n    for c in d:\n        if e:\n            while f:\n                pass\n",
			StructureMetrics{NestedStructures: 2, CognitiveComplexity: 10},
		},
		{
			"boolean tests",
			"if a and b:\n    pass\nelif (c or d):\n    pass\n",
			StructureMetrics{ComplexExpressions: 2, CognitiveComplexity: 3},
		},
		{
			"many handlers",
			"try:\n    pass\nexcept A:\n    pass\nexcept B:\n    pass\nexcept C:\n    pass\n",
			StructureMetrics{ComplexExpressions: 1, CognitiveComplexity: 1},
		},
		{
			"two handlers",
			"try:\n    pass\nexcept A:\n    pass\nexcept B:\n    pass\n",
			StructureMetrics{CognitiveComplexity: 1},
		},
		{
			"elif chain nests",
			"if a:\n    pass\nelif b:\n    pass\nelif c:\n    pass\nelse:\n    if d:\n        pass\n",
			StructureMetrics{NestedStructures: 2, CognitiveComplexity: 10},
		},
		{
			"siblings share a level",
			"if a:\n    pass\nif b:\n    pass\n",
			StructureMetrics{CognitiveComplexity: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			assert.Equal(t, tt.want, MeasureStructure(tree.Root))
		})
	}
}

func TestMeasureStructure_LongFunctions(t *testing.T) {
	def := func(bodyLines int) string {
		return "def f():\n" + strings.Repeat("    pass\n", bodyLines)
	}

	short := mustParse(t, def(49))
	assert.Equal(t, 0, MeasureStructure(short.Root).LongFunctions)

	long := mustParse(t, def(50))
	assert.Equal(t, 1, MeasureStructure(long.Root).LongFunctions)
}

func TestStructureMetrics_Score(t *testing.T) {
	assert.Equal(t, 100.0, StructureMetrics{}.Score())
	assert.Equal(t, 95.0, StructureMetrics{1, 1, 1, 1}.Score())
	assert.Equal(t, 96.5, StructureMetrics{CognitiveComplexity: 7}.Score())
	assert.Equal(t, 0.0, StructureMetrics{NestedStructures: 60}.Score())
}

func TestStructureMetrics_Add(t *testing.T) {
	m := StructureMetrics{1, 2, 3, 4}
	m.Add(StructureMetrics{1, 1, 1, 1})
	assert.Equal(t, StructureMetrics{2, 3, 4, 5}, m)
}

func TestMeasureDocumentation(t *testing.T) {
	source := "# top\n" +
		"class A:\n" +
		"    \"\"\"Doc.\"\"\"\n" +
		"    def m(self):  # note\n" +
		"        pass\n" +
		"\n" +
		"async def g():\n" +
		"    '''x'''\n" +
		"\n" +
		"def h():\n" +
		"    f'{x}'\n"

	tree := mustParse(t, source)
	got := MeasureDocumentation(tree.Root)

	assert.Equal(t, DocumentationMetrics{CommentLines: 2, Definitions: 3, Documented: 1}, got)
}

func TestMeasureDocumentation_StringStatements(t *testing.T) {
	source := "def a():\n    'x' 'y'\n\n" +
		"def b():\n    x = 'not a docstring'\n\n" +
		"def c():\n    ('x', 'y')\n\n" +
		"def d():\n    return 'x'\n"

	tree := mustParse(t, source)
	got := MeasureDocumentation(tree.Root)

	assert.Equal(t, DocumentationMetrics{Definitions: 4, Documented: 1}, got)
}

func TestMeasureDocumentation_CommentBeforeDocstring(t *testing.T) {
	tree := mustParse(t, "def f():\n    # why\n    \"\"\"Doc.\"\"\"\n    return 1\n")
	got := MeasureDocumentation(tree.Root)
	assert.Equal(t, DocumentationMetrics{CommentLines: 1, Definitions: 1, Documented: 1}, got)
}
