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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *Tree {
	t.Helper()
	tree, err := NewParser().Parse(context.Background(), source)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func TestParse_Empty(t *testing.T) {
	tree := mustParse(t, "")
	assert.Equal(t, KindModule, tree.Root.Kind)
	assert.Empty(t, tree.Root.Children)
	assert.Equal(t, 1, tree.Nodes)
}

func TestParse_Kinds(t *testing.T) {
	tree := mustParse(t, "class A:\n    def m(self):\n        pass\n")

	var kinds []NodeKind
	var names []string
	Walk(tree.Root, func(n *Node) bool {
		if n.Kind != KindOther && n.Kind != KindBlock {
			kinds = append(kinds, n.Kind)
		}
		if n.Name != "" {
			names = append(names, n.Name)
		}
		return true
	})

	assert.Equal(t, []NodeKind{KindModule, KindClassDef, KindFunctionDef}, kinds)
	assert.Equal(t, []string{"A", "m"}, names)
}

func TestParse_LineRange(t *testing.T) {
	tree := mustParse(t, "x = 1\n\ndef f():\n    a = 1\n    return a\n")

	var def *Node
	Walk(tree.Root, func(n *Node) bool {
		if n.Kind == KindFunctionDef {
			def = n
		}
		return true
	})
	require.NotNil(t, def)
	assert.Equal(t, 3, def.StartLine)
	assert.Equal(t, 5, def.EndLine)
}

func TestParse_Async(t *testing.T) {
	tree := mustParse(t, "async def f():\n    async for x in y:\n        pass\n")

	var async int
	Walk(tree.Root, func(n *Node) bool {
		if n.Async {
			async++
		}
		return true
	})
	assert.Equal(t, 2, async)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unclosed parameters", "def f(:\n    pass\n"},
		{"unclosed bracket", "x = (1,\n"},
		{"line magic", "%matplotlib inline\n"},
		{"shell escape", "!pip install numpy\n"},
		{"python 2 print", "print 'hello'\n"},
		{"dangling operator", "x = 1 +\n"},
		{"missing indent after def", "def f():\nreturn 1\n"},
		{"unexpected indent", "if x:\n  a\n    b\n"},
		{"else dedented to unknown level", "if x:\n    a\n  else:\n    b\n"},
		{"header at end of source", "for i in y:\n"},
		{"tabs and spaces mixed", "if x:\n        a\n\tb\n"},
		{"not equal diamond", "x = a <> b\n"},
		{"octal without prefix", "x = 0777\n"},
		{"long suffix", "x = 10L\n"},
		{"ur string prefix", "x = ur\"text\"\n"},
		{"backquote repr", "x = `y`\n"},
		{"unterminated string", "s = 'oops\nx = 1\n"},
		{"raise with comma", "raise E, \"m\"\n"},
		{"delete call", "del f()\n"},
		{"non-default after default", "def f(a=1, b):\n    pass\n"},
		{"lambda non-default after default", "g = lambda a=1, b: a\n"},
		{"unpacking after keyword unpacking", "f(**k, *a)\n"},
		{"positional after keyword", "f(a=1, b)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewParser().Parse(context.Background(), tt.source)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.GreaterOrEqual(t, pe.Line, 1)
		})
	}
}

func TestParse_AcceptsValidForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"numbers", "a = 0.5 + .0777 + 00 + 0_0 + 1e-05 + 0x1F + 0o17 + 07.5 + 07j\n"},
		{"string prefixes", "a = rb'x' + Rb'y'\nb = u'z' + f'{a}' + fr'{a}'\n"},
		{"not equal", "x = 1 if a != b else 2\n"},
		{"hash in string", "s = '# not a comment:'\n"},
		{"one line body", "if x: pass\ny = 1\n"},
		{"comment after header", "if x:  # why\n    pass\n"},
		{"tab indented", "if x:\n\tpass\n"},
		{"dedent to outer level", "if a:\n    if b:\n        c\nelse:\n    d\n"},
		{"bracket continuation", "x = f(a,\n  b,\n        c)\n"},
		{"backslash continuation", "x = 1 + \\\n      2\n"},
		{"triple string body", "def f():\n    s = '''\nnot indented:\n'''\n    return s\n"},
		{"blank and comment lines", "def f():\n\n# note\n    return 1\n"},
		{"keyword only after star", "def f(a, b=1, *, c):\n    pass\n"},
		{"default before star args", "def f(a=1, *args, b, **kw):\n    pass\n"},
		{"annotated star args", "def f(a=1, *args: int):\n    pass\n"},
		{"call ordering", "f(a, *b, c=1, *d, **e)\nf(**k, c=2)\n"},
		{"delete targets", "del a, b[0], c.d, (e, [g])\n"},
		{"raise from", "raise E('m') from err\n"},
		{"dict slice colon", "x = {\n    'a':\n        1,\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(context.Background(), tt.source)
			assert.NoError(t, err)
		})
	}
}

func TestParse_IndentationErrorPosition(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "x = 1\ndef f():\nreturn 1\n")

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, 1, pe.Column)
	assert.Contains(t, pe.Error(), "expected an indented block")
}

func TestParse_Python3PrintCall(t *testing.T) {
	tree := mustParse(t, "print('hello')\n")
	assert.NotNil(t, tree.Root)
}

func TestParse_SourceTooLarge(t *testing.T) {
	_, err := NewParser(WithMaxSourceSize(4)).Parse(context.Background(), "x = 12\n")
	assert.True(t, errors.Is(err, ErrSourceTooLarge))
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "x = '\xff'\n")
	assert.True(t, errors.Is(err, ErrInvalidSource))
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().Parse(ctx, "x = 1\n")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLiteralBody(t *testing.T) {
	tests := []struct {
		lit    string
		want   string
		wantOK bool
	}{
		{`"""Doc."""`, "Doc.", true},
		{`'x'`, "x", true},
		{`r"raw"`, "raw", true},
		{`u'''text'''`, "text", true},
		{`f"{x}"`, "", false},
		{`b'bytes'`, "", false},
		{`Rb"x"`, "", false},
		{`""`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			got, ok := literalBody(tt.lit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "elif", KindElif.String())
	assert.Equal(t, "unknown", NodeKind(99).String())
}
