// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/nbinspect/services/codeformat"
	"github.com/AleutianAI/nbinspect/services/server"
)

const demoNotebook = `{
  "path": "demo.ipynb",
  "code_cells": [
    {"source": "x = 1\n"},
    {"source": ["if x:\n", "    y = 2\n"]},
    {"source": "import os, sys\n"},
    {"source": "   "}
  ]
}`

// runCLI executes the CLI with an isolated home directory.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	var out, errb bytes.Buffer
	code = execute(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// Root Command Tests
// =============================================================================

func TestVersionCommand(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "nbinspect dev")
}

func TestHelpCommand(t *testing.T) {
	code, out, _ := runCLI(t, "--help")
	assert.Equal(t, CLIExitSuccess, code)
	for _, expected := range []string{"analyze", "rules", "serve", "config", "version"} {
		assert.Contains(t, out, expected)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "frobnicate")
	assert.Equal(t, CLIExitError, code)
	assert.Contains(t, errOut, "Error:")
}

// =============================================================================
// Analyze Command Tests
// =============================================================================

func TestAnalyze_JSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "demo.json"), demoNotebook)

	code, out, _ := runCLI(t, "analyze", "--format", "json", path)
	require.Equal(t, CLIExitSuccess, code)

	var res codeformat.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "demo.ipynb", res.NotebookPath)
	assert.Equal(t, []string{"E401 multiple imports on one line at line 1"}, res.PEP8Violations)
	assert.Equal(t, 7, res.CodeStyleMetrics.TotalLines)
	assert.Equal(t, 1, res.CodeStyleMetrics.ComplexLines)
	assert.Equal(t, 14, res.CodeStyleMetrics.MaxLineLength)
	assert.Equal(t, 0, res.CodeStyleMetrics.LinesOverLimit)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, 2, res.Violations[0].Cell)
}

func TestAnalyze_ViolationsDoNotFailRun(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "long.json"),
		`{"code_cells":[{"source":"x = '`+strings.Repeat("a", 100)+`'\n"}]}`)

	code, out, _ := runCLI(t, "analyze", "-f", "json", path)
	assert.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "E501")
}

func TestAnalyze_YAML(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "demo.json"), demoNotebook)

	code, out, _ := runCLI(t, "analyze", "--format", "yaml", path)
	require.Equal(t, CLIExitSuccess, code)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "demo.ipynb", doc["notebook_path"])
	metrics, ok := doc["code_style_metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 7, metrics["total_lines"])
}

func TestAnalyze_Text(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "demo.json"), demoNotebook)

	code, out, _ := runCLI(t, "analyze", path)
	require.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "demo.ipynb")
	assert.Contains(t, out, "E401 multiple imports on one line (cell 2, line 1, col 10)")
	assert.Contains(t, out, "by type: E4=1")
	assert.Contains(t, out, "1 notebooks  1 violations")
}

func TestAnalyze_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yaml"), "code_cells:\n  - source: \"x = 1\\n\"\n")
	writeFile(t, filepath.Join(dir, "a.json"), `{"code_cells":[{"source":"y = 2\n"}]}`)
	writeFile(t, filepath.Join(dir, ".ipynb_checkpoints", "a.json"), `{"code_cells":[]}`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a notebook")

	code, out, _ := runCLI(t, "analyze", "--format", "json", "--jobs", "2", dir)
	require.Equal(t, CLIExitSuccess, code)

	var results []codeformat.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "a.json"), results[0].NotebookPath)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), results[1].NotebookPath)
}

func TestAnalyze_LoadErrorExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.json"), `{"code_cells":[{"source":"x = 1\n"}]}`)
	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{"code_cells":`)

	code, out, errOut := runCLI(t, "analyze", "--format", "json", good, bad)
	assert.Equal(t, CLIExitError, code)
	assert.Contains(t, errOut, "bad.json")

	// the notebook that loaded is still reported
	var res codeformat.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, good, res.NotebookPath)
}

func TestAnalyze_MissingPath(t *testing.T) {
	code, _, errOut := runCLI(t, "analyze", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, CLIExitError, code)
	assert.Contains(t, errOut, "missing.json")
}

func TestAnalyze_NoArgs(t *testing.T) {
	code, _, _ := runCLI(t, "analyze")
	assert.Equal(t, CLIExitError, code)
}

func TestAnalyze_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, filepath.Join(dir, "config.yaml"), "output:\n  format: yaml\nstyle:\n  max_line_length: 120\n")
	path := writeFile(t, filepath.Join(dir, "long.json"),
		`{"code_cells":[{"source":"x = '`+strings.Repeat("a", 90)+`'\n"}]}`)

	// config alone: yaml output and a 120 limit, so no E501
	code, out, _ := runCLI(t, "--config", cfgPath, "analyze", path)
	require.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "notebook_path:")
	assert.NotContains(t, out, "E501")

	// flags win
	code, out, _ = runCLI(t, "--config", cfgPath, "analyze", "-f", "json", "--max-line-length", "80", path)
	require.Equal(t, CLIExitSuccess, code)
	var res codeformat.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "E501", res.Violations[0].Code)
	// the lexical threshold does not follow the checker
	assert.Equal(t, 1, res.CodeStyleMetrics.LinesOverLimit)
}

func TestAnalyze_SelectAndIgnore(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "demo.json"),
		`{"code_cells":[{"source":"import os, sys\nx=1 \n"}]}`)

	tests := []struct {
		name  string
		flags []string
		want  []string
	}{
		{"defaults", nil, []string{"E401", "E225", "W291"}},
		{"select E4", []string{"--select", "E4"}, []string{"E401"}},
		{"ignore E2,W2", []string{"--ignore", "E2,W2"}, []string{"E401"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"analyze", "-f", "json"}, tt.flags...)
			code, out, _ := runCLI(t, append(args, path)...)
			require.Equal(t, CLIExitSuccess, code)

			var res codeformat.AnalysisResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			var codes []string
			for _, v := range res.Violations {
				codes = append(codes, v.Code)
			}
			assert.ElementsMatch(t, tt.want, codes)
		})
	}
}

func TestAnalyze_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "demo.json"), demoNotebook)
	outPath := filepath.Join(dir, "report.json")

	code, out, _ := runCLI(t, "analyze", "-f", "json", "-o", outPath, path)
	require.Equal(t, CLIExitSuccess, code)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notebook_path": "demo.ipynb"`)
}

func TestAnalyze_InvalidOptions(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "demo.json"), demoNotebook)

	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "html"}},
		{"line length", []string{"--max-line-length", "3"}},
		{"jobs", []string{"--jobs", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"analyze"}, tt.args...)
			code, _, _ := runCLI(t, append(args, path)...)
			assert.Equal(t, CLIExitError, code)
		})
	}
}

// =============================================================================
// Other Command Tests
// =============================================================================

func TestRulesCommand_JSON(t *testing.T) {
	code, out, _ := runCLI(t, "rules", "--format", "json")
	require.Equal(t, CLIExitSuccess, code)

	var resp server.RulesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 79, resp.MaxLineLength)

	enabled := map[string]bool{}
	for _, r := range resp.Rules {
		enabled[r.Code] = r.Enabled
	}
	assert.True(t, enabled["E501"])
	assert.False(t, enabled["E226"], "E226 is in the default ignore list")
}

func TestRulesCommand_Text(t *testing.T) {
	code, out, _ := runCLI(t, "rules")
	require.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "Style rules (max line length 79)")
	assert.Contains(t, out, "E401")
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nb", "config.yaml")

	code, out, _ := runCLI(t, "--config", cfgPath, "config", "init")
	require.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, cfgPath)

	code, _, _ = runCLI(t, "--config", cfgPath, "config", "init")
	assert.Equal(t, CLIExitError, code, "init refuses to overwrite")

	code, out, _ = runCLI(t, "--config", cfgPath, "config", "show")
	require.Equal(t, CLIExitSuccess, code)
	assert.Contains(t, out, "max_line_length: 79")
}

func TestBadConfigFails(t *testing.T) {
	cfgPath := writeFile(t, filepath.Join(t.TempDir(), "config.yaml"), "output:\n  format: html\n")
	code, _, errOut := runCLI(t, "--config", cfgPath, "rules")
	assert.Equal(t, CLIExitError, code)
	assert.Contains(t, errOut, "invalid config")
}
