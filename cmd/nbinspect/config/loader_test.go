// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".nbinspect", "config.yaml")

	require.NoError(t, WriteDefault(configPath, false))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var cfg NBInspectConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, CurrentConfigVersion, cfg.Meta.Version)
	assert.Equal(t, 79, cfg.Style.MaxLineLength)
	assert.Equal(t, "text", cfg.Output.Format)

	err = WriteDefault(configPath, false)
	assert.Error(t, err, "existing file must not be overwritten")
	assert.NoError(t, WriteDefault(configPath, true))
}

func TestLoad_ExplicitFileOverridesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
style:
  max_line_length: 100
  ignore: [E2, W291]
output:
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Style.MaxLineLength)
	assert.Equal(t, []string{"E2", "W291"}, cfg.Style.Ignore)
	assert.Equal(t, "json", cfg.Output.Format)
	// untouched sections keep their defaults
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, 12300, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "style: [unclosed"},
		{"bad format", "output:\n  format: html\n"},
		{"bad line length", "style:\n  max_line_length: 5\n"},
		{"bad exporter", "telemetry:\n  trace_exporter: zipkin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))
			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}
