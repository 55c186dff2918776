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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/nbinspect/services/codeformat/style"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{`\.ipynb_checkpoints`, `__pycache__`, `\.git`}, cfg.Discovery.IgnorePatterns)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NBInspectConfig)
	}{
		{"select code too long", func(c *NBInspectConfig) { c.Style.Select = []string{"E123456789"} }},
		{"ignore code not alphanumeric", func(c *NBInspectConfig) { c.Style.Ignore = []string{"E-1"} }},
		{"extension without dot", func(c *NBInspectConfig) { c.Discovery.Extensions = []string{"json"} }},
		{"personality", func(c *NBInspectConfig) { c.Output.Personality = "loud" }},
		{"log level", func(c *NBInspectConfig) { c.Logging.Level = "trace" }},
		{"port", func(c *NBInspectConfig) { c.Server.Port = 70000 }},
		{"rate", func(c *NBInspectConfig) { c.Server.RateLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStyleOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.MaxLineLength = 100
	cfg.Style.Ignore = []string{"E2"}

	checker := style.NewChecker(cfg.StyleOptions()...)
	assert.Equal(t, 100, checker.MaxLineLength())
	assert.False(t, checker.Enabled("E225"))
	assert.True(t, checker.Enabled("E501"))
}
