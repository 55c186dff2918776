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
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/notebook"
	"github.com/AleutianAI/nbinspect/services/server"
)

// CurrentConfigVersion is written into new config files.
const CurrentConfigVersion = "1"

var validate = validator.New()

// NBInspectConfig is the on-disk CLI configuration.
type NBInspectConfig struct {
	Meta MetaConfig `yaml:"meta"`

	// Style: rule selection and line limit for the style checker
	Style StyleConfig `yaml:"style"`

	// Discovery: which files a directory argument expands to
	Discovery DiscoveryConfig `yaml:"discovery"`

	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

type StyleConfig struct {
	MaxLineLength int      `yaml:"max_line_length" validate:"min=20,max=1000"`
	Select        []string `yaml:"select,omitempty" validate:"omitempty,dive,alphanum,max=8"`
	Ignore        []string `yaml:"ignore,omitempty" validate:"omitempty,dive,alphanum,max=8"`
}

type DiscoveryConfig struct {
	IgnorePatterns []string `yaml:"ignore_patterns"`
	Extensions     []string `yaml:"extensions" validate:"dive,startswith=."`
}

type OutputConfig struct {
	// Format is text, json or yaml.
	Format string `yaml:"format" validate:"oneof=text json yaml"`

	// Personality is full or machine. Empty means detect from the terminal.
	Personality string `yaml:"personality,omitempty" validate:"omitempty,oneof=full machine"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir,omitempty"`
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=otlp jaeger stdout none"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`
	OTLPEndpoint   string `yaml:"otlp_endpoint,omitempty"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

type ServerConfig struct {
	Host      string  `yaml:"host,omitempty"`
	Port      int     `yaml:"port" validate:"min=1,max=65535"`
	RateLimit float64 `yaml:"rate_limit" validate:"gt=0"`
	Burst     int     `yaml:"burst" validate:"min=1"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() NBInspectConfig {
	return NBInspectConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Style: StyleConfig{
			MaxLineLength: style.DefaultMaxLineLength,
		},
		Discovery: DiscoveryConfig{
			IgnorePatterns: append([]string(nil), notebook.DefaultIgnorePatterns...),
			Extensions:     append([]string(nil), notebook.DefaultExtensions...),
		},
		Output: OutputConfig{Format: "text"},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
		},
		Server: ServerConfig{
			Port:      server.DefaultPort,
			RateLimit: server.DefaultRateLimit,
			Burst:     server.DefaultBurst,
		},
	}
}

// Validate checks field constraints.
func (c *NBInspectConfig) Validate() error {
	return validate.Struct(c)
}

// StyleOptions converts the style section into checker options.
func (c *NBInspectConfig) StyleOptions() []style.Option {
	opts := []style.Option{style.WithMaxLineLength(c.Style.MaxLineLength)}
	if len(c.Style.Select) > 0 {
		opts = append(opts, style.WithSelect(c.Style.Select...))
	}
	if len(c.Style.Ignore) > 0 {
		opts = append(opts, style.WithIgnore(c.Style.Ignore...))
	}
	return opts
}
