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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/nbinspect/cmd/nbinspect/config"
	"github.com/AleutianAI/nbinspect/pkg/logging"
	"github.com/AleutianAI/nbinspect/services/telemetry"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	// Global flags
	configPath string
	logLevel   string
	logJSON    bool

	cfg      config.NBInspectConfig
	logger   *logging.Logger
	shutdown func(context.Context) error
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nbinspect",
		Short: "Code-format analysis for notebook code cells",
		Long: `nbinspect checks the code cells of a notebook against Python style
rules and reports line-length and complexity metrics for the notebook.

Input is a cell document (JSON or YAML) listing the code cells:

  {"path": "analysis.ipynb", "code_cells": [{"source": "import os\n"}]}`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip setup for help and completion commands
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}
			// config init must work before a config file exists
			if cmd.Name() == "init" && cmd.HasParent() && cmd.Parent().Name() == "config" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ~/.nbinspect/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newRulesCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads the config, installs the logger and starts telemetry.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Logging.JSON = a.logJSON
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "nbinspect",
		JSON:    cfg.Logging.JSON,
		Output:  cmd.ErrOrStderr(),
	})
	a.logger.SetDefault()

	tcfg := telemetry.DefaultConfig()
	tcfg.ServiceVersion = Version
	tcfg.Writer = cmd.ErrOrStderr()
	if cfg.Telemetry.TraceExporter != "none" {
		tcfg.TraceExporter = cfg.Telemetry.TraceExporter
	}
	if cfg.Telemetry.MetricExporter != "none" {
		tcfg.MetricExporter = cfg.Telemetry.MetricExporter
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		tcfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
		tcfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	}
	shutdown, err := telemetry.Init(cmd.Context(), tcfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.shutdown = shutdown
	a.cfg = cfg

	slog.Debug("configuration loaded",
		"config", a.configPath,
		"trace_exporter", tcfg.TraceExporter,
		"metric_exporter", tcfg.MetricExporter,
	)
	return nil
}

// close flushes telemetry and the log file. Safe to call when setup
// never ran.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
		a.shutdown = nil
	}
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
