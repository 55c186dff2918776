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
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/nbinspect/cmd/nbinspect/config"
	"github.com/AleutianAI/nbinspect/pkg/ux"
	"github.com/AleutianAI/nbinspect/services/codeformat"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/notebook"
)

// analyzeOptions holds the analyze flags.
type analyzeOptions struct {
	format        string
	outputPath    string
	personality   string
	maxLineLength int
	selectCodes   []string
	ignoreCodes   []string
	jobs          int
	watch         bool
	debounce      time.Duration
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze notebook cell documents",
		Long: `Analyze one or more cell documents. A directory is searched for .json,
.yaml and .yml files, skipping checkpoint and cache directories.

Style violations are reported but do not change the exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "", "output format (text|json|yaml)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "write the report to a file instead of stdout")
	flags.StringVar(&opts.personality, "personality", "", "text styling (full|machine), detected from the terminal by default")
	flags.IntVar(&opts.maxLineLength, "max-line-length", 0, "E501 threshold")
	flags.StringSliceVar(&opts.selectCodes, "select", nil, "only report codes with these prefixes")
	flags.StringSliceVar(&opts.ignoreCodes, "ignore", nil, "skip codes with these prefixes (replaces the default ignore list)")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "notebooks analyzed in parallel")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-run when input files change")
	flags.DurationVar(&opts.debounce, "debounce", DefaultDebounceWindow, "quiet period before a watch re-run")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// applyFlags overlays the flags that were set on the loaded config.
func (o *analyzeOptions) applyFlags(cmd *cobra.Command, cfg config.NBInspectConfig) (config.NBInspectConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("personality") {
		cfg.Output.Personality = o.personality
	}
	if flags.Changed("max-line-length") {
		cfg.Style.MaxLineLength = o.maxLineLength
	}
	if flags.Changed("select") {
		cfg.Style.Select = o.selectCodes
	}
	if flags.Changed("ignore") {
		cfg.Style.Ignore = o.ignoreCodes
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid options: %w", err)
	}
	if o.jobs < 1 {
		return cfg, fmt.Errorf("--jobs must be at least 1, got %d", o.jobs)
	}
	return cfg, nil
}

// analysisRun is one configured analyze invocation.
type analysisRun struct {
	roots      []string
	discoverer *notebook.Discoverer
	analyzer   *codeformat.Analyzer
	jobs       int
	format     string
	outputPath string
	stdout     io.Writer
	level      ux.PersonalityLevel
	levelSet   bool
}

func (a *app) runAnalyze(cmd *cobra.Command, roots []string, opts *analyzeOptions) error {
	cfg, err := opts.applyFlags(cmd, a.cfg)
	if err != nil {
		return err
	}

	discoverer, err := notebook.NewDiscoverer(cfg.Discovery.IgnorePatterns, cfg.Discovery.Extensions)
	if err != nil {
		return err
	}

	run := &analysisRun{
		roots:      roots,
		discoverer: discoverer,
		analyzer: codeformat.NewAnalyzer(
			codeformat.WithChecker(style.NewChecker(cfg.StyleOptions()...)),
			codeformat.WithLogger(slog.Default()),
		),
		jobs:       opts.jobs,
		format:     cfg.Output.Format,
		outputPath: opts.outputPath,
		stdout:     cmd.OutOrStdout(),
		level:      ux.ParsePersonalityLevel(cfg.Output.Personality),
		levelSet:   cfg.Output.Personality != "",
	}

	ctx := cmd.Context()
	if !opts.watch {
		return run.once(ctx)
	}

	if err := run.once(ctx); err != nil {
		slog.Warn("initial analysis reported errors", "error", err)
	}
	w, err := newNotebookWatcher(roots, discoverer, opts.debounce, func(changed []string) {
		slog.Info("inputs changed, re-running analysis", "files", len(changed))
		if err := run.once(ctx); err != nil {
			slog.Warn("analysis reported errors", "error", err)
		}
	})
	if err != nil {
		return err
	}
	slog.Info("watching for changes", "roots", roots)
	return w.Run(ctx)
}

// once discovers, analyzes and writes one report.
//
// Description:
//
//	Files that fail to load are logged and skipped so the rest of the
//	report is still written. Their errors are returned joined afterwards.
func (r *analysisRun) once(ctx context.Context) error {
	runID := uuid.NewString()
	logger := slog.With("run_id", runID)
	start := time.Now()

	files, err := r.discoverer.Discover(r.roots)
	if err != nil {
		return err
	}
	logger.Debug("discovered notebooks", "count", len(files))

	results, loadErr := analyzeFiles(ctx, r.analyzer, files, r.jobs, logger)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.write(results); err != nil {
		return err
	}

	logger.Info("analysis complete",
		"notebooks", len(results),
		"failed", len(files)-len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return loadErr
}

func (r *analysisRun) write(results []*codeformat.AnalysisResult) (err error) {
	w := r.stdout
	if r.outputPath != "" {
		f, cerr := os.Create(r.outputPath)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	level := r.level
	if !r.levelSet {
		level = ux.DetectLevel(w)
	}
	return writeReport(w, r.format, ux.NewPainter(level), results)
}

// analyzeFiles loads and analyzes files with at most jobs in flight.
//
// Outputs:
//
//	[]*codeformat.AnalysisResult - Results in file order, without the
//	                               files that failed to load.
//	error - The joined load errors, or nil.
func analyzeFiles(ctx context.Context, analyzer *codeformat.Analyzer, files []string, jobs int, logger *slog.Logger) ([]*codeformat.AnalysisResult, error) {
	results := make([]*codeformat.AnalysisResult, len(files))
	loadErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := notebook.LoadFile(path)
			if err != nil {
				logger.Warn("failed to load notebook", "notebook", path, "error", err)
				loadErrs[i] = err
				return nil
			}
			results[i] = analyzer.Analyze(gctx, content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*codeformat.AnalysisResult, 0, len(files))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out, errors.Join(loadErrs...)
}
