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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/nbinspect/pkg/ux"
	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/server"
)

func newRulesCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the style rules and whether the current config enables them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			checker := style.NewChecker(a.cfg.StyleOptions()...)
			resp := server.NewRulesResponse(checker)

			w := cmd.OutOrStdout()
			switch format {
			case FormatJSON:
				return OutputJSON(w, resp)
			case FormatYAML:
				return OutputYAML(w, resp)
			case FormatText:
				return writeRulesText(cmd, resp)
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format (text|json|yaml)")
	return cmd
}

func writeRulesText(cmd *cobra.Command, resp server.RulesResponse) error {
	p := ux.NewPainter(ux.DetectLevel(cmd.OutOrStdout()))
	var b strings.Builder
	fmt.Fprintf(&b, "%s (max line length %d)\n", p.Paint(ux.Styles.Title, "Style rules"), resp.MaxLineLength)
	for _, r := range resp.Rules {
		icon := ux.IconSuccess
		if !r.Enabled {
			icon = ux.IconPending
		}
		fmt.Fprintf(&b, "%s %s  %-8s  %s\n", p.Icon(icon), p.Paint(ux.Styles.Highlight, r.Code), r.Kind, r.Description)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
