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
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/nbinspect/services/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host  string
		port  int
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve the analysis API:

  POST /v1/codeformat/analyze
  GET  /v1/codeformat/rules
  GET  /v1/health
  GET  /metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			cfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			return server.Run(cmd.Context(), server.Config{
				Host:         cfg.Host,
				Port:         cfg.Port,
				RateLimit:    cfg.RateLimit,
				Burst:        cfg.Burst,
				StyleOptions: a.cfg.StyleOptions(),
				Version:      Version,
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "interface to bind (default: all)")
	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "TCP port")
	cmd.Flags().BoolVar(&debug, "debug", false, "run gin in debug mode")
	return cmd
}
