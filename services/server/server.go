// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/nbinspect/services/codeformat/style"
	"github.com/AleutianAI/nbinspect/services/telemetry"
)

// Defaults for Config.
const (
	DefaultPort           = 12300
	DefaultRateLimit      = 20.0
	DefaultBurst          = 40
	DefaultMaxBodyBytes   = 8 << 20
	DefaultShutdownPeriod = 10 * time.Second
)

// Config configures the HTTP service.
type Config struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string

	// Port is the TCP port. Default: 12300.
	Port int

	// RateLimit is the sustained requests per second. Default: 20.
	RateLimit float64

	// Burst is the number of requests allowed above RateLimit. Default: 40.
	Burst int

	// MaxBodyBytes caps request bodies. Default: 8 MiB.
	MaxBodyBytes int64

	// StyleOptions configure the default style checker.
	StyleOptions []style.Option

	// Version is reported by the health endpoint.
	Version string
}

func (c Config) withDefaults() Config {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	return c
}

// Addr returns the listen address.
func (c Config) Addr() string {
	c = c.withDefaults()
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RegisterRoutes registers the analysis endpoints on rg.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	codeformat := rg.Group("/codeformat")
	{
		codeformat.POST("/analyze", h.HandleAnalyze)
		codeformat.GET("/rules", h.HandleRules)
	}

	rg.GET("/health", h.HandleHealth)
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg Config) *gin.Engine {
	cfg = cfg.withDefaults()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("nbinspect"))
	router.Use(RequestCounter())

	metrics := telemetry.MetricsHandler()
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metrics))

	v1 := router.Group("/v1")
	v1.Use(RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)))
	RegisterRoutes(v1, NewHandlers(cfg))

	return router
}

// Run serves the API until ctx is done, then shuts down gracefully.
//
// Description:
//
//	Listens on cfg.Addr(). When ctx is canceled, in-flight requests get
//	DefaultShutdownPeriod to complete.
//
// Outputs:
//
//	error - Non-nil if the listener fails or shutdown times out.
func Run(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
