package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jensen-yan/compiler/pkg/checker"
	"github.com/jensen-yan/compiler/pkg/cli"
	"github.com/jensen-yan/compiler/pkg/config"
	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
	"github.com/jensen-yan/compiler/pkg/telemetry/metrics"
	"github.com/jensen-yan/compiler/pkg/telemetry/tracing"
)

// app bundles what every subcommand needs: configuration, telemetry and a
// checker wired to both.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	checker *checker.Checker
}

func setup(cmd *cobra.Command, opts ...checker.Option) (*app, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("--config", "failed to load configuration", err)
	}
	cfg := config.MustGetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", "invalid logging configuration", err)
	}
	logger = logger.With("command", cmd.Name())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", "failed to start tracing", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	opts = append([]checker.Option{
		checker.WithLogger(logger),
		checker.WithMetrics(collector),
		checker.WithTracer(tracer),
	}, opts...)

	logger.Debug("configuration loaded",
		"path", cfgFile,
		"workers", cfg.Compiler.Workers,
		"tracing", cfg.Telemetry.Tracing.Enabled,
		"metrics", cfg.Telemetry.Metrics.Enabled,
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: collector,
		tracer:  tracer,
		checker: checker.New(&cfg.Compiler, opts...),
	}, nil
}

// Close flushes pending spans.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}
