package checker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jensen-yan/compiler/pkg/config"
	"github.com/jensen-yan/compiler/pkg/script"
	diag "github.com/jensen-yan/compiler/pkg/script/errors"
	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
	"github.com/jensen-yan/compiler/pkg/telemetry/metrics"
	"github.com/jensen-yan/compiler/pkg/telemetry/tracing"
	"github.com/jensen-yan/compiler/pkg/workspace"
)

// Checker runs the lex, parse and analyze stages over script sources with
// logging, metrics and tracing around every stage. Compile units share no
// state, so one Checker may check many files at once.
type Checker struct {
	cfg      config.CompilerConfig
	logger   *logging.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	loader   *workspace.Loader
	onReport func(*Report)
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithMetrics sets the metrics collector. A nil collector records nothing.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithTracer sets the tracer. The default hands out noop spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Checker) { c.tracer = t }
}

// WithLoader replaces the loader built from the compiler configuration.
func WithLoader(l *workspace.Loader) Option {
	return func(c *Checker) { c.loader = l }
}

// WithReportHook calls fn after each file is checked. fn may be called from
// several goroutines at once.
func WithReportHook(fn func(*Report)) Option {
	return func(c *Checker) { c.onReport = fn }
}

// New creates a checker for the compiler section of the configuration.
func New(cfg *config.CompilerConfig, opts ...Option) *Checker {
	c := &Checker{cfg: *cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.tracer == nil {
		c.tracer = tracing.Noop()
	}
	if c.loader == nil {
		c.loader = workspace.NewLoader(workspace.OptionsFromConfig(&c.cfg), c.logger)
	}
	if c.cfg.Workers <= 0 {
		c.cfg.Workers = config.DefaultWorkers()
	}
	return c
}

// Loader returns the loader used by CheckFile and CheckPaths.
func (c *Checker) Loader() *workspace.Loader { return c.loader }

func (c *Checker) unitOptions() []script.Option {
	return []script.Option{
		script.WithContextLines(c.cfg.ContextLines),
		script.WithSuggestions(c.cfg.Suggestions),
	}
}

// ensureRunID returns ctx carrying a run id, creating one if needed.
func ensureRunID(ctx context.Context) (context.Context, string) {
	if id := logging.GetRunID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return logging.WithRunID(ctx, id), id
}

// withSpanIDs copies the active span's ids into the logging fields of ctx.
func withSpanIDs(ctx context.Context) context.Context {
	if id := tracing.TraceID(ctx); id != "" {
		ctx = logging.WithTraceID(ctx, id)
	}
	if id := tracing.SpanID(ctx); id != "" {
		ctx = logging.WithSpanID(ctx, id)
	}
	return ctx
}

// CheckSource checks in-memory source. name is used in diagnostic
// locations and may be empty.
func (c *Checker) CheckSource(ctx context.Context, name, src string) *Report {
	ctx, runID := ensureRunID(ctx)
	ctx = logging.WithFile(ctx, name)

	ctx, span := c.tracer.Start(ctx, tracing.SpanCheckFile,
		tracing.NewAttributeBuilder().WithRunID(runID).WithFile(name).Build())
	defer span.End()
	ctx = withSpanIDs(ctx)
	tracing.SetFileAttributes(span, name, len(src))

	start := time.Now()
	logging.NewContextLogger(c.logger, ctx).Debug("check started", "bytes", len(src))

	unit := script.NewUnit(name, src, c.unitOptions()...)
	report := &Report{RunID: runID, File: name, Bytes: len(src), Unit: unit}

	ok := c.stage(ctx, report, tracing.SpanLex, StageLex, unit.Lex)
	report.Tokens = len(unit.Tokens)
	c.metrics.RecordTokens(report.Tokens)
	if ok {
		ok = c.stage(ctx, report, tracing.SpanParse, StageParse, unit.Parse)
	}
	if unit.Program != nil {
		report.Statements = len(unit.Program.Stmts)
	}
	if ok {
		c.stage(ctx, report, tracing.SpanAnalyze, StageAnalyze, unit.Analyze)
	}

	report.Diagnostics = unit.Diagnostics.Errors
	c.finish(ctx, span, report, start)
	return report
}

// stage runs one pipeline step in its own span and records its duration.
func (c *Checker) stage(ctx context.Context, report *Report, spanName, stage string, run func() bool) bool {
	ctx = logging.WithStage(ctx, stage)
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String(tracing.AttrStage, stage)))
	defer span.End()
	ctx = withSpanIDs(ctx)

	before := report.Unit.Diagnostics.Count()
	start := time.Now()
	ok := run()
	elapsed := time.Since(start)

	produced := report.Unit.Diagnostics.Count() - before
	report.Stages = append(report.Stages, StageResult{Stage: stage, OK: ok, Duration: elapsed})
	c.metrics.RecordStage(stage, elapsed)

	tracing.SetStageResult(span, ok, produced)
	switch stage {
	case StageLex:
		span.SetAttributes(attribute.Int(tracing.AttrTokens, len(report.Unit.Tokens)))
	case StageParse:
		if report.Unit.Program != nil {
			span.SetAttributes(attribute.Int(tracing.AttrStatements, len(report.Unit.Program.Stmts)))
		}
	}
	for _, d := range report.Unit.Diagnostics.Errors[before:] {
		tracing.AddEvent(span, "diagnostic",
			attribute.String("kind", string(d.Kind)),
			attribute.String("message", d.Message),
			attribute.String("location", d.Location.String()),
		)
	}

	c.logger.DebugContext(ctx, "stage finished", "ok", ok, "diagnostics", produced, "duration", elapsed)
	return ok
}

// finish records the outcome of a file on every telemetry channel.
func (c *Checker) finish(ctx context.Context, span trace.Span, report *Report, start time.Time) {
	report.Duration = time.Since(start)

	counts := make(map[diag.Kind]int)
	for _, d := range report.Diagnostics {
		counts[d.Kind]++
	}
	for kind, n := range counts {
		c.metrics.RecordDiagnostics(string(kind), n)
	}
	c.metrics.RecordFile(report.Outcome(), report.Bytes)

	tracing.SetStageResult(span, report.OK(), len(report.Diagnostics))
	if !report.OK() {
		span.SetAttributes(attribute.String("scriptc.outcome", report.Outcome()))
	}

	carrier := make(map[string]string)
	tracing.InjectToMap(ctx, carrier)
	report.TraceParent = carrier["traceparent"]

	log := logging.NewContextLogger(c.logger, ctx)
	if report.OK() {
		log.Info("check finished", "outcome", report.Outcome(), "duration", report.Duration)
	} else {
		log.Warn("check finished",
			"outcome", report.Outcome(),
			"diagnostics", len(report.Diagnostics),
			"duration", report.Duration,
		)
	}

	if c.onReport != nil {
		c.onReport(report)
	}
}

// CheckFile loads and checks path. A file that cannot be loaded yields a
// report with a single io diagnostic.
func (c *Checker) CheckFile(ctx context.Context, path string) *Report {
	ctx, runID := ensureRunID(ctx)

	loadCtx, span := c.tracer.Start(logging.WithFile(ctx, path), tracing.SpanLoad,
		tracing.NewAttributeBuilder().WithRunID(runID).WithFile(path).Build())
	loadCtx = withSpanIDs(loadCtx)
	start := time.Now()
	src, err := c.loader.LoadFile(path)
	c.metrics.RecordStage(StageLoad, time.Since(start))

	if err != nil {
		defer span.End()
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		c.logger.WarnContext(loadCtx, "failed to load source", "error", err)
		report := &Report{
			RunID:       runID,
			File:        path,
			Stages:      []StageResult{{Stage: StageLoad, OK: false, Duration: time.Since(start)}},
			Diagnostics: script.Diagnostics(path, err),
		}
		c.finish(loadCtx, span, report, start)
		return report
	}
	loaded := time.Since(start)
	tracing.SetStatus(span, nil)
	span.End()

	report := c.CheckSource(ctx, path, src.Content)
	report.Stages = append([]StageResult{{Stage: StageLoad, OK: true, Duration: loaded}}, report.Stages...)
	return report
}

// CheckPaths expands files and directories and checks every script found,
// at most compiler.workers at a time. Reports come back in the order the
// files were found. All reports share one run id. The error is non-nil
// only when a path cannot be expanded or ctx is canceled.
func (c *Checker) CheckPaths(ctx context.Context, paths []string) ([]*Report, error) {
	files, err := c.loader.Expand(paths)
	if err != nil {
		return nil, err
	}
	return c.CheckFiles(ctx, files)
}

// CheckFiles checks an explicit list of files. See CheckPaths.
func (c *Checker) CheckFiles(ctx context.Context, files []string) ([]*Report, error) {
	ctx, _ = ensureRunID(ctx)
	c.logger.InfoContext(ctx, "checking files", "files", len(files), "workers", c.cfg.Workers)

	reports := make([]*Report, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = c.CheckFile(gctx, file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(reports)
	c.logger.InfoContext(ctx, "check run finished",
		"files", s.Files,
		"clean", s.Clean,
		"diagnostics", s.Diagnostics,
	)
	return reports, nil
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
