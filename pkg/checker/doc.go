// Package checker runs the script pipeline with telemetry around it.
//
// Each file goes through load, lex, parse and analyze. A stage runs only if
// the previous one succeeded, and each stage gets its own span, a duration
// sample and a debug log line. The resulting Report carries the
// diagnostics together with the run id that ties logs, spans and reports
// of one invocation together.
//
//	c := checker.New(&cfg.Compiler,
//		checker.WithLogger(logger),
//		checker.WithMetrics(collector),
//		checker.WithTracer(tracer),
//	)
//	reports, err := c.CheckPaths(ctx, []string{"scripts/"})
//
// CheckPaths checks files concurrently, bounded by compiler.workers, and
// returns the reports in the order the files were found.
package checker
