// Package metrics provides Prometheus metrics for the scriptc pipeline.
//
// # Metrics
//
// With the default namespace and subsystem:
//
//   - scriptc_compiler_files_total{outcome}: files checked (ok, error, failed)
//   - scriptc_compiler_stage_duration_seconds{stage}: lex, parse, analyze, total
//   - scriptc_compiler_diagnostics_total{kind}: lex, syntax, semantic, io
//   - scriptc_compiler_tokens_total: tokens produced
//   - scriptc_compiler_source_bytes: size of checked files
//   - scriptc_compiler_watched_files: files under watch
//   - scriptc_compiler_rechecks_total{result}: watch mode re-checks
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordStage("parse", elapsed)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Every Record method is a no-op when metrics are disabled.
package metrics
