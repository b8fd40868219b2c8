// Package telemetry groups the observability packages used by scriptc.
//
//   - logging: structured logging on log/slog with run, file and stage fields
//   - metrics: Prometheus counters and histograms for checks and watch mode
//   - tracing: OpenTelemetry spans per file and per pipeline stage
//   - health: liveness and readiness checks served in watch mode
//
// Each package is configured from the telemetry section of config.Config
// and is safe to use with its zero or disabled configuration.
package telemetry
