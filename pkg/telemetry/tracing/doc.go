// Package tracing wraps OpenTelemetry for scriptc.
//
// A check produces one scriptc.check span per file with a child span for
// each pipeline stage that ran:
//
//	scriptc.check  file=main.sc run_id=...
//	├── scriptc.lex      tokens=42
//	├── scriptc.parse    statements=7
//	└── scriptc.analyze  diagnostics=1
//
// When tracing is disabled New returns a tracer that hands out noop spans,
// so callers never need to check Enabled before starting a span. When it is
// enabled spans are batched to an OTLP gRPC collector and the W3C trace
// context propagator is installed globally. The watch status server uses
// HTTPMiddleware to pick up incoming traceparent headers.
//
// Sampling is parent based. The root decision is one of always, never or
// ratio:
//
//	tracing:
//	  enabled: true
//	  sampler: ratio
//	  sample_ratio: 0.1
//	  endpoint: localhost:4317
package tracing
