package metrics

import (
	"time"

	"github.com/jensen-yan/compiler/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks the lex/parse/analyze pipeline.
//
// Metrics:
//   - scriptc_compiler_files_total: Files checked by outcome
//   - scriptc_compiler_stage_duration_seconds: Time spent per stage
//   - scriptc_compiler_diagnostics_total: Diagnostics reported by kind
//   - scriptc_compiler_tokens_total: Tokens produced by the lexer
//   - scriptc_compiler_source_bytes: Size of checked sources
type PipelineMetrics struct {
	filesTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	diagnostics   *prometheus.CounterVec
	tokensTotal   prometheus.Counter
	sourceBytes   prometheus.Histogram
}

// NewPipelineMetrics creates and registers pipeline metrics with the provided registry.
func NewPipelineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_total",
				Help:      "Total number of source files checked",
			},
			[]string{"outcome"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   cfg.StageDurationBuckets,
			},
			[]string{"stage"},
		),

		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported",
			},
			[]string{"kind"},
		),

		tokensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tokens_total",
				Help:      "Total number of tokens produced by the lexer",
			},
		),

		sourceBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "source_bytes",
				Help:      "Size of checked source files in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
		),
	}

	registry.MustRegister(
		pm.filesTotal,
		pm.stageDuration,
		pm.diagnostics,
		pm.tokensTotal,
		pm.sourceBytes,
	)

	return pm
}

// RecordStage records how long a stage took.
func (pm *PipelineMetrics) RecordStage(stage string, duration time.Duration) {
	pm.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordFile records a checked file. outcome is "ok", "error" or "failed"
// (the file could not be read).
func (pm *PipelineMetrics) RecordFile(outcome string, sizeBytes int) {
	pm.filesTotal.WithLabelValues(outcome).Inc()
	if sizeBytes > 0 {
		pm.sourceBytes.Observe(float64(sizeBytes))
	}
}

// RecordDiagnostics adds count diagnostics of kind.
func (pm *PipelineMetrics) RecordDiagnostics(kind string, count int) {
	if count > 0 {
		pm.diagnostics.WithLabelValues(kind).Add(float64(count))
	}
}

// RecordTokens adds to the token counter.
func (pm *PipelineMetrics) RecordTokens(count int) {
	if count > 0 {
		pm.tokensTotal.Add(float64(count))
	}
}
