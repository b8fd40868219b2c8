package metrics

import (
	"time"

	"github.com/jensen-yan/compiler/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every scriptc metric and the registry they live in. All
// Record methods are no-ops when metrics are disabled, and a nil *Collector
// is also safe to call.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	pipelineMetrics *PipelineMetrics
	watchMetrics    *WatchMetrics
}

// NewCollector creates a collector registered on registry. If registry is nil
// a fresh one is created. Empty namespace, subsystem and buckets get their
// defaults.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordStage("parse", 120*time.Microsecond)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.StageDurationBuckets) == 0 {
		cfg.StageDurationBuckets = append([]float64(nil), config.DefaultStageDurationBuckets...)
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		pipelineMetrics: NewPipelineMetrics(cfg, registry),
		watchMetrics:    NewWatchMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordStage records the duration of one pipeline stage ("lex", "parse",
// "analyze") or of a whole file ("total").
func (c *Collector) RecordStage(stage string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.pipelineMetrics.RecordStage(stage, duration)
}

// RecordFile records a checked file by outcome ("ok", "error", "failed").
func (c *Collector) RecordFile(outcome string, sizeBytes int) {
	if !c.enabled() {
		return
	}
	c.pipelineMetrics.RecordFile(outcome, sizeBytes)
}

// RecordDiagnostics records count diagnostics of the given kind.
func (c *Collector) RecordDiagnostics(kind string, count int) {
	if !c.enabled() {
		return
	}
	c.pipelineMetrics.RecordDiagnostics(kind, count)
}

// RecordTokens records the number of tokens a file produced.
func (c *Collector) RecordTokens(count int) {
	if !c.enabled() {
		return
	}
	c.pipelineMetrics.RecordTokens(count)
}

// SetWatchedFiles updates the watched files gauge.
func (c *Collector) SetWatchedFiles(n int) {
	if !c.enabled() {
		return
	}
	c.watchMetrics.SetWatchedFiles(n)
}

// RecordRecheck records a re-check triggered in watch mode.
func (c *Collector) RecordRecheck(clean bool) {
	if !c.enabled() {
		return
	}
	result := "diagnostics"
	if clean {
		result = "clean"
	}
	c.watchMetrics.RecordRecheck(result)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
