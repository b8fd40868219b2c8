package metrics

import (
	"github.com/jensen-yan/compiler/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks watch mode.
//
// Metrics:
//   - scriptc_compiler_watched_files: Files currently under watch
//   - scriptc_compiler_rechecks_total: Re-checks triggered by file changes, by result
type WatchMetrics struct {
	watchedFiles prometheus.Gauge
	rechecks     *prometheus.CounterVec
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		watchedFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_files",
				Help:      "Current number of source files under watch",
			},
		),

		rechecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rechecks_total",
				Help:      "Total number of re-checks triggered by file changes",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(wm.watchedFiles, wm.rechecks)
	return wm
}

// SetWatchedFiles sets the number of files under watch.
func (wm *WatchMetrics) SetWatchedFiles(n int) {
	wm.watchedFiles.Set(float64(n))
}

// RecordRecheck counts a re-check. result is "clean" or "diagnostics".
func (wm *WatchMetrics) RecordRecheck(result string) {
	wm.rechecks.WithLabelValues(result).Inc()
}
