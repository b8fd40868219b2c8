package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jensen-yan/compiler/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:              true,
		Namespace:            "test",
		Subsystem:            "metrics",
		StageDurationBuckets: []float64{0.001, 0.01, 0.1},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_NewCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != "scriptc" || cfg.Subsystem != "compiler" {
		t.Errorf("namespace/subsystem = %s/%s", cfg.Namespace, cfg.Subsystem)
	}
	if len(cfg.StageDurationBuckets) == 0 {
		t.Error("buckets not defaulted")
	}
}

func TestCollector_RecordFile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		outcome string
		times   int
	}{
		{"ok", 3},
		{"error", 2},
		{"failed", 1},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			for i := 0; i < tt.times; i++ {
				collector.RecordFile(tt.outcome, 1024)
			}
			got := testutil.ToFloat64(collector.pipelineMetrics.filesTotal.WithLabelValues(tt.outcome))
			if got != float64(tt.times) {
				t.Errorf("files_total{outcome=%q} = %v, want %d", tt.outcome, got, tt.times)
			}
		})
	}
}

func TestCollector_RecordDiagnostics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordDiagnostics("semantic", 2)
	collector.RecordDiagnostics("semantic", 3)
	collector.RecordDiagnostics("syntax", 0)

	if got := testutil.ToFloat64(collector.pipelineMetrics.diagnostics.WithLabelValues("semantic")); got != 5 {
		t.Errorf("semantic diagnostics = %v, want 5", got)
	}
	if got := testutil.CollectAndCount(collector.pipelineMetrics.diagnostics); got != 1 {
		t.Errorf("diagnostic series = %d, want 1 (zero counts are not recorded)", got)
	}
}

func TestCollector_RecordStage(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordStage("lex", 500*time.Microsecond)
	collector.RecordStage("parse", 2*time.Millisecond)
	collector.RecordStage("parse", 3*time.Millisecond)

	if got := testutil.CollectAndCount(collector.pipelineMetrics.stageDuration); got != 2 {
		t.Errorf("stage series = %d, want 2", got)
	}

	expected := `
# HELP test_metrics_stage_duration_seconds Duration of pipeline stages in seconds
# TYPE test_metrics_stage_duration_seconds histogram
test_metrics_stage_duration_seconds_bucket{stage="parse",le="0.001"} 0
test_metrics_stage_duration_seconds_bucket{stage="parse",le="0.01"} 2
test_metrics_stage_duration_seconds_bucket{stage="parse",le="0.1"} 2
test_metrics_stage_duration_seconds_bucket{stage="parse",le="+Inf"} 2
test_metrics_stage_duration_seconds_sum{stage="parse"} 0.005
test_metrics_stage_duration_seconds_count{stage="parse"} 2
`
	collector.pipelineMetrics.stageDuration.DeleteLabelValues("lex")
	if err := testutil.CollectAndCompare(collector.pipelineMetrics.stageDuration, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestCollector_RecordTokens(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordTokens(10)
	collector.RecordTokens(0)
	collector.RecordTokens(5)

	if got := testutil.ToFloat64(collector.pipelineMetrics.tokensTotal); got != 15 {
		t.Errorf("tokens_total = %v, want 15", got)
	}
}

func TestCollector_WatchMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.SetWatchedFiles(4)
	collector.SetWatchedFiles(3)
	collector.RecordRecheck(true)
	collector.RecordRecheck(false)
	collector.RecordRecheck(false)

	if got := testutil.ToFloat64(collector.watchMetrics.watchedFiles); got != 3 {
		t.Errorf("watched_files = %v, want 3", got)
	}
	if got := testutil.ToFloat64(collector.watchMetrics.rechecks.WithLabelValues("diagnostics")); got != 2 {
		t.Errorf("rechecks{diagnostics} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.watchMetrics.rechecks.WithLabelValues("clean")); got != 1 {
		t.Errorf("rechecks{clean} = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordFile("ok", 10)
	collector.RecordTokens(10)
	collector.SetWatchedFiles(2)

	if got := testutil.ToFloat64(collector.pipelineMetrics.filesTotal.WithLabelValues("ok")); got != 0 {
		t.Errorf("files_total = %v with metrics disabled", got)
	}
	if got := testutil.ToFloat64(collector.pipelineMetrics.tokensTotal); got != 0 {
		t.Errorf("tokens_total = %v with metrics disabled", got)
	}
}

func TestCollector_NilIsSafe(t *testing.T) {
	var collector *Collector
	collector.RecordStage("lex", time.Millisecond)
	collector.RecordFile("ok", 1)
	collector.RecordDiagnostics("lex", 1)
	collector.RecordTokens(1)
	collector.SetWatchedFiles(1)
	collector.RecordRecheck(true)
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordFile("ok", 100)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `test_metrics_files_total{outcome="ok"} 1`) {
		t.Errorf("metrics output missing files_total:\n%s", rec.Body.String())
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.RecordFile("ok", 10)
			collector.RecordStage("analyze", time.Millisecond)
			collector.RecordDiagnostics("semantic", 1)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(collector.pipelineMetrics.filesTotal.WithLabelValues("ok")); got != 50 {
		t.Errorf("files_total = %v, want 50", got)
	}
}
