package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"no extensions", func(c *Config) { c.Compiler.Extensions = nil }, "compiler.extensions"},
		{"extension without dot", func(c *Config) { c.Compiler.Extensions = []string{"sc"} }, "compiler.extensions[0]"},
		{"extension with separator", func(c *Config) { c.Compiler.Extensions = []string{"./sc"} }, "compiler.extensions[0]"},
		{"zero max file size", func(c *Config) { c.Compiler.MaxFileSize = 0 }, "compiler.max_file_size"},
		{"zero workers", func(c *Config) { c.Compiler.Workers = 0 }, "compiler.workers"},
		{"too many workers", func(c *Config) { c.Compiler.Workers = MaxWorkers + 1 }, "compiler.workers"},
		{"negative context", func(c *Config) { c.Compiler.ContextLines = -1 }, "compiler.context_lines"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
		{"bad status address", func(c *Config) { c.Watch.StatusAddress = "localhost" }, "watch.status_address"},
		{"empty status address disables server", func(c *Config) { c.Watch.StatusAddress = "" }, ""},
		{"bad level", func(c *Config) { c.Telemetry.Logging.Level = "loud" }, "telemetry.logging.level"},
		{"bad format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"metrics disabled ignores path", func(c *Config) {
			c.Telemetry.Metrics.Enabled = false
			c.Telemetry.Metrics.Path = "metrics"
		}, ""},
		{"unsorted buckets", func(c *Config) { c.Telemetry.Metrics.StageDurationBuckets = []float64{1, 0.5} }, "telemetry.metrics.stage_duration_buckets"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"bad sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio above one", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"liveness path", func(c *Config) { c.Telemetry.Health.LivenessPath = "health" }, "telemetry.health.liveness_path"},
		{"readiness path", func(c *Config) { c.Telemetry.Health.ReadinessPath = "" }, "telemetry.health.readiness_path"},
		{"check timeout", func(c *Config) { c.Telemetry.Health.CheckTimeout = 2 * time.Minute }, "telemetry.health.check_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{"empty", ValidationError{}, "configuration validation failed"},
		{
			"single",
			ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}},
			"configuration validation failed: a: bad",
		},
		{
			"multiple",
			ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}},
			"configuration validation failed with 2 errors:\n  - a: bad\n  - b: worse\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Compiler.Workers = 0
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Validate() = %v, want 2 errors", err)
	}
}
