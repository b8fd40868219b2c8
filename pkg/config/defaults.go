package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Compiler defaults
	DefaultExtension      = ".sc"
	DefaultMaxFileSize    = int64(1 << 20) // 1MB
	DefaultSkipHidden     = true
	DefaultFollowSymlinks = false
	DefaultContextLines   = 1
	DefaultSuggestions    = true

	// Watch defaults
	DefaultWatchDebounce      = 200 * time.Millisecond
	DefaultWatchStatusAddress = "127.0.0.1:9464"

	// Telemetry defaults
	DefaultLoggingLevel       = "warn"
	DefaultLoggingFormat      = "text"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "scriptc"
	DefaultMetricsSubsystem   = "compiler"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingService     = "scriptc"
	DefaultOTLPInsecure       = true
	DefaultOTLPTimeout        = 10 * time.Second
	DefaultHealthEnabled      = true
	DefaultLivenessPath       = "/health"
	DefaultReadinessPath      = "/ready"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultStageDurationBuckets covers single stages of small files (100µs)
// up to whole large files (1s).
var DefaultStageDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// DefaultWorkers returns the default number of concurrent checks.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Extensions:     []string{DefaultExtension},
			MaxFileSize:    DefaultMaxFileSize,
			SkipHidden:     DefaultSkipHidden,
			FollowSymlinks: DefaultFollowSymlinks,
			Workers:        DefaultWorkers(),
			ContextLines:   DefaultContextLines,
			Suggestions:    DefaultSuggestions,
		},
		Watch: WatchConfig{
			Debounce:      DefaultWatchDebounce,
			StatusAddress: DefaultWatchStatusAddress,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLoggingLevel,
				Format: DefaultLoggingFormat,
			},
			Metrics: MetricsConfig{
				Enabled:              DefaultMetricsEnabled,
				Path:                 DefaultMetricsPath,
				Namespace:            DefaultMetricsNamespace,
				Subsystem:            DefaultMetricsSubsystem,
				StageDurationBuckets: append([]float64(nil), DefaultStageDurationBuckets...),
			},
			Tracing: TracingConfig{
				Enabled:     DefaultTracingEnabled,
				Sampler:     DefaultTracingSampler,
				SampleRatio: DefaultTracingSampleRatio,
				ServiceName: DefaultTracingService,
				OTLP: OTLPConfig{
					Insecure: DefaultOTLPInsecure,
					Timeout:  DefaultOTLPTimeout,
				},
			},
			Health: HealthConfig{
				Enabled:       DefaultHealthEnabled,
				LivenessPath:  DefaultLivenessPath,
				ReadinessPath: DefaultReadinessPath,
				CheckTimeout:  DefaultHealthCheckTimeout,
			},
		},
	}
}

// ApplyDefaults fills in every zero-valued string, number, duration and list.
// Booleans are left alone: a false in the file is indistinguishable from an
// omitted field, so LoadConfig decodes on top of Default instead.
func ApplyDefaults(cfg *Config) {
	c := &cfg.Compiler
	if len(c.Extensions) == 0 {
		c.Extensions = []string{DefaultExtension}
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers()
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	t := &cfg.Telemetry
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Subsystem == "" {
		t.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(t.Metrics.StageDurationBuckets) == 0 {
		t.Metrics.StageDurationBuckets = append([]float64(nil), DefaultStageDurationBuckets...)
	}
	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingService
	}
	if t.Tracing.OTLP.Timeout == 0 {
		t.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
	if t.Health.LivenessPath == "" {
		t.Health.LivenessPath = DefaultLivenessPath
	}
	if t.Health.ReadinessPath == "" {
		t.Health.ReadinessPath = DefaultReadinessPath
	}
	if t.Health.CheckTimeout == 0 {
		t.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
