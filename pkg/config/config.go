package config

import "time"

// Config is the root configuration structure for scriptc.
type Config struct {
	// Compiler controls how sources are found and checked.
	Compiler CompilerConfig `yaml:"compiler"`

	// Watch controls the watch command and its status server.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging, metrics, tracing and
	// health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CompilerConfig contains source discovery and diagnostic settings.
type CompilerConfig struct {
	// Extensions lists the file extensions collected from directories.
	// Default: [".sc"]
	Extensions []string `yaml:"extensions"`

	// MaxFileSize is the largest source file accepted, in bytes.
	// Default: 1048576 (1MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// SkipHidden skips files and directories whose name starts with a dot.
	// Default: true
	SkipHidden bool `yaml:"skip_hidden"`

	// FollowSymlinks follows symbolic links while walking directories.
	// Default: false
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// Workers is the number of files checked concurrently.
	// Default: number of CPUs
	Workers int `yaml:"workers"`

	// ContextLines is the number of source lines shown around a diagnostic.
	// Default: 1
	ContextLines int `yaml:"context_lines"`

	// Suggestions enables "did you mean" hints for undefined names.
	// Default: true
	Suggestions bool `yaml:"suggestions"`
}

// WatchConfig contains settings for watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-checking.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// StatusAddress is where /metrics, /health and /ready are served while
	// watching. Empty disables the status server.
	// Default: "127.0.0.1:9464"
	StatusAddress string `yaml:"status_address"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "scriptc"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "compiler"
	Subsystem string `yaml:"subsystem"`

	// StageDurationBuckets defines histogram buckets for stage duration (seconds).
	// Default: [0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	StageDurationBuckets []float64 `yaml:"stage_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "scriptc"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
