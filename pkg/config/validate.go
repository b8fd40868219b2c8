package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// MaxWorkers bounds compiler.workers.
const MaxWorkers = 1024

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "compiler.workers").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// listing every rule that failed, or nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError
	errs = append(errs, validateCompiler(&cfg.Compiler)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateCompiler(cfg *CompilerConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Extensions) == 0 {
		errs = append(errs, FieldError{
			Field:   "compiler.extensions",
			Message: "at least one extension is required",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.ContainsAny(ext, `/\`) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("compiler.extensions[%d]", i),
				Message: fmt.Sprintf("invalid extension %q: must look like \".sc\"", ext),
			})
		}
	}

	if cfg.MaxFileSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "compiler.max_file_size",
			Message: "max file size must be positive",
		})
	}

	if cfg.Workers < 1 || cfg.Workers > MaxWorkers {
		errs = append(errs, FieldError{
			Field:   "compiler.workers",
			Message: fmt.Sprintf("workers must be between 1 and %d", MaxWorkers),
		})
	}

	if cfg.ContextLines < 0 || cfg.ContextLines > 10 {
		errs = append(errs, FieldError{
			Field:   "compiler.context_lines",
			Message: "context lines must be between 0 and 10",
		})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 || cfg.Debounce > 10*time.Second {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be between 0 and 10s",
		})
	}

	if cfg.StatusAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.StatusAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.status_address",
				Message: fmt.Sprintf("invalid address %q: %v", cfg.StatusAddress, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}
	for i := 1; i < len(cfg.Metrics.StageDurationBuckets); i++ {
		if cfg.Metrics.StageDurationBuckets[i] <= cfg.Metrics.StageDurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.stage_duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.Enabled {
		if !strings.HasPrefix(cfg.Health.LivenessPath, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.liveness_path",
				Message: "liveness path must start with /",
			})
		}
		if !strings.HasPrefix(cfg.Health.ReadinessPath, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.readiness_path",
				Message: "readiness path must start with /",
			})
		}
		if cfg.Health.CheckTimeout <= 0 || cfg.Health.CheckTimeout > 60*time.Second {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be between 0 and 60s",
			})
		}
	}

	return errs
}
