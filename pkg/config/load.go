package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "SCRIPTC_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default, so omitted fields keep their
// defaults. The result is validated; environment variables are not applied.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of Default and applies defaults
// to any field the document set to a zero value. Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SCRIPTC_SECTION_FIELD (e.g., SCRIPTC_COMPILER_WORKERS) and
// always take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file on top of the defaults
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like LoadConfigWithEnvOverrides, except that an
// empty path or a file that does not exist yields the defaults (with
// environment overrides applied) instead of an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

type envOverride struct {
	name  string
	apply func(cfg *Config, val string) error
}

func stringVar(field func(*Config) *string) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		*field(cfg) = val
		return nil
	}
}

func boolVar(field func(*Config) *bool) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*field(cfg) = b
		return nil
	}
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		i, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*field(cfg) = i
		return nil
	}
}

func durationVar(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		d, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*field(cfg) = d
		return nil
	}
}

var envOverrides = []envOverride{
	{"COMPILER_EXTENSIONS", func(cfg *Config, val string) error {
		var exts []string
		for _, ext := range strings.Split(val, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		cfg.Compiler.Extensions = exts
		return nil
	}},
	{"COMPILER_MAX_FILE_SIZE", func(cfg *Config, val string) error {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return err
		}
		cfg.Compiler.MaxFileSize = n
		return nil
	}},
	{"COMPILER_SKIP_HIDDEN", boolVar(func(c *Config) *bool { return &c.Compiler.SkipHidden })},
	{"COMPILER_FOLLOW_SYMLINKS", boolVar(func(c *Config) *bool { return &c.Compiler.FollowSymlinks })},
	{"COMPILER_WORKERS", intVar(func(c *Config) *int { return &c.Compiler.Workers })},
	{"COMPILER_CONTEXT_LINES", intVar(func(c *Config) *int { return &c.Compiler.ContextLines })},
	{"COMPILER_SUGGESTIONS", boolVar(func(c *Config) *bool { return &c.Compiler.Suggestions })},

	{"WATCH_DEBOUNCE", durationVar(func(c *Config) *time.Duration { return &c.Watch.Debounce })},
	{"WATCH_STATUS_ADDRESS", stringVar(func(c *Config) *string { return &c.Watch.StatusAddress })},

	{"TELEMETRY_LOGGING_LEVEL", stringVar(func(c *Config) *string { return &c.Telemetry.Logging.Level })},
	{"TELEMETRY_LOGGING_FORMAT", stringVar(func(c *Config) *string { return &c.Telemetry.Logging.Format })},
	{"TELEMETRY_METRICS_ENABLED", boolVar(func(c *Config) *bool { return &c.Telemetry.Metrics.Enabled })},
	{"TELEMETRY_METRICS_PATH", stringVar(func(c *Config) *string { return &c.Telemetry.Metrics.Path })},
	{"TELEMETRY_TRACING_ENABLED", boolVar(func(c *Config) *bool { return &c.Telemetry.Tracing.Enabled })},
	{"TELEMETRY_TRACING_ENDPOINT", stringVar(func(c *Config) *string { return &c.Telemetry.Tracing.Endpoint })},
	{"TELEMETRY_TRACING_SAMPLER", stringVar(func(c *Config) *string { return &c.Telemetry.Tracing.Sampler })},
	{"TELEMETRY_TRACING_SAMPLE_RATIO", func(cfg *Config, val string) error {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		cfg.Telemetry.Tracing.SampleRatio = f
		return nil
	}},
	{"TELEMETRY_HEALTH_ENABLED", boolVar(func(c *Config) *bool { return &c.Telemetry.Health.Enabled })},
}

// applyEnvOverrides applies SCRIPTC_* environment variables to cfg. A value
// that cannot be parsed is an error naming the variable.
func applyEnvOverrides(cfg *Config) error {
	for _, o := range envOverrides {
		name := EnvPrefix + o.name
		val, ok := os.LookupEnv(name)
		if !ok || val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", val, name, err)
		}
	}
	return nil
}
