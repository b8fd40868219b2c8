// Package config provides configuration management for scriptc.
//
// Configuration is read from a YAML file, decoded on top of the defaults,
// overridden by environment variables and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("scriptc.yaml")
//
// LoadOrDefault is what the command line uses: a missing file is not an
// error, the defaults are used instead.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SCRIPTC_SECTION_FIELD:
//
//   - SCRIPTC_COMPILER_WORKERS overrides compiler.workers
//   - SCRIPTC_COMPILER_EXTENSIONS overrides compiler.extensions (comma separated)
//   - SCRIPTC_WATCH_DEBOUNCE overrides watch.debounce
//   - SCRIPTC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A value that does not parse is an error rather than being ignored.
//
// # Singleton
//
//	if err := config.Initialize(path); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// Initialize may be called again to replace the configuration. ReloadConfig
// re-reads the file Initialize loaded and keeps the current configuration
// if the new one does not load or validate.
package config
