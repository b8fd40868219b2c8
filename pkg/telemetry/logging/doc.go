// Package logging provides structured logging for the compiler tools.
//
// The package wraps log/slog with JSON and text handlers, level parsing and
// context-aware helpers. Checker runs store their run id, the file being
// checked and the current stage in the context; the *Context methods add
// those fields to every record:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "text"})
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithFile(ctx, "main.sc")
//	logger.InfoContext(ctx, "check finished", "diagnostics", 3)
//	// level=INFO msg="check finished" run_id=... file=main.sc diagnostics=3
//
// Logs are written to stderr by default so they never mix with diagnostics
// printed on stdout.
package logging
