package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by scriptc.
const (
	ExitOK          = 0
	ExitDiagnostics = 1
	ExitFailure     = 2
)

// ConfigError reports an unusable configuration file or flag.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error in %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError reports a command that could not run to completion.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// DiagnosticsError reports that checking succeeded but the sources have
// problems. The diagnostics themselves have already been printed.
type DiagnosticsError struct {
	Diagnostics int
	Files       int
}

func (e *DiagnosticsError) Error() string {
	return fmt.Sprintf("found %d diagnostic(s) in %d file(s)", e.Diagnostics, e.Files)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var diagErr *DiagnosticsError
	if errors.As(err, &diagErr) {
		return ExitDiagnostics
	}
	return ExitFailure
}
