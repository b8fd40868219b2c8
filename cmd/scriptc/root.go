package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jensen-yan/compiler/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scriptc",
	Short: "scriptc - static checker for scripts",
	Long: `scriptc is the front end of a small scripting language compiler.

It tokenizes, parses and analyzes script files and reports:
  - lexical errors (unterminated strings, malformed numbers)
  - syntax errors, one per malformed statement
  - semantic errors (undefined names, type mismatches, wrong arity)

Configuration is read from --config if the file exists, then from
SCRIPTC_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), rootCmd)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	var diagErr *cli.DiagnosticsError
	if err != nil && !errors.As(err, &diagErr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "scriptc.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
