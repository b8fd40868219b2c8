package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jensen-yan/compiler/pkg/checker"
	"github.com/jensen-yan/compiler/pkg/cli"
)

var checkFlags struct {
	format   string
	noColor  bool
	progress bool
}

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Check script files for errors",
	Long: `Check script files and directories for lexical, syntax and semantic errors.

Directories are searched recursively for files with a configured extension
(compiler.extensions, default .sc). Files are checked concurrently, bounded
by compiler.workers. The exit status is 1 if any diagnostic was reported and
2 if checking could not run.

Examples:
  # Check a file
  scriptc check main.sc

  # Check a directory with a progress bar
  scriptc check --progress scripts/

  # JSON output for CI/CD
  scriptc check --format json scripts/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&checkFlags.noColor, "no-color", false, "disable colored output")
	checkCmd.Flags().BoolVar(&checkFlags.progress, "progress", false, "show a progress bar on stderr")
}

// checkOutput is the JSON document written by check --format json.
type checkOutput struct {
	Summary checker.Summary   `json:"summary"`
	Reports []*checker.Report `json:"reports"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(checkFlags.format)
	if err != nil {
		return cli.NewConfigError("--format", err.Error(), nil)
	}

	var opts []checker.Option
	var progress *cli.SimpleProgress
	if checkFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		opts = append(opts, checker.WithReportHook(func(*checker.Report) { progress.Increment() }))
	}

	a, err := setup(cmd, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	files, err := a.checker.Loader().Expand(args)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	if len(files) == 0 {
		return cli.NewCommandError("check", errors.New("no script files found"))
	}

	if progress != nil {
		progress.Start(len(files))
	}
	reports, err := a.checker.CheckFiles(cmd.Context(), files)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	summary := checker.Summarize(reports)
	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		err = cli.NewFormatter(format).FormatTo(out, checkOutput{Summary: summary, Reports: reports})
	} else {
		err = writeReports(out, cli.NewRenderer(out, !checkFlags.noColor), reports)
	}
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	if !summary.OK() {
		return &cli.DiagnosticsError{Diagnostics: summary.Diagnostics, Files: summary.Files - summary.Clean}
	}
	return nil
}

// writeReports renders the diagnostics of every report followed by a
// summary line.
func writeReports(w io.Writer, r *cli.Renderer, reports []*checker.Report) error {
	total := 0
	for _, report := range reports {
		if report.OK() {
			continue
		}
		if total > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.WriteDiagnostics(w, report.Diagnostics); err != nil {
			return err
		}
		total += len(report.Diagnostics)
	}
	if total > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Summary(len(reports), total))
	return err
}
