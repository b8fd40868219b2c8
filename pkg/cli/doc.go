/*
Package cli holds the terminal-facing helpers used by the scriptc command.

Diagnostics are rendered with lipgloss. Color is chosen from the terminal
behind the writer and can be turned off:

	r := cli.NewRenderer(os.Stdout, !noColor)
	r.WriteDiagnostics(os.Stdout, report.Diagnostics)
	fmt.Println(r.Summary(len(reports), total))

Structured results go through a Formatter chosen by --format:

	format, err := cli.ParseFormat("json")
	cli.NewFormatter(format).FormatTo(os.Stdout, reports)

Commands return CommandError, ConfigError or DiagnosticsError, and ExitCode
maps them to the process exit status. SetupSignalHandler gives watch mode a
context that ends on SIGINT or SIGTERM.
*/
package cli
