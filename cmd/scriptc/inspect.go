package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jensen-yan/compiler/pkg/cli"
	"github.com/jensen-yan/compiler/pkg/script"
	"github.com/jensen-yan/compiler/pkg/script/ast"
	"github.com/jensen-yan/compiler/pkg/script/symbols"
)

var inspectFlags struct {
	format  string
	noColor bool
}

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the tokens of a script",
	Long: `Print the token stream produced by the lexer, one token per line:

  Identifier(x)@1:1
  Assign(=)@1:3
  Integer(1)@1:5`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the syntax tree of a script",
	Long: `Print the syntax tree produced by the parser, one node per line.

Statements that failed to parse are left out of the tree and reported
after it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols FILE",
	Short: "Print the global symbols of a script",
	Long: `Analyze a script and print its global scope, builtins first, with the
types the analyzer inferred.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	for _, cmd := range []*cobra.Command{tokensCmd, astCmd, symbolsCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().BoolVar(&inspectFlags.noColor, "no-color", false, "disable colored output")
	}
	tokensCmd.Flags().StringVarP(&inspectFlags.format, "format", "f", "text", "output format: text, json")
	symbolsCmd.Flags().StringVarP(&inspectFlags.format, "format", "f", "text", "output format: text, json")
}

// loadUnit reads path through the configured loader and prepares a unit.
func loadUnit(cmd *cobra.Command, path string) (*script.Unit, error) {
	a, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	src, err := a.checker.Loader().LoadFile(path)
	if err != nil {
		return nil, cli.NewCommandError(cmd.Name(), err)
	}
	return script.NewUnit(path, src.Content,
		script.WithContextLines(a.cfg.Compiler.ContextLines),
		script.WithSuggestions(a.cfg.Compiler.Suggestions),
	), nil
}

// failUnit renders the diagnostics of a unit that did not get through its
// stages.
func failUnit(w io.Writer, u *script.Unit) error {
	r := cli.NewRenderer(w, !inspectFlags.noColor)
	if err := r.WriteDiagnostics(w, u.Diagnostics.Errors); err != nil {
		return err
	}
	return &cli.DiagnosticsError{Diagnostics: u.Diagnostics.Count(), Files: 1}
}

type tokenJSON struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func runTokens(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(inspectFlags.format)
	if err != nil {
		return cli.NewConfigError("--format", err.Error(), nil)
	}
	u, err := loadUnit(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !u.Lex() {
		return failUnit(out, u)
	}

	if format == cli.FormatJSON {
		toks := make([]tokenJSON, len(u.Tokens))
		for i, t := range u.Tokens {
			toks[i] = tokenJSON{Kind: t.Kind.String(), Text: t.Text(), Line: t.Pos.Line, Column: t.Pos.Column}
		}
		return cli.NewFormatter(format).FormatTo(out, toks)
	}
	for _, t := range u.Tokens {
		if _, err := fmt.Fprintln(out, t); err != nil {
			return err
		}
	}
	return nil
}

func runAST(cmd *cobra.Command, args []string) error {
	u, err := loadUnit(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ok := u.Parse()
	if u.Program != nil {
		if err := ast.Fprint(out, u.Program); err != nil {
			return err
		}
	}
	if !ok {
		if u.Program != nil {
			fmt.Fprintln(out)
		}
		return failUnit(out, u)
	}
	return nil
}

type symbolJSON struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Type   string `json:"type"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(inspectFlags.format)
	if err != nil {
		return cli.NewConfigError("--format", err.Error(), nil)
	}
	u, err := loadUnit(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ok := u.Analyze()
	if u.Analyzer == nil {
		return failUnit(out, u)
	}

	globals := u.Analyzer.Globals()
	if format == cli.FormatJSON {
		syms := make([]symbolJSON, len(globals))
		for i, s := range globals {
			syms[i] = symbolJSON{
				Name:   s.Name(),
				Kind:   s.Kind().String(),
				Type:   s.Type().String(),
				Line:   s.Pos().Line,
				Column: s.Pos().Column,
			}
		}
		if err := cli.NewFormatter(format).FormatTo(out, syms); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, symbolTable(globals))
	}

	if !ok {
		fmt.Fprintln(out)
		return failUnit(out, u)
	}
	return nil
}

func symbolTable(syms []symbols.Symbol) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "KIND", "TYPE", "DECLARED")
	for _, s := range syms {
		declared := "builtin"
		if s.Pos().Line > 0 {
			declared = s.Pos().String()
		}
		t.Row(s.Name(), s.Kind().String(), s.Type().String(), declared)
	}
	return t.String()
}
