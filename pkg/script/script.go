package script

import (
	"errors"

	"github.com/jensen-yan/compiler/pkg/script/analyzer"
	"github.com/jensen-yan/compiler/pkg/script/ast"
	diag "github.com/jensen-yan/compiler/pkg/script/errors"
	"github.com/jensen-yan/compiler/pkg/script/lexer"
	"github.com/jensen-yan/compiler/pkg/script/parser"
	"github.com/jensen-yan/compiler/pkg/script/token"
)

// DefaultContextLines is the number of source lines shown around a
// diagnostic when no option overrides it.
const DefaultContextLines = 1

type options struct {
	contextLines int
	suggestions  bool
}

// Option configures a Unit.
type Option func(*options)

// WithContextLines sets how many lines around each diagnostic are attached
// as context. Zero shows only the offending line; a negative value attaches
// no context at all.
func WithContextLines(n int) Option {
	return func(o *options) { o.contextLines = n }
}

// WithSuggestions toggles "did you mean" hints on undefined identifiers.
func WithSuggestions(enabled bool) Option {
	return func(o *options) { o.suggestions = enabled }
}

// Unit is a single compile unit moving through the pipeline. The stages run
// in order and each one only runs if every earlier stage succeeded.
type Unit struct {
	Name   string
	Source string

	Tokens   []token.Token
	Program  *ast.Program
	Analyzer *analyzer.Analyzer

	Diagnostics *diag.ErrorList

	opts   options
	failed bool
}

// NewUnit creates a unit for source. name is used in diagnostic locations
// and may be empty.
func NewUnit(name, source string, opts ...Option) *Unit {
	o := options{contextLines: DefaultContextLines, suggestions: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Unit{
		Name:        name,
		Source:      source,
		Diagnostics: diag.NewErrorList(),
		opts:        o,
	}
}

// Lex tokenizes the source. It reports whether lexing succeeded.
func (u *Unit) Lex() bool {
	if u.failed {
		return false
	}
	tokens, err := lexer.Tokenize(u.Source)
	if err != nil {
		u.add(FromLexError(u.Name, err))
		return false
	}
	u.Tokens = tokens
	return true
}

// Parse builds the syntax tree, lexing first if needed. It reports whether
// the program parsed without errors. On failure the partial Program is
// still available.
func (u *Unit) Parse() bool {
	if u.failed {
		return false
	}
	if u.Tokens == nil && !u.Lex() {
		return false
	}
	prog, err := parser.Parse(u.Tokens)
	u.Program = prog
	if err != nil {
		u.add(FromParseErrors(u.Name, err)...)
		return false
	}
	return true
}

// Analyze runs semantic analysis, parsing first if needed. It reports
// whether the program is free of semantic errors.
func (u *Unit) Analyze() bool {
	if u.failed {
		return false
	}
	if u.Program == nil && !u.Parse() {
		return false
	}
	u.Analyzer = analyzer.New(analyzer.WithSuggestions(u.opts.suggestions))
	errs := u.Analyzer.Analyze(u.Program)
	for _, err := range errs {
		u.add(FromSemanticError(u.Name, err))
	}
	return len(errs) == 0
}

// Failed reports whether any stage produced a diagnostic.
func (u *Unit) Failed() bool { return u.failed }

func (u *Unit) add(errs ...*diag.Error) {
	for _, err := range errs {
		if u.opts.contextLines >= 0 {
			diag.WithContext(err, u.Source, u.opts.contextLines)
		}
		u.Diagnostics.Add(err)
	}
	if len(errs) > 0 {
		u.failed = true
	}
}

// Check runs the whole pipeline on source and returns the unit with its
// diagnostics.
func Check(name, source string, opts ...Option) *Unit {
	u := NewUnit(name, source, opts...)
	u.Analyze()
	return u
}

// Tokenize is lexer.Tokenize.
func Tokenize(source string) ([]token.Token, error) {
	return lexer.Tokenize(source)
}

// Parse lexes and parses source. Errors from either stage are returned as
// they were produced.
func Parse(source string) (*ast.Program, error) {
	return parser.ParseSource(source)
}

// Analyze runs the analyzer on an already parsed program.
func Analyze(prog *ast.Program) []*analyzer.SemanticError {
	return analyzer.New().Analyze(prog)
}

// Diagnostics converts any pipeline error into diagnostics. Unknown errors
// become a single KindIO diagnostic without a location.
func Diagnostics(file string, err error) []*diag.Error {
	if err == nil {
		return nil
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return []*diag.Error{FromLexError(file, lexErr)}
	}
	var list parser.ErrorList
	if errors.As(err, &list) {
		return FromParseErrors(file, list)
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return FromParseErrors(file, parseErr)
	}
	var semErr *analyzer.SemanticError
	if errors.As(err, &semErr) {
		return []*diag.Error{FromSemanticError(file, semErr)}
	}
	return []*diag.Error{{Kind: diag.KindIO, Message: err.Error(), Location: diag.Location{File: file}}}
}
