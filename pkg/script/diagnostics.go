package script

import (
	"errors"

	"github.com/jensen-yan/compiler/pkg/script/analyzer"
	diag "github.com/jensen-yan/compiler/pkg/script/errors"
	"github.com/jensen-yan/compiler/pkg/script/lexer"
	"github.com/jensen-yan/compiler/pkg/script/parser"
)

// FromLexError converts a lexer failure. Errors that are not a
// *lexer.LexError are reported without a position.
func FromLexError(file string, err error) *diag.Error {
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		return &diag.Error{Kind: diag.KindLex, Message: err.Error(), Location: diag.Location{File: file}}
	}
	return &diag.Error{
		Kind:     diag.KindLex,
		Message:  lexErr.Message,
		Location: diag.At(file, lexErr.Pos),
	}
}

// FromParseErrors converts the error returned by the parser, which is either
// a parser.ErrorList or a single *parser.ParseError.
func FromParseErrors(file string, err error) []*diag.Error {
	var list parser.ErrorList
	if !errors.As(err, &list) {
		var single *parser.ParseError
		if !errors.As(err, &single) {
			return []*diag.Error{{Kind: diag.KindSyntax, Message: err.Error(), Location: diag.Location{File: file}}}
		}
		list = parser.ErrorList{single}
	}

	out := make([]*diag.Error, 0, len(list))
	for _, e := range list {
		out = append(out, &diag.Error{
			Kind:     diag.KindSyntax,
			Message:  e.Message,
			Location: diag.At(file, e.Pos),
		})
	}
	return out
}

// FromSemanticError converts an analyzer diagnostic, keeping its suggestion.
func FromSemanticError(file string, err *analyzer.SemanticError) *diag.Error {
	return &diag.Error{
		Kind:       diag.KindSemantic,
		Message:    err.Message,
		Location:   diag.At(file, err.Pos),
		Suggestion: err.Suggestion,
	}
}
