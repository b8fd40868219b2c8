package parser

import (
	"fmt"
	"strings"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// ParseError describes a malformed statement.
type ParseError struct {
	Pos     token.Pos
	Message string
	// Token is the offending token.
	Token token.Token
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList is the ordered list of errors recorded while parsing. At most one
// error is recorded per malformed statement.
type ErrorList []*ParseError

// Error renders the first error and a count of the rest.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Messages returns every error rendered on its own line.
func (l ErrorList) Messages() string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// describe renders a token for use in error messages.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Newline:
		return "newline"
	}
	return "'" + tok.Text() + "'"
}
