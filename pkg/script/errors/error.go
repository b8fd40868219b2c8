package errors

import (
	"fmt"
	"strings"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// Kind categorizes a diagnostic by the stage that produced it.
type Kind string

const (
	KindLex      Kind = "lex"      // Unterminated string, malformed number
	KindSyntax   Kind = "syntax"   // Statement that does not parse
	KindSemantic Kind = "semantic" // Undefined name, type mismatch, arity
	KindIO       Kind = "io"       // Source file could not be read
)

// Location is a position in a named source file.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// At returns the location of pos in file.
func At(file string, pos token.Pos) Location {
	return Location{File: file, Line: pos.Line, Column: pos.Column}
}

// String returns "file:line:column", or "line:column" without a file.
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location has line information.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// Error is a diagnostic with location, source context and an optional
// suggestion.
type Error struct {
	Kind       Kind     `json:"kind"`
	Message    string   `json:"message"`
	Location   Location `json:"location"`
	Context    string   `json:"context,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Short returns "location: message" on one line.
func (e *Error) Short() string {
	if !e.Location.IsValid() {
		return e.Message
	}
	return e.Location.String() + ": " + e.Message
}

// ErrorList accumulates diagnostics so that every problem in a source unit
// is reported in one pass.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates an empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{Errors: make([]*Error, 0)}
}

// Add appends err.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and appends a diagnostic.
func (el *ErrorList) AddError(kind Kind, message string, location Location) {
	el.Add(&Error{Kind: kind, Message: message, Location: location})
}

// AddErrorWithSuggestion creates and appends a diagnostic with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(kind Kind, message string, location Location, suggestion string) {
	el.Add(&Error{Kind: kind, Message: message, Location: location, Suggestion: suggestion})
}

// HasErrors reports whether the list is non-empty.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of diagnostics.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error renders every diagnostic under a "Found N error(s)" header.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil for an empty list and the list itself otherwise.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByKind returns the diagnostics of the given kind.
func (el *ErrorList) ByKind(kind Kind) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Kind == kind {
			result = append(result, err)
		}
	}
	return result
}

// HasKind reports whether any diagnostic has the given kind.
func (el *ErrorList) HasKind(kind Kind) bool {
	for _, err := range el.Errors {
		if err.Kind == kind {
			return true
		}
	}
	return false
}

// CountByKind returns the number of diagnostics per kind.
func (el *ErrorList) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, err := range el.Errors {
		counts[err.Kind]++
	}
	return counts
}
