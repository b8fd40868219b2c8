package analyzer

import (
	"fmt"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// Code classifies a semantic diagnostic.
type Code string

const (
	CodeUndefined        Code = "undefined"
	CodeUninitialized    Code = "uninitialized"
	CodeRedeclared       Code = "redeclared"
	CodeNotVariable      Code = "not-variable"
	CodeNotFunction      Code = "not-function"
	CodeArity            Code = "arity"
	CodeTypeMismatch     Code = "type-mismatch"
	CodeInvalidOperation Code = "invalid-operation"
	CodeInvalidTarget    Code = "invalid-target"
	CodeCondition        Code = "condition"
	CodeReturnMismatch   Code = "return-mismatch"
)

// SemanticError is a diagnostic produced by the analyzer. Semantic errors
// never stop analysis.
type SemanticError struct {
	Pos        token.Pos
	Code       Code
	Message    string
	Suggestion string
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
