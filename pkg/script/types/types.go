// Package types models the inferred types of the script language and the
// rules that combine them.
//
// There are no type annotations in source. Every value has either a
// Primitive type or a Function type, and Unknown stands in for anything not
// yet inferred. Unknown is accepted wherever a type is checked so that
// analysis degrades gracefully instead of cascading errors.
//
// The rule functions are total: instead of failing they return ok=false,
// and the caller decides how to report it.
package types

import (
	"strings"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// Type is a primitive or function type. Compare types with Equal, not ==.
type Type interface {
	String() string
	Equal(other Type) bool
	typ()
}

// Kind enumerates the primitive types.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Bool
	Void
	Unknown
)

var kindNames = [...]string{
	Int:     "int",
	Float:   "float",
	String:  "string",
	Bool:    "bool",
	Void:    "void",
	Unknown: "unknown",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Primitive is one of the built-in scalar types.
type Primitive struct {
	Kind Kind
}

func (p *Primitive) String() string { return p.Kind.String() }

// Equal reports whether other is a primitive of the same kind.
func (p *Primitive) Equal(other Type) bool {
	o, ok := other.(*Primitive)
	return ok && o.Kind == p.Kind
}

func (*Primitive) typ() {}

// The primitive singletons. Rule functions always return these instances.
var (
	IntType     = &Primitive{Kind: Int}
	FloatType   = &Primitive{Kind: Float}
	StringType  = &Primitive{Kind: String}
	BoolType    = &Primitive{Kind: Bool}
	VoidType    = &Primitive{Kind: Void}
	UnknownType = &Primitive{Kind: Unknown}
)

// Function is the type of a declared or builtin function. Return may be
// replaced once the function body has been analyzed.
type Function struct {
	Params []Type
	Return Type
}

// NewFunction returns a function type with arity parameters of type Unknown
// and an Unknown return type.
func NewFunction(arity int) *Function {
	params := make([]Type, arity)
	for i := range params {
		params[i] = UnknownType
	}
	return &Function{Params: params, Return: UnknownType}
}

func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return "func(" + strings.Join(params, ", ") + ") -> " + f.Return.String()
}

// Equal reports structural equality: same parameter types in order and the
// same return type.
func (f *Function) Equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(o.Params) != len(f.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return f.Return.Equal(o.Return)
}

func (*Function) typ() {}

// Arity returns the number of parameters.
func (f *Function) Arity() int { return len(f.Params) }

func kindOf(t Type) (Kind, bool) {
	p, ok := t.(*Primitive)
	if !ok {
		return 0, false
	}
	return p.Kind, true
}

// IsUnknown reports whether t is the Unknown primitive.
func IsUnknown(t Type) bool {
	k, ok := kindOf(t)
	return ok && k == Unknown
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	k, ok := kindOf(t)
	return ok && (k == Int || k == Float)
}

// InferLiteral returns the type of a literal token. The null literal is Void.
func InferLiteral(tok token.Token) Type {
	switch tok.Kind {
	case token.Integer:
		return IntType
	case token.Float:
		return FloatType
	case token.String:
		return StringType
	}
	if tok.Value == nil {
		return VoidType
	}
	if tok.Kind == token.Boolean {
		return BoolType
	}
	return UnknownType
}
