package symbols

import (
	"fmt"

	"github.com/jensen-yan/compiler/pkg/script/token"
	"github.com/jensen-yan/compiler/pkg/script/types"
)

// Kind distinguishes the symbol variants.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindParameter:
		return "parameter"
	}
	return "unknown"
}

// Symbol is a named binding. The set of implementations is closed:
// *Variable, *Function and *Parameter.
type Symbol interface {
	Name() string
	Type() types.Type
	// SetType refines the type once it has been inferred.
	SetType(types.Type)
	// Pos is the declaration position, invalid for builtins.
	Pos() token.Pos
	Kind() Kind
	String() string
	symbol()
}

type base struct {
	name string
	typ  types.Type
	pos  token.Pos
}

func (b *base) Name() string           { return b.name }
func (b *base) Type() types.Type       { return b.typ }
func (b *base) SetType(typ types.Type) { b.typ = typ }
func (b *base) Pos() token.Pos         { return b.pos }
func (b *base) symbol()                {}

// Variable is a variable bound by var or by a first assignment.
type Variable struct {
	base
	Initialized bool
}

// NewVariable creates an uninitialized variable.
func NewVariable(name string, typ types.Type, pos token.Pos) *Variable {
	return &Variable{base: base{name: name, typ: typ, pos: pos}}
}

func (v *Variable) Kind() Kind { return KindVariable }

func (v *Variable) String() string {
	return fmt.Sprintf("variable %s: %s", v.name, v.typ)
}

// MarkInitialized records that the variable has been assigned.
func (v *Variable) MarkInitialized() { v.Initialized = true }

// Function is a declared or builtin function.
type Function struct {
	base
	ParamNames []string
	Defined    bool
}

// NewFunction creates a function symbol. Defined stays false until the body
// has been analyzed.
func NewFunction(name string, sig *types.Function, params []string, pos token.Pos) *Function {
	return &Function{base: base{name: name, typ: sig, pos: pos}, ParamNames: params}
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	return fmt.Sprintf("function %s: %s", f.name, f.typ)
}

// Signature returns the function type, or nil if the symbol's type has been
// replaced by something else.
func (f *Function) Signature() *types.Function {
	sig, _ := f.typ.(*types.Function)
	return sig
}

// MarkDefined records that the function body has been analyzed.
func (f *Function) MarkDefined() { f.Defined = true }

// Parameter is a function parameter.
type Parameter struct {
	base
	// Position is the 0-based index in the parameter list.
	Position int
}

// NewParameter creates a parameter symbol.
func NewParameter(name string, typ types.Type, position int, pos token.Pos) *Parameter {
	return &Parameter{base: base{name: name, typ: typ, pos: pos}, Position: position}
}

func (p *Parameter) Kind() Kind { return KindParameter }

func (p *Parameter) String() string {
	return fmt.Sprintf("parameter %s #%d: %s", p.name, p.Position, p.typ)
}

// IsVariable reports whether sym can be the target of an assignment.
func IsVariable(sym Symbol) bool {
	switch sym.(type) {
	case *Variable, *Parameter:
		return true
	}
	return false
}

// Builtins returns fresh symbols for the builtin functions print, len and
// str.
func Builtins() []Symbol {
	builtin := func(name string, params []string, paramTypes []types.Type, ret types.Type) *Function {
		fn := NewFunction(name, &types.Function{Params: paramTypes, Return: ret}, params, token.Pos{})
		fn.Defined = true
		return fn
	}
	return []Symbol{
		builtin("print", []string{"message"}, []types.Type{types.StringType}, types.VoidType),
		builtin("len", []string{"s"}, []types.Type{types.StringType}, types.IntType),
		builtin("str", []string{"value"}, []types.Type{types.IntType}, types.StringType),
	}
}
