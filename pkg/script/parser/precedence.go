package parser

import "github.com/jensen-yan/compiler/pkg/script/token"

// Precedence is the binding power of an operator. Higher binds tighter.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
)

var precedenceNames = map[Precedence]string{
	PrecNone:       "none",
	PrecAssignment: "assignment",
	PrecOr:         "or",
	PrecAnd:        "and",
	PrecEquality:   "equality",
	PrecComparison: "comparison",
	PrecTerm:       "term",
	PrecFactor:     "factor",
	PrecUnary:      "unary",
}

func (p Precedence) String() string {
	if name, ok := precedenceNames[p]; ok {
		return name
	}
	return "unknown"
}

// Associativity decides how operators of equal precedence group.
type Associativity int

const (
	Left Associativity = iota
	Right
)

func (a Associativity) String() string {
	if a == Right {
		return "right"
	}
	return "left"
}

type operatorInfo struct {
	prec  Precedence
	assoc Associativity
}

// binaryOperators covers every infix operator, including assignment.
var binaryOperators = map[token.Kind]operatorInfo{
	token.Assign:       {PrecAssignment, Right},
	token.Or:           {PrecOr, Left},
	token.And:          {PrecAnd, Left},
	token.Equal:        {PrecEquality, Left},
	token.NotEqual:     {PrecEquality, Left},
	token.Less:         {PrecComparison, Left},
	token.Greater:      {PrecComparison, Left},
	token.LessEqual:    {PrecComparison, Left},
	token.GreaterEqual: {PrecComparison, Left},
	token.Plus:         {PrecTerm, Left},
	token.Minus:        {PrecTerm, Left},
	token.Star:         {PrecFactor, Left},
	token.Slash:        {PrecFactor, Left},
	token.Percent:      {PrecFactor, Left},
}

var unaryOperators = map[token.Kind]operatorInfo{
	token.Not:   {PrecUnary, Right},
	token.Minus: {PrecUnary, Right},
}

// PrecedenceOf returns the infix binding power of kind. Operators that are
// only prefix, such as '!', report PrecUnary. Anything else is PrecNone.
func PrecedenceOf(kind token.Kind) Precedence {
	if info, ok := binaryOperators[kind]; ok {
		return info.prec
	}
	if info, ok := unaryOperators[kind]; ok {
		return info.prec
	}
	return PrecNone
}

// AssociativityOf returns the associativity of kind, using the infix entry
// when the operator is both infix and prefix.
func AssociativityOf(kind token.Kind) Associativity {
	if info, ok := binaryOperators[kind]; ok {
		return info.assoc
	}
	if info, ok := unaryOperators[kind]; ok {
		return info.assoc
	}
	return Left
}

// IsBinaryOperator reports whether kind can appear between two operands.
// Assignment is included.
func IsBinaryOperator(kind token.Kind) bool {
	_, ok := binaryOperators[kind]
	return ok
}

// IsUnaryOperator reports whether kind can prefix an operand: '!' or '-'.
func IsUnaryOperator(kind token.Kind) bool {
	_, ok := unaryOperators[kind]
	return ok
}
