package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical category of a token.
type Kind int

const (
	// Special tokens
	EOF Kind = iota
	Error
	Newline

	// Literals
	Integer
	Float
	String
	Boolean

	Identifier

	// Keywords
	Func
	Return
	If
	Else
	While
	For
	Var

	// Arithmetic operators
	Plus
	Minus
	Star
	Slash
	Percent

	// Comparison operators
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual

	// Logical operators
	And
	Or
	Not

	Assign

	// Delimiters
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Comma
	Dot
)

var kindNames = [...]string{
	EOF:          "EOF",
	Error:        "Error",
	Newline:      "Newline",
	Integer:      "Integer",
	Float:        "Float",
	String:       "String",
	Boolean:      "Boolean",
	Identifier:   "Identifier",
	Func:         "Func",
	Return:       "Return",
	If:           "If",
	Else:         "Else",
	While:        "While",
	For:          "For",
	Var:          "Var",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Percent:      "Percent",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	Less:         "Less",
	Greater:      "Greater",
	LessEqual:    "LessEqual",
	GreaterEqual: "GreaterEqual",
	And:          "And",
	Or:           "Or",
	Not:          "Not",
	Assign:       "Assign",
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	Semicolon:    "Semicolon",
	Comma:        "Comma",
	Dot:          "Dot",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= Func && k <= Var
}

// IsLiteral reports whether the kind carries a literal value.
func (k Kind) IsLiteral() bool {
	return k >= Integer && k <= Boolean
}

// IsOperator reports whether the kind is an arithmetic, comparison,
// logical or assignment operator.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Assign
}

var keywords = map[string]Kind{
	"func":   Func,
	"return": Return,
	"if":     If,
	"else":   Else,
	"while":  While,
	"for":    For,
	"var":    Var,
}

// Keyword returns the keyword kind for ident, if ident is reserved.
func Keyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Pos is a 1-based line and column in the source text.
type Pos struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position points into a source file.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Token is a single lexical unit produced by the lexer.
//
// Value holds the literal payload: int64 for Integer, float64 for Float,
// string for String, bool for Boolean, nil for the null literal (a Boolean
// token with no value), and the source text for every other kind.
type Token struct {
	Kind  Kind
	Value any
	Pos
}

// New creates a token at the given line and column.
func New(kind Kind, value any, line, column int) Token {
	return Token{Kind: kind, Value: value, Pos: Pos{Line: line, Column: column}}
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// IsNull reports whether the token is the null literal.
func (t Token) IsNull() bool {
	return t.Kind == Boolean && t.Value == nil
}

// Text returns a source-like rendering of the token value.
func (t Token) Text() string {
	switch v := t.Value.(type) {
	case nil:
		if t.Kind == Boolean {
			return "null"
		}
		return ""
	case string:
		if t.Kind == String {
			return strconv.Quote(v)
		}
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// String returns a debug representation such as Integer(123)@1:5.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return fmt.Sprintf("EOF@%s", t.Pos)
	case Newline:
		return fmt.Sprintf("Newline@%s", t.Pos)
	}
	return fmt.Sprintf("%s(%s)@%s", t.Kind, t.Text(), t.Pos)
}

// FormatFloat renders a float so that it always reads back as a float.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'N' || c == 'I' {
			return s
		}
	}
	return s + ".0"
}
