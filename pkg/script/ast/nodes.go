package ast

import (
	"strings"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// Node is implemented by every syntax tree node. The set of nodes is closed:
// only types in this package satisfy it.
type Node interface {
	// Pos returns the position of the token that defines the node.
	Pos() token.Pos
	// String returns a compact S-expression rendering of the node.
	String() string
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ----------------------------------------------------------------------------
// Expressions

// BinaryExpr is an infix operation such as a + b. Pos is the operator.
type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr is a prefix operation, either -x or !x.
type UnaryExpr struct {
	Op      token.Token
	Operand Expr
}

// Literal is an integer, float, string, boolean or null constant.
type Literal struct {
	Token token.Token
}

// Identifier is a bare name reference.
type Identifier struct {
	Name    string
	NamePos token.Pos
}

// CallExpr is a call such as f(a, b). Pos is the opening parenthesis.
type CallExpr struct {
	Callee Expr
	Lparen token.Pos
	Args   []Expr
}

// AssignExpr is target = value. Pos is the '=' token.
type AssignExpr struct {
	Target Expr
	EqPos  token.Pos
	Value  Expr
}

func (x *BinaryExpr) Pos() token.Pos { return x.Op.Pos }
func (x *UnaryExpr) Pos() token.Pos  { return x.Op.Pos }
func (x *Literal) Pos() token.Pos    { return x.Token.Pos }
func (x *Identifier) Pos() token.Pos { return x.NamePos }
func (x *CallExpr) Pos() token.Pos   { return x.Lparen }
func (x *AssignExpr) Pos() token.Pos { return x.EqPos }

func (x *BinaryExpr) String() string {
	return "(" + x.Op.Text() + " " + x.Left.String() + " " + x.Right.String() + ")"
}

func (x *UnaryExpr) String() string {
	return "(" + x.Op.Text() + " " + x.Operand.String() + ")"
}

func (x *Literal) String() string    { return x.Token.Text() }
func (x *Identifier) String() string { return x.Name }

func (x *CallExpr) String() string {
	parts := []string{"call", x.Callee.String()}
	for _, arg := range x.Args {
		parts = append(parts, arg.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (x *AssignExpr) String() string {
	return "(= " + x.Target.String() + " " + x.Value.String() + ")"
}

// Value returns the literal payload, as produced by the lexer.
func (x *Literal) Value() any { return x.Token.Value }

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression evaluated for its effect, terminated by ';'.
type ExprStmt struct {
	X Expr
}

// VarDecl is var name [= init];
type VarDecl struct {
	VarPos token.Pos
	Name   *Identifier
	Init   Expr // nil when there is no initializer
}

// FuncDecl is func name(params) { body }.
type FuncDecl struct {
	FuncPos token.Pos
	Name    *Identifier
	Params  []*Identifier
	Body    *BlockStmt
}

// ReturnStmt is return [result];
type ReturnStmt struct {
	ReturnPos token.Pos
	Result    Expr // nil for a bare return
}

// IfStmt is if (cond) then [else otherwise].
type IfStmt struct {
	IfPos token.Pos
	Cond  Expr
	Then  Stmt
	Else  Stmt // nil when there is no else branch
}

// WhileStmt is while (cond) body.
type WhileStmt struct {
	WhilePos token.Pos
	Cond     Expr
	Body     Stmt
}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Lbrace token.Pos
	Stmts  []Stmt
}

func (s *ExprStmt) Pos() token.Pos   { return s.X.Pos() }
func (s *VarDecl) Pos() token.Pos    { return s.VarPos }
func (s *FuncDecl) Pos() token.Pos   { return s.FuncPos }
func (s *ReturnStmt) Pos() token.Pos { return s.ReturnPos }
func (s *IfStmt) Pos() token.Pos     { return s.IfPos }
func (s *WhileStmt) Pos() token.Pos  { return s.WhilePos }
func (s *BlockStmt) Pos() token.Pos  { return s.Lbrace }

func (s *ExprStmt) String() string { return s.X.String() }

func (s *VarDecl) String() string {
	if s.Init == nil {
		return "(var " + s.Name.Name + ")"
	}
	return "(var " + s.Name.Name + " " + s.Init.String() + ")"
}

func (s *FuncDecl) String() string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return "(func " + s.Name.Name + " (" + strings.Join(names, " ") + ") " + s.Body.String() + ")"
}

func (s *ReturnStmt) String() string {
	if s.Result == nil {
		return "(return)"
	}
	return "(return " + s.Result.String() + ")"
}

func (s *IfStmt) String() string {
	if s.Else == nil {
		return "(if " + s.Cond.String() + " " + s.Then.String() + ")"
	}
	return "(if " + s.Cond.String() + " " + s.Then.String() + " " + s.Else.String() + ")"
}

func (s *WhileStmt) String() string {
	return "(while " + s.Cond.String() + " " + s.Body.String() + ")"
}

func (s *BlockStmt) String() string {
	return "(block" + joinStmts(s.Stmts) + ")"
}

// ----------------------------------------------------------------------------
// Program

// Program is the root of a parsed source unit.
type Program struct {
	Stmts []Stmt
}

// Pos returns the position of the first statement, or 1:1 for an empty
// program.
func (p *Program) Pos() token.Pos {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.Pos{Line: 1, Column: 1}
}

func (p *Program) String() string {
	return "(program" + joinStmts(p.Stmts) + ")"
}

func joinStmts(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteByte(' ')
		sb.WriteString(s.String())
	}
	return sb.String()
}

func (*BinaryExpr) node() {}
func (*UnaryExpr) node()  {}
func (*Literal) node()    {}
func (*Identifier) node() {}
func (*CallExpr) node()   {}
func (*AssignExpr) node() {}
func (*ExprStmt) node()   {}
func (*VarDecl) node()    {}
func (*FuncDecl) node()   {}
func (*ReturnStmt) node() {}
func (*IfStmt) node()     {}
func (*WhileStmt) node()  {}
func (*BlockStmt) node()  {}
func (*Program) node()    {}

func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*AssignExpr) exprNode() {}

func (*ExprStmt) stmtNode()   {}
func (*VarDecl) stmtNode()    {}
func (*FuncDecl) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*BlockStmt) stmtNode()  {}
