package ast

import (
	"strings"
	"testing"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

func lit(v any, col int) *Literal {
	kind := token.Integer
	switch v.(type) {
	case string:
		kind = token.String
	case float64:
		kind = token.Float
	case bool, nil:
		kind = token.Boolean
	}
	return &Literal{Token: token.New(kind, v, 1, col)}
}

func ident(name string, col int) *Identifier {
	return &Identifier{Name: name, NamePos: token.Pos{Line: 1, Column: col}}
}

func op(kind token.Kind, text string, col int) token.Token {
	return token.New(kind, text, 1, col)
}

func TestNode_String(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "nested binary",
			node: &BinaryExpr{
				Left: lit(int64(1), 1),
				Op:   op(token.Plus, "+", 3),
				Right: &BinaryExpr{
					Left:  lit(int64(2), 5),
					Op:    op(token.Star, "*", 7),
					Right: lit(int64(3), 9),
				},
			},
			want: "(+ 1 (* 2 3))",
		},
		{
			name: "unary",
			node: &UnaryExpr{Op: op(token.Not, "!", 1), Operand: lit(true, 2)},
			want: "(! true)",
		},
		{
			name: "assignment chain",
			node: &AssignExpr{
				Target: ident("a", 1),
				Value:  &AssignExpr{Target: ident("b", 5), Value: lit(int64(42), 9)},
			},
			want: "(= a (= b 42))",
		},
		{
			name: "call",
			node: &CallExpr{Callee: ident("f", 1), Args: []Expr{ident("a", 3), lit("s", 6)}},
			want: `(call f a "s")`,
		},
		{
			name: "null and float literals",
			node: &CallExpr{Callee: ident("g", 1), Args: []Expr{lit(nil, 3), lit(2.0, 9)}},
			want: "(call g null 2.0)",
		},
		{
			name: "var without initializer",
			node: &VarDecl{Name: ident("x", 5)},
			want: "(var x)",
		},
		{
			name: "function",
			node: &FuncDecl{
				Name:   ident("add", 6),
				Params: []*Identifier{ident("a", 10), ident("b", 13)},
				Body: &BlockStmt{Stmts: []Stmt{
					&ReturnStmt{Result: &BinaryExpr{Left: ident("a", 24), Op: op(token.Plus, "+", 26), Right: ident("b", 28)}},
				}},
			},
			want: "(func add (a b) (block (return (+ a b))))",
		},
		{
			name: "if else",
			node: &IfStmt{
				Cond: ident("c", 5),
				Then: &ReturnStmt{},
				Else: &BlockStmt{},
			},
			want: "(if c (return) (block))",
		},
		{
			name: "program",
			node: &Program{Stmts: []Stmt{
				&WhileStmt{Cond: lit(true, 8), Body: &BlockStmt{}},
				&ExprStmt{X: ident("x", 1)},
			}},
			want: "(program (while true (block)) x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNode_Pos(t *testing.T) {
	bin := &BinaryExpr{Left: lit(int64(1), 1), Op: op(token.Plus, "+", 3), Right: lit(int64(2), 5)}
	if got := bin.Pos(); got != (token.Pos{Line: 1, Column: 3}) {
		t.Errorf("BinaryExpr.Pos() = %v, want operator position 1:3", got)
	}
	if got := (&ExprStmt{X: bin}).Pos(); got != bin.Pos() {
		t.Errorf("ExprStmt.Pos() = %v, want %v", got, bin.Pos())
	}
	if got := (&Program{}).Pos(); got != (token.Pos{Line: 1, Column: 1}) {
		t.Errorf("empty Program.Pos() = %v, want 1:1", got)
	}
}

// countingVisitor counts identifiers and literals reachable from a node.
type countingVisitor struct{}

func (v countingVisitor) sum(nodes ...Node) int {
	total := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		total += Dispatch[int](v, n)
	}
	return total
}

func (v countingVisitor) VisitProgram(n *Program) int {
	total := 0
	for _, s := range n.Stmts {
		total += v.sum(s)
	}
	return total
}
func (v countingVisitor) VisitFuncDecl(n *FuncDecl) int     { return v.sum(n.Body) }
func (v countingVisitor) VisitVarDecl(n *VarDecl) int       { return v.sum(n.Init) }
func (v countingVisitor) VisitReturnStmt(n *ReturnStmt) int { return v.sum(n.Result) }
func (v countingVisitor) VisitIfStmt(n *IfStmt) int         { return v.sum(n.Cond, n.Then) }
func (v countingVisitor) VisitWhileStmt(n *WhileStmt) int   { return v.sum(n.Cond, n.Body) }
func (v countingVisitor) VisitBlockStmt(n *BlockStmt) int {
	total := 0
	for _, s := range n.Stmts {
		total += v.sum(s)
	}
	return total
}
func (v countingVisitor) VisitExprStmt(n *ExprStmt) int     { return v.sum(n.X) }
func (v countingVisitor) VisitAssignExpr(n *AssignExpr) int { return v.sum(n.Target, n.Value) }
func (v countingVisitor) VisitBinaryExpr(n *BinaryExpr) int { return v.sum(n.Left, n.Right) }
func (v countingVisitor) VisitUnaryExpr(n *UnaryExpr) int   { return v.sum(n.Operand) }
func (v countingVisitor) VisitCallExpr(n *CallExpr) int {
	total := v.sum(n.Callee)
	for _, a := range n.Args {
		total += v.sum(a)
	}
	return total
}
func (v countingVisitor) VisitIdentifier(*Identifier) int { return 1 }
func (v countingVisitor) VisitLiteral(*Literal) int       { return 1 }

func TestDispatch(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&VarDecl{Name: ident("x", 5), Init: lit(int64(1), 9)},
		&ExprStmt{X: &CallExpr{Callee: ident("f", 1), Args: []Expr{ident("x", 3), lit("s", 6)}}},
	}}
	if got := Dispatch[int](countingVisitor{}, prog); got != 4 {
		t.Errorf("Dispatch() = %d, want 4", got)
	}
}

func TestDispatch_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Dispatch(nil) did not panic")
		}
	}()
	Dispatch[int](countingVisitor{}, nil)
}

func TestInspect(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&FuncDecl{
			Name:   ident("f", 6),
			Params: []*Identifier{ident("a", 8)},
			Body:   &BlockStmt{Stmts: []Stmt{&ReturnStmt{Result: ident("a", 20)}}},
		},
		&IfStmt{Cond: lit(true, 4), Then: &ExprStmt{X: ident("y", 10)}},
	}}

	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if got := strings.Join(names, ","); got != "f,a,a,y" {
		t.Errorf("identifiers = %q, want %q", got, "f,a,a,y")
	}

	count := 0
	Inspect(prog, func(n Node) bool {
		count++
		_, isFunc := n.(*FuncDecl)
		return !isFunc
	})
	// Program, FuncDecl, IfStmt, Literal, ExprStmt, Identifier
	if count != 6 {
		t.Errorf("visited %d nodes with FuncDecl pruned, want 6", count)
	}
}

func TestDump(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&ExprStmt{X: &BinaryExpr{Left: lit(int64(1), 1), Op: op(token.Plus, "+", 3), Right: lit(int64(2), 5)}},
	}}
	want := strings.Join([]string{
		"Program",
		"  ExprStmt @1:3",
		"    BinaryExpr + @1:3",
		"      Literal 1 @1:1",
		"      Literal 2 @1:5",
		"",
	}, "\n")
	if got := Dump(prog); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}
