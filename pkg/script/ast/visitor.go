package ast

import "fmt"

// Visitor is implemented by tree traversals that compute a result of type R
// for every node. Use Dispatch to route a node to the matching method.
type Visitor[R any] interface {
	VisitProgram(*Program) R
	VisitFuncDecl(*FuncDecl) R
	VisitVarDecl(*VarDecl) R
	VisitReturnStmt(*ReturnStmt) R
	VisitIfStmt(*IfStmt) R
	VisitWhileStmt(*WhileStmt) R
	VisitBlockStmt(*BlockStmt) R
	VisitExprStmt(*ExprStmt) R
	VisitAssignExpr(*AssignExpr) R
	VisitBinaryExpr(*BinaryExpr) R
	VisitUnaryExpr(*UnaryExpr) R
	VisitCallExpr(*CallExpr) R
	VisitIdentifier(*Identifier) R
	VisitLiteral(*Literal) R
}

// Dispatch calls the Visit method of v that matches the dynamic type of n.
// It panics if n is nil or not one of the node types of this package.
func Dispatch[R any](v Visitor[R], n Node) R {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *FuncDecl:
		return v.VisitFuncDecl(n)
	case *VarDecl:
		return v.VisitVarDecl(n)
	case *ReturnStmt:
		return v.VisitReturnStmt(n)
	case *IfStmt:
		return v.VisitIfStmt(n)
	case *WhileStmt:
		return v.VisitWhileStmt(n)
	case *BlockStmt:
		return v.VisitBlockStmt(n)
	case *ExprStmt:
		return v.VisitExprStmt(n)
	case *AssignExpr:
		return v.VisitAssignExpr(n)
	case *BinaryExpr:
		return v.VisitBinaryExpr(n)
	case *UnaryExpr:
		return v.VisitUnaryExpr(n)
	case *CallExpr:
		return v.VisitCallExpr(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *Literal:
		return v.VisitLiteral(n)
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
}

// Children returns the direct children of n in source order. Optional
// children that are absent are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Stmts {
			add(s)
		}
	case *FuncDecl:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *VarDecl:
		add(n.Name)
		if n.Init != nil {
			add(n.Init)
		}
	case *ReturnStmt:
		if n.Result != nil {
			add(n.Result)
		}
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *ExprStmt:
		add(n.X)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first order. It calls f for
// each node; if f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
