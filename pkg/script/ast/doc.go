// Package ast declares the syntax tree produced by the script parser.
//
// # Node Set
//
// The node set is closed. Expressions are BinaryExpr, UnaryExpr, Literal,
// Identifier, CallExpr and AssignExpr; statements are ExprStmt, VarDecl,
// FuncDecl, ReturnStmt, IfStmt, WhileStmt and BlockStmt; Program is the root.
// Every node reports the position of the token that defines it: the operator
// of a binary or unary expression, the '(' of a call, the '=' of an
// assignment, or the leading keyword of a statement.
//
// # Traversal
//
// Typed traversals implement Visitor[R] and route nodes with Dispatch:
//
//	type counter struct{}
//
//	func (counter) VisitLiteral(*ast.Literal) int { return 1 }
//	// ...
//
//	n := ast.Dispatch[int](counter{}, program)
//
// Untyped walks use Inspect, which mirrors go/ast.Inspect.
//
// # Printing
//
// String renders a compact S-expression such as (+ 1 (* 2 3)); Fprint and
// Dump render an indented tree with positions.
//
// Nodes are not modified after parsing. Analysis results are kept in side
// tables keyed by node identity.
package ast
