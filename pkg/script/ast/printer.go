package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at n to w, one node per
// line with two spaces of indentation per depth.
//
//	Program
//	  ExprStmt @1:3
//	    BinaryExpr + @1:3
//	      Literal 1 @1:1
//	      Literal 2 @1:5
func Fprint(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	fprint(bw, n, 0)
	return bw.Flush()
}

// Dump returns the indented dump of n as a string.
func Dump(n Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}

func fprint(w *bufio.Writer, n Node, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(label(n))
	if _, ok := n.(*Program); !ok {
		fmt.Fprintf(w, " @%s", n.Pos())
	}
	w.WriteByte('\n')

	for _, c := range Children(n) {
		fprint(w, c, depth+1)
	}
}

func label(n Node) string {
	switch n := n.(type) {
	case *Program:
		return "Program"
	case *FuncDecl:
		return "FuncDecl " + n.Name.Name
	case *VarDecl:
		return "VarDecl " + n.Name.Name
	case *ReturnStmt:
		return "ReturnStmt"
	case *IfStmt:
		return "IfStmt"
	case *WhileStmt:
		return "WhileStmt"
	case *BlockStmt:
		return "BlockStmt"
	case *ExprStmt:
		return "ExprStmt"
	case *AssignExpr:
		return "AssignExpr"
	case *BinaryExpr:
		return "BinaryExpr " + n.Op.Text()
	case *UnaryExpr:
		return "UnaryExpr " + n.Op.Text()
	case *CallExpr:
		return fmt.Sprintf("CallExpr (%d args)", len(n.Args))
	case *Identifier:
		return "Identifier " + n.Name
	case *Literal:
		return "Literal " + n.Token.Text()
	default:
		return fmt.Sprintf("%T", n)
	}
}
