package analyzer

import (
	"fmt"
	"strings"

	"github.com/jensen-yan/compiler/pkg/script/ast"
	scripterrors "github.com/jensen-yan/compiler/pkg/script/errors"
	"github.com/jensen-yan/compiler/pkg/script/symbols"
	"github.com/jensen-yan/compiler/pkg/script/token"
	"github.com/jensen-yan/compiler/pkg/script/types"
)

// Result is what the analyzer computes for every node: its type and whether
// it names something that can be assigned to.
type Result struct {
	Type       types.Type
	Assignable bool
}

func result(t types.Type) Result {
	return Result{Type: t}
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSuggestions controls "did you mean" hints on undefined identifiers.
// They are on by default.
func WithSuggestions(enabled bool) Option {
	return func(a *Analyzer) {
		a.suggest = enabled
	}
}

// Analyzer resolves names, infers types and collects semantic diagnostics.
// An Analyzer owns its scopes and is used for one program.
type Analyzer struct {
	scopes  *symbols.Manager
	errors  []*SemanticError
	suggest bool

	// returnType is the type of the first return seen in the function being
	// analyzed, or nil if none has been seen yet.
	returnType types.Type

	exprTypes map[ast.Expr]types.Type
}

// New creates an analyzer whose global scope holds the builtin functions.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{suggest: true}
	for _, opt := range opts {
		opt(a)
	}
	a.reset()
	return a
}

// reset discards the state of any previous run and opens a fresh global
// scope holding the builtins.
func (a *Analyzer) reset() {
	a.scopes = symbols.NewManager()
	a.scopes.EnterScope("global")
	for _, b := range symbols.Builtins() {
		a.scopes.Define(b)
	}
	a.errors = nil
	a.returnType = nil
	a.exprTypes = make(map[ast.Expr]types.Type)
}

// Analyze walks prog and returns the diagnostics found. It never fails; an
// empty result means the program is well formed. Each call starts from a
// fresh global scope, so an Analyzer may be reused across programs.
func (a *Analyzer) Analyze(prog *ast.Program) []*SemanticError {
	a.reset()
	ast.Dispatch[Result](a, prog)
	return a.errors
}

// Errors returns the diagnostics from the last Analyze call.
func (a *Analyzer) Errors() []*SemanticError { return a.errors }

// HasErrors reports whether the last Analyze call found any problem.
func (a *Analyzer) HasErrors() bool { return len(a.errors) > 0 }

// TypeOf returns the inferred type of an expression visited during
// analysis, or nil if e was never visited.
func (a *Analyzer) TypeOf(e ast.Expr) types.Type {
	return a.exprTypes[e]
}

// Globals returns the global symbols, builtins first, in definition order.
func (a *Analyzer) Globals() []symbols.Symbol {
	return a.scopes.Global().Symbols()
}

// Lookup resolves name in the scopes that are currently open. After Analyze
// returns only the global scope is open.
func (a *Analyzer) Lookup(name string) symbols.Symbol {
	return a.scopes.Lookup(name)
}

// Scopes exposes the scope stack.
func (a *Analyzer) Scopes() *symbols.Manager { return a.scopes }

// Summary renders the diagnostics as a numbered list.
func (a *Analyzer) Summary() string {
	if len(a.errors) == 0 {
		return "no semantic errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d semantic error(s):", len(a.errors))
	for i, err := range a.errors {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, err)
	}
	return sb.String()
}

func (a *Analyzer) report(pos token.Pos, code Code, format string, args ...any) *SemanticError {
	err := &SemanticError{Pos: pos, Code: code, Message: fmt.Sprintf(format, args...)}
	a.errors = append(a.errors, err)
	return err
}

func (a *Analyzer) visit(n ast.Node) Result {
	return ast.Dispatch[Result](a, n)
}

func (a *Analyzer) expr(e ast.Expr) Result {
	r := ast.Dispatch[Result](a, e)
	a.exprTypes[e] = r.Type
	return r
}

// ----------------------------------------------------------------------------
// Statements

func (a *Analyzer) VisitProgram(n *ast.Program) Result {
	for _, stmt := range n.Stmts {
		a.visit(stmt)
	}
	return result(types.VoidType)
}

func (a *Analyzer) VisitFuncDecl(n *ast.FuncDecl) Result {
	name := n.Name.Name
	if a.scopes.LookupCurrent(name) != nil {
		a.report(n.Pos(), CodeRedeclared, "function '%s' is already defined", name)
		return result(types.UnknownType)
	}

	sig := types.NewFunction(len(n.Params))
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Name
	}

	// Defined before the body so the function can call itself.
	fn := symbols.NewFunction(name, sig, params, n.Name.Pos())
	a.scopes.Define(fn)

	a.scopes.EnterScope(name)
	for i, p := range n.Params {
		if !a.scopes.Define(symbols.NewParameter(p.Name, types.UnknownType, i, p.Pos())) {
			a.report(p.Pos(), CodeRedeclared, "parameter '%s' is already defined", p.Name)
		}
	}

	saved := a.returnType
	a.returnType = nil
	a.visit(n.Body)
	if a.returnType != nil {
		sig.Return = a.returnType
	} else {
		sig.Return = types.VoidType
	}
	a.returnType = saved

	a.scopes.ExitScope()
	fn.MarkDefined()
	return result(sig)
}

func (a *Analyzer) VisitReturnStmt(n *ast.ReturnStmt) Result {
	var typ types.Type = types.VoidType
	if n.Result != nil {
		typ = a.expr(n.Result).Type
	}

	switch {
	case a.returnType == nil:
		a.returnType = typ
	case !types.IsCompatible(a.returnType, typ):
		a.report(n.Pos(), CodeReturnMismatch, "return type mismatch: expected %s, got %s", a.returnType, typ)
	}
	return result(typ)
}

func (a *Analyzer) VisitVarDecl(n *ast.VarDecl) Result {
	name := n.Name.Name
	if a.scopes.LookupCurrent(name) != nil {
		a.report(n.Pos(), CodeRedeclared, "variable '%s' is already defined", name)
		return result(types.UnknownType)
	}

	v := symbols.NewVariable(name, types.UnknownType, n.Name.Pos())
	if n.Init != nil {
		v.SetType(a.expr(n.Init).Type)
		v.MarkInitialized()
	}
	a.scopes.Define(v)
	return result(v.Type())
}

func (a *Analyzer) VisitBlockStmt(n *ast.BlockStmt) Result {
	a.scopes.EnterScope("")
	for _, stmt := range n.Stmts {
		a.visit(stmt)
	}
	a.scopes.ExitScope()
	return result(types.VoidType)
}

func (a *Analyzer) VisitIfStmt(n *ast.IfStmt) Result {
	a.checkCondition(n.Cond, n.Pos(), "if")
	a.visit(n.Then)
	if n.Else != nil {
		a.visit(n.Else)
	}
	return result(types.VoidType)
}

func (a *Analyzer) VisitWhileStmt(n *ast.WhileStmt) Result {
	a.checkCondition(n.Cond, n.Pos(), "while")
	a.visit(n.Body)
	return result(types.VoidType)
}

// checkCondition accepts Bool and Unknown conditions.
func (a *Analyzer) checkCondition(cond ast.Expr, pos token.Pos, keyword string) {
	typ := a.expr(cond).Type
	if p, ok := typ.(*types.Primitive); ok && p.Kind != types.Bool && p.Kind != types.Unknown {
		a.report(pos, CodeCondition, "%s condition must be bool, got %s", keyword, typ)
	}
}

func (a *Analyzer) VisitExprStmt(n *ast.ExprStmt) Result {
	return a.expr(n.X)
}

// ----------------------------------------------------------------------------
// Expressions

func (a *Analyzer) VisitAssignExpr(n *ast.AssignExpr) Result {
	value := a.expr(n.Value)

	target, ok := n.Target.(*ast.Identifier)
	if !ok {
		a.report(n.Pos(), CodeInvalidTarget, "unsupported assignment target %s", n.Target)
		return result(types.UnknownType)
	}

	sym := a.scopes.Lookup(target.Name)
	if sym == nil {
		// First assignment declares the variable in the current scope.
		v := symbols.NewVariable(target.Name, value.Type, target.Pos())
		v.MarkInitialized()
		a.scopes.Define(v)
		// Targets are never visited through a.expr, so record them directly.
		a.exprTypes[target] = value.Type
		return result(value.Type)
	}

	if !symbols.IsVariable(sym) {
		a.report(n.Pos(), CodeNotVariable, "'%s' is not a variable", target.Name)
		return result(types.UnknownType)
	}

	declared := sym.Type()
	if !types.IsUnknown(declared) && !types.IsAssignable(declared, value.Type) {
		a.report(n.Pos(), CodeTypeMismatch, "cannot assign %s to '%s' of type %s", value.Type, target.Name, declared)
	}
	if types.IsUnknown(declared) {
		sym.SetType(value.Type)
	}
	if v, ok := sym.(*symbols.Variable); ok {
		v.MarkInitialized()
	}

	// Recorded directly for the same reason as above.
	a.exprTypes[target] = sym.Type()
	return result(sym.Type())
}

func (a *Analyzer) VisitBinaryExpr(n *ast.BinaryExpr) Result {
	left := a.expr(n.Left)
	right := a.expr(n.Right)

	typ, ok := types.CheckBinary(left.Type, n.Op.Kind, right.Type)
	if !ok {
		a.report(n.Pos(), CodeInvalidOperation, "unsupported operation: %s %s %s", left.Type, n.Op.Text(), right.Type)
		return result(types.UnknownType)
	}
	return result(typ)
}

func (a *Analyzer) VisitUnaryExpr(n *ast.UnaryExpr) Result {
	operand := a.expr(n.Operand)

	typ, ok := types.CheckUnary(n.Op.Kind, operand.Type)
	if !ok {
		a.report(n.Pos(), CodeInvalidOperation, "unsupported operation: %s%s", n.Op.Text(), operand.Type)
		return result(types.UnknownType)
	}
	return result(typ)
}

// VisitCallExpr checks only the argument count. Argument types are not
// checked against parameter types.
func (a *Analyzer) VisitCallExpr(n *ast.CallExpr) Result {
	callee := a.expr(n.Callee)
	for _, arg := range n.Args {
		a.expr(arg)
	}

	sig, ok := callee.Type.(*types.Function)
	if !ok {
		a.report(n.Pos(), CodeNotFunction, "%s is not a function", describeCallee(n.Callee, callee.Type))
		return result(types.UnknownType)
	}

	if len(n.Args) != sig.Arity() {
		a.report(n.Pos(), CodeArity, "parameter count mismatch: %s expects %d argument(s), got %d",
			describeCallee(n.Callee, sig), sig.Arity(), len(n.Args))
		return result(types.UnknownType)
	}
	return result(sig.Return)
}

func describeCallee(callee ast.Expr, typ types.Type) string {
	if id, ok := callee.(*ast.Identifier); ok {
		return "'" + id.Name + "'"
	}
	return "expression of type " + typ.String()
}

func (a *Analyzer) VisitIdentifier(n *ast.Identifier) Result {
	sym := a.scopes.Lookup(n.Name)
	if sym == nil {
		err := a.report(n.Pos(), CodeUndefined, "undefined identifier '%s'", n.Name)
		if a.suggest {
			err.Suggestion = scripterrors.SuggestName(n.Name, a.scopes.VisibleNames())
		}
		return Result{Type: types.UnknownType, Assignable: true}
	}

	if v, ok := sym.(*symbols.Variable); ok && !v.Initialized {
		a.report(n.Pos(), CodeUninitialized, "variable '%s' used before initialization", n.Name)
	}
	return Result{Type: sym.Type(), Assignable: symbols.IsVariable(sym)}
}

func (a *Analyzer) VisitLiteral(n *ast.Literal) Result {
	return result(types.InferLiteral(n.Token))
}
