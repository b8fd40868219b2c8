package parser

import (
	"errors"
	"fmt"

	"github.com/jensen-yan/compiler/pkg/script/ast"
	"github.com/jensen-yan/compiler/pkg/script/lexer"
	"github.com/jensen-yan/compiler/pkg/script/token"
)

// Parser builds a syntax tree from a token sequence. A Parser is used for
// exactly one token sequence.
type Parser struct {
	tokens  []token.Token
	current int
	errors  ErrorList
}

// New creates a parser over tokens. An EOF token is appended if the sequence
// does not already end with one.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		eof := token.New(token.EOF, nil, 1, 1)
		if n := len(tokens); n > 0 {
			eof.Pos = tokens[n-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	return &Parser{tokens: tokens}
}

// Parse is a convenience function that parses tokens in one call.
func Parse(tokens []token.Token) (*ast.Program, error) {
	return New(tokens).Parse()
}

// ParseSource tokenizes and parses source. A *lexer.LexError is returned
// unchanged with a nil program; parse errors are returned as an ErrorList
// alongside the partial program.
func ParseSource(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse parses the whole token sequence. The returned program is never nil.
// Statements that fail to parse are reported in the returned ErrorList and
// left out of the program; parsing resumes at the next statement boundary.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}

	p.skipNewlines()
	for !p.atEnd() {
		if stmt := p.statement(); stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
		p.skipNewlines()
	}

	return prog, p.errors.Err()
}

// Errors returns the errors recorded so far.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

// ----------------------------------------------------------------------------
// Token cursor

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(kinds ...token.Kind) bool {
	kind := p.peek().Kind
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind, what string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAtCurrent(fmt.Sprintf("expected %s, found %s", what, describe(p.peek())))
}

func (p *Parser) skipNewlines() {
	for p.check(token.Newline) {
		p.advance()
	}
}

func (p *Parser) errorAtCurrent(msg string) *ParseError {
	tok := p.peek()
	return &ParseError{Pos: tok.Pos, Message: msg, Token: tok}
}

// synchronize discards tokens until just past a ';' or just before a token
// that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Func, token.If, token.While, token.Return, token.Var:
			return
		}
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Statements

// statement parses one statement. On failure it records the error, skips to
// the next statement boundary and returns nil.
func (p *Parser) statement() ast.Stmt {
	stmt, err := p.parseStatement()
	if err == nil {
		return stmt
	}
	if errors.Is(err, errRecovered) {
		return nil
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		perr = p.errorAtCurrent(err.Error())
	}
	p.errors = append(p.errors, perr)
	p.synchronize()
	return nil
}

// errRecovered marks a statement whose nested statement failed. The nested
// failure has already been recorded and skipped.
var errRecovered = errors.New("nested statement recovered")

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.Func:
		return p.funcDecl()
	case token.Var:
		return p.varDecl()
	case token.If:
		return p.ifStmt()
	case token.While:
		return p.whileStmt()
	case token.Return:
		return p.returnStmt()
	case token.LeftBrace:
		block, err := p.block()
		if err != nil {
			return nil, err
		}
		return block, nil
	default:
		return p.exprStmt()
	}
}

func (p *Parser) funcDecl() (ast.Stmt, error) {
	funcTok := p.advance()

	nameTok, err := p.expect(token.Identifier, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LeftParen, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []*ast.Identifier
	if !p.check(token.RightParen) {
		for {
			paramTok, err := p.expect(token.Identifier, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, identFrom(paramTok))
			if !p.check(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RightParen, "')' after parameters"); err != nil {
		return nil, err
	}

	if !p.check(token.LeftBrace) {
		return nil, p.errorAtCurrent(fmt.Sprintf("expected '{' before function body, found %s", describe(p.peek())))
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		FuncPos: funcTok.Pos,
		Name:    identFrom(nameTok),
		Params:  params,
		Body:    body,
	}, nil
}

func (p *Parser) varDecl() (ast.Stmt, error) {
	varTok := p.advance()

	nameTok, err := p.expect(token.Identifier, "variable name")
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{VarPos: varTok.Pos, Name: identFrom(nameTok)}
	if p.check(token.Assign) {
		p.advance()
		if decl.Init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon, "';' after variable declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	ifTok := p.advance()

	cond, err := p.condition("if")
	if err != nil {
		return nil, err
	}

	then, err := p.body()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{IfPos: ifTok.Pos, Cond: cond, Then: then}
	mark := p.current
	p.skipNewlines()
	if !p.check(token.Else) {
		p.current = mark
	} else {
		p.advance()
		// A failed else branch has already been reported and skipped.
		if elseStmt := p.statement(); elseStmt != nil {
			stmt.Else = elseStmt
		}
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	whileTok := p.advance()

	cond, err := p.condition("while")
	if err != nil {
		return nil, err
	}

	body, err := p.body()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{WhilePos: whileTok.Pos, Cond: cond, Body: body}, nil
}

// condition parses the parenthesized condition of an if or while.
func (p *Parser) condition(keyword string) (ast.Expr, error) {
	if _, err := p.expect(token.LeftParen, "'(' after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RightParen, "')' after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// body parses the statement controlled by an if or while. The nested
// statement recovers on its own; its failure drops the enclosing statement
// without a second error.
func (p *Parser) body() (ast.Stmt, error) {
	stmt := p.statement()
	if stmt == nil {
		return nil, errRecovered
	}
	return stmt, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	returnTok := p.advance()

	stmt := &ast.ReturnStmt{ReturnPos: returnTok.Pos}
	if !p.check(token.Semicolon, token.Newline, token.EOF) {
		result, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Result = result
	}

	if _, err := p.expect(token.Semicolon, "';' after return"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) block() (*ast.BlockStmt, error) {
	lbrace, err := p.expect(token.LeftBrace, "'{'")
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{Lbrace: lbrace.Pos}
	p.skipNewlines()
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt := p.statement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipNewlines()
	}

	if _, err := p.expect(token.RightBrace, "'}' after block"); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) exprStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, "';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: expr}, nil
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment is right-associative: a = b = c parses as a = (b = c).
func (p *Parser) assignment() (ast.Expr, error) {
	target, err := p.binary(PrecOr)
	if err != nil {
		return nil, err
	}

	if p.check(token.Assign) {
		eq := p.advance()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: target, EqPos: eq.Pos, Value: value}, nil
	}
	return target, nil
}

// binary parses a left-associative chain of operators whose precedence is
// exactly level, with operands parsed at the next level up.
func (p *Parser) binary(level Precedence) (ast.Expr, error) {
	if level >= PrecUnary {
		return p.unary()
	}

	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}

	for kind := p.peek().Kind; IsBinaryOperator(kind) && PrecedenceOf(kind) == level; kind = p.peek().Kind {
		op := p.advance()
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if IsUnaryOperator(p.peek().Kind) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.check(token.LeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	lparen := p.advance()

	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.check(token.Comma) {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(token.RightParen, "')' after arguments"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Lparen: lparen.Pos, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()

	switch {
	case tok.Kind.IsLiteral():
		p.advance()
		return &ast.Literal{Token: tok}, nil

	case tok.Kind == token.Identifier:
		p.advance()
		return identFrom(tok), nil

	case tok.Kind == token.LeftParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil

	case tok.Kind == token.Error:
		return nil, p.errorAtCurrent(fmt.Sprintf("unexpected character %s", describe(tok)))
	}

	return nil, p.errorAtCurrent(fmt.Sprintf("expected expression, found %s", describe(tok)))
}

func identFrom(tok token.Token) *ast.Identifier {
	name, _ := tok.Value.(string)
	return &ast.Identifier{Name: name, NamePos: tok.Pos}
}
