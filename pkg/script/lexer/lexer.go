package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

// LexError is returned when the source cannot be tokenized.
type LexError struct {
	Pos     token.Pos
	Message string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Lexer converts source text into tokens. A Lexer is used for exactly one
// source text and is not safe for concurrent use.
type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

// New creates a lexer positioned at the start of source.
func New(source string) *Lexer {
	return &Lexer{
		src:    []rune(source),
		line:   1,
		column: 1,
	}
}

// Tokenize is a convenience function that tokenizes source in one call.
func Tokenize(source string) ([]token.Token, error) {
	return New(source).Tokenize()
}

// Tokenize scans the rest of the input. The returned slice always ends with
// an EOF token unless an error is returned.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token. Once the input is exhausted it keeps
// returning the same EOF token.
//
// Characters that start no token are returned as Error tokens rather than
// failing; only an unterminated string literal or an unrepresentable number
// yields a LexError.
func (l *Lexer) NextToken() (token.Token, error) {
	for !l.atEnd() {
		c := l.peek(0)
		line, column := l.line, l.column

		switch {
		case c == '\n':
			l.advance()
			return token.New(token.Newline, "\n", line, column), nil

		case unicode.IsSpace(c):
			l.skipWhitespace()
			continue

		case isDigit(c):
			return l.readNumber()

		case c == '"' || c == '\'':
			return l.readString()

		case isIdentStart(c):
			return l.readIdentifier(), nil

		case c == '/' && l.peek(1) == '/':
			l.skipLineComment()
			continue
		}

		if kind, ok := twoCharOperators[[2]rune{c, l.peek(1)}]; ok {
			text := string([]rune{c, l.peek(1)})
			l.advance()
			l.advance()
			return token.New(kind, text, line, column), nil
		}

		l.advance()
		if kind, ok := singleCharTokens[c]; ok {
			return token.New(kind, string(c), line, column), nil
		}
		return token.New(token.Error, string(c), line, column), nil
	}

	return token.New(token.EOF, nil, l.line, l.column), nil
}

var twoCharOperators = map[[2]rune]token.Kind{
	{'=', '='}: token.Equal,
	{'!', '='}: token.NotEqual,
	{'<', '='}: token.LessEqual,
	{'>', '='}: token.GreaterEqual,
	{'&', '&'}: token.And,
	{'|', '|'}: token.Or,
}

var singleCharTokens = map[rune]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'<': token.Less,
	'>': token.Greater,
	'!': token.Not,
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	'[': token.LeftBracket,
	']': token.RightBracket,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
}

var literalWords = map[string]any{
	"true":  true,
	"false": false,
	"null":  nil,
}

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// peek returns the rune offset positions ahead, or 0 past the end.
func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && l.peek(0) != '\n' && unicode.IsSpace(l.peek(0)) {
		l.advance()
	}
}

func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.peek(0) != '\n' {
		l.advance()
	}
}

// readNumber scans digits with at most one decimal point. A trailing point
// is left for the next token, so 123.toString lexes as Integer Dot Identifier.
func (l *Lexer) readNumber() (token.Token, error) {
	line, column := l.line, l.column
	start := l.pos
	hasDot := false

	for !l.atEnd() {
		c := l.peek(0)
		if c == '.' {
			if hasDot {
				break
			}
			hasDot = true
		} else if !isDigit(c) {
			break
		}
		l.advance()
	}

	if l.src[l.pos-1] == '.' {
		l.pos--
		l.column--
		hasDot = false
	}

	text := string(l.src[start:l.pos])
	if hasDot {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, &LexError{
				Pos:     token.Pos{Line: line, Column: column},
				Message: fmt.Sprintf("invalid float literal %q", text),
			}
		}
		return token.New(token.Float, f, line, column), nil
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Token{}, &LexError{
			Pos:     token.Pos{Line: line, Column: column},
			Message: fmt.Sprintf("integer literal %s out of range", text),
		}
	}
	return token.New(token.Integer, n, line, column), nil
}

func (l *Lexer) readString() (token.Token, error) {
	line, column := l.line, l.column
	quote := l.peek(0)
	l.advance()

	var sb strings.Builder
	for !l.atEnd() && l.peek(0) != quote {
		c := l.peek(0)
		if c == '\\' {
			l.advance()
			if l.atEnd() {
				break
			}
			c = l.peek(0)
			if esc, ok := escapes[c]; ok {
				c = esc
			}
		}
		sb.WriteRune(c)
		l.advance()
	}

	if l.atEnd() {
		return token.Token{}, &LexError{
			Pos:     token.Pos{Line: line, Column: column},
			Message: "unterminated string literal",
		}
	}
	l.advance()

	return token.New(token.String, sb.String(), line, column), nil
}

func (l *Lexer) readIdentifier() token.Token {
	line, column := l.line, l.column
	start := l.pos
	for !l.atEnd() && isIdentPart(l.peek(0)) {
		l.advance()
	}
	text := string(l.src[start:l.pos])

	if value, ok := literalWords[text]; ok {
		return token.New(token.Boolean, value, line, column)
	}
	if kind, ok := token.Keyword(text); ok {
		return token.New(kind, text, line, column)
	}
	return token.New(token.Identifier, text, line, column)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
