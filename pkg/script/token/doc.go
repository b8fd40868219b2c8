// Package token defines the lexical tokens of the script language.
//
// A Token pairs a Kind with its literal payload and the 1-based line and
// column where it starts. Tokens are immutable values handed from the lexer
// to the parser.
//
// The keywords true, false and null never appear as their own kinds: the
// lexer folds them into Boolean tokens whose Value is true, false or nil.
package token
