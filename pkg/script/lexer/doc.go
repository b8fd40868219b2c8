// Package lexer turns script source text into a stream of tokens.
//
// The lexer is line and column aware, keeps newlines as tokens, and drops
// whitespace and // comments. Unknown characters become Error tokens so the
// parser can report them in context; the only hard failures are unterminated
// string literals and integer literals that do not fit in 64 bits.
//
//	tokens, err := lexer.Tokenize("x = 123 + 456")
package lexer
