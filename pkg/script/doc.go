// Package script ties the front-end stages together.
//
// A Unit carries one source text through lexing, parsing and semantic
// analysis. Later stages only run when every earlier stage succeeded, and
// every problem found is collected as a diagnostic from package errors with
// its source context attached:
//
//	u := script.Check("main.sc", src)
//	if u.Failed() {
//		fmt.Print(u.Diagnostics.Error())
//	}
//
// The lexer, parser and analyzer packages can also be used on their own.
package script
