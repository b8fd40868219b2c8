// Package parser implements a recursive-descent parser for the script
// language.
//
// Expressions are parsed by precedence climbing over the table in
// precedence.go, from assignment (lowest, right-associative) through the
// logical, equality, comparison, additive and multiplicative levels down to
// prefix operators, calls and primaries.
//
// Errors are collected rather than fatal. When a statement fails to parse, the
// parser records one ParseError, discards tokens until just past the next ';'
// or just before a statement keyword, and continues. Parse always returns the
// program built from the statements that did parse, together with an
// ErrorList when anything failed:
//
//	prog, err := parser.ParseSource(src)
//	var errs parser.ErrorList
//	if errors.As(err, &errs) {
//		for _, e := range errs {
//			fmt.Println(e)
//		}
//	}
package parser
