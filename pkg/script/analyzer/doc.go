// Package analyzer performs semantic analysis of a parsed script program.
//
// The Analyzer walks the tree once, resolving every identifier against a
// stack of scopes, inferring types bottom-up and recording a diagnostic for
// each rule violation. Analysis never stops early: a failed check
// substitutes the Unknown type and carries on, so one pass reports every
// problem it can find.
//
// There are no type annotations. Parameters start as Unknown, a variable
// takes the type of its first assigned value, and a function's return type
// is the type of its first return statement (void if it has none). Unknown is
// accepted everywhere a type is checked.
//
// Assigning to a name that does not resolve declares it in the current
// scope. Calls are checked for arity only.
//
//	a := analyzer.New()
//	for _, err := range a.Analyze(prog) {
//		fmt.Println(err)
//	}
package analyzer
