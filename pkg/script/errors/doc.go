// Package errors provides the diagnostic model shared by every stage of the
// script front-end.
//
// A diagnostic is an *Error carrying a Kind (lex, syntax, semantic or io), a
// Location, and optionally the surrounding source lines and a suggested fix.
// Diagnostics are collected in an ErrorList so that a whole source unit is
// reported in one pass:
//
//	el := errors.NewErrorList()
//	el.AddErrorWithSuggestion(errors.KindSemantic, "undefined identifier 'cout'",
//		errors.At("main.sc", pos), errors.SuggestName("cout", visible))
//	el.AddContext(source, 2)
//	if err := el.ToError(); err != nil {
//		fmt.Println(err)
//	}
//
// Rendered diagnostics look like:
//
//	[semantic] undefined identifier 'cout'
//	  --> main.sc:3:5
//	  |
//	   2 | count = 0;
//	-> 3 | x = cout + 1;
//	    |     ^
//	   4 | print(str(x));
//	  |
//	  = suggestion: Did you mean 'count'?
package errors
