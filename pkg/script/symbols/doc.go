// Package symbols holds the named bindings seen during semantic analysis and
// the stack of scopes they live in.
//
// A Manager pushes a scope for every function body and block. Lookup walks
// from the innermost scope outwards, so inner definitions shadow outer ones;
// Define only refuses a name already present in the innermost scope.
package symbols
