// Scriptc checks scripts written in a small dynamically typed language.
//
// It runs the lexer, parser and semantic analyzer over script files and
// reports every problem found with its location and source context.
//
// Usage:
//
//	# Check files and directories
//	scriptc check main.sc lib/
//
//	# Machine-readable output for CI
//	scriptc check --format json scripts/
//
//	# Inspect the pipeline
//	scriptc tokens main.sc
//	scriptc ast main.sc
//	scriptc symbols main.sc
//
//	# Re-check on every change and serve /metrics, /health and /ready
//	scriptc watch scripts/
package main

import "os"

func main() {
	os.Exit(Execute())
}
