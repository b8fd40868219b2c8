package errors

import (
	"fmt"
	"strings"
)

// ExtractContext returns the lines of source around location, numbered, with
// the offending line marked "->" and a caret under the column.
func ExtractContext(source string, location Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))

		if i == errorLine && location.Column > 0 {
			padding := caretPadding(lines[i], location.Column)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), padding))
		}
	}

	return sb.String()
}

// caretPadding reproduces the whitespace before column so that tabs line up.
func caretPadding(line string, column int) string {
	var sb strings.Builder
	for i, r := range []rune(line) {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	for n := len([]rune(line)); n < column-1; n++ {
		sb.WriteRune(' ')
	}
	return sb.String()
}

// WithContext fills in err.Context from source and returns err.
func WithContext(err *Error, source string, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(source, err.Location, contextLines)
	}
	return err
}

// AddContext fills in the context of every diagnostic in el.
func (el *ErrorList) AddContext(source string, contextLines int) {
	for _, err := range el.Errors {
		WithContext(err, source, contextLines)
	}
}
