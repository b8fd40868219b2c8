package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	diag "github.com/jensen-yan/compiler/pkg/script/errors"
)

// Palette used for diagnostics.
var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorAccent  = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

type styles struct {
	severity lipgloss.Style
	kind     lipgloss.Style
	message  lipgloss.Style
	location lipgloss.Style
	gutter   lipgloss.Style
	marked   lipgloss.Style
	caret    lipgloss.Style
	help     lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	// Source lines keep their tabs so the caret lines up.
	source := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return styles{
		severity: r.NewStyle().Foreground(ColorError).Bold(true),
		kind:     r.NewStyle().Foreground(ColorWarning),
		message:  r.NewStyle().Bold(true),
		location: r.NewStyle().Foreground(ColorAccent),
		gutter:   source.Foreground(ColorMuted),
		marked:   source.Bold(true),
		caret:    source.Foreground(ColorError).Bold(true),
		help:     r.NewStyle().Foreground(ColorSuccess),
		success:  r.NewStyle().Foreground(ColorSuccess).Bold(true),
		failure:  r.NewStyle().Foreground(ColorError).Bold(true),
	}
}

// Renderer writes diagnostics for terminals. Colors follow the terminal
// behind the writer and are never used when color is false.
type Renderer struct {
	styles styles
}

// NewRenderer creates a renderer for w.
func NewRenderer(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{styles: newStyles(r)}
}

// Diagnostic renders one diagnostic:
//
//	error[semantic]: undefined identifier 'y'
//	  --> main.sc:2:5
//	-> 2 | x = y + 1
//	     |     ^
//	  = help: Did you mean 'x'?
func (r *Renderer) Diagnostic(d *diag.Error) string {
	s := r.styles
	var sb strings.Builder

	sb.WriteString(s.severity.Render("error"))
	sb.WriteString(s.kind.Render("[" + string(d.Kind) + "]"))
	sb.WriteString(": ")
	sb.WriteString(s.message.Render(d.Message))
	sb.WriteByte('\n')

	if d.Location.IsValid() {
		sb.WriteString("  --> ")
		sb.WriteString(s.location.Render(d.Location.String()))
		sb.WriteByte('\n')
	}

	for _, line := range strings.Split(strings.TrimSuffix(d.Context, "\n"), "\n") {
		if line == "" {
			continue
		}
		sb.WriteString(r.contextLine(line))
		sb.WriteByte('\n')
	}

	if d.Suggestion != "" {
		sb.WriteString("  = ")
		sb.WriteString(s.help.Render("help: " + d.Suggestion))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// contextLine styles one line of an extracted source excerpt. The gutter
// runs up to the first "| ".
func (r *Renderer) contextLine(line string) string {
	s := r.styles
	gutter, code, ok := strings.Cut(line, "| ")
	if !ok {
		return s.gutter.Render(line)
	}
	gutter += "| "

	switch {
	case strings.HasPrefix(gutter, "->"):
		return s.caret.Render(gutter[:2]) + s.gutter.Render(gutter[2:]) + s.marked.Render(code)
	case strings.TrimSpace(code) == "^":
		return s.gutter.Render(gutter) + s.caret.Render(code)
	}
	return s.gutter.Render(gutter) + code
}

// Summary renders the closing line of a check.
func (r *Renderer) Summary(files, diagnostics int) string {
	if diagnostics == 0 {
		return r.styles.success.Render(fmt.Sprintf("✓ %s checked, no problems found", plural(files, "file")))
	}
	return r.styles.failure.Render(fmt.Sprintf("✗ %s in %s", plural(diagnostics, "problem"), plural(files, "file")))
}

// WriteDiagnostics renders ds to w, separated by blank lines.
func (r *Renderer) WriteDiagnostics(w io.Writer, ds []*diag.Error) error {
	for i, d := range ds {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, r.Diagnostic(d)); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
