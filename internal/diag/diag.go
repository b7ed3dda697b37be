// Package diag formats and accumulates tsg diagnostics: the append-only
// lists each compiler phase exposes.
// Rendering follows the driver CLI's plain `line:column: message`
// contract, followed by the source line and a caret, the caret colored
// when writing to an interactive terminal.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/tsg-lang/tsg/internal/token"
)

// Diagnostic is a single compiler message tied to a source position.
type Diagnostic struct {
	Pos     token.Position
	Message string
}

// String renders the plain `line:column: message` form required by the
// driver CLI contract.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

// List is an append-only diagnostic sink shared by the resolver and
// verifier.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic at pos with the given message.
func (l *List) Add(pos token.Position, format string, args ...any) {
	l.items = append(l.items, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Empty reports whether no diagnostics have been recorded.
func (l *List) Empty() bool { return len(l.items) == 0 }

// Len returns the number of recorded diagnostics.
func (l *List) Len() int { return len(l.items) }

// All returns the recorded diagnostics in append order.
func (l *List) All() []Diagnostic { return l.items }

var caretStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

// WriteTo writes every diagnostic in l to w, one per line in
// `line:column: message` form. If src is non-empty, each diagnostic's
// source line is shown with a caret under the offending column; the
// caret is colored when w is a terminal (detected via isatty), matching
// the driver's stderr stream.
func WriteTo(w io.Writer, l *List, src string) {
	fd, isFile := w.(interface{ Fd() uintptr })
	colorize := isFile && isatty.IsTerminal(fd.Fd())

	lines := strings.Split(src, "\n")
	for _, d := range l.All() {
		fmt.Fprintln(w, d.String())
		if src == "" || d.Pos.Line < 1 || d.Pos.Line > len(lines) {
			continue
		}
		line := lines[d.Pos.Line-1]
		fmt.Fprintln(w, line)
		caret := strings.Repeat(" ", max(0, d.Pos.Column-1)) + "^"
		if colorize {
			caret = caretStyle.Render(caret)
		}
		fmt.Fprintln(w, caret)
	}
}
