// Package diag renders diagnostics and debug dumps (cmd/coolc dumps
// each successful compilation) the way the teacher renders structured test/run
// results: plain text to a non-terminal, ANSI-colored text to a
// terminal (github.com/mattn/go-isatty gates the distinction), and a
// pretty-printed dump via github.com/kr/pretty for debug builds,
// indented with github.com/kr/text when nested under a heading.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/kr/text"
	"github.com/mattn/go-isatty"

	"coolc/internal/errors"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Writer renders diagnostics to an underlying stream, colorizing only
// when that stream is a terminal.
type Writer struct {
	out    io.Writer
	colors bool
}

// NewWriter wraps out, detecting terminal-ness via isatty when out is
// an *os.File (falling back to no color for anything else, e.g. a
// buffer captured by a test).
func NewWriter(out io.Writer) *Writer {
	colors := false
	if f, ok := out.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, colors: colors}
}

// Error renders a CoolError as spec.md §7/§8 requires:
// `"<file>", line <N>: <message>`, red when color is enabled.
func (w *Writer) Error(err *errors.CoolError) {
	line := err.Error()
	if w.colors {
		line = colorRed + line + colorReset
	}
	fmt.Fprintln(w.out, line)
}

// Warning renders a non-fatal diagnostic line, yellow when color is
// enabled.
func (w *Writer) Warning(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if w.colors {
		line = colorYellow + line + colorReset
	}
	fmt.Fprintln(w.out, line)
}

// Dump pretty-prints v under heading, indented. cmd/coolc calls it
// with the result of every successful compilation; no flag controls it.
func (w *Writer) Dump(heading string, v interface{}) {
	fmt.Fprintln(w.out, heading+":")
	body := fmt.Sprintf("%# v", pretty.Formatter(v))
	fmt.Fprintln(w.out, text.Indent(body, "  "))
}
