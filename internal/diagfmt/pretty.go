package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cairoplug/internal/diag"
	"cairoplug/internal/source"
)

type palette struct {
	err, warn, info, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
// Диагностики печатаются в переданном порядке.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range diags {
		d := &diags[i]
		loc := location(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)
		snippet(w, fs, d.Primary, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return fmt.Sprintf("<file %d>", span.File)
	}
	path := f.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// snippet prints the first line of span with an underline. Columns are measured in
// display cells so wide runes keep the caret aligned.
func snippet(w io.Writer, fs *source.FileSet, span source.Span, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	line = strings.TrimRight(line, "\r")

	from := min(int(start.Col-1), len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(max(int(end.Col-1), from), len(line))
	}
	// табы заменяем, чтобы подчёркивание не уезжало
	line = strings.ReplaceAll(line, "\t", " ")

	pad := runewidth.StringWidth(line[:from])
	width := max(runewidth.StringWidth(line[from:to]), 1)

	num := fmt.Sprint(start.Line)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)
	fmt.Fprintf(w, " %s %s %s%s\n", gutter, p.gutter.Sprint("|"), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// Short prints one line per diagnostic, sorted by position.
func Short(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet) {
	if out := diag.FormatGoldenDiagnostics(diags, fs, false); out != "" {
		fmt.Fprintln(w, out)
	}
}
