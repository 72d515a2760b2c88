package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"cairoplug/internal/source"
)

type goldenLine struct {
	label string
	code  string
	path  string
	line  uint32
	col   uint32
	msg   string
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		strings.Compare(a.label, b.label),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic, `label CODE path:L:C message`,
// sorted by location. Spans in files unknown to fs are skipped; the result has no
// trailing newline and is empty when nothing is left.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []goldenLine
	add := func(label string, code Code, sp source.Span, msg string) {
		file := fs.Get(sp.File)
		if file == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, goldenLine{
			label: label,
			code:  code.ID(),
			path:  strings.TrimPrefix(file.Path, "./"),
			line:  start.Line,
			col:   start.Col,
			msg:   oneLine(msg),
		})
	}
	for i := range diags {
		d := &diags[i]
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
	}
	return strings.Join(out, "\n")
}

// oneLine сворачивает переводы строк и повторные пробелы
func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
