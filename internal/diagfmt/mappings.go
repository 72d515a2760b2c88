package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"cairoplug/internal/patcher"
	"cairoplug/internal/source"
)

// Mappings prints one row per code mapping: generated range, origin position and the
// first non-blank line of the generated text.
func Mappings(w io.Writer, code string, ms patcher.Mappings, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, m := range ms {
		excerpt := ""
		if int(m.Span.End) <= len(code) && m.Span.Start <= m.Span.End {
			excerpt = firstLine(code[m.Span.Start:m.Span.End])
		}
		kind := ""
		if m.Verbatim {
			kind = p.note.Sprint(" (copied)")
		}
		fmt.Fprintf(w, "  %-12s %s  %s%s\n", m.Span, p.loc.Sprint(location(fs, m.Origin, opts.PathMode)), excerpt, kind)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
