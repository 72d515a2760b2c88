package patcher

import (
	"fmt"
	"sort"
	"strings"

	"cairoplug/internal/source"
)

// TextSpan is a byte range in generated text.
type TextSpan struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

func (s TextSpan) Len() uint32 { return s.End - s.Start }

func (s TextSpan) Contains(other TextSpan) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s TextSpan) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// CodeMapping attributes one generated range to a range of the original source.
// Verbatim mappings come from Copied nodes: the generated bytes equal the origin bytes,
// so sub-ranges translate offset by offset. Other mappings translate to the whole origin.
type CodeMapping struct {
	Span     TextSpan    `msgpack:"span"`
	Origin   source.Span `msgpack:"origin"`
	Verbatim bool        `msgpack:"verbatim,omitempty"`
}

// Translate maps span of the generated text into the original source.
func (m CodeMapping) Translate(span TextSpan) (source.Span, bool) {
	if !m.Span.Contains(span) {
		return source.Span{}, false
	}
	if !m.Verbatim {
		return m.Origin, true
	}
	return m.Origin.Sub(span.Start-m.Span.Start, span.Len()), true
}

func (m CodeMapping) String() string {
	if m.Verbatim {
		return fmt.Sprintf("%s -> %s (copied)", m.Span, m.Origin)
	}
	return fmt.Sprintf("%s -> %s", m.Span, m.Origin)
}

// Mappings is the ordered mapping list of one generated text.
type Mappings []CodeMapping

// Translate finds the mapping covering span and translates it. It returns false for
// unattributed ranges, which the host reports at the replaced item instead.
func (ms Mappings) Translate(span TextSpan) (source.Span, bool) {
	// отображения упорядочены и не пересекаются: ищем последнее с Start <= span.Start
	i := sort.Search(len(ms), func(i int) bool { return ms[i].Span.Start > span.Start })
	for j := i - 1; j >= 0 && ms[j].Span.End >= span.End; j-- {
		if origin, ok := ms[j].Translate(span); ok {
			return origin, true
		}
	}
	return source.Span{}, false
}

// Origins returns the distinct origin spans in generated order.
func (ms Mappings) Origins() []source.Span {
	seen := make(map[source.Span]bool, len(ms))
	var out []source.Span
	for _, m := range ms {
		if !seen[m.Origin] {
			seen[m.Origin] = true
			out = append(out, m.Origin)
		}
	}
	return out
}

func (ms Mappings) String() string {
	var sb strings.Builder
	for i, m := range ms {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
