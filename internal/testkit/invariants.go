package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cairoplug/internal/patcher"
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
)

// CheckMappings runs the mapping invariants on one generated text:
// 1) every generated span is well-formed and inside the text
// 2) spans are appended in generated order and never overlap
// 3) verbatim mappings have equal generated and origin widths
func CheckMappings(code string, mappings patcher.Mappings) error {
	lenCode, err := safecast.Conv[uint32](len(code))
	if err != nil {
		return fmt.Errorf("len code overflow: %w", err)
	}
	var prevEnd uint32
	for i, m := range mappings {
		sp := m.Span
		if sp.Start > sp.End {
			return fmt.Errorf("mapping %d: inverted span %v", i, sp)
		}
		if sp.End > lenCode {
			return fmt.Errorf("mapping %d: span %v beyond generated text (%d bytes)", i, sp, lenCode)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("mapping %d: span %v overlaps or precedes previous end %d", i, sp, prevEnd)
		}
		if !m.Origin.Valid() {
			return fmt.Errorf("mapping %d: inverted origin %v", i, m.Origin)
		}
		if m.Verbatim && sp.Len() != m.Origin.Len() {
			return fmt.Errorf("mapping %d: verbatim span %v has width %d, origin %v has %d",
				i, sp, sp.Len(), m.Origin, m.Origin.Len())
		}
		prevEnd = sp.End
	}
	return nil
}

// CheckVerbatim checks that every verbatim mapping reproduces the original bytes.
func CheckVerbatim(code string, mappings patcher.Mappings, tree *syntax.Tree) error {
	for i, m := range mappings {
		if !m.Verbatim {
			continue
		}
		if m.Origin.File != tree.File {
			return fmt.Errorf("mapping %d: origin file %d, tree file %d", i, m.Origin.File, tree.File)
		}
		got := code[m.Span.Start:m.Span.End]
		want := tree.Source[m.Origin.Start:m.Origin.End]
		if got != want {
			return fmt.Errorf("mapping %d: generated %q, original %q", i, got, want)
		}
	}
	return nil
}

// CheckOriginsWithin checks that every origin lies inside outer (usually the replaced item).
func CheckOriginsWithin(mappings patcher.Mappings, outer source.Span) error {
	for i, m := range mappings {
		if !outer.Contains(m.Origin) {
			return fmt.Errorf("mapping %d: origin %v outside %v", i, m.Origin, outer)
		}
	}
	return nil
}
