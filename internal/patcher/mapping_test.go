package patcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cairoplug/internal/patcher"
	"cairoplug/internal/source"
)

func TestMappingsTranslate(t *testing.T) {
	fn := fixtureFn(t)
	stmts := fn.Statements()
	// "fn g() {" + "\n    let y = x;" + "}"
	node := patcher.NewModified(
		patcher.MapNode(patcher.NewText("fn g() {"), fn.Declaration().Node),
		patcher.NewCopied(stmts[0]),
		patcher.NewText("}"),
	)
	code, mappings := patcher.Render(node)
	require.Equal(t, "fn g() {\n    let y = x;}", code)

	tests := []struct {
		name string
		span patcher.TextSpan
		want source.Span
		ok   bool
	}{
		{"whole header", patcher.TextSpan{Start: 0, End: 8}, span(0, 12), true},
		{"inside header", patcher.TextSpan{Start: 3, End: 4}, span(0, 12), true},
		{"copied sub-range", patcher.TextSpan{Start: 13, End: 14}, span(19, 20), true},  // "let" -> 'l'
		{"copied identifier", patcher.TextSpan{Start: 17, End: 18}, span(23, 24), true}, // "y"
		{"empty at copied start", patcher.TextSpan{Start: 8, End: 8}, span(14, 14), true},
		{"crosses boundary", patcher.TextSpan{Start: 6, End: 10}, source.Span{}, false},
		{"boilerplate", patcher.TextSpan{Start: 23, End: 24}, source.Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mappings.Translate(tt.span)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMappingsOriginsAndString(t *testing.T) {
	ms := patcher.Mappings{
		{Span: patcher.TextSpan{Start: 0, End: 4}, Origin: span(10, 20)},
		{Span: patcher.TextSpan{Start: 4, End: 6}, Origin: span(30, 32), Verbatim: true},
		{Span: patcher.TextSpan{Start: 9, End: 12}, Origin: span(10, 20)},
	}
	require.Equal(t, []source.Span{span(10, 20), span(30, 32)}, ms.Origins())
	require.Equal(t, "[0,4) -> 3:10-20\n[4,6) -> 3:30-32 (copied)\n[9,12) -> 3:10-20", ms.String())
}
