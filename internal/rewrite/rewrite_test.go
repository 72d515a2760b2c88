package rewrite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"cairoplug/internal/diag"
	"cairoplug/internal/patcher"
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
	"cairoplug/internal/testkit"
)

var demoConvention = Convention{
	MarkerName: "r",
	MarkerType: "R",
	Mutable:    "ref self: ContractState",
	Readonly:   "self: @ContractState",
}

func buildFn(t *testing.T, params []syntax.ParamDecl, ret string, body ...string) syntax.FunctionWithBody {
	t.Helper()
	tree, err := syntax.Build(0, syntax.Decl{Kind: syntax.DeclFn, Name: "f", Params: params, Ret: ret, Body: body})
	require.NoError(t, err)
	return syntax.AsFunction(tree.RootNode())
}

func TestGetParamInfo(t *testing.T) {
	fn := buildFn(t, []syntax.ParamDecl{
		{Modifiers: []string{"ref"}, Name: "amount", Type: "u32"},
		{Name: "cafe\u0301", Type: "Array<felt252>"},
	}, "")
	params := fn.Declaration().Params()
	require.Len(t, params, 2)

	require.Equal(t, ParamInfo{Name: "amount", Modifiers: "ref", Type: "u32"}, GetParamInfo(params[0]))
	require.Equal(t, ParamInfo{Name: "caf\u00e9", Modifiers: "", Type: "Array<felt252>"}, GetParamInfo(params[1]))
}

func TestRewriteParameters(t *testing.T) {
	marker := syntax.ParamDecl{Name: "r", Type: "R"}
	tests := []struct {
		name     string
		params   []syntax.ParamDecl
		text     string
		mutable  bool
		warnings int
	}{
		{
			name:    "marker only",
			params:  []syntax.ParamDecl{marker},
			text:    "ref self: ContractState",
			mutable: true,
		},
		{
			name:    "marker among others",
			params:  []syntax.ParamDecl{{Name: "a", Type: "felt252"}, marker, {Modifiers: []string{"ref"}, Name: "b", Type: "u32"}},
			text:    "ref self: ContractState, a: felt252, ref b: u32",
			mutable: true,
		},
		{
			name:   "no marker keeps order",
			params: []syntax.ParamDecl{{Name: "a", Type: "felt252"}, {Modifiers: []string{"ref"}, Name: "b", Type: "u32"}},
			text:   "self: @ContractState, a: felt252, ref b: u32",
		},
		{
			name:   "empty list",
			params: nil,
			text:   "self: @ContractState",
		},
		{
			name:   "name matches type does not",
			params: []syntax.ParamDecl{{Name: "r", Type: "u8"}},
			text:   "self: @ContractState, r: u8",
		},
		{
			name:   "type matches name does not",
			params: []syntax.ParamDecl{{Name: "s", Type: "R"}},
			text:   "self: @ContractState, s: R",
		},
		{
			name:     "second marker kept with warning",
			params:   []syntax.ParamDecl{marker, {Name: "x", Type: "u8"}, marker},
			text:     "ref self: ContractState, x: u8, r: R",
			mutable:  true,
			warnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := buildFn(t, tt.params, "")
			bag := diag.NewCollector(8)
			got := RewriteParameters(fn.Declaration().Params(), demoConvention, bag)
			require.Equal(t, tt.text, got.Text)
			require.Equal(t, tt.mutable, got.Mutable)
			require.Equal(t, tt.warnings, bag.Len())
		})
	}
}

func TestDuplicateMarkerWarningSpan(t *testing.T) {
	// fn f(r: R, r: R) {}
	fn := buildFn(t, []syntax.ParamDecl{{Name: "r", Type: "R"}, {Name: "r", Type: "R"}}, "")
	bag := diag.NewCollector(8)
	RewriteParameters(fn.Declaration().Params(), demoConvention, bag)

	require.Equal(t, 1, bag.Len())
	d := bag.Diagnostics()[0]
	require.Equal(t, diag.SevWarning, d.Severity)
	require.Equal(t, diag.PlugDuplicateReceiverMarker, d.Code)
	require.Equal(t, source.Span{File: 0, Start: 11, End: 15}, d.Primary)
	require.Equal(t, "r: R", fn.Tree().Source[d.Primary.Start:d.Primary.End])
}

func TestMarkerNameIsNormalised(t *testing.T) {
	conv := demoConvention
	conv.MarkerName = "\u00e9"
	fn := buildFn(t, []syntax.ParamDecl{{Name: "e\u0301", Type: "R"}}, "")
	got := RewriteParameters(fn.Declaration().Params(), conv, nil)
	require.True(t, got.Mutable)
	require.Equal(t, "ref self: ContractState", got.Text)
}

func TestRewriteFunction(t *testing.T) {
	opts := Options{Convention: demoConvention, Injected: []string{"let a = 32;", "let _b = a + 4;"}}

	t.Run("marker, no return type", func(t *testing.T) {
		// fn f(r: R) {\n    stmt1;\n}
		fn := buildFn(t, []syntax.ParamDecl{{Name: "r", Type: "R"}}, "", "stmt1;")
		code, mappings := patcher.Render(RewriteFunction(fn, opts, nil))

		require.Equal(t, "fn f(ref self: ContractState) {\nlet a = 32;\nlet _b = a + 4;\n\n    stmt1;\n}", code)
		want := patcher.Mappings{
			{Span: patcher.TextSpan{Start: 0, End: 32}, Origin: source.Span{Start: 0, End: 10}},
			{Span: patcher.TextSpan{Start: 60, End: 71}, Origin: source.Span{Start: 17, End: 23}},
		}
		if diff := cmp.Diff(want, mappings); diff != "" {
			t.Fatalf("mappings mismatch (-want +got):\n%s", diff)
		}
		require.NoError(t, testkit.CheckMappings(code, mappings))
	})

	t.Run("return type and several statements", func(t *testing.T) {
		fn := buildFn(t, []syntax.ParamDecl{{Name: "x", Type: "u32"}}, "felt252", "let y = x;", "y.into()")
		code, mappings := patcher.Render(RewriteFunction(fn, Options{Convention: demoConvention}, nil))

		require.Equal(t, "fn f(self: @ContractState, x: u32) -> felt252 {\n\n    let y = x;\n    y.into()\n}", code)
		require.Len(t, mappings, 3)
		stmts := fn.Statements()
		require.Equal(t, fn.Declaration().SpanWithoutTrivia(), mappings[0].Origin)
		require.Equal(t, stmts[0].SpanWithoutTrivia(), mappings[1].Origin)
		require.Equal(t, stmts[1].SpanWithoutTrivia(), mappings[2].Origin)
		for _, m := range mappings {
			require.False(t, m.Verbatim, "statement copies are substituted, not verbatim")
		}
	})
}
