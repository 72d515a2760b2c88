package contract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cairoplug/internal/config"
	"cairoplug/internal/contract"
	"cairoplug/internal/diag"
	"cairoplug/internal/plugin"
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
	"cairoplug/internal/testkit"
	"cairoplug/internal/trace"
)

func demoModule(items ...syntax.Decl) syntax.Decl {
	return syntax.Decl{
		Kind:  syntax.DeclModule,
		Attrs: []string{"custom::contract"},
		Name:  "demo",
		Items: items,
	}
}

func implDecl(name string, items ...syntax.Decl) syntax.Decl {
	return syntax.Decl{Kind: syntax.DeclImpl, Name: name, Trait: "Bar", Items: items}
}

func fnDecl(name string, params ...syntax.ParamDecl) syntax.Decl {
	return syntax.Decl{Kind: syntax.DeclFn, Name: name, Params: params, Body: []string{"stmt1;"}}
}

var marker = syntax.ParamDecl{Name: "r", Type: "R"}

func generate(t *testing.T, d syntax.Decl, meta plugin.Metadata) (*syntax.Tree, plugin.Result) {
	t.Helper()
	tree, err := syntax.Build(0, d)
	require.NoError(t, err)
	res := contract.Suite().Plugins()[0].GenerateCode(context.Background(), tree.RootNode(), meta)
	require.NoError(t, res.Err)
	if res.Code != nil {
		require.NoError(t, testkit.CheckMappings(res.Code.Content, res.Code.CodeMappings))
		require.NoError(t, testkit.CheckVerbatim(res.Code.Content, res.Code.CodeMappings, tree))
		require.NoError(t, testkit.CheckOriginsWithin(res.Code.CodeMappings, tree.RootNode().Span()))
	}
	return tree, res
}

func TestGenerateCodeNoop(t *testing.T) {
	tests := []struct {
		name string
		decl syntax.Decl
	}{
		{"function", syntax.Decl{Kind: syntax.DeclFn, Attrs: []string{"custom::contract"}, Name: "f", Body: []string{"x;"}}},
		{"struct", syntax.Decl{Kind: syntax.DeclItem, Attrs: []string{"custom::contract"}, Text: "struct A {}"}},
		{"module without attribute", syntax.Decl{Kind: syntax.DeclModule, Name: "m", Items: []syntax.Decl{implDecl("Foo")}}},
		{"module with other attribute", syntax.Decl{Kind: syntax.DeclModule, Attrs: []string{"starknet::contract"}, Name: "m"}},
		{"module without body", syntax.Decl{Kind: syntax.DeclModule, Attrs: []string{"custom::contract"}, Name: "m", NoBody: true}},
		{"impl", syntax.Decl{Kind: syntax.DeclImpl, Attrs: []string{"custom::contract"}, Name: "bad", Trait: "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := generate(t, tt.decl, plugin.Metadata{})
			require.True(t, res.IsNoop(), "GenerateCode() = %+v, want no-op", res)
		})
	}
}

func TestGenerateCodeDemoContract(t *testing.T) {
	d := demoModule(
		implDecl("Foo", fnDecl("f", marker)),
		syntax.Decl{Kind: syntax.DeclItem, Text: "struct Other {}"},
	)
	_, res := generate(t, d, plugin.Metadata{})

	require.NotNil(t, res.Code)
	require.True(t, res.RemoveOriginal)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, "demo", res.Code.Name)

	want := "#[starknet::contract]\nmod demo {\n" +
		"\nimpl Foo of Bar {\n" +
		"\nfn f(ref self: ContractState) {\n" +
		"let a = 32;\nlet _b = a + 4;\n" +
		"\n            stmt1;" +
		"\n}" +
		"\n}" +
		"\n    struct Other {}" +
		"\nstruct S {}\n" +
		"\n}\n"
	require.Equal(t, want, res.Code.Content)

	ms := res.Code.CodeMappings
	require.Len(t, ms, 4)
	require.Equal(t, source.Span{File: 0, Start: 35, End: 108}, ms[0].Origin) // impl
	require.Equal(t, source.Span{File: 0, Start: 61, End: 71}, ms[1].Origin)  // fn declaration
	require.Equal(t, source.Span{File: 0, Start: 86, End: 92}, ms[2].Origin)  // statement
	require.Equal(t, source.Span{File: 0, Start: 108, End: 128}, ms[3].Origin)
	require.True(t, ms[3].Verbatim)
	for _, m := range ms[:3] {
		require.False(t, m.Verbatim, "mapping %v", m)
	}
}

func TestGenerateCodeReadonlyReceiver(t *testing.T) {
	d := demoModule(implDecl("Foo", syntax.Decl{
		Kind:   syntax.DeclFn,
		Name:   "get",
		Params: []syntax.ParamDecl{{Name: "x", Type: "u32"}},
		Ret:    "u32",
		Body:   []string{"x"},
	}))
	_, res := generate(t, d, plugin.Metadata{})
	require.Contains(t, res.Code.Content, "fn get(self: @ContractState, x: u32) -> u32 {\n")
}

func TestDisallowedImplReportedOnce(t *testing.T) {
	for _, pos := range []int{0, 1, 2} {
		items := []syntax.Decl{
			implDecl("Foo", fnDecl("f", marker)),
			{Kind: syntax.DeclItem, Text: "use core::Zero;"},
		}
		bad := implDecl("bad", fnDecl("g"))
		items = append(items[:pos], append([]syntax.Decl{bad}, items[pos:]...)...)

		tree, res := generate(t, demoModule(items...), plugin.Metadata{})
		require.NotNil(t, res.Code, "position %d", pos)
		require.True(t, res.RemoveOriginal)
		require.Len(t, res.Diagnostics, 1, "position %d", pos)

		d := res.Diagnostics[0]
		require.Equal(t, diag.SevError, d.Severity)
		require.Equal(t, diag.PlugInvalidImplName, d.Code)
		require.Equal(t, "Invalid impl name", d.Message)

		body, ok := syntax.AsModule(tree.RootNode()).Body()
		require.True(t, ok)
		require.Equal(t, body.Elements()[pos].SpanWithoutTrivia(), d.Primary, "position %d", pos)
		// the bad impl is still rewritten
		require.Contains(t, res.Code.Content, "impl bad of Bar {\n")
	}
}

func TestDisallowedImplSurvivesWarningFlood(t *testing.T) {
	params := make([]syntax.ParamDecl, 300)
	for i := range params {
		params[i] = marker
	}
	tree, res := generate(t, demoModule(
		implDecl("Foo", fnDecl("f", params...)),
		implDecl("bad", fnDecl("g")),
	), plugin.Metadata{})
	require.NotNil(t, res.Code)

	var errs, warns []diag.Diagnostic
	var summary *diag.Diagnostic
	for i, d := range res.Diagnostics {
		switch {
		case d.Severity == diag.SevError:
			errs = append(errs, d)
		case d.Code == diag.PlugDuplicateReceiverMarker:
			warns = append(warns, d)
		case d.Code == diag.PlugInfo:
			summary = &res.Diagnostics[i]
		}
	}
	body, ok := syntax.AsModule(tree.RootNode()).Body()
	require.True(t, ok)
	require.Len(t, errs, 1)
	require.Equal(t, diag.PlugInvalidImplName, errs[0].Code)
	require.Equal(t, body.Elements()[1].SpanWithoutTrivia(), errs[0].Primary)

	require.Len(t, warns, 256)
	require.NotNil(t, summary)
	require.Equal(t, "43 more diagnostic(s) omitted", summary.Message)
}

func TestDisallowedImplDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.DisallowedImpl = ""
	p := contract.New(contract.OptionsFromConfig(cfg))

	tree := syntax.MustBuild(0, demoModule(implDecl("bad")))
	res := p.GenerateCode(context.Background(), tree.RootNode(), plugin.Metadata{})
	require.NoError(t, res.Err)
	require.Empty(t, res.Diagnostics)
}

func TestImplItemsFilteredByCfg(t *testing.T) {
	d := demoModule(implDecl("Foo",
		syntax.Decl{Kind: syntax.DeclFn, Attrs: []string{"cfg(test)"}, Name: "only_test", Body: []string{"a;"}},
		syntax.Decl{Kind: syntax.DeclItem, Attrs: []string{`cfg(feature: "x")`}, Text: "const X: u8 = 1;"},
		fnDecl("always"),
	))

	_, res := generate(t, d, plugin.Metadata{CfgSet: syntax.NewCfgSet(syntax.Cfg{Key: "test"})})
	require.Contains(t, res.Code.Content, "fn only_test(")
	require.NotContains(t, res.Code.Content, "const X")
	require.Contains(t, res.Code.Content, "fn always(")

	_, res = generate(t, d, plugin.Metadata{CfgSet: syntax.NewCfgSet(syntax.Cfg{Key: "feature", Value: "x"})})
	require.NotContains(t, res.Code.Content, "fn only_test(")
	require.Contains(t, res.Code.Content, "const X: u8 = 1;")
	require.Contains(t, res.Code.Content, "fn always(")
}

func TestModuleItemsIgnoreCfg(t *testing.T) {
	// cfg filtering applies to impl members only; module-level items are copied as is
	d := demoModule(syntax.Decl{Kind: syntax.DeclItem, Attrs: []string{"cfg(test)"}, Text: "struct T {}"})
	_, res := generate(t, d, plugin.Metadata{})
	require.Contains(t, res.Code.Content, "#[cfg(test)]\n    struct T {}")
}

func TestWrapperWithDollar(t *testing.T) {
	opts := contract.DefaultOptions()
	opts.Wrapper = "odd$attr$"
	opts.AuxItem = ""
	p := contract.New(opts)

	tree := syntax.MustBuild(0, demoModule())
	res := p.GenerateCode(context.Background(), tree.RootNode(), plugin.Metadata{})
	require.NoError(t, res.Err)
	require.Equal(t, "#[odd$attr$]\nmod demo {\n\n}\n", res.Code.Content)
	require.Empty(t, res.Code.CodeMappings)
}

func TestCustomConvention(t *testing.T) {
	cfg := config.Default()
	cfg.Contract.Attribute = "my::component"
	cfg.Receiver.MarkerName = "s"
	cfg.Receiver.MarkerType = "State"
	cfg.Rules.Injected = nil
	p := contract.New(contract.OptionsFromConfig(cfg))
	require.Equal(t, []string{"my::component"}, p.DeclaredAttributes())

	d := syntax.Decl{
		Kind:  syntax.DeclModule,
		Attrs: []string{"my::component"},
		Name:  "m",
		Items: []syntax.Decl{implDecl("Foo", fnDecl("f", syntax.ParamDecl{Name: "s", Type: "State"}))},
	}
	tree := syntax.MustBuild(0, d)
	res := p.GenerateCode(context.Background(), tree.RootNode(), plugin.Metadata{})
	require.NoError(t, res.Err)
	require.Contains(t, res.Code.Content, "fn f(ref self: ContractState) {\n\n            stmt1;\n}")
}

func TestTracingDoesNotChangeResult(t *testing.T) {
	d := demoModule(implDecl("bad", fnDecl("f", marker, marker)))
	tree := syntax.MustBuild(0, d)
	p := contract.New(contract.DefaultOptions())

	plain := p.GenerateCode(context.Background(), tree.RootNode(), plugin.Metadata{})

	ring := trace.NewRing(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	traced := p.GenerateCode(ctx, tree.RootNode(), plugin.Metadata{})

	require.Equal(t, plain, traced)
	require.Len(t, traced.Diagnostics, 2)

	var names []string
	for _, ev := range ring.Events() {
		if ev.Kind == trace.KindBegin || ev.Kind == trace.KindPoint {
			names = append(names, ev.Name)
		}
	}
	require.Equal(t, []string{"generate:demo", "impl:bad", "fn"}, names)
}

func TestPackageIdentity(t *testing.T) {
	p := contract.New(contract.DefaultOptions())
	id := p.ID()
	require.Equal(t, "cairo_plugin_demo", id.Name)
	require.Equal(t, "0.2.0", id.Version)
	require.Equal(t, "git+https://github.com/glihm/cairo_plugin_demo?tag=v0.2.0", id.Source)

	suite := contract.Suite()
	require.Equal(t, 1, suite.Len())
	require.Equal(t, []string{"custom::contract"}, suite.DeclaredAttributes())

	repo := contract.DefaultRepository()
	require.Equal(t, []plugin.PackageID{id}, repo.IDs())
	require.ErrorIs(t, repo.Add(p), plugin.ErrDuplicatePlugin)

	all, err := repo.Suite()
	require.NoError(t, err)
	require.Equal(t, 1, all.Len())

	tree := syntax.MustBuild(0, demoModule())
	require.Len(t, all.Matching(tree.RootNode()), 1)
}
