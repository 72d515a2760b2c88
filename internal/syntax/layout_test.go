package syntax

import (
	"strings"
	"testing"
)

func demoModule() Decl {
	return Decl{
		Kind:  DeclModule,
		Attrs: []string{"custom::contract"},
		Name:  "demo",
		Items: []Decl{
			{
				Kind:  DeclImpl,
				Name:  "Foo",
				Trait: "Bar",
				Items: []Decl{{
					Kind:   DeclFn,
					Name:   "f",
					Params: []ParamDecl{{Name: "r", Type: "R"}, {Modifiers: []string{"ref"}, Name: "amount", Type: "u32"}},
					Ret:    "felt252",
					Body:   []string{"stmt1;"},
				}},
			},
			{Kind: DeclItem, Text: "struct Other {}"},
		},
	}
}

const demoSource = `#[custom::contract]
mod demo {
    impl Foo of Bar {
        fn f(r: R, ref amount: u32) -> felt252 {
            stmt1;
        }
    }
    struct Other {}
}`

func TestBuildLayout(t *testing.T) {
	tree, err := Build(0, demoModule())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tree.Source != demoSource {
		t.Fatalf("Build() source =\n%s\nwant\n%s", tree.Source, demoSource)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	mod := AsModule(tree.RootNode())
	if got := mod.Name().TrimmedText(); got != "demo" {
		t.Errorf("module name = %q, want %q", got, "demo")
	}
	if !mod.Attributes().Has("custom::contract") {
		t.Error("module should carry custom::contract")
	}
	body, ok := mod.Body()
	if !ok {
		t.Fatal("module body missing")
	}
	items := body.Elements()
	if len(items) != 2 || items[0].Kind() != KindImpl || items[1].Kind() != KindItem {
		t.Fatalf("items = %v, want [ItemImpl Item]", items)
	}

	impl := AsImpl(items[0])
	if impl.Name().TrimmedText() != "Foo" || impl.TraitPath().TrimmedText() != "Bar" {
		t.Errorf("impl = %q of %q", impl.Name().TrimmedText(), impl.TraitPath().TrimmedText())
	}
	implItems, _ := impl.Body()
	fn := AsFunction(implItems.Elements()[0])
	decl := fn.Declaration()
	if decl.Name().TrimmedText() != "f" || decl.ReturnType() != "felt252" {
		t.Errorf("fn %q -> %q", decl.Name().TrimmedText(), decl.ReturnType())
	}
	params := decl.Params()
	if len(params) != 2 {
		t.Fatalf("params = %d, want 2", len(params))
	}
	if got := params[1].Text(); got != " ref amount: u32" {
		t.Errorf("param text = %q, want %q", got, " ref amount: u32")
	}
	if got := params[1].Modifiers().TrimmedText(); got != "ref" {
		t.Errorf("modifiers = %q, want ref", got)
	}
	stmts := fn.Statements()
	if len(stmts) != 1 || stmts[0].TrimmedText() != "stmt1;" {
		t.Fatalf("statements = %v", stmts)
	}
	if !strings.HasPrefix(stmts[0].Text(), "\n") {
		t.Errorf("statement text %q should carry its leading trivia", stmts[0].Text())
	}
}

func TestSpanWithoutTrivia(t *testing.T) {
	tree := MustBuild(0, demoModule())
	body, _ := AsModule(tree.RootNode()).Body()
	for _, it := range body.Elements() {
		full, trimmed := it.Span(), it.SpanWithoutTrivia()
		if !full.Contains(trimmed) {
			t.Errorf("%v: trimmed span %v escapes %v", it, trimmed, full)
		}
		if got := tree.Source[trimmed.Start:trimmed.End]; got != strings.TrimSpace(it.Text()) {
			t.Errorf("trimmed text = %q, want %q", got, strings.TrimSpace(it.Text()))
		}
	}
}

func TestBuildModuleWithoutBody(t *testing.T) {
	tree := MustBuild(0, Decl{Kind: DeclModule, Name: "ext", NoBody: true})
	if tree.Source != "mod ext;" {
		t.Errorf("source = %q, want %q", tree.Source, "mod ext;")
	}
	if _, ok := AsModule(tree.RootNode()).Body(); ok {
		t.Error("Body() should report a missing body")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		decl Decl
	}{
		{"unknown kind", Decl{Kind: "enum"}},
		{"empty item", Decl{Kind: DeclModule, Name: "m", Items: []Decl{{Kind: DeclItem}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(0, tt.decl); err == nil {
				t.Errorf("Build(%+v) should fail", tt.decl)
			}
		})
	}
}

func TestAttributeArgs(t *testing.T) {
	tree := MustBuild(0, Decl{
		Kind:  DeclItem,
		Attrs: []string{`cfg(feature: "x", test)`, "derive(Drop)"},
		Text:  "struct S {}",
	})
	want := "#[cfg(feature: \"x\", test)]\n#[derive(Drop)]\nstruct S {}"
	if tree.Source != want {
		t.Fatalf("source = %q, want %q", tree.Source, want)
	}
	attrs := Attributes(tree.RootNode()).Elements()
	if len(attrs) != 2 {
		t.Fatalf("attrs = %d, want 2", len(attrs))
	}
	args := attrs[0].Args()
	if len(args) != 2 || args[0] != `feature: "x"` || args[1] != "test" {
		t.Errorf("Args() = %q", args)
	}
}
