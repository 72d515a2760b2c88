package patcher_test

import (
	"testing"

	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
)

const fixtureFile source.FileID = 3

// fn f(x: u32) {\n    let y = x;\n    y;\n}
func fixtureFn(t *testing.T) syntax.FunctionWithBody {
	t.Helper()
	tree := syntax.MustBuild(fixtureFile, syntax.Decl{
		Kind:   syntax.DeclFn,
		Name:   "f",
		Params: []syntax.ParamDecl{{Name: "x", Type: "u32"}},
		Body:   []string{"let y = x;", "y;"},
	})
	if err := tree.Validate(); err != nil {
		t.Fatalf("fixture tree: %v", err)
	}
	return syntax.AsFunction(tree.RootNode())
}

func span(start, end uint32) source.Span {
	return source.Span{File: fixtureFile, Start: start, End: end}
}
