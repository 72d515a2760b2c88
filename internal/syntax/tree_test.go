package syntax

import (
	"errors"
	"testing"
)

func TestValidateRejectsMalformed(t *testing.T) {
	good := func() *Tree { return MustBuild(0, demoModule()) }

	tests := []struct {
		name   string
		mutate func(*Tree)
	}{
		{"root out of range", func(tr *Tree) { tr.Root = NodeID(len(tr.Nodes) + 1) }},
		{"span past source", func(tr *Tree) { tr.Nodes[0].End = uint32(len(tr.Source) + 5) }},
		{"trim outside full span", func(tr *Tree) { tr.Nodes[0].TrimStart = tr.Nodes[0].End + 1 }},
		{"forward child", func(tr *Tree) { tr.Nodes[0].Children = []NodeID{NodeID(len(tr.Nodes))} }},
		{"invalid kind", func(tr *Tree) { tr.Nodes[0].Kind = KindInvalid }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := good()
			tt.mutate(tr)
			err := tr.Validate()
			if !errors.Is(err, ErrMalformedTree) {
				t.Errorf("Validate() = %v, want ErrMalformedTree", err)
			}
		})
	}
}

func TestNodeZeroValue(t *testing.T) {
	var n Node
	if !n.IsZero() || n.Kind() != KindInvalid || n.Text() != "" || n.NumChildren() != 0 {
		t.Errorf("zero Node misbehaves: %v", n)
	}
	if !n.Child(3).IsZero() {
		t.Error("Child() of zero node should be zero")
	}
}

func TestAsWrongKindPanics(t *testing.T) {
	tree := MustBuild(0, Decl{Kind: DeclItem, Text: "struct S {}"})
	defer func() {
		if recover() == nil {
			t.Error("AsImpl over an Item should panic")
		}
	}()
	AsImpl(tree.RootNode())
}

func TestBuilderTrivia(t *testing.T) {
	b := NewBuilder(2)
	b.Start(KindStatement)
	b.Token("\n  ", "let a = 1;")
	id := b.Finish()
	tree := b.Tree(id)
	n := tree.RootNode()
	if n.Span().Start != 0 || n.Span().End != 13 {
		t.Errorf("Span() = %v", n.Span())
	}
	if sp := n.SpanWithoutTrivia(); sp.Start != 3 || sp.End != 13 || sp.File != 2 {
		t.Errorf("SpanWithoutTrivia() = %v", sp)
	}
}
