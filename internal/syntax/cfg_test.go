package syntax

import (
	"testing"
)

func TestParseCfg(t *testing.T) {
	tests := []struct {
		in   string
		want Cfg
	}{
		{"test", Cfg{Key: "test"}},
		{`feature: "x"`, Cfg{Key: "feature", Value: "x"}},
		{` target : "starknet" `, Cfg{Key: "target", Value: "starknet"}},
	}
	for _, tt := range tests {
		if got := ParseCfg(tt.in); got != tt.want {
			t.Errorf("ParseCfg(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestItemsInCfg(t *testing.T) {
	tree := MustBuild(0, Decl{
		Kind: DeclModule,
		Name: "m",
		Items: []Decl{
			{Kind: DeclItem, Text: "const A: u8 = 1;"},
			{Kind: DeclItem, Attrs: []string{"cfg(test)"}, Text: "const B: u8 = 2;"},
			{Kind: DeclItem, Attrs: []string{`cfg(feature: "x")`}, Text: "const C: u8 = 3;"},
		},
	})
	body, _ := AsModule(tree.RootNode()).Body()
	items := body.Elements()

	tests := []struct {
		name string
		set  CfgSet
		want []string
	}{
		{"empty set keeps unconditional", NewCfgSet(), []string{"const A: u8 = 1;"}},
		{"test", NewCfgSet(Cfg{Key: "test"}), []string{"const A: u8 = 1;", "const B: u8 = 2;"}},
		{"feature", NewCfgSet(Cfg{Key: "feature", Value: "x"}), []string{"const A: u8 = 1;", "const C: u8 = 3;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemsInCfg(items, tt.set)
			if len(got) != len(tt.want) {
				t.Fatalf("ItemsInCfg() = %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if text := got[i].Child(1).TrimmedText(); text != tt.want[i] {
					t.Errorf("item %d = %q, want %q", i, text, tt.want[i])
				}
			}
		})
	}
}

func TestCfgSetEntriesSorted(t *testing.T) {
	set := NewCfgSet(Cfg{Key: "test"}, Cfg{Key: "feature", Value: "b"}, Cfg{Key: "feature", Value: "a"})
	got := set.Entries()
	want := []Cfg{{"feature", "a"}, {"feature", "b"}, {"test", ""}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
