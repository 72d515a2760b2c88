package syntax

import (
	"fmt"
)

// Typed views over fixed child layouts (see kind.go). Constructing a view over a node
// of another kind is a programmer error and panics.

func expectKind(n Node, kind Kind) {
	if n.Kind() != kind {
		panic(fmt.Sprintf("syntax: expected %s, got %s", kind, n.Kind()))
	}
}

// ItemModule is `mod name { items }` or `mod name;`.
type ItemModule struct{ Node }

func AsModule(n Node) ItemModule { expectKind(n, KindModule); return ItemModule{n} }

func (m ItemModule) Attributes() AttributeList { return AttributeList{m.Child(0)} }
func (m ItemModule) Name() Node                { return m.Child(2) }

// Body returns the module body and false when the module is declared without one.
func (m ItemModule) Body() (ItemList, bool) {
	body := m.Child(3)
	if body.Kind() != KindModuleBody {
		return ItemList{}, false
	}
	return ItemList{body.Child(1)}, true
}

// ItemImpl is `impl Name of Trait { items }`.
type ItemImpl struct{ Node }

func AsImpl(n Node) ItemImpl { expectKind(n, KindImpl); return ItemImpl{n} }

func (i ItemImpl) Attributes() AttributeList { return AttributeList{i.Child(0)} }
func (i ItemImpl) Name() Node                { return i.Child(2) }
func (i ItemImpl) TraitPath() Node           { return i.Child(4) }

func (i ItemImpl) Body() (ItemList, bool) {
	body := i.Child(5)
	if body.Kind() != KindImplBody {
		return ItemList{}, false
	}
	return ItemList{body.Child(1)}, true
}

// ItemList is the sequence of items of a module or impl body.
type ItemList struct{ Node }

func (l ItemList) Elements() []Node {
	var out []Node
	for _, c := range l.Children() {
		if c.Kind().IsItem() {
			out = append(out, c)
		}
	}
	return out
}

// FunctionWithBody is `fn name(params) -> Ret { statements }`.
type FunctionWithBody struct{ Node }

func AsFunction(n Node) FunctionWithBody { expectKind(n, KindFunction); return FunctionWithBody{n} }

func (f FunctionWithBody) Attributes() AttributeList { return AttributeList{f.Child(0)} }
func (f FunctionWithBody) Declaration() Declaration  { return Declaration{f.Child(1)} }

// Statements returns the statements of the function body in order.
func (f FunctionWithBody) Statements() []Node {
	return f.Child(2).Child(1).ChildrenOfKind(KindStatement)
}

// Declaration is the `fn name(params) -> Ret` header.
type Declaration struct{ Node }

func (d Declaration) Name() Node { return d.Child(1) }

func (d Declaration) Params() []Param {
	nodes := d.Child(2).Child(1).ChildrenOfKind(KindParam)
	out := make([]Param, len(nodes))
	for i, n := range nodes {
		out[i] = AsParam(n)
	}
	return out
}

// ReturnType returns the return type text without `->`, or "" when absent.
func (d Declaration) ReturnType() string {
	clause := d.Child(2).Child(3)
	return clause.Child(1).TrimmedText()
}

// Param is `modifiers name: Type`.
type Param struct{ Node }

func AsParam(n Node) Param { expectKind(n, KindParam); return Param{n} }

func (p Param) Modifiers() Node { return p.Child(0) }
func (p Param) Name() Node      { return p.Child(1) }
func (p Param) Type() Node      { return p.Child(2).Child(1) }

// AttributeList is the run of `#[...]` attributes preceding an item.
type AttributeList struct{ Node }

func (l AttributeList) Elements() []Attribute {
	nodes := l.ChildrenOfKind(KindAttribute)
	out := make([]Attribute, len(nodes))
	for i, n := range nodes {
		out[i] = Attribute{n}
	}
	return out
}

// Find returns the first attribute whose path equals name.
func (l AttributeList) Find(name string) (Attribute, bool) {
	for _, a := range l.Elements() {
		if a.Path() == name {
			return a, true
		}
	}
	return Attribute{}, false
}

func (l AttributeList) Has(name string) bool {
	_, ok := l.Find(name)
	return ok
}

// Attribute is `#[path(args)]`.
type Attribute struct{ Node }

func (a Attribute) Path() string { return a.Child(1).TrimmedText() }

// Args returns the trimmed text of each argument, separators excluded.
func (a Attribute) Args() []string {
	nodes := a.Child(2).ChildrenOfKind(KindAttributeArg)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TrimmedText()
	}
	return out
}

// Attributes returns the attribute list of any item node, or an empty list for non-items.
func Attributes(item Node) AttributeList {
	if !item.Kind().IsItem() {
		return AttributeList{}
	}
	return AttributeList{item.Child(0)}
}
