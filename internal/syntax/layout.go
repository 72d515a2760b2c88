package syntax

import (
	"fmt"
	"strings"

	"cairoplug/internal/source"
)

// DeclKind names the item kinds Build can lay out.
type DeclKind string

const (
	DeclModule DeclKind = "module"
	DeclImpl   DeclKind = "impl"
	DeclFn     DeclKind = "fn"
	DeclItem   DeclKind = "item" // verbatim text: struct, use, const, trait...
)

// Decl describes an item declaratively. Build lays it out as canonical source text and
// produces the tree a host parser would have produced for that text. Decl decodes from TOML,
// which is how test fixtures and the `expand` command describe their input.
type Decl struct {
	Kind   DeclKind    `toml:"kind" msgpack:"kind"`
	Attrs  []string    `toml:"attrs" msgpack:"attrs,omitempty"` // e.g. "custom::contract", `cfg(feature: "x")`
	Name   string      `toml:"name" msgpack:"name,omitempty"`
	Trait  string      `toml:"trait" msgpack:"trait,omitempty"`
	Params []ParamDecl `toml:"params" msgpack:"params,omitempty"`
	Ret    string      `toml:"ret" msgpack:"ret,omitempty"`
	Body   []string    `toml:"body" msgpack:"body,omitempty"`
	Items  []Decl      `toml:"items" msgpack:"items,omitempty"`
	Text   string      `toml:"text" msgpack:"text,omitempty"`
	NoBody bool        `toml:"no_body" msgpack:"no_body,omitempty"`
}

type ParamDecl struct {
	Modifiers []string `toml:"modifiers" msgpack:"modifiers,omitempty"`
	Name      string   `toml:"name" msgpack:"name"`
	Type      string   `toml:"type" msgpack:"type"`
}

const indentUnit = "    "

type layout struct {
	b      *Builder
	trivia string // leading trivia of the next token
}

// Build lays out d and returns its tree; the root is the item node.
func Build(file source.FileID, d Decl) (*Tree, error) {
	l := &layout{b: NewBuilder(file)}
	root, err := l.item(d, "")
	if err != nil {
		return nil, err
	}
	return l.b.Tree(root), nil
}

// MustBuild is Build for fixtures known to be valid.
func MustBuild(file source.FileID, d Decl) *Tree {
	t, err := Build(file, d)
	if err != nil {
		panic(err)
	}
	return t
}

func (l *layout) tok(text string) {
	l.b.Token(l.trivia, text)
	l.trivia = ""
}

func (l *layout) item(d Decl, indent string) (NodeID, error) {
	switch d.Kind {
	case DeclModule:
		l.b.Start(KindModule)
		l.attrs(d.Attrs, indent)
		l.tok("mod")
		l.trivia = " "
		l.tok(d.Name)
		if d.NoBody {
			l.tok(";")
			return l.b.Finish(), nil
		}
		if err := l.body(KindModuleBody, d.Items, indent); err != nil {
			return NoNodeID, err
		}
		return l.b.Finish(), nil

	case DeclImpl:
		l.b.Start(KindImpl)
		l.attrs(d.Attrs, indent)
		l.tok("impl")
		l.trivia = " "
		l.tok(d.Name)
		l.trivia = " "
		l.tok("of")
		l.b.Start(KindPath)
		l.trivia = " "
		l.tok(d.Trait)
		l.b.Finish()
		if d.NoBody {
			l.tok(";")
			return l.b.Finish(), nil
		}
		if err := l.body(KindImplBody, d.Items, indent); err != nil {
			return NoNodeID, err
		}
		return l.b.Finish(), nil

	case DeclFn:
		l.b.Start(KindFunction)
		l.attrs(d.Attrs, indent)
		l.function(d, indent)
		return l.b.Finish(), nil

	case DeclItem:
		if strings.TrimSpace(d.Text) == "" {
			return NoNodeID, fmt.Errorf("item declaration without text")
		}
		l.b.Start(KindItem)
		l.attrs(d.Attrs, indent)
		l.tok(d.Text)
		return l.b.Finish(), nil
	}
	return NoNodeID, fmt.Errorf("unknown declaration kind %q", d.Kind)
}

func (l *layout) attrs(attrs []string, indent string) {
	l.b.Start(KindAttributeList)
	for _, a := range attrs {
		path, args, hasArgs := splitAttr(a)
		l.b.Start(KindAttribute)
		l.tok("#[")
		l.b.Start(KindPath)
		l.tok(path)
		l.b.Finish()
		l.b.Start(KindAttributeArgs)
		if hasArgs {
			l.tok("(")
			for i, arg := range args {
				if i > 0 {
					l.tok(",")
					l.trivia = " "
				}
				l.b.Start(KindAttributeArg)
				l.tok(arg)
				l.b.Finish()
			}
			l.tok(")")
		}
		l.b.Finish()
		l.tok("]")
		l.b.Finish()
		l.trivia = "\n" + indent
	}
	l.b.Finish()
}

// splitAttr splits `path(a, b)` into its path and top-level arguments.
func splitAttr(a string) (string, []string, bool) {
	open := strings.IndexByte(a, '(')
	if open < 0 || !strings.HasSuffix(a, ")") {
		return strings.TrimSpace(a), nil, false
	}
	inner := a[open+1 : len(a)-1]
	var args []string
	depth, last := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[last:i]))
				last = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(inner[last:]); rest != "" {
		args = append(args, rest)
	}
	return strings.TrimSpace(a[:open]), args, true
}

func (l *layout) body(kind Kind, items []Decl, indent string) error {
	inner := indent + indentUnit
	l.b.Start(kind)
	l.trivia = " "
	l.tok("{")
	l.b.Start(KindItemList)
	for _, it := range items {
		l.trivia = "\n" + inner
		if _, err := l.item(it, inner); err != nil {
			return err
		}
	}
	l.b.Finish()
	l.trivia = "\n" + indent
	l.tok("}")
	l.b.Finish()
	return nil
}

func (l *layout) function(d Decl, indent string) {
	l.b.Start(KindDeclaration)
	l.tok("fn")
	l.trivia = " "
	l.tok(d.Name)
	l.b.Start(KindSignature)
	l.tok("(")
	l.b.Start(KindParamList)
	for i, p := range d.Params {
		if i > 0 {
			l.tok(",")
			l.trivia = " "
		}
		l.param(p)
	}
	l.b.Finish()
	l.tok(")")
	l.b.Start(KindReturnClause)
	if d.Ret != "" {
		l.trivia = " "
		l.tok("->")
		l.b.Start(KindType)
		l.trivia = " "
		l.tok(d.Ret)
		l.b.Finish()
	}
	l.b.Finish()
	l.b.Finish() // signature
	l.b.Finish() // declaration

	inner := indent + indentUnit
	l.b.Start(KindBlock)
	l.trivia = " "
	l.tok("{")
	l.b.Start(KindStatementList)
	for _, s := range d.Body {
		l.b.Start(KindStatement)
		l.trivia = "\n" + inner
		l.tok(s)
		l.b.Finish()
	}
	l.b.Finish()
	l.trivia = "\n" + indent
	l.tok("}")
	l.b.Finish()
}

func (l *layout) param(p ParamDecl) {
	l.b.Start(KindParam)
	l.b.Start(KindModifierList)
	for _, m := range p.Modifiers {
		l.tok(m)
		l.trivia = " "
	}
	l.b.Finish()
	l.tok(p.Name)
	l.b.Start(KindTypeClause)
	l.tok(":")
	l.b.Start(KindType)
	l.trivia = " "
	l.tok(p.Type)
	l.b.Finish()
	l.b.Finish()
	l.b.Finish()
}
