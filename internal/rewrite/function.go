package rewrite

import (
	"strings"

	"cairoplug/internal/diag"
	"cairoplug/internal/patcher"
	"cairoplug/internal/syntax"
)

// Options configure RewriteFunction.
type Options struct {
	Convention Convention
	Injected   []string // statements emitted before the user's ones
}

// RewriteFunction rebuilds fn inside a receiver-style shell:
//
//	Mapped("fn name(<receiver>, params) -> Ret {\n", declaration)
//	Text(injected statement + "\n")...
//	Mapped(Copied(statement), statement)...
//	Text("\n}")
func RewriteFunction(fn syntax.FunctionWithBody, opts Options, r diag.Reporter) patcher.Modified {
	decl := fn.Declaration()
	params := RewriteParameters(decl.Params(), opts.Convention, r)

	var header strings.Builder
	header.WriteString("fn ")
	header.WriteString(decl.Name().TrimmedText())
	header.WriteString("(")
	header.WriteString(params.Text)
	header.WriteString(")")
	if ret := decl.ReturnType(); ret != "" {
		header.WriteString(" -> ")
		header.WriteString(ret)
	}
	header.WriteString(" {\n")

	nodes := make([]patcher.RewriteNode, 0, len(opts.Injected)+len(fn.Statements())+2)
	nodes = append(nodes, patcher.MapNode(patcher.NewText(header.String()), decl.Node))
	for _, stmt := range opts.Injected {
		nodes = append(nodes, patcher.NewText(stmt+"\n"))
	}
	for _, stmt := range fn.Statements() {
		nodes = append(nodes, patcher.MapNode(patcher.NewCopied(stmt), stmt))
	}
	nodes = append(nodes, patcher.NewText("\n}"))
	return patcher.NewModified(nodes...)
}
