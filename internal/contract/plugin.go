package contract

import (
	"context"
	"fmt"
	"strings"

	"cairoplug/internal/diag"
	"cairoplug/internal/patcher"
	"cairoplug/internal/plugin"
	"cairoplug/internal/rewrite"
	"cairoplug/internal/syntax"
	"cairoplug/internal/trace"
)

// Plugin rewrites modules carrying the trigger attribute into framework contracts.
// It keeps no state between calls and is safe for concurrent use.
type Plugin struct {
	opts Options
}

func New(opts Options) *Plugin {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = defaultMaxDiagnostics
	}
	return &Plugin{opts: opts}
}

func (p *Plugin) DeclaredAttributes() []string {
	return []string{p.opts.Attribute}
}

func (p *Plugin) ID() plugin.PackageID {
	return p.opts.ID
}

func (p *Plugin) Instantiate() (plugin.Instance, error) {
	return instance{p}, nil
}

type instance struct{ p *Plugin }

func (i instance) Suite() plugin.Suite {
	var s plugin.Suite
	s.Add(i.p)
	return s
}

// Suite is the factory the host installs: exactly the default contract plugin.
func Suite() plugin.Suite {
	return instance{New(DefaultOptions())}.Suite()
}

// DefaultRepository returns a repository with the default contract plugin installed.
func DefaultRepository() *plugin.Repository {
	repo := plugin.NewRepository()
	if err := repo.Add(New(DefaultOptions())); err != nil {
		panic(err) // пустой репозиторий не может содержать дубликат
	}
	return repo
}

// GenerateCode expands one top-level item. Items other than modules with the trigger
// attribute, and modules without a body, give the no-op result.
func (p *Plugin) GenerateCode(ctx context.Context, item syntax.Node, meta plugin.Metadata) plugin.Result {
	if item.Kind() != syntax.KindModule {
		return plugin.Result{}
	}
	mod := syntax.AsModule(item)
	if !mod.Attributes().Has(p.opts.Attribute) {
		return plugin.Result{}
	}
	body, ok := mod.Body()
	if !ok {
		return plugin.Result{}
	}

	name := mod.Name().TrimmedText()
	ctx, span := trace.Enter(ctx, trace.ScopeCall, "generate:"+name)
	res := p.expandModule(ctx, name, body, meta)
	if res.Err != nil {
		span.Set("error", res.Err)
	}
	span.Set("diagnostics", len(res.Diagnostics)).End("")
	return res
}

func (p *Plugin) expandModule(ctx context.Context, name string, body syntax.ItemList, meta plugin.Metadata) plugin.Result {
	rep := diag.NewCollector(p.opts.MaxDiagnostics)

	var nodes []patcher.RewriteNode
	for _, item := range body.Elements() {
		if item.Kind() == syntax.KindImpl {
			nodes = append(nodes, p.rewriteImpl(ctx, syntax.AsImpl(item), meta, rep))
			continue
		}
		trace.Point(ctx, trace.ScopeNode, "copy", item.Kind().String())
		nodes = append(nodes, patcher.NewCopied(item))
	}
	if p.opts.AuxItem != "" {
		nodes = append(nodes, patcher.NewText("\n"+p.opts.AuxItem+"\n"))
	}

	tmpl, err := patcher.Interpolate(p.moduleTemplate(), map[string]patcher.RewriteNode{
		"name": patcher.NewText(name),
		"body": patcher.NewModified(nodes...),
	})
	if err != nil {
		return plugin.Result{Err: fmt.Errorf("contract %s: %w", name, err)}
	}

	code, mappings := patcher.Render(tmpl)
	return plugin.Result{
		Code: &plugin.GeneratedFile{
			Name:         name,
			Content:      code,
			CodeMappings: mappings,
		},
		Diagnostics:    rep.Diagnostics(),
		RemoveOriginal: true,
	}
}

// moduleTemplate wraps the body in the framework attribute; `$` in the wrapper is literal.
func (p *Plugin) moduleTemplate() string {
	wrapper := strings.ReplaceAll(p.opts.Wrapper, "$", "$$")
	return "#[" + wrapper + "]\nmod $name$ {\n$body$\n}\n"
}

// rewriteImpl emits the impl under a substituted header. Functions in cfg are rewritten,
// other items in cfg are copied, items out of cfg are dropped.
func (p *Plugin) rewriteImpl(ctx context.Context, impl syntax.ItemImpl, meta plugin.Metadata, rep diag.Reporter) patcher.RewriteNode {
	name := impl.Name().TrimmedText()
	ctx, span := trace.Enter(ctx, trace.ScopeItem, "impl:"+name)

	if p.opts.DisallowedImpl != "" && rewrite.NormalizeIdent(name) == rewrite.NormalizeIdent(p.opts.DisallowedImpl) {
		rep.Report(diag.NewError(diag.PlugInvalidImplName, impl.SpanWithoutTrivia(), "Invalid impl name"))
	}

	var header strings.Builder
	header.WriteString("\n")
	if attrs := impl.Attributes().TrimmedText(); attrs != "" {
		header.WriteString(attrs)
		header.WriteString(" ")
	}
	fmt.Fprintf(&header, "impl %s of %s {\n", name, impl.TraitPath().TrimmedText())

	nodes := []patcher.RewriteNode{patcher.MapNode(patcher.NewText(header.String()), impl.Node)}
	rewritten, copied, skipped := 0, 0, 0
	if body, ok := impl.Body(); ok {
		items := body.Elements()
		inCfg := syntax.ItemsInCfg(items, meta.CfgSet)
		skipped = len(items) - len(inCfg)
		for _, item := range inCfg {
			if item.Kind() == syntax.KindFunction {
				fn := syntax.AsFunction(item)
				trace.Point(ctx, trace.ScopeNode, "fn", fn.Declaration().Name().TrimmedText())
				nodes = append(nodes, patcher.NewText("\n"), rewrite.RewriteFunction(fn, p.opts.Rewrite, rep))
				rewritten++
				continue
			}
			nodes = append(nodes, patcher.NewCopied(item))
			copied++
		}
	}
	nodes = append(nodes, patcher.NewText("\n}"))

	span.Set("rewritten", rewritten).
		Set("copied", copied).
		Set("cfg_skipped", skipped).
		End("")
	return patcher.NewModified(nodes...)
}
