package plugin

import (
	"context"

	"cairoplug/internal/diag"
	"cairoplug/internal/patcher"
	"cairoplug/internal/syntax"
)

// Metadata is the read-only bundle the host passes with every item.
type Metadata struct {
	CfgSet syntax.CfgSet // active configuration entries
}

// GeneratedFile is the replacement text for one item.
type GeneratedFile struct {
	Name         string
	Content      string
	AuxData      []byte // host-defined; unused by the contract plugin
	CodeMappings patcher.Mappings
}

// Result of one GenerateCode call. The zero value means "no change".
type Result struct {
	Code           *GeneratedFile
	Diagnostics    []diag.Diagnostic
	RemoveOriginal bool
	// Err is set when generation aborted on an internal defect; Code is nil then
	// and the host fails this item.
	Err error
}

// IsNoop reports whether the host should leave the item untouched.
func (r Result) IsNoop() bool {
	return r.Code == nil && len(r.Diagnostics) == 0 && !r.RemoveOriginal && r.Err == nil
}

// MacroPlugin is the capability the host calls during macro expansion.
// GenerateCode must not retain item or meta after it returns.
type MacroPlugin interface {
	DeclaredAttributes() []string
	GenerateCode(ctx context.Context, item syntax.Node, meta Metadata) Result
}

// Suite is the set of macro plugins a package installs into the host.
type Suite struct {
	plugins []MacroPlugin
}

func (s *Suite) Add(p MacroPlugin) {
	s.plugins = append(s.plugins, p)
}

// Extend appends every plugin of other.
func (s *Suite) Extend(other Suite) {
	s.plugins = append(s.plugins, other.plugins...)
}

func (s Suite) Plugins() []MacroPlugin {
	return append([]MacroPlugin(nil), s.plugins...)
}

func (s Suite) Len() int { return len(s.plugins) }

// DeclaredAttributes is the union of the plugins' attributes in installation order.
func (s Suite) DeclaredAttributes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.plugins {
		for _, a := range p.DeclaredAttributes() {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Matching returns the plugins whose declared attributes item carries.
// The host only calls those.
func (s Suite) Matching(item syntax.Node) []MacroPlugin {
	attrs := syntax.Attributes(item)
	var out []MacroPlugin
	for _, p := range s.plugins {
		for _, a := range p.DeclaredAttributes() {
			if attrs.Has(a) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
