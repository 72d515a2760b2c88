package patcher

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// PatchBuilder renders rewrite nodes into generated text plus origin mappings.
// A builder is used for one generation pass: after Build it refuses further input.
type PatchBuilder struct {
	code     strings.Builder
	mappings Mappings
	built    bool
}

func NewPatchBuilder() *PatchBuilder {
	return &PatchBuilder{}
}

func (b *PatchBuilder) cursor() uint32 {
	off, err := safecast.Conv[uint32](b.code.Len())
	if err != nil {
		panic(fmt.Errorf("generated text offset overflow: %w", err))
	}
	return off
}

func (b *PatchBuilder) checkOpen() {
	if b.built {
		panic("patcher: PatchBuilder used after Build")
	}
}

// AddStr appends literal text without origin.
func (b *PatchBuilder) AddStr(s string) {
	b.checkOpen()
	b.code.WriteString(s)
}

// AddModified renders node and appends its text and mappings.
func (b *PatchBuilder) AddModified(node RewriteNode) {
	b.checkOpen()
	b.render(node)
}

func (b *PatchBuilder) render(node RewriteNode) {
	switch n := node.(type) {
	case Text:
		b.code.WriteString(n.Value)

	case Copied:
		if n.Node.IsZero() {
			panic("patcher: Copied of an absent syntax node")
		}
		start := b.cursor()
		b.code.WriteString(n.Node.Text())
		b.push(CodeMapping{
			Span:     TextSpan{Start: start, End: b.cursor()},
			Origin:   n.Node.Span(),
			Verbatim: true,
		})

	case Mapped:
		start := b.cursor()
		mark := len(b.mappings)
		b.render(n.Inner)
		// внутренние отображения заменяются одним явным origin
		b.mappings = b.mappings[:mark]
		b.push(CodeMapping{
			Span:   TextSpan{Start: start, End: b.cursor()},
			Origin: n.Origin,
		})

	case Modified:
		for _, child := range n.Children {
			b.render(child)
		}

	case *Interpolated:
		if n == nil {
			panic("patcher: nil Interpolated node")
		}
		for _, seg := range n.segments {
			if seg.placeholder == "" {
				b.code.WriteString(seg.literal)
				continue
			}
			b.render(n.subs[seg.placeholder])
		}

	case nil:
		panic("patcher: nil rewrite node")

	default:
		panic(fmt.Sprintf("patcher: unknown rewrite node %T", node))
	}
}

func (b *PatchBuilder) push(m CodeMapping) {
	b.mappings = append(b.mappings, m)
}

// Build returns the generated text and its mappings and closes the builder.
func (b *PatchBuilder) Build() (string, Mappings) {
	b.checkOpen()
	b.built = true
	return b.code.String(), b.mappings
}

// Render is a one-shot helper: a fresh builder, one node, Build.
func Render(node RewriteNode) (string, Mappings) {
	b := NewPatchBuilder()
	b.AddModified(node)
	return b.Build()
}
