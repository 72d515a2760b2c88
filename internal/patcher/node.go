package patcher

import (
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
)

// RewriteNode describes a fragment of generated text and where it came from.
// Nodes are immutable once built; a tree is rendered once and discarded.
type RewriteNode interface {
	rewriteNode()
}

// Text is literal content without origin.
type Text struct {
	Value string
}

// Copied emits the exact text of an original syntax node.
type Copied struct {
	Node syntax.Node
}

// Mapped emits Inner but attributes the whole emitted range to Origin.
type Mapped struct {
	Inner  RewriteNode
	Origin source.Span
}

// Modified emits each child in order.
type Modified struct {
	Children []RewriteNode
}

// Interpolated emits a template with placeholders replaced by bound nodes.
// The only way to obtain one is Interpolate, so every placeholder is bound.
type Interpolated struct {
	template string
	segments []segment
	subs     map[string]RewriteNode
}

// Template returns the template text the node was built from.
func (n *Interpolated) Template() string { return n.template }

func (Text) rewriteNode()          {}
func (Copied) rewriteNode()        {}
func (Mapped) rewriteNode()        {}
func (Modified) rewriteNode()      {}
func (*Interpolated) rewriteNode() {}

func NewText(s string) Text { return Text{Value: s} }

// NewCopied panics on an absent node: a Copied node must reference real source.
func NewCopied(n syntax.Node) Copied {
	if n.IsZero() {
		panic("patcher: Copied of an absent syntax node")
	}
	return Copied{Node: n}
}

func NewMapped(inner RewriteNode, origin source.Span) Mapped {
	if inner == nil {
		panic("patcher: Mapped with nil inner node")
	}
	return Mapped{Inner: inner, Origin: origin}
}

// MapNode wraps inner with the trivia-free span of n as its origin.
func MapNode(inner RewriteNode, n syntax.Node) Mapped {
	return NewMapped(inner, n.SpanWithoutTrivia())
}

func NewModified(children ...RewriteNode) Modified {
	return Modified{Children: children}
}
