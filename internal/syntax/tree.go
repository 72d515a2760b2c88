package syntax

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"cairoplug/internal/source"
)

// NodeID is a 1-based index into Tree.Nodes; NoNodeID marks an absent node.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Green is the stored form of a node. Offsets are byte offsets into Tree.Source.
// Start/End cover the full text including leading trivia; TrimStart/TrimEnd exclude it.
type Green struct {
	Kind      Kind     `msgpack:"k"`
	Start     uint32   `msgpack:"s"`
	End       uint32   `msgpack:"e"`
	TrimStart uint32   `msgpack:"ts"`
	TrimEnd   uint32   `msgpack:"te"`
	Children  []NodeID `msgpack:"c,omitempty"`
}

// Tree is an immutable syntax tree over one source text, as supplied by the host.
type Tree struct {
	File   source.FileID `msgpack:"file"`
	Source string        `msgpack:"src"`
	Nodes  []Green       `msgpack:"nodes"`
	Root   NodeID        `msgpack:"root"`
}

// ErrMalformedTree is wrapped by every error returned from Tree.Validate.
var ErrMalformedTree = errors.New("malformed syntax tree")

func (t *Tree) green(id NodeID) *Green {
	if id == NoNodeID || int(id) > len(t.Nodes) {
		panic(fmt.Sprintf("syntax: invalid node id %d (tree has %d nodes)", id, len(t.Nodes)))
	}
	return &t.Nodes[id-1]
}

// Node returns a handle for id. It panics when id is out of range.
func (t *Tree) Node(id NodeID) Node {
	t.green(id)
	return Node{tree: t, id: id}
}

// RootNode returns the handle of the tree root.
func (t *Tree) RootNode() Node {
	return t.Node(t.Root)
}

// Validate checks the structural invariants a host-supplied tree must hold:
// every child id is in range and points forward-free (no cycles, children before parents),
// every span lies inside Source with Start <= TrimStart <= TrimEnd <= End,
// and sibling spans are ordered and do not overlap.
func (t *Tree) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrMalformedTree)
	}
	srcLen, err := safecast.Conv[uint32](len(t.Source))
	if err != nil {
		return fmt.Errorf("%w: source too large: %w", ErrMalformedTree, err)
	}
	if t.Root == NoNodeID || int(t.Root) > len(t.Nodes) {
		return fmt.Errorf("%w: root id %d out of range", ErrMalformedTree, t.Root)
	}
	for i := range t.Nodes {
		g := &t.Nodes[i]
		id := i + 1
		if g.Kind == KindInvalid || g.Kind > KindStatement {
			return fmt.Errorf("%w: node %d has invalid kind %d", ErrMalformedTree, id, g.Kind)
		}
		if g.Start > g.TrimStart || g.TrimStart > g.TrimEnd || g.TrimEnd > g.End || g.End > srcLen {
			return fmt.Errorf("%w: node %d has bad span %d..%d (trimmed %d..%d)",
				ErrMalformedTree, id, g.Start, g.End, g.TrimStart, g.TrimEnd)
		}
		prevEnd := g.Start
		for _, c := range g.Children {
			// дети всегда аллоцируются раньше родителя, так что циклов быть не может
			if c == NoNodeID || int(c) >= id {
				return fmt.Errorf("%w: node %d has child %d out of order", ErrMalformedTree, id, c)
			}
			cg := &t.Nodes[c-1]
			if cg.Start < prevEnd || cg.End > g.End {
				return fmt.Errorf("%w: child %d of node %d overlaps its siblings or escapes its parent",
					ErrMalformedTree, c, id)
			}
			prevEnd = cg.End
		}
	}
	return nil
}

// Node is a read-only handle to one node of a Tree. The zero value is an absent node.
type Node struct {
	tree *Tree
	id   NodeID
}

func (n Node) IsZero() bool { return n.tree == nil || n.id == NoNodeID }

func (n Node) ID() NodeID  { return n.id }
func (n Node) Tree() *Tree { return n.tree }

func (n Node) Kind() Kind {
	if n.IsZero() {
		return KindInvalid
	}
	return n.tree.green(n.id).Kind
}

// Text returns the node text including leading trivia.
func (n Node) Text() string {
	if n.IsZero() {
		return ""
	}
	g := n.tree.green(n.id)
	return n.tree.Source[g.Start:g.End]
}

// TrimmedText returns the node text without leading and trailing trivia.
func (n Node) TrimmedText() string {
	if n.IsZero() {
		return ""
	}
	g := n.tree.green(n.id)
	return n.tree.Source[g.TrimStart:g.TrimEnd]
}

// Span returns the full span of the node, trivia included.
func (n Node) Span() source.Span {
	if n.IsZero() {
		return source.Span{}
	}
	g := n.tree.green(n.id)
	return source.Span{File: n.tree.File, Start: g.Start, End: g.End}
}

// SpanWithoutTrivia returns the span of the node text that excludes whitespace and comments.
func (n Node) SpanWithoutTrivia() source.Span {
	if n.IsZero() {
		return source.Span{}
	}
	g := n.tree.green(n.id)
	return source.Span{File: n.tree.File, Start: g.TrimStart, End: g.TrimEnd}
}

func (n Node) NumChildren() int {
	if n.IsZero() {
		return 0
	}
	return len(n.tree.green(n.id).Children)
}

// Child returns the i-th child or the zero Node when i is out of range.
func (n Node) Child(i int) Node {
	if n.IsZero() {
		return Node{}
	}
	children := n.tree.green(n.id).Children
	if i < 0 || i >= len(children) {
		return Node{}
	}
	return Node{tree: n.tree, id: children[i]}
}

func (n Node) Children() []Node {
	if n.IsZero() {
		return nil
	}
	children := n.tree.green(n.id).Children
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = Node{tree: n.tree, id: c}
	}
	return out
}

// ChildrenOfKind returns the children with the given kind, skipping separators.
func (n Node) ChildrenOfKind(kind Kind) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

func (n Node) String() string {
	if n.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s@%s", n.Kind(), n.Span())
}
