package syntax

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"cairoplug/internal/source"
)

type frame struct {
	kind      Kind
	start     uint32
	trimStart uint32
	trimEnd   uint32
	hasText   bool
	children  []NodeID
}

// Builder assembles a Tree bottom-up while appending its source text.
// Trivia passed to Token is attached to that token and excluded from trimmed spans.
type Builder struct {
	file  source.FileID
	src   strings.Builder
	nodes []Green
	stack []frame
}

func NewBuilder(file source.FileID) *Builder {
	return &Builder{file: file}
}

func (b *Builder) offset() uint32 {
	off, err := safecast.Conv[uint32](b.src.Len())
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}

func (b *Builder) alloc(g Green) NodeID {
	b.nodes = append(b.nodes, g)
	id, err := safecast.Conv[uint32](len(b.nodes))
	if err != nil {
		panic(fmt.Errorf("node count overflow: %w", err))
	}
	return NodeID(id)
}

func (b *Builder) attach(id NodeID, g Green) {
	if len(b.stack) == 0 {
		return
	}
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, id)
	if g.TrimEnd > g.TrimStart {
		if !top.hasText {
			top.trimStart = g.TrimStart
			top.hasText = true
		}
		top.trimEnd = g.TrimEnd
	}
}

// Start opens a node of the given kind; it must be closed with Finish.
func (b *Builder) Start(kind Kind) {
	off := b.offset()
	b.stack = append(b.stack, frame{kind: kind, start: off, trimStart: off, trimEnd: off})
}

// Token appends a terminal with its leading trivia.
func (b *Builder) Token(trivia, text string) NodeID {
	start := b.offset()
	b.src.WriteString(trivia)
	trimStart := b.offset()
	b.src.WriteString(text)
	end := b.offset()
	g := Green{Kind: KindToken, Start: start, End: end, TrimStart: trimStart, TrimEnd: end}
	if text == "" {
		g.TrimStart, g.TrimEnd = end, end
	}
	id := b.alloc(g)
	b.attach(id, g)
	return id
}

// Finish closes the innermost open node and returns its id.
func (b *Builder) Finish() NodeID {
	if len(b.stack) == 0 {
		panic("syntax: Finish without Start")
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	end := b.offset()
	g := Green{Kind: f.kind, Start: f.start, End: end, TrimStart: f.trimStart, TrimEnd: f.trimEnd, Children: f.children}
	if !f.hasText {
		g.TrimStart, g.TrimEnd = end, end
	}
	id := b.alloc(g)
	b.attach(id, g)
	return id
}

// Tree returns the built tree rooted at root. All nodes must be finished.
func (b *Builder) Tree(root NodeID) *Tree {
	if len(b.stack) != 0 {
		panic(fmt.Sprintf("syntax: %d unfinished nodes", len(b.stack)))
	}
	return &Tree{
		File:   b.file,
		Source: b.src.String(),
		Nodes:  append([]Green(nil), b.nodes...),
		Root:   root,
	}
}
