package ast

import (
	"strings"

	"github.com/aledsdavies/batparse/core/invariant"
)

// Node is a tagged syntax node. Its children are Tokens or *Nodes in source
// order. A Node never changes after Builder.Finish returns it.
type Node struct {
	tag      Tag
	children []Element
	span     Span
}

// Tag returns the node's variant.
func (n *Node) Tag() Tag {
	return n.tag
}

// Span returns the union of the children's spans.
func (n *Node) Span() Span {
	return n.span
}

// Extent implements Element.
func (n *Node) Extent() Span {
	return n.span
}

func (*Node) element() {}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i-th child.
func (n *Node) Child(i int) Element {
	invariant.InRange(i, 0, len(n.children)-1, "child index")
	return n.children[i]
}

// Children returns a copy of the children.
func (n *Node) Children() []Element {
	out := make([]Element, len(n.children))
	copy(out, n.children)
	return out
}

// Tokens returns the direct token children.
func (n *Node) Tokens() []Token {
	var out []Token
	for _, c := range n.children {
		if tok, ok := c.(Token); ok {
			out = append(out, tok)
		}
	}
	return out
}

// Nodes returns the direct node children.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			out = append(out, child)
		}
	}
	return out
}

// Find returns the first direct child node with the given tag, or nil.
func (n *Node) Find(tag Tag) *Node {
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.tag == tag {
			return child
		}
	}
	return nil
}

// String renders the node in a compact bracket form, e.g.
// command_goto[GOTO, LABLE+]. It is meant for debugging and test failures.
func (n *Node) String() string {
	var b strings.Builder
	n.writeCompact(&b)
	return b.String()
}

func (n *Node) writeCompact(b *strings.Builder) {
	b.WriteString(string(n.tag))
	if len(n.children) == 0 {
		return
	}
	b.WriteByte('[')
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := c.(type) {
		case Token:
			b.WriteString(quoteIfBlank(v.Text))
		case *Node:
			v.writeCompact(b)
		}
	}
	b.WriteByte(']')
}

func quoteIfBlank(s string) string {
	if strings.TrimSpace(s) == s && s != "" {
		return s
	}
	return `"` + s + `"`
}

// Builder assembles one Node. Children are appended in source order and the
// node is sealed by Finish; a finished builder must not be reused.
type Builder struct {
	tag      Tag
	children []Element
	span     Span
	started  bool
	done     bool
}

// NewBuilder starts a node with the given tag.
func NewBuilder(tag Tag) *Builder {
	invariant.Precondition(tag.Valid(), "unknown tag %q", tag)
	return &Builder{tag: tag}
}

// Add appends a child. Children must not start before the previous child ends.
func (b *Builder) Add(child Element) *Builder {
	invariant.Precondition(!b.done, "builder for %s already finished", b.tag)
	invariant.NotNil(child, "child")

	// An empty node (the body of "()") has no extent of its own.
	if n, ok := child.(*Node); ok && len(n.children) == 0 {
		b.children = append(b.children, child)
		return b
	}

	ext := child.Extent()
	if b.started {
		invariant.Precondition(ext.Start >= b.span.End,
			"%s child at %d overlaps previous child ending at %d", b.tag, ext.Start, b.span.End)
		b.span.End = ext.End
	} else {
		b.span = ext
		b.started = true
	}
	b.children = append(b.children, child)
	return b
}

// Len returns the number of children added so far.
func (b *Builder) Len() int {
	return len(b.children)
}

// Finish seals and returns the node.
func (b *Builder) Finish() *Node {
	invariant.Precondition(!b.done, "builder for %s already finished", b.tag)
	b.done = true
	return &Node{tag: b.tag, children: b.children, span: b.span}
}

// NewNode builds a node from children in one step.
func NewNode(tag Tag, children ...Element) *Node {
	b := NewBuilder(tag)
	for _, c := range children {
		b.Add(c)
	}
	return b.Finish()
}
