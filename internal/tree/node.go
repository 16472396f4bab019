package tree

import (
	"strings"

	"pyfix/internal/source"
	"pyfix/internal/token"
)

// Node is either a *Leaf or an *Internal.
type Node interface {
	Type() Type
	Parent() *Internal
	// Prefix is the whitespace and comments before the node's first leaf.
	Prefix() string
	SetPrefix(p string)
	// Children is nil for leaves.
	Children() []Node
	// Span is the source range covered by the node's original leaves.
	// Synthetic nodes report source.NoSpan.
	Span() source.Span
	// String reproduces the source text, prefixes included.
	String() string
	// Clone returns a deep copy with no parent.
	Clone() Node

	writeTo(sb *strings.Builder)
	setParent(p *Internal)
}

// Leaf is a token in the tree.
type Leaf struct {
	typ    Type
	Value  string
	prefix string
	span   source.Span
	parent *Internal
}

// NewLeaf creates a synthetic leaf.
func NewLeaf(t Type, value, prefix string) *Leaf {
	return &Leaf{typ: t, Value: value, prefix: prefix}
}

// LeafFromToken creates a leaf that remembers where the token came from.
func LeafFromToken(tok token.Token) *Leaf {
	return &Leaf{
		typ:    TokenType(tok.Kind),
		Value:  tok.Text,
		prefix: tok.Prefix(),
		span:   tok.Span,
	}
}

func (l *Leaf) Type() Type           { return l.typ }
func (l *Leaf) Kind() token.Kind     { return l.typ.Token() }
func (l *Leaf) Parent() *Internal    { return l.parent }
func (l *Leaf) Prefix() string       { return l.prefix }
func (l *Leaf) SetPrefix(p string)   { l.prefix = p }
func (l *Leaf) Children() []Node     { return nil }
func (l *Leaf) Span() source.Span    { return l.span }
func (l *Leaf) setParent(p *Internal) { l.parent = p }

func (l *Leaf) String() string {
	return l.prefix + l.Value
}

func (l *Leaf) writeTo(sb *strings.Builder) {
	sb.WriteString(l.prefix)
	sb.WriteString(l.Value)
}

func (l *Leaf) Clone() Node {
	return &Leaf{typ: l.typ, Value: l.Value, prefix: l.prefix, span: l.span}
}

// Internal is a grammar symbol with ordered children.
type Internal struct {
	typ      Type
	children []Node
	parent   *Internal
}

// NewNode creates an internal node and adopts the children.
// Children that already have a parent are detached from it first.
func NewNode(t Type, children ...Node) *Internal {
	n := &Internal{typ: t, children: make([]Node, 0, len(children))}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func (n *Internal) Type() Type            { return n.typ }
func (n *Internal) Parent() *Internal     { return n.parent }
func (n *Internal) Children() []Node      { return n.children }
func (n *Internal) setParent(p *Internal) { n.parent = p }

func (n *Internal) Prefix() string {
	if len(n.children) == 0 {
		return ""
	}
	return n.children[0].Prefix()
}

func (n *Internal) SetPrefix(p string) {
	if len(n.children) > 0 {
		n.children[0].SetPrefix(p)
	}
}

func (n *Internal) Span() source.Span {
	sp := source.NoSpan
	for _, l := range Leaves(n) {
		ls := l.Span()
		if ls == source.NoSpan {
			continue
		}
		if sp == source.NoSpan {
			sp = ls
			continue
		}
		sp = sp.Cover(ls)
	}
	return sp
}

func (n *Internal) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Internal) writeTo(sb *strings.Builder) {
	for _, c := range n.children {
		c.writeTo(sb)
	}
}

func (n *Internal) Clone() Node {
	c := &Internal{typ: n.typ, children: make([]Node, len(n.children))}
	for i, ch := range n.children {
		cc := ch.Clone()
		cc.setParent(c)
		c.children[i] = cc
	}
	return c
}

// AppendChild adds c as the last child.
func (n *Internal) AppendChild(c Node) {
	Detach(c)
	c.setParent(n)
	n.children = append(n.children, c)
}

// InsertChild inserts c before position i.
func (n *Internal) InsertChild(i int, c Node) {
	Detach(c)
	c.setParent(n)
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

// SetChild replaces the child at position i.
func (n *Internal) SetChild(i int, c Node) {
	Detach(c)
	n.children[i].setParent(nil)
	c.setParent(n)
	n.children[i] = c
}

// SetChildren replaces all children and relinks them.
func (n *Internal) SetChildren(children []Node) {
	for _, c := range n.children {
		c.setParent(nil)
	}
	n.children = children
	for _, c := range children {
		c.setParent(n)
	}
}
