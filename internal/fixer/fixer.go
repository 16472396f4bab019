package fixer

import (
	"pyfix/internal/pattern"
	"pyfix/internal/tree"
)

// Traversal selects when a fixer is offered a node relative to its children.
type Traversal uint8

const (
	// BottomUp fixers see a node after its descendants were processed.
	BottomUp Traversal = iota
	// TopDown fixers see a node before its children.
	TopDown
)

func (t Traversal) String() string {
	if t == TopDown {
		return "pre_order"
	}
	return "post_order"
}

// TransformFunc builds the replacement for a matched node. Returning a nil
// node means "no change here"; an error aborts this attempt only.
type TransformFunc func(node tree.Node, b pattern.Bindings) (tree.Node, error)

// Fixer is a named pattern plus the transform run on its matches.
type Fixer struct {
	Name      string
	Pattern   string
	Traversal Traversal
	// Priority orders competing fixers; lower runs first.
	Priority  int
	Transform TransformFunc
	// OwnPrefix keeps the prefix the transform produced instead of copying
	// the matched node's prefix onto the replacement.
	OwnPrefix bool
	// Explicit fixers only run when selected by name.
	Explicit bool
	Doc      string
	// Revision names the transform's behavior for cache keys. Fixers whose
	// transform is data, like rule templates, set it to that data; built-in
	// fixers leave it empty and are covered by the pyfix version.
	Revision string

	compiled *pattern.Pattern
	seq      int
}

// Compiled returns the compiled pattern; nil until registered.
func (f *Fixer) Compiled() *pattern.Pattern { return f.compiled }

// Seq is the registration sequence number, used to break priority ties.
func (f *Fixer) Seq() int { return f.seq }

// Match tests the fixer's pattern against n.
func (f *Fixer) Match(n tree.Node) pattern.Result {
	if f.compiled == nil {
		return pattern.Result{}
	}
	return f.compiled.Match(n)
}
