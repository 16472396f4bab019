package pattern

import "pyfix/internal/tree"

// Capture is what one name bound to. Multi is set for captures of
// repetitions and groups, which bind a (possibly empty) run of siblings.
type Capture struct {
	Nodes []tree.Node
	Multi bool
}

// Bindings maps capture names to matched nodes.
type Bindings map[string]Capture

// Node returns the single node bound to name, or the first of a run, or nil.
func (b Bindings) Node(name string) tree.Node {
	c, ok := b[name]
	if !ok || len(c.Nodes) == 0 {
		return nil
	}
	return c.Nodes[0]
}

// Nodes returns every node bound to name.
func (b Bindings) Nodes(name string) []tree.Node {
	return b[name].Nodes
}

// Leaf returns the node bound to name when it is a leaf.
func (b Bindings) Leaf(name string) *tree.Leaf {
	l, _ := b.Node(name).(*tree.Leaf)
	return l
}

// Has reports whether name was bound, even to an empty run.
func (b Bindings) Has(name string) bool {
	_, ok := b[name]
	return ok
}

func (b Bindings) clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Result is the outcome of matching one pattern against one node.
type Result struct {
	Matched  bool
	Bindings Bindings
	Node     tree.Node
}
