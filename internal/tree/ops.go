package tree

// Replace puts repl where old is and returns the root of the tree old was in.
// When old is the root, repl becomes the new root. Parent links of repl's
// subtree are recomputed; old is left detached.
func Replace(old, repl Node) Node {
	if old == repl {
		return Root(old)
	}
	p := old.Parent()
	Detach(repl)
	Relink(repl)
	if p == nil {
		return repl
	}
	i := IndexOf(p, old)
	p.children[i] = repl
	repl.setParent(p)
	old.setParent(nil)
	return Root(p)
}

// Detach removes n from its parent, if any.
func Detach(n Node) {
	p := n.Parent()
	if p == nil {
		return
	}
	if i := IndexOf(p, n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.setParent(nil)
}

// Relink recomputes parent links below n.
func Relink(n Node) {
	in, ok := n.(*Internal)
	if !ok {
		return
	}
	for _, c := range in.children {
		c.setParent(in)
		Relink(c)
	}
}

// Root walks parent links up to the top.
func Root(n Node) Node {
	for {
		p := n.Parent()
		if p == nil {
			return n
		}
		n = p
	}
}

// IndexOf returns the position of child in p, or -1.
func IndexOf(p *Internal, child Node) int {
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	return -1
}

func NextSibling(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	if i := IndexOf(p, n); i >= 0 && i+1 < len(p.children) {
		return p.children[i+1]
	}
	return nil
}

func PrevSibling(n Node) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	if i := IndexOf(p, n); i > 0 {
		return p.children[i-1]
	}
	return nil
}

// Depth is the number of ancestors of n.
func Depth(n Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// FirstLeaf returns the leftmost leaf, or nil for an empty internal node.
func FirstLeaf(n Node) *Leaf {
	for {
		switch v := n.(type) {
		case *Leaf:
			return v
		case *Internal:
			if len(v.children) == 0 {
				return nil
			}
			n = v.children[0]
		default:
			return nil
		}
	}
}

// LastLeaf returns the rightmost leaf, or nil for an empty internal node.
func LastLeaf(n Node) *Leaf {
	for {
		switch v := n.(type) {
		case *Leaf:
			return v
		case *Internal:
			if len(v.children) == 0 {
				return nil
			}
			n = v.children[len(v.children)-1]
		default:
			return nil
		}
	}
}

// Leaves returns the leaves of n in source order.
func Leaves(n Node) []*Leaf {
	var out []*Leaf
	Walk(n, func(x Node) bool {
		if l, ok := x.(*Leaf); ok {
			out = append(out, l)
		}
		return true
	}, nil)
	return out
}

// Walk visits n depth-first. pre runs before the children and may return
// false to skip them; post runs after. Either callback may be nil.
func Walk(n Node, pre func(Node) bool, post func(Node)) {
	if pre != nil && !pre(n) {
		return
	}
	if in, ok := n.(*Internal); ok {
		for _, c := range in.children {
			Walk(c, pre, post)
		}
	}
	if post != nil {
		post(n)
	}
}

// Equal compares type, value and prefix of both trees structurally.
func Equal(a, b Node) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case *Leaf:
		bv, ok := b.(*Leaf)
		return ok && av.Value == bv.Value && av.prefix == bv.prefix
	case *Internal:
		bv, ok := b.(*Internal)
		if !ok || len(av.children) != len(bv.children) {
			return false
		}
		for i := range av.children {
			if !Equal(av.children[i], bv.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
