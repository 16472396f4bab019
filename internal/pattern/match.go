package pattern

import (
	"golang.org/x/text/unicode/norm"

	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// Match tests p against n. The tree is never modified.
func Match(p *Pattern, n tree.Node) Result {
	if n == nil || !p.first.Has(n.Type()) {
		return Result{}
	}
	var got Bindings
	whole := []tree.Node{n}
	if !consume(p, whole, 0, Bindings{}, func(end int, b Bindings) bool {
		got = b
		return end == len(whole)
	}) {
		return Result{}
	}
	return Result{Matched: true, Bindings: got, Node: n}
}

// Match is shorthand for Match(p, n).
func (p *Pattern) Match(n tree.Node) Result { return Match(p, n) }

// FindAll returns every match site in pre-order. Descendants of a match are
// not searched, so the returned sites never overlap.
func FindAll(p *Pattern, root tree.Node) []Result {
	var out []Result
	tree.Walk(root, func(n tree.Node) bool {
		if r := Match(p, n); r.Matched {
			out = append(out, r)
			return false
		}
		return true
	}, nil)
	return out
}

// next receives the sibling index a partial match stopped at and the
// bindings made so far. It reports whether the rest of the match succeeded;
// false makes the caller try its next way of matching.
type next func(end int, b Bindings) bool

// consume matches p against nodes starting at i and hands every way of
// doing so to k, most greedy first, until k accepts one. b is never
// modified; bindings grow by copy. Alternatives commit to the first branch
// that matches at all, repetitions give back one count at a time.
func consume(p *Pattern, nodes []tree.Node, i int, b Bindings, k next) bool {
	if len(nodes)-i < p.minW {
		return false
	}
	switch p.Op {
	case OpLiteral, OpKind, OpAny:
		if i < len(nodes) && p.first.Has(nodes[i].Type()) && matchOne(p, nodes[i], b) {
			return k(i+1, b)
		}
		return false

	case OpNode:
		if i >= len(nodes) || !p.first.Has(nodes[i].Type()) {
			return false
		}
		try := b.clone()
		if !matchOne(p, nodes[i], try) {
			return false
		}
		return k(i+1, try)

	case OpCapture:
		return consume(p.sub(), nodes, i, b, func(end int, inner Bindings) bool {
			with := inner.clone()
			bind(p, nodes[i:end], with)
			return k(end, with)
		})

	case OpAlt:
		for _, s := range p.Subs {
			matched := false
			ok := consume(s, nodes, i, b, func(end int, inner Bindings) bool {
				matched = true
				return k(end, inner)
			})
			if matched {
				return ok
			}
		}
		return false

	case OpSeq:
		return seq(p.Subs, nodes, i, b, k)

	case OpRepeat:
		return repeat(p, 0, nodes, i, b, k)

	case OpNot:
		if i < len(nodes) && consume(p.sub(), nodes, i, b, func(int, Bindings) bool { return true }) {
			return false
		}
		return k(i, b)
	}
	return false
}

// seq matches pats one after another, each continuing into the next.
func seq(pats []*Pattern, nodes []tree.Node, i int, b Bindings, k next) bool {
	if len(pats) == 0 {
		return k(i, b)
	}
	return consume(pats[0], nodes, i, b, func(end int, inner Bindings) bool {
		return seq(pats[1:], nodes, end, inner, k)
	})
}

// repeat has matched rep's operand count times up to i. It tries one more
// first and only then offers the current count to k. An operand that
// consumes nothing ends the run.
func repeat(rep *Pattern, count int, nodes []tree.Node, i int, b Bindings, k next) bool {
	if rep.Max == Unbounded || count < rep.Max {
		if consume(rep.sub(), nodes, i, b, func(end int, inner Bindings) bool {
			return end > i && repeat(rep, count+1, nodes, end, inner, k)
		}) {
			return true
		}
	}
	return count >= rep.Min && k(i, b)
}

// matchOne handles the single-node variants.
func matchOne(p *Pattern, n tree.Node, b Bindings) bool {
	switch p.Op {
	case OpAny:
		return true
	case OpKind:
		return n.Type() == p.Type
	case OpLiteral:
		l, ok := n.(*tree.Leaf)
		return ok && l.Type() == p.Type && literalEqual(p, l.Value)
	case OpNode:
		in, ok := n.(*tree.Internal)
		if !ok || (p.Type != anyType && in.Type() != p.Type) {
			return false
		}
		return matchChildren(p.sub(), in.Children(), b)
	}
	return false
}

// matchChildren matches the content of a kind< ... > pattern against the
// whole child list. A top-level alternation commits to the first branch
// that covers every child.
func matchChildren(content *Pattern, kids []tree.Node, b Bindings) bool {
	whole := func(end int, inner Bindings) bool {
		if end != len(kids) {
			return false
		}
		commit(b, inner)
		return true
	}
	if content.Op == OpAlt {
		for _, alt := range content.Subs {
			if consume(alt, kids, 0, b, whole) {
				return true
			}
		}
		return false
	}
	return consume(content, kids, 0, b, whole)
}

func bind(p *Pattern, run []tree.Node, b Bindings) {
	nodes := make([]tree.Node, len(run))
	copy(nodes, run)
	b[p.Name] = Capture{Nodes: nodes, Multi: !p.sub().single()}
}

// commit copies the bindings of a successful attempt into b.
func commit(b, try Bindings) {
	for k, v := range try {
		b[k] = v
	}
}

// literalEqual compares identifiers under NFKC like Python does; other
// literals compare byte for byte.
func literalEqual(p *Pattern, value string) bool {
	if value == p.Text {
		return true
	}
	if p.Type.Token() != token.Name || isASCII(value) {
		return false
	}
	return norm.NFKC.String(value) == p.Text
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
