package pattern

import (
	"math/bits"
	"strings"

	"pyfix/internal/tree"
)

const firstWords = (tree.NumTypes + 63) / 64

// FirstSet is the set of node types a pattern can match at its root.
// The zero value is empty.
type FirstSet struct {
	words [firstWords]uint64
	any   bool
}

// AnyFirst admits every type.
func AnyFirst() FirstSet { return FirstSet{any: true} }

// Add puts t into the set.
func (s *FirstSet) Add(t tree.Type) {
	if int(t) >= tree.NumTypes {
		s.any = true
		return
	}
	s.words[t/64] |= 1 << (t % 64)
}

// Union merges o into s.
func (s *FirstSet) Union(o FirstSet) {
	s.any = s.any || o.any
	for i := range s.words {
		s.words[i] |= o.words[i]
	}
}

// Has reports whether a node of type t can start a match.
func (s FirstSet) Has(t tree.Type) bool {
	if s.any {
		return true
	}
	if int(t) >= tree.NumTypes {
		return false
	}
	return s.words[t/64]&(1<<(t%64)) != 0
}

// Any reports whether the set admits every type.
func (s FirstSet) Any() bool { return s.any }

// Empty reports whether nothing is admitted.
func (s FirstSet) Empty() bool {
	if s.any {
		return false
	}
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Types lists the admitted types in ascending order; nil when Any.
func (s FirstSet) Types() []tree.Type {
	if s.any {
		return nil
	}
	var out []tree.Type
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, tree.Type(i*64+b)) //nolint:gosec // < NumTypes
			w &^= 1 << b
		}
	}
	return out
}

func (s FirstSet) String() string {
	if s.any {
		return "{any}"
	}
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// computeFirst fills first and widths bottom-up; called once per node by the compiler.
func computeFirst(p *Pattern) {
	switch p.Op {
	case OpLiteral, OpKind:
		p.first.Add(p.Type)
		p.minW, p.maxW = 1, 1
	case OpNode:
		if p.Type == anyType {
			p.first = AnyFirst()
		} else {
			p.first.Add(p.Type)
		}
		p.minW, p.maxW = 1, 1
	case OpAny:
		p.first = AnyFirst()
		p.minW, p.maxW = 1, 1
	case OpCapture:
		s := p.sub()
		p.first, p.minW, p.maxW = s.first, s.minW, s.maxW
	case OpNot:
		p.minW, p.maxW = 0, 0
	case OpAlt:
		p.minW, p.maxW = -1, 0
		for _, s := range p.Subs {
			p.first.Union(s.first)
			if p.minW < 0 || s.minW < p.minW {
				p.minW = s.minW
			}
			p.maxW = maxWidth(p.maxW, s.maxW)
		}
	case OpSeq:
		leading := true
		for _, s := range p.Subs {
			if leading {
				p.first.Union(s.first)
				leading = s.minW == 0
			}
			p.minW += s.minW
			p.maxW = addWidth(p.maxW, s.maxW)
		}
	case OpRepeat:
		s := p.sub()
		p.first = s.first
		p.minW = s.minW * p.Min
		switch {
		case p.Max == Unbounded && s.maxW != 0:
			p.maxW = Unbounded
		case s.maxW == Unbounded && p.Max != 0:
			p.maxW = Unbounded
		case p.Max == Unbounded:
			p.maxW = 0
		default:
			p.maxW = s.maxW * p.Max
		}
	}
}

func maxWidth(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return max(a, b)
}

func addWidth(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}
