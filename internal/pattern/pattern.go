package pattern

import (
	"slices"
	"strconv"
	"strings"

	"pyfix/internal/tree"
)

// Op tags the variant held by a Pattern.
type Op uint8

const (
	OpLiteral Op = iota // leaf with a given value
	OpKind              // node of a given type
	OpAny               // any single node
	OpCapture           // name=sub
	OpAlt               // first matching alternative
	OpRepeat            // sub{Min,Max}
	OpNode              // type< children >
	OpSeq               // ( a b c )
	OpNot               // zero-width negative lookahead
)

var opNames = [...]string{
	OpLiteral: "literal",
	OpKind:    "kind",
	OpAny:     "any",
	OpCapture: "capture",
	OpAlt:     "alt",
	OpRepeat:  "repeat",
	OpNode:    "node",
	OpSeq:     "seq",
	OpNot:     "not",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Unbounded is the Max of an open-ended repetition.
const Unbounded = -1

// anyType in an OpNode pattern ("any< ... >") admits every internal node.
const anyType tree.Type = 0

// Pattern is a compiled pattern. Which fields are meaningful depends on Op.
type Pattern struct {
	Op   Op
	Text string    // OpLiteral: leaf value, NFKC-normalized for names
	Type tree.Type // OpLiteral: token type of the literal; OpKind, OpNode: node type
	Name string    // OpCapture
	// Subs holds the alternatives of OpAlt, the elements of OpSeq, the
	// single operand of OpCapture/OpRepeat/OpNot and the content of OpNode.
	Subs     []*Pattern
	Min, Max int // OpRepeat

	first FirstSet
	minW  int // fewest siblings the pattern consumes
	maxW  int // most siblings, Unbounded if open
}

// First is the set of node types the pattern can match at its root.
func (p *Pattern) First() FirstSet { return p.first }

// Captures lists the capture names the pattern can bind, sorted.
// Names under a negative lookahead never bind and are left out.
func (p *Pattern) Captures() []string {
	var names []string
	var walk func(*Pattern)
	walk = func(q *Pattern) {
		if q.Op == OpNot {
			return
		}
		if q.Op == OpCapture && !slices.Contains(names, q.Name) {
			names = append(names, q.Name)
		}
		for _, s := range q.Subs {
			walk(s)
		}
	}
	walk(p)
	slices.Sort(names)
	return names
}

func (p *Pattern) sub() *Pattern { return p.Subs[0] }

// single reports whether p always consumes exactly one sibling.
func (p *Pattern) single() bool { return p.minW == 1 && p.maxW == 1 }

// String renders the pattern in canonical form; compiling the result
// yields an equivalent pattern.
func (p *Pattern) String() string {
	var sb strings.Builder
	p.render(&sb, true)
	return sb.String()
}

func (p *Pattern) render(sb *strings.Builder, top bool) {
	switch p.Op {
	case OpLiteral:
		sb.WriteString(quote(p.Text))
	case OpKind:
		sb.WriteString(p.Type.String())
	case OpAny:
		sb.WriteString("any")
	case OpCapture:
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		p.sub().render(sb, false)
	case OpAlt:
		if !top {
			sb.WriteByte('(')
		}
		for i, s := range p.Subs {
			if i > 0 {
				sb.WriteString(" | ")
			}
			s.render(sb, true)
		}
		if !top {
			sb.WriteByte(')')
		}
	case OpSeq:
		if !top {
			sb.WriteByte('(')
		}
		for i, s := range p.Subs {
			if i > 0 {
				sb.WriteByte(' ')
			}
			s.render(sb, false)
		}
		if !top {
			sb.WriteByte(')')
		}
	case OpRepeat:
		if p.Min == 0 && p.Max == 1 {
			sb.WriteByte('[')
			p.sub().render(sb, true)
			sb.WriteByte(']')
			return
		}
		p.sub().render(sb, false)
		switch {
		case p.Min == 0 && p.Max == Unbounded:
			sb.WriteByte('*')
		case p.Min == 1 && p.Max == Unbounded:
			sb.WriteByte('+')
		case p.Max == Unbounded:
			sb.WriteString("{" + strconv.Itoa(p.Min) + ",}")
		case p.Min == p.Max:
			sb.WriteString("{" + strconv.Itoa(p.Min) + "}")
		default:
			sb.WriteString("{" + strconv.Itoa(p.Min) + "," + strconv.Itoa(p.Max) + "}")
		}
	case OpNode:
		if p.Type == anyType {
			sb.WriteString("any")
		} else {
			sb.WriteString(p.Type.String())
		}
		sb.WriteString("< ")
		p.sub().render(sb, true)
		sb.WriteString(" >")
	case OpNot:
		sb.WriteString("not ")
		p.sub().render(sb, false)
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
