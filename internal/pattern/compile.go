package pattern

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// SyntaxError reports a malformed pattern. Pos is a byte offset into Spec.
type SyntaxError struct {
	Spec string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: offset %d: %s", e.Spec, e.Pos, e.Msg)
}

// Compile parses spec into a pattern that matches exactly one node.
func Compile(spec string) (p *Pattern, err error) {
	c := &compiler{src: spec, names: map[string]bool{}}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			p, err = nil, se
		}
	}()
	c.advance()
	p = c.alt()
	if c.tok.kind != tkEOF {
		c.failf(c.tok.pos, "unexpected %s", c.tok)
	}
	if !p.single() {
		c.failf(0, "pattern must match exactly one node")
	}
	return p, nil
}

// MustCompile is Compile for patterns known to be valid; it panics otherwise.
func MustCompile(spec string) *Pattern {
	p, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return p
}

type tokKind uint8

const (
	tkEOF tokKind = iota
	tkName
	tkString
	tkInt
	tkPunct
)

type ptok struct {
	kind tokKind
	text string
	pos  int
}

func (t ptok) String() string {
	switch t.kind {
	case tkEOF:
		return "end of pattern"
	case tkString:
		return quote(t.text)
	}
	return strconv.Quote(t.text)
}

type compiler struct {
	src   string
	off   int
	tok   ptok
	names map[string]bool // captures seen on the current path
}

func (c *compiler) failf(pos int, format string, args ...any) {
	panic(&SyntaxError{Spec: c.src, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (c *compiler) advance() {
	c.tok = c.scan()
}

// peek returns the token after the current one without consuming it.
func (c *compiler) peek() ptok {
	save := c.off
	t := c.scan()
	c.off = save
	return t
}

func (c *compiler) isPunct(s string) bool {
	return c.tok.kind == tkPunct && c.tok.text == s
}

func (c *compiler) expect(s string) {
	if !c.isPunct(s) {
		c.failf(c.tok.pos, "expected %q, found %s", s, c.tok)
	}
	c.advance()
}

func (c *compiler) scan() ptok {
	for c.off < len(c.src) && strings.IndexByte(" \t\r\n", c.src[c.off]) >= 0 {
		c.off++
	}
	start := c.off
	if c.off >= len(c.src) {
		return ptok{kind: tkEOF, pos: start}
	}
	ch := c.src[c.off]
	switch {
	case ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z':
		for c.off < len(c.src) && isWordByte(c.src[c.off]) {
			c.off++
		}
		return ptok{kind: tkName, text: c.src[start:c.off], pos: start}
	case ch >= '0' && ch <= '9':
		for c.off < len(c.src) && c.src[c.off] >= '0' && c.src[c.off] <= '9' {
			c.off++
		}
		return ptok{kind: tkInt, text: c.src[start:c.off], pos: start}
	case ch == '\'' || ch == '"':
		return c.scanString(ch)
	case strings.IndexByte("<>()[]{}|=*+,", ch) >= 0:
		c.off++
		return ptok{kind: tkPunct, text: c.src[start:c.off], pos: start}
	}
	c.failf(start, "unexpected character %q", ch)
	return ptok{}
}

func (c *compiler) scanString(q byte) ptok {
	start := c.off
	c.off++
	var sb strings.Builder
	for c.off < len(c.src) {
		ch := c.src[c.off]
		switch {
		case ch == q:
			c.off++
			return ptok{kind: tkString, text: sb.String(), pos: start}
		case ch == '\\' && c.off+1 < len(c.src):
			c.off++
			switch e := c.src[c.off]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(ch)
		}
		c.off++
	}
	c.failf(start, "unterminated literal")
	return ptok{}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func mk(op Op, subs ...*Pattern) *Pattern {
	p := &Pattern{Op: op, Subs: subs}
	computeFirst(p)
	return p
}

// alt = seq { "|" seq }
func (c *compiler) alt() *Pattern {
	base := c.names
	union := maps.Clone(base)
	var branches []*Pattern
	for {
		c.names = maps.Clone(base)
		branches = append(branches, c.seq())
		maps.Copy(union, c.names)
		if !c.isPunct("|") {
			break
		}
		c.advance()
	}
	c.names = union
	if len(branches) == 1 {
		return branches[0]
	}
	return mk(OpAlt, branches...)
}

// seq = unit { unit }
func (c *compiler) seq() *Pattern {
	var units []*Pattern
	for c.tok.kind != tkEOF && !c.isPunct("|") && !c.isPunct(")") && !c.isPunct("]") && !c.isPunct(">") {
		units = append(units, c.unit())
	}
	if len(units) == 0 {
		c.failf(c.tok.pos, "empty alternative before %s", c.tok)
	}
	if len(units) == 1 {
		return units[0]
	}
	return mk(OpSeq, units...)
}

// unit = "not" atom | [ NAME "=" ] atom [ repeat ]
func (c *compiler) unit() *Pattern {
	if c.tok.kind == tkName && c.tok.text == "not" {
		pos := c.tok.pos
		c.advance()
		neg := mk(OpNot, c.atom())
		if c.isPunct("*") || c.isPunct("+") || c.isPunct("{") {
			c.failf(pos, "a negative pattern cannot be repeated")
		}
		return neg
	}

	name, namePos := "", 0
	if c.tok.kind == tkName {
		if nt := c.peek(); nt.kind == tkPunct && nt.text == "=" {
			name, namePos = c.tok.text, c.tok.pos
			c.advance()
			c.advance()
			if c.tok.kind == tkName && c.tok.text == "not" {
				c.failf(namePos, "cannot capture a negative pattern")
			}
		}
	}

	p := c.repeat(c.atom())
	if name == "" {
		return p
	}
	if c.names[name] {
		c.failf(namePos, "duplicate capture name %q", name)
	}
	c.names[name] = true
	cp := mk(OpCapture, p)
	cp.Name = name
	return cp
}

// atom = STRING | NAME [ "<" alt ">" ] | "(" alt ")" | "[" alt "]"
func (c *compiler) atom() *Pattern {
	t := c.tok
	switch {
	case t.kind == tkString:
		c.advance()
		return c.literal(t)
	case t.kind == tkName:
		c.advance()
		typ := anyType
		if t.text != "any" {
			var ok bool
			typ, ok = tree.TypeByName(t.text)
			if !ok {
				c.failf(t.pos, "unknown node type %q", t.text)
			}
		}
		if !c.isPunct("<") {
			if typ == anyType {
				return mk(OpAny)
			}
			p := &Pattern{Op: OpKind, Type: typ}
			computeFirst(p)
			return p
		}
		if typ.IsToken() && typ != anyType {
			c.failf(t.pos, "token type %s cannot have children", t.text)
		}
		c.advance()
		content := c.alt()
		c.expect(">")
		p := &Pattern{Op: OpNode, Type: typ, Subs: []*Pattern{content}}
		computeFirst(p)
		return p
	case c.isPunct("("):
		c.advance()
		p := c.alt()
		c.expect(")")
		return p
	case c.isPunct("["):
		c.advance()
		p := c.alt()
		c.expect("]")
		return c.repeatOf(p, 0, 1)
	}
	c.failf(t.pos, "expected a pattern, found %s", t)
	return nil
}

// repeat = "*" | "+" | "{" INT [ "," [ INT ] ] "}"
func (c *compiler) repeat(p *Pattern) *Pattern {
	switch {
	case c.isPunct("*"):
		c.advance()
		return c.repeatOf(p, 0, Unbounded)
	case c.isPunct("+"):
		c.advance()
		return c.repeatOf(p, 1, Unbounded)
	case c.isPunct("{"):
		pos := c.tok.pos
		c.advance()
		lo := c.integer()
		hi := lo
		if c.isPunct(",") {
			c.advance()
			hi = Unbounded
			if c.tok.kind == tkInt {
				hi = c.integer()
			}
		}
		c.expect("}")
		if hi != Unbounded && (hi < lo || hi == 0) {
			c.failf(pos, "bad repeat bounds {%d,%d}", lo, hi)
		}
		return c.repeatOf(p, lo, hi)
	}
	return p
}

func (c *compiler) integer() int {
	if c.tok.kind != tkInt {
		c.failf(c.tok.pos, "expected a number, found %s", c.tok)
	}
	n, err := strconv.Atoi(c.tok.text)
	if err != nil {
		c.failf(c.tok.pos, "bad number %s", c.tok.text)
	}
	c.advance()
	return n
}

func (c *compiler) repeatOf(p *Pattern, lo, hi int) *Pattern {
	r := &Pattern{Op: OpRepeat, Subs: []*Pattern{p}, Min: lo, Max: hi}
	computeFirst(r)
	return r
}

// literal resolves the token type a literal lexes as: '/' is SLASH,
// 'print' is NAME, '"x"' is STRING.
func (c *compiler) literal(t ptok) *Pattern {
	text := t.text
	var typ tree.Type
	switch r, _ := utf8.DecodeRuneInString(text); {
	case text == "":
		c.failf(t.pos, "empty literal")
	case r == '\'' || r == '"':
		typ = tree.TokenType(token.String)
	case r >= '0' && r <= '9' || r == '.' && len(text) > 1 && text[1] >= '0' && text[1] <= '9':
		typ = tree.TokenType(token.Number)
	case r == '_' || unicode.IsLetter(r):
		for _, r := range text {
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				c.failf(t.pos, "literal %q is not a single token", text)
			}
		}
		typ = tree.TokenType(token.Name)
		text = norm.NFKC.String(text)
	default:
		k, ok := token.LookupOperator(text)
		if !ok {
			c.failf(t.pos, "literal %q is not a single token", text)
		}
		typ = tree.TokenType(k)
	}
	p := &Pattern{Op: OpLiteral, Text: text, Type: typ}
	computeFirst(p)
	return p
}
