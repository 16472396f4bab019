package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"pyfix/internal/parser"
	"pyfix/internal/pattern"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

const holePrefix = "__pyfix_hole_"

var holeRe = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Template is a parsed replacement expression.
type Template struct {
	src   string
	root  tree.Node
	holes []string
}

// ParseTemplate parses src, turning each $name into a hole.
func ParseTemplate(src string) (*Template, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty replacement")
	}
	expr := holeRe.ReplaceAllString(src, holePrefix+"$1")
	root, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("replacement %q: %w", src, err)
	}
	t := &Template{src: src, root: root}
	for _, l := range holeLeaves(root) {
		name := strings.TrimPrefix(l.Value, holePrefix)
		if !slices.Contains(t.holes, name) {
			t.holes = append(t.holes, name)
		}
	}
	return t, nil
}

// Holes lists the capture names the template refers to.
func (t *Template) Holes() []string { return append([]string(nil), t.holes...) }

func (t *Template) String() string { return t.src }

// Instantiate builds a fresh tree from the template with every hole
// replaced by copies of the nodes bound to it.
func (t *Template) Instantiate(b pattern.Bindings) (tree.Node, error) {
	root := t.root.Clone()
	for _, hole := range holeLeaves(root) {
		name := strings.TrimPrefix(hole.Value, holePrefix)
		c, ok := b[name]
		if !ok {
			return nil, fmt.Errorf("capture %q is not bound", name)
		}
		nodes := make([]tree.Node, len(c.Nodes))
		for i, n := range c.Nodes {
			nodes[i] = n.Clone()
		}
		if len(nodes) > 0 {
			nodes[0].SetPrefix(hole.Prefix())
		}

		parent := hole.Parent()
		if parent == nil {
			if len(nodes) != 1 {
				return nil, fmt.Errorf("capture %q binds %d nodes; the replacement needs exactly one", name, len(nodes))
			}
			return nodes[0], nil
		}
		at := tree.IndexOf(parent, hole)
		tree.Detach(hole)
		for i, n := range nodes {
			parent.InsertChild(at+i, n)
		}
	}
	return root, nil
}

func holeLeaves(root tree.Node) []*tree.Leaf {
	var out []*tree.Leaf
	tree.Walk(root, func(n tree.Node) bool {
		if l, ok := n.(*tree.Leaf); ok && l.Kind() == token.Name && strings.HasPrefix(l.Value, holePrefix) {
			out = append(out, l)
		}
		return true
	}, nil)
	return out
}
