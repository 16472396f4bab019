package fixes

import (
	"strings"

	"pyfix/internal/fixer"
	"pyfix/internal/pattern"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// Xrange renames xrange calls to range. range already returns a lazy
// sequence in Python 3, so the call needs no wrapping.
func Xrange() fixer.Fixer {
	return fixer.Fixer{
		Name:    "xrange",
		Pattern: `power< name='xrange' trailer< '(' [any] ')' > any* >`,
		Doc:     "xrange(...) -> range(...)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			rename(b.Leaf("name"), "range")
			return n, nil
		},
	}
}

// Dict makes dict views concrete where a list was expected.
//
//	d.keys()      -> list(d.keys())
//	d.iteritems() -> iter(d.items())
//	d.viewvalues() -> d.values()
//
// Calls consumed as iterables are left alone.
func Dict() fixer.Fixer {
	return fixer.Fixer{
		Name: "dict",
		Pattern: `power< head=any+ trailer< '.' method=('keys' | 'items' | 'values'
			| 'iterkeys' | 'iteritems' | 'itervalues'
			| 'viewkeys' | 'viewitems' | 'viewvalues') > trailer< '(' ')' > >`,
		Doc: "d.keys() -> list(d.keys())",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			method := b.Leaf("method")
			switch {
			case strings.HasPrefix(method.Value, "view"):
				rename(method, strings.TrimPrefix(method.Value, "view"))
				return n, nil
			case strings.HasPrefix(method.Value, "iter"):
				rename(method, strings.TrimPrefix(method.Value, "iter"))
				if fixer.InContext(n) {
					return n, nil
				}
				return wrap("iter", n), nil
			}
			if fixer.InContext(n) {
				return nil, nil
			}
			return fixer.ListCall(n), nil
		},
	}
}

// FilterMap makes filter, map and zip results concrete. A lambda first
// argument turns filter and map into a list comprehension.
func FilterMap() fixer.Fixer {
	return fixer.Fixer{
		Name: "filter_map",
		Pattern: `power< name=('filter' | 'map') trailer< '('
				arglist< lambdef< 'lambda' param=NAME ':' body=any > ',' seq=any >
			')' > >
			| power< name=('filter' | 'map' | 'zip') trailer< '(' [any] ')' > >`,
		Doc: "filter(f, xs) -> list(filter(f, xs))",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			if b.Has("param") {
				return comprehension(b.Leaf("name").Value == "filter",
					b.Leaf("param").Value, b.Node("body"), b.Node("seq")), nil
			}
			if fixer.InContext(n) {
				return nil, nil
			}
			return fixer.ListCall(n), nil
		},
	}
}

// comprehension builds [body for param in seq] for map and
// [param for param in seq if body] for filter.
func comprehension(filter bool, param string, body, seq tree.Node) tree.Node {
	body = detach(body, " ")
	if body.Type() == tree.Test || body.Type() == tree.Lambdef {
		body = parenthesize(body)
	}
	seq = detach(seq, " ")
	if seq.Type() == tree.Test || seq.Type() == tree.Lambdef {
		seq = parenthesize(seq)
		seq.SetPrefix(" ")
	}
	loop := []tree.Node{fixer.Name("for", " "), fixer.Name(param, " "), fixer.Name("in", " "), seq}
	var elt tree.Node
	if filter {
		elt = fixer.Name(param, "")
		loop = append(loop, tree.NewNode(tree.CompIf, fixer.Name("if", " "), body))
	} else {
		body.SetPrefix("")
		elt = body
	}
	maker := tree.NewNode(tree.Listmaker, elt, tree.NewNode(tree.CompFor, loop...))
	return tree.NewNode(tree.Atom,
		fixer.Leaf(token.LSqb, "[", ""), maker, fixer.Leaf(token.RSqb, "]", ""))
}

// wrap builds name(n); the call takes over n's prefix.
func wrap(name string, n tree.Node) tree.Node {
	prefix := n.Prefix()
	return fixer.Call(fixer.Name(name, prefix), detach(n, ""))
}
