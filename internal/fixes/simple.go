package fixes

import (
	"strings"

	"pyfix/internal/fixer"
	"pyfix/internal/pattern"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// Division turns true division into floor division, the Python 2 meaning
// of '/' on integers.
func Division() fixer.Fixer {
	return fixer.Fixer{
		Name:    "division",
		Pattern: `'/'`,
		Doc:     "a / b -> a // b",
		Transform: func(n tree.Node, _ pattern.Bindings) (tree.Node, error) {
			return fixer.Leaf(token.DoubleSlash, "//", n.Prefix()), nil
		},
	}
}

// Ne spells the inequality operator the one way Python 3 accepts.
func Ne() fixer.Fixer {
	return fixer.Fixer{
		Name:    "ne",
		Pattern: `'<>'`,
		Doc:     "a <> b -> a != b",
		Transform: func(n tree.Node, _ pattern.Bindings) (tree.Node, error) {
			return fixer.Leaf(token.NotEqual, "!=", n.Prefix()), nil
		},
	}
}

// NumLiterals drops the long suffix and rewrites old-style octals.
func NumLiterals() fixer.Fixer {
	return fixer.Fixer{
		Name:    "numliterals",
		Pattern: `NUMBER`,
		Doc:     "0777 -> 0o777, 10L -> 10",
		Transform: func(n tree.Node, _ pattern.Bindings) (tree.Node, error) {
			l := n.(*tree.Leaf)
			v, ok := fixNumber(l.Value)
			if !ok {
				return nil, nil
			}
			return fixer.Number(v, l.Prefix()), nil
		},
	}
}

func fixNumber(v string) (string, bool) {
	out := v
	if strings.HasSuffix(out, "l") || strings.HasSuffix(out, "L") {
		out = out[:len(out)-1]
	}
	if isLegacyOctal(out) {
		out = "0o" + out[1:]
	}
	return out, out != v
}

func isLegacyOctal(v string) bool {
	if len(v) < 2 || v[0] != '0' {
		return false
	}
	nonzero := false
	for i := 1; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '7' {
			return false
		}
		if c != '0' {
			nonzero = true
		}
	}
	// 00 is still legal
	return nonzero
}

// Long renames the long builtin to int.
func Long() fixer.Fixer {
	return fixer.Fixer{
		Name:    "long",
		Pattern: `'long'`,
		Doc:     "long -> int",
		Transform: func(n tree.Node, _ pattern.Bindings) (tree.Node, error) {
			l := n.(*tree.Leaf)
			if !isProbablyBuiltin(l) {
				return nil, nil
			}
			return fixer.Name("int", l.Prefix()), nil
		},
	}
}

// RawInput renames raw_input calls to input.
func RawInput() fixer.Fixer {
	return fixer.Fixer{
		Name:    "raw_input",
		Pattern: `power< name='raw_input' trailer< '(' [any] ')' > any* >`,
		Doc:     "raw_input(...) -> input(...)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			rename(b.Leaf("name"), "input")
			return n, nil
		},
	}
}

// Except uses 'as' to bind the caught exception.
func Except() fixer.Fixer {
	return fixer.Fixer{
		Name:    "except",
		Pattern: `except_clause< 'except' any comma=',' target=any >`,
		Doc:     "except E, e: -> except E as e:",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			clause := n.(*tree.Internal)
			i := tree.IndexOf(clause, b.Node("comma"))
			clause.SetChild(i, fixer.Name("as", " "))
			if t := b.Node("target"); t.Prefix() == "" {
				t.SetPrefix(" ")
			}
			return n, nil
		},
	}
}

// Repr replaces backquotes with a repr() call.
func Repr() fixer.Fixer {
	return fixer.Fixer{
		Name:    "repr",
		Pattern: "atom< '`' expr=any '`' >",
		Doc:     "`x` -> repr(x)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			expr := detach(b.Node("expr"), "")
			if expr.Type() == tree.Testlist {
				expr = parenthesize(expr)
			}
			return fixer.Call(fixer.Name("repr", n.Prefix()), expr), nil
		},
	}
}
