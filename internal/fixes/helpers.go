package fixes

import (
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// isProbablyBuiltin reports whether the NAME leaf n refers to a global
// rather than an attribute, a definition, a parameter or a keyword.
func isProbablyBuiltin(n *tree.Leaf) bool {
	p := n.Parent()
	if p == nil {
		return true
	}
	prev, _ := tree.PrevSibling(n).(*tree.Leaf)
	switch p.Type() {
	case tree.Trailer:
		if prev != nil && prev.Kind() == token.Dot {
			return false
		}
	case tree.Funcdef, tree.Classdef:
		if prev != nil && (prev.Value == "def" || prev.Value == "class") {
			return false
		}
	case tree.Argument:
		if next, ok := tree.NextSibling(n).(*tree.Leaf); ok && next.Kind() == token.Equal {
			return false
		}
	case tree.Parameters, tree.Typedargslist, tree.Tname, tree.Varargslist:
		return false
	case tree.ImportFrom, tree.ImportAsName, tree.DottedName, tree.DottedAsName:
		return false
	}
	return true
}

// rename changes the value of a NAME leaf in place.
func rename(l *tree.Leaf, to string) *tree.Leaf {
	l.Value = to
	return l
}

// leafValue returns n's value when it is a leaf, or "".
func leafValue(n tree.Node) string {
	if l, ok := n.(*tree.Leaf); ok {
		return l.Value
	}
	return ""
}

// parenthesize wraps n in an atom.
func parenthesize(n tree.Node) *tree.Internal {
	prefix := n.Prefix()
	tree.Detach(n)
	n.SetPrefix("")
	open := tree.NewLeaf(tree.TokenType(token.LPar), "(", prefix)
	return tree.NewNode(tree.Atom, open, n, tree.NewLeaf(tree.TokenType(token.RPar), ")", ""))
}

// detach removes n from its parent and gives it prefix.
func detach(n tree.Node, prefix string) tree.Node {
	tree.Detach(n)
	n.SetPrefix(prefix)
	return n
}
