package fixer

import (
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// Leaf creates a synthetic leaf of kind k.
func Leaf(k token.Kind, value, prefix string) *tree.Leaf {
	return tree.NewLeaf(tree.TokenType(k), value, prefix)
}

// Name creates a NAME leaf.
func Name(name, prefix string) *tree.Leaf { return Leaf(token.Name, name, prefix) }

// Number creates a NUMBER leaf.
func Number(text, prefix string) *tree.Leaf { return Leaf(token.Number, text, prefix) }

// Comma creates a "," leaf.
func Comma() *tree.Leaf { return Leaf(token.Comma, ",", "") }

// Dot creates a "." leaf.
func Dot() *tree.Leaf { return Leaf(token.Dot, ".", "") }

// LParen creates a "(" leaf.
func LParen() *tree.Leaf { return Leaf(token.LPar, "(", "") }

// RParen creates a ")" leaf.
func RParen() *tree.Leaf { return Leaf(token.RPar, ")", "") }

// ArgList builds trailer< '(' args ')' >. Several arguments are joined by
// commas into an arglist; prefixes of the arguments are kept as given.
func ArgList(args ...tree.Node) *tree.Internal {
	kids := []tree.Node{LParen()}
	switch len(args) {
	case 0:
	case 1:
		kids = append(kids, args[0])
	default:
		list := make([]tree.Node, 0, 2*len(args)-1)
		for i, a := range args {
			if i > 0 {
				list = append(list, Comma())
			}
			list = append(list, a)
		}
		kids = append(kids, tree.NewNode(tree.Arglist, list...))
	}
	kids = append(kids, RParen())
	return tree.NewNode(tree.Trailer, kids...)
}

// Call builds power< fn trailer< '(' args ')' > >. When fn is already a
// power node the call trailer is appended to it.
func Call(fn tree.Node, args ...tree.Node) *tree.Internal {
	if p, ok := fn.(*tree.Internal); ok && p.Type() == tree.Power {
		tree.Detach(p)
		p.AppendChild(ArgList(args...))
		return p
	}
	return tree.NewNode(tree.Power, fn, ArgList(args...))
}

// Attr builds the pieces of obj.attr: obj followed by trailer< '.' attr >.
// Callers splice the result into a power node.
func Attr(obj, attr tree.Node) []tree.Node {
	return []tree.Node{obj, tree.NewNode(tree.Trailer, Dot(), attr)}
}

// ListCall wraps n in list(...). The call takes over n's prefix.
func ListCall(n tree.Node) *tree.Internal {
	prefix := n.Prefix()
	tree.Detach(n)
	n.SetPrefix("")
	return Call(Name("list", prefix), n)
}

// consumers fully iterate their first argument, so wrapping it in list()
// would be redundant.
var consumers = map[string]bool{
	"sorted": true, "list": true, "set": true, "frozenset": true,
	"any": true, "all": true, "tuple": true, "sum": true,
	"min": true, "max": true, "enumerate": true, "iter": true,
}

// InContext reports whether n is consumed as an iterable: the iterable of
// a for loop or comprehension, or the sole argument of a consuming builtin
// such as sorted() or list().
func InContext(n tree.Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch p.Type() {
	case tree.ForStmt, tree.CompFor:
		prev, ok := tree.PrevSibling(n).(*tree.Leaf)
		return ok && prev.Value == "in"
	case tree.Trailer:
		kids := p.Children()
		if len(kids) != 3 || kids[1] != n {
			return false
		}
		if l, ok := kids[0].(*tree.Leaf); !ok || l.Value != "(" {
			return false
		}
		call := p.Parent()
		if call == nil || call.Type() != tree.Power || len(call.Children()) != 2 {
			return false
		}
		fn, ok := call.Children()[0].(*tree.Leaf)
		return ok && fn.Kind() == token.Name && consumers[fn.Value]
	}
	return false
}

// IsCall reports whether n is a plain call name(...) and returns the
// argument trailer.
func IsCall(n tree.Node, name string) (*tree.Internal, bool) {
	p, ok := n.(*tree.Internal)
	if !ok || p.Type() != tree.Power || len(p.Children()) != 2 {
		return nil, false
	}
	fn, ok := p.Children()[0].(*tree.Leaf)
	if !ok || fn.Value != name {
		return nil, false
	}
	tr, ok := p.Children()[1].(*tree.Internal)
	if !ok || tr.Type() != tree.Trailer {
		return nil, false
	}
	return tr, true
}
