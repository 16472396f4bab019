package fixes

import (
	"pyfix/internal/fixer"
	"pyfix/internal/pattern"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

// HasKey rewrites d.has_key(k) as a membership test. It runs top-down so
// a surrounding 'not' is seen before the call itself and folds into
// 'not in'.
func HasKey() fixer.Fixer {
	return fixer.Fixer{
		Name: "has_key",
		Pattern: `not_test< 'not' power< before=any+ trailer< '.' 'has_key' > trailer< '(' arg=any ')' > > >
			| power< before=any+ trailer< '.' 'has_key' > trailer< '(' arg=any ')' > >`,
		Traversal: fixer.TopDown,
		Doc:       "d.has_key(k) -> k in d",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			arg := b.Node("arg")
			if arg.Type() == tree.Arglist || arg.Type() == tree.Argument {
				return nil, nil
			}
			parent := n.Parent()

			before := b.Nodes("before")
			var obj tree.Node
			if len(before) == 1 {
				obj = detach(before[0], " ")
			} else {
				obj = tree.NewNode(tree.Power, before...)
				obj.SetPrefix(" ")
			}
			arg = detach(arg, "")
			if loose(arg.Type()) {
				arg = parenthesize(arg)
			}
			var op tree.Node = fixer.Name("in", " ")
			if n.Type() == tree.NotTest {
				op = tree.NewNode(tree.CompOp, fixer.Name("not", " "), fixer.Name("in", " "))
			}
			var res tree.Node = tree.NewNode(tree.Comparison, arg, op, obj)
			if parent != nil && tight(parent.Type()) {
				res = parenthesize(res)
			}
			return res, nil
		},
	}
}

// loose reports whether an expression of type t binds looser than a
// comparison operand.
func loose(t tree.Type) bool {
	switch t {
	case tree.Test, tree.Lambdef, tree.OrTest, tree.AndTest, tree.NotTest, tree.Comparison:
		return true
	}
	return false
}

// tight reports whether a comparison placed under t needs parentheses.
func tight(t tree.Type) bool {
	switch t {
	case tree.Comparison, tree.Expr, tree.XorExpr, tree.AndExpr, tree.ShiftExpr,
		tree.ArithExpr, tree.Term, tree.Factor, tree.Power:
		return true
	}
	return false
}

// Raise turns the two and three argument raise forms into calls.
//
//	raise E, V    -> raise E(V)
//	raise E, V, T -> raise E(V).with_traceback(T)
//
// String exceptions have no Python 3 spelling and are left as they are.
func Raise() fixer.Fixer {
	return fixer.Fixer{
		Name:    "raise",
		Pattern: `raise_stmt< kw='raise' exc=any ',' val=any [',' tb=any] >`,
		Doc:     "raise E, V -> raise E(V)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			exc := b.Node("exc")
			if l, ok := exc.(*tree.Leaf); ok && l.Kind() == token.String {
				return nil, nil
			}
			exc = detach(exc, " ")
			call := fixer.Call(exc, raiseArgs(b.Node("val"))...)
			if b.Has("tb") {
				call.AppendChild(tree.NewNode(tree.Trailer, fixer.Dot(), fixer.Name("with_traceback", "")))
				call.AppendChild(fixer.ArgList(detach(b.Node("tb"), "")))
			}
			return tree.NewNode(tree.RaiseStmt, b.Node("kw"), call), nil
		},
	}
}

// raiseArgs spreads a tuple value into constructor arguments.
func raiseArgs(val tree.Node) []tree.Node {
	val = detach(val, "")
	atom, ok := val.(*tree.Internal)
	if !ok || atom.Type() != tree.Atom || leafValue(atom.Children()[0]) != "(" {
		return []tree.Node{val}
	}
	kids := atom.Children()
	if len(kids) == 2 {
		return nil
	}
	inner, ok := kids[1].(*tree.Internal)
	if !ok || inner.Type() != tree.TestlistGexp {
		return []tree.Node{detach(kids[1], "")}
	}
	var args []tree.Node
	for _, c := range inner.Children() {
		if c.Type() == tree.CompFor {
			// a generator expression is one argument
			return []tree.Node{val}
		}
	}
	for _, c := range append([]tree.Node(nil), inner.Children()...) {
		if leafValue(c) == "," {
			continue
		}
		args = append(args, c)
	}
	if len(args) > 0 {
		args[0].SetPrefix("")
	}
	return args
}

// Print turns the print statement into a call of the print function.
//
//	print          -> print()
//	print a, b,    -> print(a, b, end=' ')
//	print >>f, a   -> print(a, file=f)
func Print() fixer.Fixer {
	return fixer.Fixer{
		Name:    "print",
		Pattern: `print_stmt< 'print' args=any* > | bare='print'`,
		Doc:     "print x -> print(x)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			if b.Has("bare") {
				if p := n.Parent(); p == nil || p.Type() != tree.SimpleStmt {
					return nil, nil
				}
				return fixer.Call(fixer.Name("print", "")), nil
			}
			kids := append([]tree.Node(nil), b.Nodes("args")...)
			var file tree.Node
			if len(kids) >= 2 && leafValue(kids[0]) == ">>" {
				file = kids[1]
				kids = kids[2:]
				if len(kids) > 0 && leafValue(kids[0]) == "," {
					kids = kids[1:]
				}
			}
			trailing := len(kids) > 0 && leafValue(kids[len(kids)-1]) == ","

			var args []tree.Node
			for _, c := range kids {
				if leafValue(c) == "," {
					continue
				}
				args = append(args, detach(c, " "))
			}
			if trailing {
				args = append(args, keyword("end", fixer.Leaf(token.String, "' '", "")))
			}
			if file != nil {
				args = append(args, keyword("file", detach(file, "")))
			}
			if len(args) > 0 {
				args[0].SetPrefix("")
			}
			return fixer.Call(fixer.Name("print", ""), args...), nil
		},
	}
}

// keyword builds the argument name=value.
func keyword(name string, value tree.Node) tree.Node {
	return tree.NewNode(tree.Argument, fixer.Name(name, " "), fixer.Leaf(token.Equal, "=", ""), value)
}

// Exec turns the exec statement into a call.
func Exec() fixer.Fixer {
	return fixer.Fixer{
		Name:    "exec",
		Pattern: `exec_stmt< 'exec' code=any ['in' globals=any [',' locals=any]] >`,
		Doc:     "exec code in ns -> exec(code, ns)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			args := []tree.Node{detach(b.Node("code"), "")}
			for _, name := range []string{"globals", "locals"} {
				if b.Has(name) {
					args = append(args, detach(b.Node(name), " "))
				}
			}
			return fixer.Call(fixer.Name("exec", ""), args...), nil
		},
	}
}

// Idioms replaces dated constructs with their modern spelling. It is
// explicit because the rewrite of type comparisons also accepts
// subclasses.
//
//	type(x) == T     -> isinstance(x, T)
//	type(x) is not T -> not isinstance(x, T)
//	while 1:         -> while True:
func Idioms() fixer.Fixer {
	return fixer.Fixer{
		Name: "idioms",
		Pattern: `comparison< power< 'type' trailer< '(' x=any ')' > >
				op=('==' | 'is' | '!=' | comp_op< 'is' 'not' >) t=any >
			| while_stmt< 'while' one='1' ':' any* >`,
		Explicit: true,
		Doc:      "type(x) == T -> isinstance(x, T)",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			if b.Has("one") {
				one := b.Leaf("one")
				w := n.(*tree.Internal)
				w.SetChild(tree.IndexOf(w, one), fixer.Name("True", one.Prefix()))
				return n, nil
			}
			x := b.Node("x")
			if x.Type() == tree.Arglist || x.Type() == tree.Argument {
				return nil, nil
			}
			op := b.Node("op")
			negate := op.Type() == tree.CompOp || leafValue(op) == "!="
			var res tree.Node = fixer.Call(fixer.Name("isinstance", ""), detach(x, ""), detach(b.Node("t"), " "))
			if negate {
				res.SetPrefix(" ")
				res = tree.NewNode(tree.NotTest, fixer.Name("not", ""), res)
			}
			return res, nil
		},
	}
}
