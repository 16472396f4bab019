package rewrite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/fixes"
	"pyfix/internal/parser"
	"pyfix/internal/pattern"
	"pyfix/internal/source"
	"pyfix/internal/testkit"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

func parse(t *testing.T, src string) tree.Node {
	t.Helper()
	root, err := parser.ParseString("t.py", src)
	require.NoError(t, err)
	return root
}

func ordered(t *testing.T, fs ...fixer.Fixer) []*fixer.Fixer {
	t.Helper()
	r := fixer.NewRegistry()
	for _, f := range fs {
		require.NoError(t, r.Register(f))
	}
	return fixer.Order(r.Fixers())
}

func toLeaf(k token.Kind, text string) fixer.TransformFunc {
	return func(tree.Node, pattern.Bindings) (tree.Node, error) {
		return fixer.Leaf(k, text, ""), nil
	}
}

func division() fixer.Fixer {
	return fixer.Fixer{Name: "division", Pattern: "'/'", Transform: toLeaf(token.DoubleSlash, "//")}
}

func TestDivision(t *testing.T) {
	root := parse(t, "result = 1 / 2\n")
	res := Apply(root, ordered(t, division()))

	require.True(t, res.Changed)
	require.Equal(t, "result = 1 // 2\n", res.Tree.String())
	require.Len(t, res.Replacements, 1)
	require.Equal(t, "division", res.Replacements[0].Fixer)
	require.Equal(t, " /", res.Replacements[0].Before)
	require.Equal(t, " //", res.Replacements[0].After)
	require.False(t, res.Partial())
	require.NoError(t, testkit.CheckParents(res.Tree))
}

func TestNoMatchLeavesTreeAlone(t *testing.T) {
	src := "x = a + b  # sum\nprint(x)\n"
	root := parse(t, src)
	res := Apply(root, ordered(t, division()))

	require.False(t, res.Changed)
	require.Empty(t, res.Replacements)
	require.Same(t, root, res.Tree)
	require.NoError(t, testkit.CheckRoundTrip(res.Tree, src))
}

func TestLowerPriorityWins(t *testing.T) {
	star := fixer.Fixer{Name: "star", Pattern: "'/'", Priority: -1, Transform: toLeaf(token.Star, "*")}
	res := Apply(parse(t, "y = 6 / 3\n"), ordered(t, division(), star))
	require.Equal(t, "y = 6 * 3\n", res.Tree.String())
	require.Equal(t, map[string]int{"star": 1}, res.Counts())
}

func TestLocality(t *testing.T) {
	src := "a = 1  # one\nb = 4 / 2   # two\nc = 'x'\n"
	res := Apply(parse(t, src), ordered(t, division()))
	require.Equal(t, "a = 1  # one\nb = 4 // 2   # two\nc = 'x'\n", res.Tree.String())
}

func TestTransformErrorIsContained(t *testing.T) {
	boom := errors.New("boom")
	bad := fixer.Fixer{Name: "bad", Pattern: "'/'", Priority: -1,
		Transform: func(tree.Node, pattern.Bindings) (tree.Node, error) { return nil, boom }}

	bag := diag.NewBag(10)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("m.py", []byte("q = 1 / 2\n")))
	root, err := parser.ParseFile(file, parser.Options{})
	require.NoError(t, err)

	res := Apply(root, ordered(t, bad, division()),
		WithReporter(&diag.BagReporter{Bag: bag}), WithFile(file))

	require.True(t, res.Partial())
	require.Len(t, res.Failures, 1)
	f := res.Failures[0]
	require.ErrorIs(t, f, boom)
	require.Equal(t, "bad", f.Fixer)
	require.Equal(t, source.LineCol{Line: 1, Col: 7}, f.Pos)
	require.Contains(t, f.Error(), "m.py:1:7")

	// the next fixer in order still gets the node
	require.Equal(t, "q = 1 // 2\n", res.Tree.String())
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.RwTransformFailed, bag.Items()[0].Code)
}

func TestPanicRestoresSubtree(t *testing.T) {
	src := "z = f(a, b)\n"
	wreck := fixer.Fixer{Name: "wreck", Pattern: "power< 'f' tr=trailer >",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			tree.Detach(b.Node("tr"))
			panic("half way")
		}}
	res := Apply(parse(t, src), ordered(t, wreck))

	require.False(t, res.Changed)
	require.Len(t, res.Failures, 1)
	require.True(t, res.Failures[0].Panicked)
	require.Equal(t, src, res.Tree.String())
	require.NoError(t, testkit.CheckParents(res.Tree))
}

func renameCall(trav fixer.Traversal) fixer.Fixer {
	return fixer.Fixer{
		Name:      "rename",
		Pattern:   "power< 'f' trailer< '(' arg=any ')' > >",
		Traversal: trav,
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			return fixer.Call(fixer.Name("g", ""), b.Node("arg")), nil
		},
	}
}

func TestTopDownVisitsCarriedNodes(t *testing.T) {
	res := Apply(parse(t, "x = f(f(1))\n"), ordered(t, renameCall(fixer.TopDown)))
	require.Equal(t, "x = g(g(1))\n", res.Tree.String())
	require.Len(t, res.Replacements, 2)
	require.Equal(t, "f(f(1))", res.Replacements[0].Before)
	require.Equal(t, "f(1)", res.Replacements[1].Before)
	require.NoError(t, testkit.CheckParents(res.Tree))
}

func TestTopDownSkipsBuiltStructure(t *testing.T) {
	// the outer f(...) is new and matches the pattern again; it waits for
	// the next pass
	double := fixer.Fixer{
		Name:      "double",
		Pattern:   "power< 'f' trailer< '(' arg=any ')' > >",
		Traversal: fixer.TopDown,
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			inner := fixer.Call(fixer.Name("f", ""), b.Node("arg"))
			return fixer.Call(fixer.Name("f", ""), inner), nil
		},
	}
	res := Apply(parse(t, "x = f(1)\n"), ordered(t, double))
	require.Equal(t, "x = f(f(1))\n", res.Tree.String())
	require.Len(t, res.Replacements, 1)
}

func TestBottomUpSeesOperandOfTopDownRewrite(t *testing.T) {
	fs := ordered(t, fixes.HasKey(), fixes.Division())
	for src, want := range map[string]string{
		"if not d.has_key(a / b): pass\n": "if a // b not in d: pass\n",
		"x = d.has_key(a / b)\n":          "x = a // b in d\n",
		"y = m.n.has_key(k / 2) / 3\n":    "y = (k // 2 in m.n) // 3\n",
	} {
		res := Apply(parse(t, src), fs)
		require.Equal(t, want, res.Tree.String(), src)
		require.Empty(t, res.Failures, src)
		require.NoError(t, testkit.CheckParents(res.Tree), src)
	}
}

func TestBottomUpVisitsDescendantsFirst(t *testing.T) {
	res := Apply(parse(t, "x = f(f(1))\n"), ordered(t, renameCall(fixer.BottomUp)))
	require.Equal(t, "x = g(g(1))\n", res.Tree.String())
	require.Len(t, res.Replacements, 2)
	require.Equal(t, "f(1)", res.Replacements[0].Before)
	require.NoError(t, testkit.CheckParents(res.Tree))
}

func TestRootReplacement(t *testing.T) {
	root := tree.NewLeaf(tree.TokenType(token.Name), "x", "")
	res := Apply(root, ordered(t, fixer.Fixer{Name: "y", Pattern: "NAME", Transform: toLeaf(token.Name, "y")}))
	require.Equal(t, "y", res.Tree.String())
	require.Nil(t, res.Tree.Parent())
}

func TestInPlaceTransform(t *testing.T) {
	upper := fixer.Fixer{Name: "long", Pattern: "'long'",
		Transform: func(n tree.Node, _ pattern.Bindings) (tree.Node, error) {
			n.(*tree.Leaf).Value = "int"
			return n, nil
		}}
	res := Apply(parse(t, "v = long(3)\n"), ordered(t, upper))
	require.True(t, res.Changed)
	require.Equal(t, "v = int(3)\n", res.Tree.String())
}

func TestOwnPrefixDroppingCommentWarns(t *testing.T) {
	src := "x = (1\n     # halve\n     / 2)\n"
	own := division()
	own.OwnPrefix = true
	own.Transform = func(tree.Node, pattern.Bindings) (tree.Node, error) {
		return fixer.Leaf(token.DoubleSlash, "//", " "), nil
	}

	bag := diag.NewBag(10)
	res := Apply(parse(t, src), ordered(t, own), WithReporter(&diag.BagReporter{Bag: bag}))
	require.Equal(t, "x = (1 // 2)\n", res.Tree.String())
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.RwPrefixLost, bag.Items()[0].Code)

	bag = diag.NewBag(10)
	res = Apply(parse(t, src), ordered(t, division()), WithReporter(&diag.BagReporter{Bag: bag}))
	require.Equal(t, "x = (1\n     # halve\n     // 2)\n", res.Tree.String())
	require.Zero(t, bag.Len())
}

func TestDeterministic(t *testing.T) {
	src := "a = b / c / d\ne = f(g / h)\n"
	first := Apply(parse(t, src), ordered(t, division())).Tree.String()
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Apply(parse(t, src), ordered(t, division())).Tree.String())
	}
	require.Equal(t, "a = b // c // d\ne = f(g // h)\n", first)
}

func TestNilTree(t *testing.T) {
	res := Apply(nil, nil)
	require.True(t, res.Partial())
	require.ErrorIs(t, res.Failures[0], ErrNilTree)
}
