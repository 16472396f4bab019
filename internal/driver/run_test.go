package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/parser"
	"pyfix/internal/pattern"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

func register(t *testing.T, fs ...fixer.Fixer) []*fixer.Fixer {
	t.Helper()
	r := fixer.NewRegistry()
	for _, f := range fs {
		require.NoError(t, r.Register(f))
	}
	return r.Fixers()
}

func swapLeaf(name, pat string, k token.Kind, text string) fixer.Fixer {
	return fixer.Fixer{Name: name, Pattern: pat,
		Transform: func(tree.Node, pattern.Bindings) (tree.Node, error) {
			return fixer.Leaf(k, text, ""), nil
		}}
}

func division() fixer.Fixer { return swapLeaf("division", "'/'", token.DoubleSlash, "//") }

func nested() fixer.Fixer {
	return fixer.Fixer{
		Name:      "rename",
		Pattern:   "power< 'f' trailer< '(' arg=any ')' > >",
		Traversal: fixer.TopDown,
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			return fixer.Call(fixer.Name("g", ""), b.Node("arg")), nil
		},
	}
}

// promote rewrites g(x) as h(x) bottom-up, so it only reaches calls the
// rename left behind on an earlier pass.
func promote() fixer.Fixer {
	return fixer.Fixer{
		Name:    "promote",
		Pattern: "power< 'g' trailer< '(' arg=any ')' > >",
		Transform: func(n tree.Node, b pattern.Bindings) (tree.Node, error) {
			return fixer.Call(fixer.Name("h", ""), b.Node("arg")), nil
		},
	}
}

func parse(t *testing.T, src string) tree.Node {
	t.Helper()
	root, err := parser.ParseString("t.py", src)
	require.NoError(t, err)
	return root
}

func TestSinglePass(t *testing.T) {
	res, err := Run(context.Background(), parse(t, "x = f(f(1))\n"), register(t, nested(), promote()), SinglePass())
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)
	require.Equal(t, "x = g(g(1))\n", res.Tree.String())
	require.Nil(t, res.Warning)
}

func TestFixedPointConverges(t *testing.T) {
	res, err := Run(context.Background(), parse(t, "x = f(f(1))\n"), register(t, nested(), promote()), FixedPoint(5))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, 3, res.Iterations)
	require.Equal(t, "x = h(h(1))\n", res.Tree.String())
	require.Nil(t, res.Warning)
	require.Equal(t, map[string]int{"rename": 2, "promote": 2}, res.Counts())
}

func TestFixedPointIsIdempotent(t *testing.T) {
	fixers := register(t, nested(), division())
	first, err := Run(context.Background(), parse(t, "y = f(f(a / b))\n"), fixers, FixedPoint(0))
	require.NoError(t, err)

	again, err := Run(context.Background(), parse(t, first.Tree.String()), fixers, FixedPoint(0))
	require.NoError(t, err)
	require.False(t, again.Changed)
	require.Equal(t, 1, again.Iterations)
	require.Equal(t, first.Tree.String(), again.Tree.String())
}

func TestIterationLimit(t *testing.T) {
	flip := swapLeaf("flip", "'//'", token.Slash, "/")
	bag := diag.NewBag(10)
	res, err := Run(context.Background(), parse(t, "z = 1 / 2\n"), register(t, division(), flip),
		FixedPoint(4), WithReporter(&diag.BagReporter{Bag: bag}))
	require.NoError(t, err)
	require.Equal(t, 4, res.Iterations)

	var lim *IterationLimitError
	require.True(t, errors.As(res.Warning, &lim))
	require.Equal(t, 4, lim.Limit)
	// the last tree is still returned
	require.Equal(t, "z = 1 / 2\n", res.Tree.String())

	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.DrvIterationLimit, bag.Items()[0].Code)
	require.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
}

func TestCancelledBeforeFirstPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root := parse(t, "a = 1 / 2\n")
	res, err := Run(ctx, root, register(t, division()), FixedPoint(3))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, res.Iterations)
	require.Same(t, root, res.Tree)
}

func TestNoFixersNoChange(t *testing.T) {
	src := "pass\n"
	res, err := Run(context.Background(), parse(t, src), nil, FixedPoint(3))
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, src, res.Tree.String())
}

func TestModeString(t *testing.T) {
	require.Equal(t, "single-pass", SinglePass().String())
	require.Equal(t, "fixed-point(7)", FixedPoint(7).String())
	require.Equal(t, DefaultMaxIterations, FixedPoint(-1).MaxIterations())
	require.False(t, SinglePass().IsFixedPoint())
}
