package fixer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/diag"
	"pyfix/internal/pattern"
	"pyfix/internal/tree"
	"pyfix/internal/version"
)

func keep(tree.Node, pattern.Bindings) (tree.Node, error) { return nil, nil }

func fx(name, pat string, prio int) Fixer {
	return Fixer{Name: name, Pattern: pat, Priority: prio, Transform: keep}
}

func names(fs []*Fixer) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestRegisterRejectsBadPattern(t *testing.T) {
	bag := diag.NewBag(10)
	r := NewRegistry(WithReporter(&diag.BagReporter{Bag: bag}))

	require.NoError(t, r.Register(fx("good", "'/'", 0)))
	err := r.Register(fx("bad", "power< 'x'", 0))
	require.Error(t, err)

	var se *pattern.SyntaxError
	require.True(t, errors.As(err, &se))
	require.Len(t, r.Rejected(), 1)
	require.Equal(t, "bad", r.Rejected()[0].Name)

	_, ok := r.Lookup("bad")
	require.False(t, ok)
	require.Equal(t, 1, r.Len())
	require.NoError(t, r.Register(fx("later", "NAME", 0)))

	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.PatSyntax, bag.Items()[0].Code)
}

func TestRegisterRejectsDuplicatesAndMissingTransform(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fx("a", "NAME", 0)))
	err := r.Register(fx("a", "NUMBER", 0))
	require.ErrorIs(t, err, ErrDuplicateName)

	require.Error(t, r.Register(Fixer{Name: "b", Pattern: "NAME"}))
	require.Error(t, r.Register(fx("", "NAME", 0)))
	require.Error(t, r.Register(fx(All, "NAME", 0)))
	require.Len(t, r.Rejected(), 4)

	f, ok := r.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "NAME", f.Pattern)
}

func TestOrderByPriorityThenRegistration(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		fx("c", "NAME", 5),
		fx("a", "NAME", 1),
		fx("b", "NAME", 5),
		fx("d", "NAME", 1),
	)
	got := Order(r.Fixers())
	require.Equal(t, []string{"a", "d", "c", "b"}, names(got))
	require.Equal(t, []string{"c", "a", "b", "d"}, names(r.Fixers()))
}

func TestSelect(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		fx("division", "'/'", 0),
		fx("ne", "'<>'", 0),
		Fixer{Name: "idioms", Pattern: "comparison", Explicit: true, Transform: keep},
	)

	got, err := r.Select(nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"division", "ne"}, names(got))

	got, err = r.Select([]string{"idioms"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"idioms"}, names(got))

	got, err = r.Select([]string{All, "idioms"}, []string{"ne"})
	require.NoError(t, err)
	require.Equal(t, []string{"division", "idioms"}, names(got))

	_, err = r.Select([]string{"nope"}, nil)
	var ue *UnknownFixerError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "nope", ue.Name)

	require.Equal(t, []string{"division", "idioms", "ne"}, r.Names())
}

func TestIndexDispatchesByFirstSet(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		fx("slash", "'/'", 2),
		fx("term", "term< any* >", 1),
		Fixer{Name: "pre", Pattern: "any", Traversal: TopDown, Transform: keep},
		fx("wild", "any", 0),
	)
	ix := NewIndex(Order(r.Fixers()))
	require.Equal(t, 4, ix.Len())

	slash, _ := tree.TypeByName("SLASH")
	require.Equal(t, []string{"wild", "slash"}, names(ix.BottomUp(slash)))
	require.Equal(t, []string{"wild", "term"}, names(ix.BottomUp(tree.Term)))
	require.Equal(t, []string{"pre"}, names(ix.TopDown(tree.Term)))
	require.Equal(t, []string{"wild"}, names(ix.BottomUp(tree.Power)))
}

func TestFingerprint(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(fx("a", "NAME", 0), fx("b", "NUMBER", 0))
	fs := r.Fixers()

	require.Equal(t, Fingerprint(fs), Fingerprint(r.Fixers()))
	require.NotEqual(t, Fingerprint(fs), Fingerprint(fs[:1]))
	require.NotEqual(t, Fingerprint(fs), Fingerprint([]*Fixer{fs[1], fs[0]}))
}

func TestFingerprintCoversRevisionAndVersion(t *testing.T) {
	a, b := fx("r", "'foo'", 0), fx("r", "'foo'", 0)
	a.Revision, b.Revision = "foo", "bar"
	require.NotEqual(t, Fingerprint([]*Fixer{&a}), Fingerprint([]*Fixer{&b}))

	before := Fingerprint([]*Fixer{&a})
	saved := version.Version
	t.Cleanup(func() { version.Version = saved })
	version.Version = saved + "+next"
	require.NotEqual(t, before, Fingerprint([]*Fixer{&a}))
}

func TestSharedPatternCache(t *testing.T) {
	c := pattern.NewCache(8)
	r := NewRegistry(WithPatternCache(c))
	r.MustRegister(fx("a", "power< 'x' trailer >", 0), fx("b", "power< 'x' trailer >", 0))

	a, _ := r.Lookup("a")
	b, _ := r.Lookup("b")
	require.Same(t, a.Compiled(), b.Compiled())
	require.Equal(t, 1, c.Len())
}
