package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/tree"
)

func TestCompileCanonicalForm(t *testing.T) {
	cases := map[string]string{
		"'/'":                                   "'/'",
		"NAME":                                  "NAME",
		"any":                                   "any",
		"op='/'":                                "op='/'",
		"'a' | 'b'":                             "'a' | 'b'",
		"power< 'xrange' trailer< '(' [args=any] ')' > >": "power< 'xrange' trailer< '(' [args=any] ')' > >",
		"power<  head=NAME  tail=trailer*   >":  "power< head=NAME tail=trailer* >",
		"arglist< (any ',')+ any >":             "arglist< (any ',')+ any >",
		"atom< '(' any{1,3} ')' >":              "atom< '(' any{1,3} ')' >",
		"atom< '[' any{2,} ']' >":               "atom< '[' any{2,} ']' >",
		"power< not 'x' any* >":                 "power< not 'x' any* >",
		"any< any* >":                           "any< any* >",
		`STRING | "'s'"`:                         `STRING | '\'s\''`,
	}
	for in, want := range cases {
		p, err := Compile(in)
		require.NoError(t, err, in)
		require.Equal(t, want, p.String(), in)

		again, err := Compile(p.String())
		require.NoError(t, err, p.String())
		require.Equal(t, p.String(), again.String())
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
	}{
		{"power< NAME", 11},
		{"power< NAME )", 12},
		{"'a' | | 'b'", 6},
		{"nosuchkind", 0},
		{"power< x=NAME x=trailer >", 14},
		{"atom< any{3,1} >", 9},
		{"any*", 0},
		{"NAME< any >", 0},
		{"x=not NAME", 0},
		{"'two words'", 0},
		{"'unterminated", 0},
		{"power< $ >", 7},
		{"", 0},
	}
	for _, tc := range cases {
		_, err := Compile(tc.in)
		var se *SyntaxError
		require.True(t, errors.As(err, &se), "%q: expected SyntaxError, got %v", tc.in, err)
		require.Equal(t, tc.pos, se.Pos, "%q: %s", tc.in, se.Msg)
		require.Equal(t, tc.in, se.Spec)
	}
}

func TestCaptureNamesMayRepeatAcrossAlternatives(t *testing.T) {
	_, err := Compile("power< x=NAME any* > | atom< '(' x=any ')' >")
	require.NoError(t, err)
}

func TestLiteralTypes(t *testing.T) {
	cases := map[string]string{
		"'/'":     "SLASH",
		"'<>'":    "NOTEQUAL",
		"'print'": "NAME",
		"'10'":    "NUMBER",
		`'"s"'`:   "STRING",
		"'**='":   "DOUBLESTAREQUAL",
	}
	for in, want := range cases {
		p := MustCompile(in)
		require.Equal(t, want, p.Type.String(), in)
	}
}

func TestFirstSet(t *testing.T) {
	p := MustCompile("'/' | power< any* > | term")
	fs := p.First()
	require.False(t, fs.Any())
	require.True(t, fs.Has(tree.Power))
	require.True(t, fs.Has(tree.Term))
	require.False(t, fs.Has(tree.Atom))
	require.Equal(t, "{SLASH, term, power}", fs.String())

	require.True(t, MustCompile("any").First().Any())
	require.True(t, MustCompile("x=(any)").First().Any())
}

func TestCacheSharesPatterns(t *testing.T) {
	c := NewCache(4)
	a, err := c.Compile("'/'")
	require.NoError(t, err)
	b, err := c.Compile("'/'")
	require.NoError(t, err)
	require.Same(t, a, b)

	_, err = c.Compile("power<")
	require.Error(t, err)
	require.Equal(t, 1, c.Len())
}

func TestCaptures(t *testing.T) {
	p := MustCompile(`power< obj=any trailer< '.' m=('keys' | 'items') > not trailer< '(' inner=any ')' > rest=any* > | m=NAME`)
	require.Equal(t, []string{"m", "obj", "rest"}, p.Captures())
	require.Empty(t, MustCompile(`'/'`).Captures())
}
