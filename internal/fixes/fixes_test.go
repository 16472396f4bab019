package fixes

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/driver"
	"pyfix/internal/fixer"
)

func refactor(t *testing.T, src string, names ...string) string {
	t.Helper()
	return run(t, src, driver.SinglePass(), names...)
}

func run(t *testing.T, src string, mode driver.Mode, names ...string) string {
	t.Helper()
	fixers, err := Default().Select(names, nil)
	require.NoError(t, err)
	res, err := driver.RefactorSource(context.Background(), "t.py", []byte(src), fixers, driver.Options{Mode: mode})
	require.NoError(t, err)
	require.False(t, res.Bag.HasErrors(), "diagnostics: %v", res.Bag.Items())
	require.False(t, res.Run.Partial(), "failures: %v", res.Run.Failures)
	return string(res.Output)
}

func TestBuiltinPatternsCompile(t *testing.T) {
	r := fixer.NewRegistry()
	require.NoError(t, Register(r))
	require.Empty(t, r.Rejected())
	require.Equal(t, len(All()), r.Len())
}

func TestExplicitFixersNeedSelection(t *testing.T) {
	fixers, err := Default().Select(nil, nil)
	require.NoError(t, err)
	for _, f := range fixers {
		require.NotEqual(t, "idioms", f.Name)
	}
}

func TestFixers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"division", "x = a / b\n", "x = a // b\n"},
		{"ne", "if a <> b:\n    pass\n", "if a != b:\n    pass\n"},
		{"numliterals", "x = 0777 + 10L + 0 + 00 + 0x1fL\n", "x = 0o777 + 10 + 0 + 00 + 0x1f\n"},
		{"long", "x = long(y)\nclass A:\n    def long(self): pass\nz = a.long\n",
			"x = int(y)\nclass A:\n    def long(self): pass\nz = a.long\n"},
		{"xrange", "for i in xrange(10):\n    pass\n", "for i in range(10):\n    pass\n"},
		{"raw_input", "s = raw_input('> ')\n", "s = input('> ')\n"},
		{"has_key", "if d.has_key(k):\n    pass\n", "if k in d:\n    pass\n"},
		{"has_key negated", "x = not a.b.has_key(k)\n", "x = k not in a.b\n"},
		{"has_key operand", "y = 1 + d.has_key(k)\n", "y = 1 + (k in d)\n"},
		{"has_key then division", "if not d.has_key(a / b): pass\n", "if a // b not in d: pass\n"},
		{"has_key carries operand", "x = d.has_key(a / b)\n", "x = a // b in d\n"},
		{"dict", "ks = d.keys()\nfor k in d.keys():\n    pass\nvs = sorted(d.values())\nit = d.iteritems()\n",
			"ks = list(d.keys())\nfor k in d.keys():\n    pass\nvs = sorted(d.values())\nit = iter(d.items())\n"},
		{"filter", "xs = filter(f, ys)\nfor y in map(f, ys):\n    pass\n",
			"xs = list(filter(f, ys))\nfor y in map(f, ys):\n    pass\n"},
		{"filter lambda", "xs = filter(lambda x: x > 0, ys)\n", "xs = [x for x in ys if x > 0]\n"},
		{"map lambda", "ys = map(lambda x: x + 1, xs)\n", "ys = [x + 1 for x in xs]\n"},
		{"except", "try:\n    pass\nexcept ValueError, e:\n    pass\n", "try:\n    pass\nexcept ValueError as e:\n    pass\n"},
		{"raise", "raise ValueError, 'bad'\n", "raise ValueError('bad')\n"},
		{"raise tuple", "raise E, (1, 2)\n", "raise E(1, 2)\n"},
		{"raise traceback", "raise E, V, T\n", "raise E(V).with_traceback(T)\n"},
		{"raise string", "raise 'old', 1\n", "raise 'old', 1\n"},
		{"print", "print 'a', x\nprint\nprint >>sys.stderr, 'err'\nprint 'no newline',\n",
			"print('a', x)\nprint()\nprint('err', file=sys.stderr)\nprint('no newline', end=' ')\n"},
		{"print call", "print('a')\n", "print('a')\n"},
		{"exec", "exec code in ns\n", "exec(code, ns)\n"},
		{"repr", "s = `x`\n", "s = repr(x)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, refactor(t, tt.in))
		})
	}
}

func TestIdioms(t *testing.T) {
	src := "if type(x) == int:\n    pass\nok = type(x) is not T\nwhile 1:\n    pass\n"
	require.Equal(t, src, refactor(t, src))
	require.Equal(t,
		"if isinstance(x, int):\n    pass\nok = not isinstance(x, T)\nwhile True:\n    pass\n",
		refactor(t, src, "idioms"))
}

func TestSelectedFixerOnly(t *testing.T) {
	src := "x = a / b\ny = d.keys()\n"
	require.Equal(t, "x = a // b\ny = d.keys()\n", refactor(t, src, "division"))
}

func TestDemoScript(t *testing.T) {
	src, err := os.ReadFile("testdata/demo.py")
	require.NoError(t, err)

	out := run(t, string(src), driver.FixedPoint(0))
	require.Contains(t, out, "result = 1 // 2")
	require.Contains(t, out, "for _ in [x for x in list(d.keys()) if x > 0]:")
	require.Contains(t, out, "for _ in [x + 1 for x in list(d.keys())]:")
	require.Contains(t, out, "\tfor _ in d.keys():\n")
	require.Contains(t, out, "raise ValueError('Hey!') # Example only")
	require.Equal(t, strings.Count(string(src), "\n"), strings.Count(out, "\n"))

	// the fixers reach a fixed point in one run
	require.Equal(t, out, refactor(t, out))
}
