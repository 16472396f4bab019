package parser_test

import (
	"errors"
	"testing"

	"pyfix/internal/diag"
	"pyfix/internal/parser"
	"pyfix/internal/source"
	"pyfix/internal/tree"
)

var roundTripSources = []string{
	"",
	"\n\n",
	"result = 1 / 2\n",
	"x = 1",
	"# header\nimport os, sys as system\nfrom . import a\nfrom ..pkg.mod import (b as c,\n    d,)\nfrom m import *\n",
	"def f(a, b=1, *args, **kw):\n    \"\"\"doc\"\"\"\n    return a / b  # ratio\n\n\nclass C(Base, metaclass=M):\n    pass\n",
	"if x <> y:\n    print 'differ', x\nelif x is not None and not y:\n    print >>sys.stderr, x,\nelse:\n    exec code in ns\n",
	"try:\n    f()\nexcept (IOError, OSError), e:\n    raise ValueError, 'bad'\nexcept Exception as e:\n    raise\nelse:\n    pass\nfinally:\n    cleanup()\n",
	"for i in xrange(10):\n    if d.has_key(i): continue\n    while True: break\nelse:\n    del a[i], b\n",
	"with open(p) as f, lock:\n    data = [l.strip() for l in f if l]\n",
	"squares = {k: v ** 2 for k, v in d.items()}\ns = {1, 2, *rest}\nt = ()\nu = (1,)\nv = `x`\n",
	"g = lambda x, y=2: x if x > y else -y\nh = a[1:2, ::3, ...]\n",
	"@decorator\n@other.thing(arg)\ndef m(self, x: int = 0) -> str:\n    yield from gen()\n    y = yield\n    x += 1; z: int = 3\n",
	"async def co():\n    async with a as b:\n        await b.run()\n",
	"if True:\r\n    x = 0777L + 0xFFL\r\n    s = u'a' r'b' 'c'\r\n",
	"global a, b\nassert x, 'msg'\nprint\nprint(x, sep='')\nprint = 3\n",
	"x = [\n    1,  # one\n    2,\n]\n\n# trailing comment",
	"while (n := next(it)) is not None:\n    print(n)\n",
}

func TestRoundTrip(t *testing.T) {
	for _, src := range roundTripSources {
		root, err := parser.ParseString("test.py", src)
		if err != nil {
			t.Errorf("parse %q: %v", src, err)
			continue
		}
		if got := root.String(); got != src {
			t.Errorf("round trip mismatch\n got: %q\nwant: %q", got, src)
		}
		if root.Type() != tree.FileInput {
			t.Errorf("root type %s, want file_input", root.Type())
		}
	}
}

func TestShape(t *testing.T) {
	root, err := parser.ParseString("t.py", "x = f(a)\n")
	if err != nil {
		t.Fatal(err)
	}
	want := `file_input
  simple_stmt
    expr_stmt
      NAME "x"
      EQUAL " " "="
      power
        NAME " " "f"
        trailer
          LPAR "("
          NAME "a"
          RPAR ")"
    NEWLINE "\n"
  ENDMARKER ""
`
	if got := tree.Dump(root); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestDivisionIsTerm(t *testing.T) {
	root, err := parser.ParseString("t.py", "result = 1 / 2\n")
	if err != nil {
		t.Fatal(err)
	}
	stmt := root.Children()[0].Children()[0]
	if stmt.Type() != tree.ExprStmt {
		t.Fatalf("expected expr_stmt, got %s", stmt.Type())
	}
	term := stmt.Children()[2]
	if term.Type() != tree.Term || len(term.Children()) != 3 {
		t.Fatalf("expected 3-child term, got %s", tree.Dump(term))
	}
	if term.Children()[1].(*tree.Leaf).Value != "/" {
		t.Fatalf("expected '/' operator")
	}
}

func TestParentsLinked(t *testing.T) {
	root, err := parser.ParseString("t.py", roundTripSources[5])
	if err != nil {
		t.Fatal(err)
	}
	tree.Walk(root, func(n tree.Node) bool {
		for _, c := range n.Children() {
			if c.Parent() != n {
				t.Fatalf("child %s of %s has wrong parent", c.Type(), n.Type())
			}
		}
		return true
	}, nil)
}

func TestPrintForms(t *testing.T) {
	cases := map[string]tree.Type{
		"print 'a', b\n":  tree.PrintStmt,
		"print >>f, x\n":  tree.PrintStmt,
		"print(x)\n":      tree.Power,
		"print = 3\n":     tree.ExprStmt,
		"exec 'x' in d\n": tree.ExecStmt,
	}
	for src, want := range cases {
		root, err := parser.ParseString("t.py", src)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if got := root.Children()[0].Children()[0].Type(); got != want {
			t.Errorf("%q: got %s want %s", src, got, want)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		src  string
		line int
	}{
		{"def f(:\n    pass\n", 1},
		{"x = 1\ny = (2\n", 3},
		{"if x\n    y\n", 1},
		{"x = 1\n  y = 2\n", 2},
		{"if x:\ny\n", 2},
		{"try:\n    pass\nx = 1\n", 3},
		{"s = 'open\n", 1},
		{"x = = 1\n", 1},
	}
	for _, tc := range cases {
		bag := diag.NewBag(8)
		fs := source.NewFileSet()
		id := fs.AddVirtual("bad.py", []byte(tc.src))
		_, err := parser.ParseFile(fs.Get(id), parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
		var se *parser.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: expected SyntaxError, got %v", tc.src, err)
			continue
		}
		if se.Line != tc.line {
			t.Errorf("%q: error at line %d, want %d (%s)", tc.src, se.Line, tc.line, se.Msg)
		}
		if se.Path != "bad.py" {
			t.Errorf("%q: path %q", tc.src, se.Path)
		}
		if !bag.HasErrors() {
			t.Errorf("%q: expected a reported diagnostic", tc.src)
		}
	}
}

func TestParseExpr(t *testing.T) {
	e, err := parser.ParseExpr("list(x.keys())")
	if err != nil {
		t.Fatal(err)
	}
	if e.Type() != tree.Power || e.String() != "list(x.keys())" || e.Parent() != nil {
		t.Fatalf("unexpected expression %s: %q", e.Type(), e.String())
	}
	if _, err := parser.ParseExpr("a b"); err == nil {
		t.Fatalf("expected error for trailing tokens")
	}
}
