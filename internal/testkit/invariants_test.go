package testkit

import (
	"testing"

	"pyfix/internal/parser"
	"pyfix/internal/source"
	"pyfix/internal/token"
	"pyfix/internal/tree"
)

func TestInvariantsOnParsedFile(t *testing.T) {
	src := "def f(x):\n    return x / 2  # half\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("f.py", []byte(src))
	root, err := parser.ParseFile(fs.Get(id), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckRoundTrip(root, src); err != nil {
		t.Fatal(err)
	}
	if err := CheckParents(root); err != nil {
		t.Fatal(err)
	}
	if err := CheckSpans(root, fs.Get(id)); err != nil {
		t.Fatal(err)
	}
}

func TestInvariantsDetectBreakage(t *testing.T) {
	leaf := tree.NewLeaf(tree.TokenType(token.Name), "a", "")
	n := tree.NewNode(tree.ExprStmt, leaf)
	if err := CheckRoundTrip(n, "b"); err == nil {
		t.Fatalf("expected round trip error")
	}
	if err := CheckParents(leaf); err == nil {
		t.Fatalf("expected parent error for non-root leaf")
	}
}
