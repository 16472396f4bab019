package fuzztests

import (
	"context"
	"testing"
	"time"

	"pyfix/internal/diag"
	"pyfix/internal/driver"
	"pyfix/internal/fixes"
	"pyfix/internal/parser"
	"pyfix/internal/source"
	"pyfix/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input. Longer runs
// point at a loop in error recovery.
const parseTimeout = 5 * time.Second

// FuzzParserRoundTrip checks that every tree the parser accepts prints back
// to the input byte for byte.
func FuzzParserRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.py", input))
		bag := diag.NewBag(128)
		root, err := parser.ParseFile(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
		if err != nil {
			return
		}
		if err := testkit.CheckRoundTrip(root, string(file.Content)); err != nil {
			t.Fatal(err)
		}
		if err := testkit.CheckParents(root); err != nil {
			t.Fatal(err)
		}
	})
}

// FuzzParserNoHang runs the parser under a deadline.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	// dedent mismatch, unclosed brackets, unterminated string, mixed tabs
	f.Add([]byte("if x:\n  a\n    b\n c\n"))
	f.Add([]byte("f(((((((((((("))
	f.Add([]byte("x = '''never closed\n"))
	f.Add([]byte("\tif x:\n\t\tpass\n  \tpass"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseString("fuzz.py", string(input))
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser timeout after %v on %d bytes", parseTimeout, len(input))
		}
	})
}

// FuzzRefactor runs every default fixer over the input. Whatever the fixers
// make of it must still print as the reported output.
func FuzzRefactor(f *testing.F) {
	addCorpusSeeds(f)
	fixers, err := fixes.Default().Select(nil, nil)
	if err != nil {
		f.Fatal(err)
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		res, err := driver.RefactorSource(context.Background(), "fuzz.py", input, fixers, driver.Options{})
		if err != nil || res.Err != nil {
			return
		}
		if !res.Changed && string(res.Output) != string(res.File.Content) {
			t.Fatalf("unchanged file has different output:\n%q\n%q", res.File.Content, res.Output)
		}
	})
}
