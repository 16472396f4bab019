package rewrite

import (
	"fmt"

	"pyfix/internal/source"
	"pyfix/internal/tree"
)

// Replacement records one applied rewrite.
type Replacement struct {
	Fixer  string
	Span   source.Span // of the matched node before the rewrite
	Pos    source.LineCol
	Before string
	After  string
}

// TransformFailure is a transform that returned an error or panicked.
type TransformFailure struct {
	Fixer string
	Path  string
	Span  source.Span
	Pos   source.LineCol
	Err   error
	// Panicked is set when Err was recovered from a panic.
	Panicked bool
}

func (f *TransformFailure) Error() string {
	loc := f.Path
	if f.Pos.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", f.Path, f.Pos.Line, f.Pos.Col)
	}
	if loc == "" {
		loc = "<tree>"
	}
	return fmt.Sprintf("%s: fixer %q failed: %v", loc, f.Fixer, f.Err)
}

func (f *TransformFailure) Unwrap() error { return f.Err }

// Result is the outcome of one pass.
type Result struct {
	Tree         tree.Node
	Changed      bool
	Replacements []Replacement
	Failures     []*TransformFailure
}

// Partial reports whether some transforms failed during the pass.
func (r *Result) Partial() bool { return len(r.Failures) > 0 }

// Counts tallies replacements per fixer name.
func (r *Result) Counts() map[string]int {
	out := make(map[string]int)
	for _, rp := range r.Replacements {
		out[rp.Fixer]++
	}
	return out
}
