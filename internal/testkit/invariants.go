package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pyfix/internal/source"
	"pyfix/internal/tree"
)

// CheckRoundTrip verifies that the tree unparses to exactly src.
func CheckRoundTrip(root tree.Node, src string) error {
	if root == nil {
		return fmt.Errorf("nil tree")
	}
	if got := root.String(); got != src {
		return fmt.Errorf("round trip mismatch at byte %d:\n got: %q\nwant: %q", firstDiff(got, src), got, src)
	}
	return nil
}

// CheckParents verifies that every child's Parent() is the node holding it
// and that the root has no parent.
func CheckParents(root tree.Node) error {
	if root.Parent() != nil {
		return fmt.Errorf("root %s has a parent", root.Type())
	}
	var err error
	tree.Walk(root, func(n tree.Node) bool {
		if err != nil {
			return false
		}
		for i, c := range n.Children() {
			if c == nil {
				err = fmt.Errorf("%s: nil child at %d", n.Type(), i)
				return false
			}
			if c.Parent() != n {
				err = fmt.Errorf("%s: child %d (%s) has parent %v", n.Type(), i, c.Type(), c.Parent())
				return false
			}
		}
		return true
	}, nil)
	return err
}

// CheckSpans verifies that the original leaves of a freshly parsed tree
// are in source order, inside the file, and that prefix+value of each one
// matches the file content at its span.
func CheckSpans(root tree.Node, sf *source.File) error {
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for _, l := range tree.Leaves(root) {
		sp := l.Span()
		if sp == source.NoSpan {
			continue
		}
		if sp.File != sf.ID {
			return fmt.Errorf("leaf %q span file mismatch: got=%d want=%d", l.Value, sp.File, sf.ID)
		}
		if sp.End > lenContent || sp.Start < prevEnd {
			return fmt.Errorf("leaf %q span %v out of order (prev end %d, len %d)", l.Value, sp, prevEnd, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != l.Value {
			return fmt.Errorf("leaf %q does not match source %q at %v", l.Value, got, sp)
		}
		prevEnd = sp.End
	}
	return nil
}

func firstDiff(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
