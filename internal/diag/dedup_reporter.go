package diag

import "pyfix/internal/source"

// repeatKey identifies one diagnostic across rewrite passes. A fixer that
// fails on a subtree fails again on every later pass over the same span.
type repeatKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter forwards the first report of each code, severity, span and
// message and counts the rest. A fixed-point run over one file shares one
// DedupReporter across all its passes.
type DedupReporter struct {
	next       Reporter
	seen       map[repeatKey]int
	suppressed int
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[repeatKey]int),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := repeatKey{code: code, sev: sev, span: primary, msg: msg}
	r.seen[key]++
	if r.seen[key] > 1 {
		r.suppressed++
		return
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed is the number of repeats that were not forwarded.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
