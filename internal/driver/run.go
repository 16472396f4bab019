package driver

import (
	"context"
	"fmt"
	"strconv"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/rewrite"
	"pyfix/internal/source"
	"pyfix/internal/trace"
	"pyfix/internal/tree"
)

// DefaultMaxIterations caps fixed-point runs when no limit is given.
const DefaultMaxIterations = 10

// Mode selects between one pass and iterating to a fixed point.
type Mode struct {
	fixedPoint bool
	max        int
}

// SinglePass applies the fixers exactly once.
func SinglePass() Mode { return Mode{max: 1} }

// FixedPoint repeats passes until nothing changes or max passes ran.
// max <= 0 means DefaultMaxIterations.
func FixedPoint(max int) Mode {
	if max <= 0 {
		max = DefaultMaxIterations
	}
	return Mode{fixedPoint: true, max: max}
}

// IsFixedPoint reports whether m iterates.
func (m Mode) IsFixedPoint() bool { return m.fixedPoint }

// MaxIterations is the pass budget; 1 for single pass.
func (m Mode) MaxIterations() int {
	if m.max <= 0 {
		return 1
	}
	return m.max
}

func (m Mode) String() string {
	if m.fixedPoint {
		return "fixed-point(" + strconv.Itoa(m.max) + ")"
	}
	return "single-pass"
}

// IterationLimitError reports a fixed-point run that was still changing
// the tree when the pass budget ran out. It is a warning: the last tree is
// still returned.
type IterationLimitError struct {
	Limit int
	Path  string
}

func (e *IterationLimitError) Error() string {
	where := ""
	if e.Path != "" {
		where = e.Path + ": "
	}
	return fmt.Sprintf("%sno fixed point after %d iterations", where, e.Limit)
}

// RunResult is the outcome of Run.
type RunResult struct {
	Tree         tree.Node
	Changed      bool
	Iterations   int
	Replacements []rewrite.Replacement
	Failures     []*rewrite.TransformFailure
	// Warning is a *IterationLimitError when the budget ran out.
	Warning error
}

// Partial reports whether some transforms failed.
func (r *RunResult) Partial() bool { return len(r.Failures) > 0 }

// Counts tallies replacements per fixer.
func (r *RunResult) Counts() map[string]int {
	out := make(map[string]int)
	for _, rp := range r.Replacements {
		out[rp.Fixer]++
	}
	return out
}

type runConfig struct {
	reporter diag.Reporter
	file     *source.File
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithReporter receives diagnostics from the passes and the iteration cap.
func WithReporter(r diag.Reporter) RunOption {
	return func(c *runConfig) { c.reporter = r }
}

// WithFile attaches positions to failures and replacements.
func WithFile(f *source.File) RunOption {
	return func(c *runConfig) { c.file = f }
}

// Run applies fixers to root according to mode. Fixers are put in
// priority order first. Cancellation is checked before every pass, never
// inside one; a cancelled run returns the tree built so far with the
// context's error.
func Run(ctx context.Context, root tree.Node, fixers []*fixer.Fixer, mode Mode, opts ...RunOption) (*RunResult, error) {
	cfg := runConfig{reporter: diag.NopReporter{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	ordered := fixer.Order(fixers)
	ix := fixer.NewIndex(ordered)
	tracer := trace.FromContext(ctx)
	sc := trace.CurrentSpan(ctx)
	parent := sc.SpanID
	hb := trace.HeartbeatFromContext(ctx)
	name := sc.File
	if name == "" {
		name = "<tree>"
		if cfg.file != nil {
			name = cfg.file.Path
		}
	}
	defer hb.Leave(name)

	res := &RunResult{Tree: root}
	limit := mode.MaxIterations()
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run interrupted after %d iterations: %w", res.Iterations, err)
		}

		hb.Enter(name, i+1)
		span := trace.Begin(tracer, trace.ScopePass, "pass", parent).
			WithExtra("iteration", strconv.Itoa(i+1))
		pass := rewrite.Apply(res.Tree, ordered,
			rewrite.WithIndex(ix),
			rewrite.WithReporter(cfg.reporter),
			rewrite.WithFile(cfg.file),
			rewrite.WithTracer(tracer, span.ID()),
		)
		span.WithExtra("replacements", strconv.Itoa(len(pass.Replacements))).End("")

		res.Iterations++
		res.Tree = pass.Tree
		res.Replacements = append(res.Replacements, pass.Replacements...)
		res.Failures = append(res.Failures, pass.Failures...)
		if pass.Changed {
			res.Changed = true
		}
		if !mode.fixedPoint || !pass.Changed {
			return res, nil
		}
	}

	// the last pass still changed something
	warn := &IterationLimitError{Limit: limit}
	if cfg.file != nil {
		warn.Path = cfg.file.Path
	}
	res.Warning = warn
	diag.ReportWarning(cfg.reporter, diag.DrvIterationLimit, source.NoSpan, warn.Error()).Emit()
	return res, nil
}
