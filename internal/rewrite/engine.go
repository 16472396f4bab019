package rewrite

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/pattern"
	"pyfix/internal/source"
	"pyfix/internal/trace"
	"pyfix/internal/tree"
)

// ErrNilTree is wrapped by the failure recorded when Apply gets no tree.
var ErrNilTree = errors.New("rewrite: nil tree")

type engine struct {
	cfg  config
	ix   *fixer.Index
	root tree.Node
	res  *Result
}

// Apply runs one pass of ordered over root. The returned Result.Tree is the
// new root; it differs from root only when root itself was replaced.
func Apply(root tree.Node, ordered []*fixer.Fixer, opts ...Option) *Result {
	cfg := config{reporter: diag.NopReporter{}, tracer: trace.Nop}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	res := &Result{Tree: root}
	if root == nil {
		res.Failures = append(res.Failures, &TransformFailure{Err: ErrNilTree})
		return res
	}
	ix := cfg.index
	if ix == nil {
		ix = fixer.NewIndex(ordered)
	}
	if ix.Len() == 0 {
		return res
	}

	e := &engine{cfg: cfg, ix: ix, root: root, res: res}
	e.visit(root)
	res.Tree = e.root
	return res
}

// visit processes n and its subtree.
func (e *engine) visit(n tree.Node) {
	for _, f := range e.ix.TopDown(n.Type()) {
		cur, won, carried := e.try(f, n)
		if won {
			e.resume(cur, carried)
			return
		}
		n = cur
	}

	if in, ok := n.(*tree.Internal); ok {
		// children are replaced in place, so indexes stay valid
		for i := 0; i < len(in.Children()); i++ {
			e.visit(in.Children()[i])
		}
	}

	for _, f := range e.ix.BottomUp(n.Type()) {
		cur, won, _ := e.try(f, n)
		if won {
			return
		}
		n = cur
	}
}

// resume walks the replacement a top-down fixer produced. Nodes carried
// over from the matched subtree have not been visited in this pass and get
// a full visit; structure the transform built is only descended through.
func (e *engine) resume(n tree.Node, carried map[tree.Node]bool) {
	if carried[n] {
		e.visit(n)
		return
	}
	in, ok := n.(*tree.Internal)
	if !ok {
		return
	}
	for i := 0; i < len(in.Children()); i++ {
		e.resume(in.Children()[i], carried)
	}
}

// carriedFrom collects the strict descendants of n.
func carriedFrom(n tree.Node) map[tree.Node]bool {
	if _, ok := n.(*tree.Internal); !ok {
		return nil
	}
	set := make(map[tree.Node]bool)
	tree.Walk(n, func(x tree.Node) bool {
		if x != n {
			set[x] = true
		}
		return true
	}, nil)
	return set
}

// try offers n to f. It returns the node now at n's position and whether
// f rewrote it. For a top-down fixer that matched, carried holds the
// strict descendants n had before the transform.
func (e *engine) try(f *fixer.Fixer, n tree.Node) (cur tree.Node, won bool, carried map[tree.Node]bool) {
	m := f.Match(n)
	if !m.Matched {
		return n, false, nil
	}
	if f.Traversal == fixer.TopDown {
		carried = carriedFrom(n)
	}

	span := n.Span()
	prefix := n.Prefix()
	before := n.String()
	backup := n.Clone()
	at := slotOf(n)

	repl, err := e.transform(f, n, m.Bindings)
	if err != nil {
		e.fail(f, span, err)
		if n.String() != before || at.moved(n) {
			e.put(at, n, backup)
			return backup, false, nil
		}
		return n, false, nil
	}
	if repl == nil {
		if n.String() != before || at.moved(n) {
			e.fail(f, span, errors.New("transform changed the tree but returned no replacement"))
			e.put(at, n, backup)
			return backup, false, nil
		}
		return n, false, nil
	}

	if f.OwnPrefix {
		e.checkPrefix(f, span, prefix, repl.Prefix())
	} else {
		repl.SetPrefix(prefix)
	}
	if repl != n {
		e.put(at, n, repl)
	}

	after := repl.String()
	if after == before {
		// a rewrite to identical text is not a change
		return repl, true, carried
	}
	pos := e.position(span)
	e.res.Changed = true
	e.res.Replacements = append(e.res.Replacements, Replacement{
		Fixer:  f.Name,
		Span:   span,
		Pos:    pos,
		Before: before,
		After:  after,
	})
	if e.cfg.tracer.Enabled() {
		trace.Point(e.cfg.tracer, trace.ScopeNode, "fix:"+f.Name, e.location(pos), e.cfg.parent,
			map[string]string{"before": before, "after": after})
	}
	return repl, true, carried
}

// transform runs the fixer and turns a panic into an error.
func (e *engine) transform(f *fixer.Fixer, n tree.Node, b pattern.Bindings) (repl tree.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
			repl = nil
		}
	}()
	return f.Transform(n, b)
}

// slot is where a matched node sat before its transform ran. Transforms
// may move the node, typically into the replacement they build.
type slot struct {
	parent *tree.Internal
	index  int
}

func slotOf(n tree.Node) slot {
	p := n.Parent()
	if p == nil {
		return slot{index: -1}
	}
	return slot{parent: p, index: tree.IndexOf(p, n)}
}

func (s slot) moved(n tree.Node) bool { return n.Parent() != s.parent }

// put installs repl at the slot old was taken from.
func (e *engine) put(at slot, old, repl tree.Node) {
	switch {
	case at.parent == nil:
		if repl.Parent() != nil {
			tree.Detach(repl)
		}
		tree.Relink(repl)
		e.root = repl
	case old.Parent() == at.parent:
		e.root = tree.Replace(old, repl)
	default:
		tree.Detach(repl)
		tree.Relink(repl)
		at.parent.InsertChild(at.index, repl)
	}
}

func (e *engine) fail(f *fixer.Fixer, span source.Span, err error) {
	var pe *panicError
	tf := &TransformFailure{
		Fixer:    f.Name,
		Span:     span,
		Pos:      e.position(span),
		Err:      err,
		Panicked: errors.As(err, &pe),
	}
	if e.cfg.file != nil {
		tf.Path = e.cfg.file.Path
	}
	e.res.Failures = append(e.res.Failures, tf)

	b := diag.ReportError(e.cfg.reporter, diag.RwTransformFailed, span,
		fmt.Sprintf("fixer %q failed: %v", f.Name, err))
	if pe != nil {
		b.WithNote(span, "the transform panicked; the subtree was left unchanged")
		trace.Point(e.cfg.tracer, trace.ScopeNode, "panic:"+f.Name, e.location(tf.Pos), e.cfg.parent,
			map[string]string{"stack": string(pe.stack)})
	}
	b.Emit()
}

// checkPrefix warns when a fixer that manages its own prefix dropped a
// comment that preceded the matched node.
func (e *engine) checkPrefix(f *fixer.Fixer, span source.Span, old, cur string) {
	if old == cur || !strings.Contains(old, "#") || strings.Contains(cur, strings.TrimSpace(old)) {
		return
	}
	diag.ReportWarning(e.cfg.reporter, diag.RwPrefixLost, span,
		fmt.Sprintf("fixer %q dropped the comment before the rewritten code", f.Name)).Emit()
}

func (e *engine) position(span source.Span) source.LineCol {
	if e.cfg.file == nil || span == source.NoSpan {
		return source.LineCol{}
	}
	return e.cfg.file.Position(span.Start)
}

func (e *engine) location(pos source.LineCol) string {
	path := "<tree>"
	if e.cfg.file != nil {
		path = e.cfg.file.Path
	}
	if pos.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }
