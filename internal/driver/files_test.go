package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pyfix/internal/fixer"
	"pyfix/internal/parser"
	"pyfix/internal/pattern"
	"pyfix/internal/source"
	"pyfix/internal/trace"
	"pyfix/internal/tree"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRefactorSourceDiff(t *testing.T) {
	res, err := RefactorSource(context.Background(), "m.py", []byte("a = 1\nb = a / 2\n"),
		register(t, division()), Options{Mode: SinglePass()})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, "a = 1\nb = a // 2\n", string(res.Output))

	diff, err := res.Diff()
	require.NoError(t, err)
	require.Contains(t, diff, "--- m.py")
	require.Contains(t, diff, "-b = a / 2")
	require.Contains(t, diff, "+b = a // 2")
}

func TestRefactorSourceUnchanged(t *testing.T) {
	src := "print('hi')\n"
	res, err := RefactorSource(context.Background(), "m.py", []byte(src), register(t, division()), Options{})
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, src, string(res.Output))
	diff, err := res.Diff()
	require.NoError(t, err)
	require.Empty(t, diff)
}

func TestRefactorSourceSyntaxError(t *testing.T) {
	res, err := RefactorSource(context.Background(), "bad.py", []byte("def (:\n"), register(t, division()), Options{})
	var se *parser.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 1, se.Line)
	require.True(t, res.Bag.HasErrors())
	require.Nil(t, res.Run)
}

func TestRefactorSourceReportsOutcome(t *testing.T) {
	var got []Event
	sink := SinkFunc(func(e Event) { got = append(got, e) })

	_, err := RefactorSource(context.Background(), "m.py", []byte("b = a / 2\n"),
		register(t, division()), Options{Progress: sink})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	require.Equal(t, StatusDone, last.Status)
	require.Equal(t, "m.py", last.File)
	require.True(t, last.Changed)

	got = nil
	_, err = RefactorSource(context.Background(), "bad.py", []byte("def (:\n"), register(t, division()), Options{Progress: sink})
	require.Error(t, err)
	last = got[len(got)-1]
	require.Equal(t, StatusError, last.Status)
	require.ErrorIs(t, last.Err, err)
}

func TestRepeatedFailureReportedOnce(t *testing.T) {
	boom := fixer.Fixer{Name: "boom", Pattern: "'boom'",
		Transform: func(tree.Node, pattern.Bindings) (tree.Node, error) {
			return nil, errors.New("cannot rewrite")
		}}
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	res, err := RefactorSource(ctx, "m.py", []byte("boom(a / b)\n"),
		register(t, division(), boom), Options{Mode: FixedPoint(5)})
	require.NoError(t, err)
	require.Equal(t, 2, res.Run.Iterations)
	require.Len(t, res.Run.Failures, 2)
	require.Equal(t, 1, res.Bag.Len())

	var end *trace.Event
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Name == "file:m.py" {
			end = &ev
		}
	}
	require.NotNil(t, end)
	require.Equal(t, "1", end.Extra["repeated_diagnostics"])
}

func TestRefactorFileWritesWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.py", "\xEF\xBB\xBFx = 4 / 2\n")

	var events []Event
	opts := Options{Mode: SinglePass(), Write: true, Backup: true,
		Progress: SinkFunc(func(ev Event) { events = append(events, ev) })}
	res, err := RefactorFile(context.Background(), source.NewFileSet(), path, register(t, division()), opts)
	require.NoError(t, err)
	require.True(t, res.Written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\xEF\xBB\xBFx = 4 // 2\n", string(got))

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "\xEF\xBB\xBFx = 4 / 2\n", string(bak))

	last := events[len(events)-1]
	require.Equal(t, StatusDone, last.Status)
	require.True(t, last.Changed)
}

func TestRefactorFileMissing(t *testing.T) {
	res, err := RefactorFile(context.Background(), source.NewFileSet(),
		filepath.Join(t.TempDir(), "nope.py"), nil, Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.True(t, res.Bag.HasErrors())
}
