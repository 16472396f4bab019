package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if l.String() != strings.ToLower(s) {
			t.Errorf("ParseLevel(%q) = %s", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	pass := Begin(tr, ScopePass, "pass", 0)
	Point(tr, ScopeNode, "fix:division", "", pass.ID(), nil)
	file := Begin(tr, ScopeFile, "file:a.py", pass.ID())
	file.WithExtra("changed", "true").End("")
	pass.End("1 iteration")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (node point filtered), got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ pass") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "← file:a.py {changed=true}") {
		t.Errorf("file end line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "← pass (1 iteration)") {
		t.Errorf("pass end line = %q", lines[3])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "fix:ne", "a.py:3:5", 7, map[string]string{"k": "v"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["name"] != "fix:ne" || got["scope"] != "node" || got["kind"] != "point" {
		t.Errorf("unexpected event %v", got)
	}
	if got["parent_id"].(float64) != 7 {
		t.Errorf("parent_id = %v", got["parent_id"])
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", 0, nil)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %s, want %s", i, snap[i].Name, want)
		}
	}
}

func TestRingKeepsCoarseEventsAtErrorLevel(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	Begin(r, ScopeFile, "file:x.py", 0).End("")
	Point(r, ScopeNode, "fix:x", "", 0, nil)
	if n := len(r.Snapshot()); n != 2 {
		t.Fatalf("expected begin+end kept, got %d events", n)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "file:x.py") {
		t.Errorf("dump missing span: %q", buf.String())
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level should give a disabled tracer, got %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("both mode should build a multi tracer with a ring, got %T", tr)
	}

	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer should be Nop")
	}
	Begin(FromContext(ctx), ScopeDriver, "run", 0).End("")
	if len(m.Ring().Snapshot()) != 2 || !strings.Contains(buf.String(), "run") {
		t.Errorf("events not fanned out: ring=%d stream=%q", len(m.Ring().Snapshot()), buf.String())
	}
}

func TestHeartbeatNamesLongestRunningPass(t *testing.T) {
	clock := time.Unix(100, 0)
	h := newHeartbeat(NewRingTracer(4, LevelPhase), time.Second)
	h.now = func() time.Time { return clock }

	if ev := h.beat(1); ev.Detail != "#1 idle" || ev.Extra["active"] != "0" {
		t.Fatalf("idle beat = %q %v", ev.Detail, ev.Extra)
	}

	h.Enter("a.py", 1)
	clock = clock.Add(2 * time.Second)
	h.Enter("b.py", 1)
	h.Enter("a.py", 3)
	clock = clock.Add(500 * time.Millisecond)

	ev := h.beat(2)
	if ev.Kind != KindHeartbeat || ev.Scope != ScopeDriver {
		t.Fatalf("unexpected beat %+v", ev)
	}
	// re-entering a.py for pass 3 restarted its clock, so both started together
	if ev.Extra["file"] != "a.py" || ev.Extra["pass"] != "3" || ev.Extra["active"] != "2" {
		t.Errorf("beat extra = %v", ev.Extra)
	}
	if ev.Detail != "#2 pass 3 of a.py for 500ms" {
		t.Errorf("detail = %q", ev.Detail)
	}

	h.Leave("a.py")
	if ev := h.beat(3); ev.Extra["file"] != "b.py" || ev.Extra["pass"] != "1" {
		t.Errorf("after leave = %v", ev.Extra)
	}

	var none *Heartbeat
	none.Enter("x.py", 1)
	none.Leave("x.py")
	none.Stop()
}

func TestHeartbeatAndFileTravelInContext(t *testing.T) {
	ctx := context.Background()
	if HeartbeatFromContext(ctx) != nil || WithHeartbeat(ctx, nil) != ctx {
		t.Fatal("nil heartbeat should not be attached")
	}
	h := newHeartbeat(Nop, time.Second)
	if HeartbeatFromContext(WithHeartbeat(ctx, h)) != h {
		t.Error("heartbeat not propagated")
	}

	ctx = WithSpanContext(ctx, SpanContext{SpanID: 1, File: "m.py"})
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 2})
	if sc := CurrentSpan(ctx); sc.SpanID != 2 || sc.File != "m.py" {
		t.Errorf("nested span context = %+v", sc)
	}
}
