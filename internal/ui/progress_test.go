package ui

import (
	"errors"
	"strings"
	"testing"

	"pyfix/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("pyfix", []string{"a.py", "b.py"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.py", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(driver.Event{File: "a.py", Status: driver.StatusDone, Changed: true})
	m.applyEvent(driver.Event{File: "b.py", Status: driver.StatusError, Err: errors.New("boom")})
	m.applyEvent(driver.Event{File: "unknown.py", Status: driver.StatusDone})

	if m.items[0].status != "changed" || m.items[1].status != "error" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.fraction(); got != 1.0 {
		t.Fatalf("fraction = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"a.py", "b.py", "changed", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestPartialProgress(t *testing.T) {
	m := NewProgressModel("pyfix", []string{"a.py", "b.py"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a.py", Stage: driver.StageRewrite, Status: driver.StatusWorking})
	if got := m.fraction(); got != 0.3 {
		t.Fatalf("fraction = %v, want 0.3", got)
	}
}

func TestRunWideLabel(t *testing.T) {
	m := NewProgressModel("pyfix", []string{"a.py"}, nil).(*progressModel)
	m.applyEvent(driver.Event{Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.stageLabel != "loading" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("very/long/path/name.py", 10); got != "very/lo..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short.py", 10); got != "short.py" {
		t.Fatalf("truncate = %q", got)
	}
}
