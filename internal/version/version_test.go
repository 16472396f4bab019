package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "pyfix 0.1.0-dev"},
		{"1.2.3", "abc123", "", "pyfix 1.2.3 (commit abc123)"},
		{"1.2.3", "abc123", "2026-01-15", "pyfix 1.2.3 (commit abc123, built 2026-01-15)"},
	}
	for _, tt := range tests {
		override(t, tt.version, tt.commit, tt.date)
		if got := Describe(false); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestColored(t *testing.T) {
	override(t, "1.2.3-rc.1", "", "")
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("Colored(true) = %q", got)
	}
	if Colored(false) != "1.2.3-rc.1" {
		t.Fatalf("Colored(false) = %q", Colored(false))
	}

	override(t, "nightly", "", "")
	if Colored(true) != "nightly" {
		t.Fatalf("non-semver should pass through")
	}
}
