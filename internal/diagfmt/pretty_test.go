package diagfmt

import (
	"bytes"
	"testing"

	"pyfix/internal/diag"
	"pyfix/internal/source"
)

func oneDiag(content string, start, end uint32) (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSetWithBase("/home/user/project")
	id := fs.AddVirtual("/home/user/project/src/t.py", []byte(content))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SynUnexpectedToken, source.Span{File: id, Start: start, End: end}, "unexpected '<>'")
	bag.Add(d.WithNote(source.Span{File: id, Start: 0, End: 1}, "statement starts here"))
	return bag, fs
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	bag, fs := oneDiag("x = 1 <> 2\n", 6, 8)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true}); err != nil {
		t.Fatal(err)
	}
	want := "/home/user/project/src/t.py:1:7: ERROR SYN2001: unexpected '<>'\n" +
		"1 | x = 1 <> 2\n" +
		"  |       ^~\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyCaretAlignment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   uint32
		marker  string
	}{
		{"tab", "\tx <> y\n", 3, "\t  "},
		{"wide runes", "s = '日本'; x <> y\n", 16, "              "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := oneDiag(tt.content, tt.start, tt.start+2)
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true}); err != nil {
				t.Fatal(err)
			}
			want := "  | " + tt.marker + "^~\n"
			if !bytes.HasSuffix(buf.Bytes(), []byte(want)) {
				t.Fatalf("caret line mismatch:\n%q\nwant suffix %q", buf.String(), want)
			}
		})
	}
}

func TestPathModes(t *testing.T) {
	bag, fs := oneDiag("x = 1 <> 2\n", 6, 8)
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "/home/user/project/src/t.py:1:7:"},
		{PathModeRelative, "src/t.py:1:7:"},
		{PathModeBasename, "t.py:1:7:"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte(tt.want)) {
				t.Fatalf("got %q, want prefix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs := oneDiag("x = 1 <> 2\n", 6, 8)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("  note: t.py:1:1: statement starts here\n")) {
		t.Fatalf("note missing:\n%s", buf.String())
	}
}

func TestPrettyColorWrapsSeverity(t *testing.T) {
	bag, fs := oneDiag("x = 1 <> 2\n", 6, 8)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\x1b[")) {
		t.Fatalf("expected ANSI escapes in %q", buf.String())
	}
}
