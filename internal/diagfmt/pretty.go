package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyfix/internal/diag"
	"pyfix/internal/source"
)

type palette struct {
	err, warn, info, code, loc, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.loc, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := location(d.Primary, fs, opts.PathMode)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.loc.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message); err != nil {
			return err
		}
		if opts.ShowSource {
			if err := snippet(w, d.Primary, fs, pal); err != nil {
				return err
			}
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"),
				location(n.Span, fs, opts.PathMode), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start := f.Position(span.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeAbsolute, PathModeBasename:
		return f.FormatPath(mode.String(), "")
	}
	return f.Path
}

// snippet prints the first line of span with a caret underline. Column
// widths follow what a terminal shows: tabs are kept and wide runes take
// two cells.
func snippet(w io.Writer, span source.Span, fs *source.FileSet, pal palette) error {
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}
	start, end := f.Position(span.Start), f.Position(span.End)
	line := f.GetLine(start.Line)
	if line == "" && span.Empty() {
		return nil
	}
	num := fmt.Sprint(start.Line)
	pad := strings.Repeat(" ", len(num))

	col := min(int(start.Col-1), len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col-1), len(line))
	}
	stop = max(stop, col)

	var marker strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			marker.WriteByte('\t')
			continue
		}
		marker.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[col:stop])
	caret := "^" + strings.Repeat("~", max(width-1, 0))

	_, err := fmt.Fprintf(w, "%s %s %s\n%s %s %s%s\n",
		pal.gutter.Sprint(num), pal.gutter.Sprint("|"), line,
		pad, pal.gutter.Sprint("|"), marker.String(), pal.caret.Sprint(caret))
	return err
}
