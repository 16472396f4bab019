package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/observ"
	"pyfix/internal/parser"
	"pyfix/internal/source"
	"pyfix/internal/trace"
)

// Options configures the file pipeline.
type Options struct {
	Mode           Mode
	MaxDiagnostics int
	TabSize        int
	// Write stores changed files back to disk.
	Write bool
	// Backup keeps the original next to a written file as name.bak.
	Backup   bool
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
	Timer    *observ.Timer
}

func (o *Options) sink() ProgressSink {
	if o.Progress == nil {
		return nopSink{}
	}
	return o.Progress
}

// FileResult is what the pipeline did to one file.
type FileResult struct {
	Path    string
	FileSet *source.FileSet // resolves the spans in Bag
	File    *source.File
	Output  []byte
	Changed bool
	// Cached is set when the disk cache said the file needs no fixes and
	// it was not parsed.
	Cached  bool
	Written bool
	Run     *RunResult
	Bag     *diag.Bag
	// Err is fatal for this file: load, parse or write failure, or
	// cancellation.
	Err error
}

// Diff renders the change as a unified diff; empty when unchanged.
func (r *FileResult) Diff() (string, error) {
	if !r.Changed || r.File == nil {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(r.File.Content)),
		B:        difflib.SplitLines(string(r.Output)),
		FromFile: r.Path,
		ToFile:   r.Path,
		Context:  3,
	})
}

// RefactorSource runs the pipeline on in-memory source registered under
// name. Nothing is written.
func RefactorSource(ctx context.Context, name string, src []byte, fixers []*fixer.Fixer, opts Options) (*FileResult, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	opts.Write = false
	res := refactor(ctx, file, fixers, opts)
	res.FileSet = fs
	finish(opts.sink(), res)
	return res, res.Err
}

// RefactorFile loads path into fs, runs the fixers and, with opts.Write,
// writes the result back.
func RefactorFile(ctx context.Context, fs *source.FileSet, path string, fixers []*fixer.Fixer, opts Options) (*FileResult, error) {
	sink := opts.sink()
	sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})

	id, err := fs.Load(path)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load file: "+err.Error()))
		err = fmt.Errorf("load %s: %w", path, err)
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return &FileResult{Path: path, FileSet: fs, Bag: bag, Err: err}, err
	}
	res := refactor(ctx, fs.Get(id), fixers, opts)
	res.Path = path
	res.FileSet = fs
	if res.Err == nil && opts.Write && res.Changed {
		sink.OnEvent(Event{File: path, Stage: StageWrite, Status: StatusWorking})
		if werr := writeBack(res, opts.Backup); werr != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.NoSpan, werr.Error()))
			res.Err = werr
		} else {
			res.Written = true
		}
	}
	finish(sink, res)
	return res, res.Err
}

func finish(sink ProgressSink, res *FileResult) {
	switch {
	case res.Err != nil:
		sink.OnEvent(Event{File: res.Path, Status: StatusError, Err: res.Err})
	case res.Cached:
		sink.OnEvent(Event{File: res.Path, Status: StatusCached})
	default:
		sink.OnEvent(Event{File: res.Path, Status: StatusDone, Changed: res.Changed})
	}
}

func refactor(ctx context.Context, file *source.File, fixers []*fixer.Fixer, opts Options) *FileResult {
	res := &FileResult{
		Path:   file.Path,
		File:   file,
		Output: file.Content,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: res.Bag})
	sink := opts.sink()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.CurrentSpan(ctx).SpanID)
	defer func() {
		span.WithExtra("changed", fmt.Sprint(res.Changed)).
			WithExtra("repeated_diagnostics", fmt.Sprint(reporter.Suppressed())).
			End(errDetail(res.Err))
	}()

	fingerprint := ""
	if opts.Cache != nil {
		fingerprint = fixer.Fingerprint(fixer.Order(fixers))
		hit, err := opts.Cache.KnownUnchanged(Digest(file.Hash), fingerprint, opts.Mode)
		if err != nil {
			diag.ReportWarning(reporter, diag.DrvCacheError, source.NoSpan, "cache read: "+err.Error()).Emit()
		}
		if hit {
			res.Cached = true
			return res
		}
	}

	sink.OnEvent(Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	start := time.Now()
	root, err := parser.ParseFile(file, parser.Options{Reporter: reporter, TabSize: opts.TabSize})
	opts.Timer.Add("parse", time.Since(start))
	if err != nil {
		res.Err = err
		return res
	}

	sink.OnEvent(Event{File: file.Path, Stage: StageRewrite, Status: StatusWorking})
	start = time.Now()
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID(), File: file.Path})
	run, err := Run(ctx, root, fixers, opts.Mode, WithReporter(reporter), WithFile(file))
	opts.Timer.Add("rewrite", time.Since(start))
	res.Run = run
	if err != nil {
		res.Err = err
		return res
	}

	out := run.Tree.String()
	res.Changed = out != string(file.Content)
	if res.Changed {
		res.Output = []byte(out)
	}
	if !res.Changed && !run.Partial() && opts.Cache != nil {
		if err := opts.Cache.RecordUnchanged(file.Path, Digest(file.Hash), fingerprint, opts.Mode); err != nil {
			diag.ReportWarning(reporter, diag.DrvCacheError, source.NoSpan, "cache write: "+err.Error()).Emit()
		}
	}
	return res
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// writeBack replaces the file keeping its permissions and BOM.
func writeBack(res *FileResult, backup bool) error {
	path := res.File.Path
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	data := res.Output
	if res.File.Flags&source.FileHadBOM != 0 {
		data = append(append([]byte(nil), bom...), data...)
	}
	if backup {
		orig := res.File.Content
		if res.File.Flags&source.FileHadBOM != 0 {
			orig = append(append([]byte(nil), bom...), orig...)
		}
		if err := os.WriteFile(path+".bak", orig, mode); err != nil {
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
