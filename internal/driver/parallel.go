package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/source"
	"pyfix/internal/trace"
)

// Summary aggregates a RefactorPaths run.
type Summary struct {
	FileSet *source.FileSet
	Files   []*FileResult // in path order
	Changed int
	Cached  int
	Failed  int
	Partial int // files where some transform failed
}

// Bag merges every file's diagnostics, sorted.
func (s *Summary) Bag(max int) *diag.Bag {
	bag := diag.NewBag(max)
	for _, f := range s.Files {
		if f.Bag != nil {
			bag.Merge(f.Bag)
		}
	}
	bag.Sort()
	return bag
}

// ListPyFiles expands paths: directories are walked for *.py files,
// skipping hidden directories; plain files are taken as given. The result
// is sorted and free of duplicates.
func ListPyFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".py") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// RefactorPaths runs the pipeline over every file under paths with up to
// opts.Jobs workers. A failing file does not stop the others; only
// cancellation aborts the run.
func RefactorPaths(ctx context.Context, paths []string, fixers []*fixer.Fixer, opts Options) (*Summary, error) {
	files, err := ListPyFiles(paths)
	if err != nil {
		return nil, err
	}
	return RefactorFiles(ctx, files, fixers, opts)
}

// RefactorFiles is RefactorPaths over an already expanded file list.
func RefactorFiles(ctx context.Context, files []string, fixers []*fixer.Fixer, opts Options) (*Summary, error) {
	sum := &Summary{FileSet: source.NewFileSet(), Files: make([]*FileResult, len(files))}
	if len(files) == 0 {
		return sum, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sink := opts.sink()
	for _, f := range files {
		sink.OnEvent(Event{File: f, Status: StatusQueued})
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "refactor", trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	// results are indexed per file, so the workers need no lock
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, _ := RefactorFile(gctx, sum.FileSet, path, fixers, opts)
			sum.Files[i] = res
			if res.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sum.compact()
		return sum, err
	}
	sum.compact()
	return sum, nil
}

// compact drops slots of files never started and fills the counters.
func (s *Summary) compact() {
	out := s.Files[:0]
	for _, f := range s.Files {
		if f == nil {
			continue
		}
		out = append(out, f)
		switch {
		case f.Err != nil:
			s.Failed++
		case f.Cached:
			s.Cached++
		case f.Changed:
			s.Changed++
		}
		if f.Run != nil && f.Run.Partial() {
			s.Partial++
		}
	}
	s.Files = out
}
