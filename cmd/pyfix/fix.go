package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pyfix/internal/config"
	"pyfix/internal/diag"
	"pyfix/internal/diagfmt"
	"pyfix/internal/driver"
	"pyfix/internal/fixer"
	"pyfix/internal/observ"
	"pyfix/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.py|directory>...",
	Short: "Rewrite Python files with the selected fixers",
	Long: `Fix parses every Python file under the given paths, applies the selected
fixers and prints the resulting changes as unified diffs. With --write the
changed files are stored back.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-fixes"); list {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runFix,
}

func init() {
	f := fixCmd.Flags()
	f.StringSliceP("fix", "f", nil, "fixers to run (default: all non-explicit)")
	f.StringSliceP("nofix", "x", nil, "fixers to skip")
	f.BoolP("list-fixes", "l", false, "list available fixers and exit")
	f.BoolP("write", "w", false, "write changed files back")
	f.Bool("diff", false, "print diffs even with --write")
	f.Bool("backup", false, "keep the original of each written file as .bak")
	f.String("format", "pretty", "report format (pretty|json)")
	f.Bool("fixed-point", false, "repeat passes until nothing changes")
	f.Int("max-iterations", 0, "pass limit in fixed-point mode (implies --fixed-point)")
	f.IntP("jobs", "j", 0, "parallel workers (default: GOMAXPROCS)")
	f.StringSlice("rules", nil, "extra YAML rule files")
	f.Bool("no-cache", false, "do not consult or update the result cache")
	f.String("progress", "auto", "show progress (auto|on|off)")
}

// fixFlags is the parsed flag set of `pyfix fix`.
type fixFlags struct {
	fix, nofix    []string
	list          bool
	write         bool
	diff          bool
	backup        bool
	format        string
	fixedPoint    bool
	maxIterations int
	jobs          int
	rules         []string
	noCache       bool
	progress      uiMode

	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readFixFlags(cmd *cobra.Command) (*fixFlags, error) {
	f := cmd.Flags()
	pf := cmd.Root().PersistentFlags()
	var ff fixFlags
	var err error
	get := func(fn func() error) {
		if err == nil {
			err = fn()
		}
	}
	get(func() (e error) { ff.fix, e = f.GetStringSlice("fix"); return })
	get(func() (e error) { ff.nofix, e = f.GetStringSlice("nofix"); return })
	get(func() (e error) { ff.list, e = f.GetBool("list-fixes"); return })
	get(func() (e error) { ff.write, e = f.GetBool("write"); return })
	get(func() (e error) { ff.diff, e = f.GetBool("diff"); return })
	get(func() (e error) { ff.backup, e = f.GetBool("backup"); return })
	get(func() (e error) { ff.format, e = f.GetString("format"); return })
	get(func() (e error) { ff.fixedPoint, e = f.GetBool("fixed-point"); return })
	get(func() (e error) { ff.maxIterations, e = f.GetInt("max-iterations"); return })
	get(func() (e error) { ff.jobs, e = f.GetInt("jobs"); return })
	get(func() (e error) { ff.rules, e = f.GetStringSlice("rules"); return })
	get(func() (e error) { ff.noCache, e = f.GetBool("no-cache"); return })
	get(func() (e error) { ff.quiet, e = pf.GetBool("quiet"); return })
	get(func() (e error) { ff.timings, e = pf.GetBool("timings"); return })
	get(func() (e error) { ff.maxDiagnostics, e = pf.GetInt("max-diagnostics"); return })
	if err != nil {
		return nil, err
	}
	progress, _ := f.GetString("progress")
	if ff.progress, err = readUIMode(progress); err != nil {
		return nil, err
	}
	ff.format = strings.ToLower(ff.format)
	if ff.format != "pretty" && ff.format != "json" {
		return nil, fmt.Errorf("unsupported format %q (must be pretty or json)", ff.format)
	}
	if ff.maxIterations < 0 {
		return nil, fmt.Errorf("--max-iterations must not be negative")
	}
	if ff.backup && !ff.write {
		return nil, fmt.Errorf("--backup requires --write")
	}
	return &ff, nil
}

// apply merges the flags over cfg. Flags that were not given leave the
// configured value in place.
func (ff *fixFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("fix") {
		cfg.Fixers.Enable = ff.fix
		cfg.Fixers.Explicit = nil
	}
	cfg.Fixers.Disable = append(cfg.Fixers.Disable, ff.nofix...)
	if ff.fixedPoint || f.Changed("max-iterations") {
		cfg.Run.Mode = "fixed-point"
	}
	if f.Changed("max-iterations") {
		cfg.Run.MaxIterations = ff.maxIterations
	}
	if f.Changed("jobs") {
		cfg.Run.Jobs = ff.jobs
	}
	if ff.noCache {
		cfg.Cache.Enabled = false
	}
}

func runFix(cmd *cobra.Command, args []string) (err error) {
	ff, err := readFixFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	ff.apply(cmd, cfg)

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	stopTracing, err := setupTracing(cmd, cfg.Trace.Level)
	if err != nil {
		return err
	}
	defer func() { stopTracing(err != nil) }()

	var timer *observ.Timer
	if ff.timings {
		timer = observ.NewTimer()
	}

	setup := diag.NewBag(ff.maxDiagnostics)
	idx := timer.Begin("registry")
	reg := buildRegistry(cfg, ff.rules, setup)
	if ff.list {
		timer.End(idx, "")
		printDiagnostics(cmd, setup, source.NewFileSet())
		return printFixerList(cmd, reg.Fixers())
	}
	names, exclude := cfg.Selection()
	fixers, err := selectFixers(reg, names, exclude, setup)
	timer.End(idx, fmt.Sprintf("%d fixers", len(fixers)))
	printDiagnostics(cmd, setup, source.NewFileSet())
	if err != nil {
		return err
	}
	if len(fixers) == 0 {
		return errors.New("no fixers selected")
	}

	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	opts := driver.Options{
		Mode:           mode,
		MaxDiagnostics: ff.maxDiagnostics,
		Write:          ff.write,
		Backup:         ff.backup,
		Jobs:           cfg.Run.Jobs,
		Timer:          timer,
	}
	if cfg.Cache.Enabled {
		opts.Cache = openCache(cfg)
	}

	files, err := driver.ListPyFiles(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var summary *driver.Summary
	if shouldUseTUI(ff.progress, ff.quiet) && len(files) > 0 {
		summary, err = refactorWithUI(ctx, "pyfix", files, fixers, opts)
	} else {
		summary, err = driver.RefactorFiles(ctx, files, fixers, opts)
	}
	if err != nil && summary == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ff.format == "json" {
		if rerr := writeJSONReport(out, summary, ff); rerr != nil {
			return rerr
		}
	} else if rerr := writePrettyReport(cmd, out, summary, ff); rerr != nil {
		return rerr
	}
	if timer != nil {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be refactored", summary.Failed, len(summary.Files))
	}
	return nil
}

// openCache opens the verdict cache. A cache that cannot be opened only
// disables caching.
func openCache(cfg *config.Config) *driver.DiskCache {
	var (
		c   *driver.DiskCache
		err error
	)
	if dir := cfg.CacheDir(); dir != "" {
		c, err = driver.OpenDiskCacheAt(dir)
	} else {
		c, err = driver.OpenDiskCache("pyfix")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pyfix: cache disabled: %v\n", err)
		return nil
	}
	return c
}

func showDiffs(ff *fixFlags) bool {
	return !ff.write || ff.diff
}

func writePrettyReport(cmd *cobra.Command, out io.Writer, summary *driver.Summary, ff *fixFlags) error {
	if showDiffs(ff) {
		for _, res := range summary.Files {
			d, err := res.Diff()
			if err != nil {
				return err
			}
			if d == "" {
				continue
			}
			if _, err := io.WriteString(out, d); err != nil {
				return err
			}
		}
	}

	bag := summary.Bag(ff.maxDiagnostics)
	if bag.Len() > 0 {
		if err := diagfmt.Pretty(os.Stderr, bag, summary.FileSet, diagfmt.PrettyOpts{
			Color:      useColor(cmd, os.Stderr),
			PathMode:   diagfmt.PathModeRelative,
			ShowNotes:  true,
			ShowSource: true,
		}); err != nil {
			return err
		}
	}
	if ff.quiet {
		return nil
	}
	verb := "would change"
	if ff.write {
		verb = "changed"
	}
	fmt.Fprintf(os.Stderr, "pyfix: %d file(s), %s %d, cached %d, failed %d\n",
		len(summary.Files), verb, summary.Changed, summary.Cached, summary.Failed)
	return nil
}

// fileReport is one entry of the JSON report.
type fileReport struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	Partial bool   `json:"partial,omitempty"`
	Error   string `json:"error,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

type fixReport struct {
	Files       []fileReport              `json:"files"`
	Changed     int                       `json:"changed"`
	Cached      int                       `json:"cached"`
	Failed      int                       `json:"failed"`
	Partial     int                       `json:"partial"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func writeJSONReport(out io.Writer, summary *driver.Summary, ff *fixFlags) error {
	report := fixReport{
		Files:   make([]fileReport, 0, len(summary.Files)),
		Changed: summary.Changed,
		Cached:  summary.Cached,
		Failed:  summary.Failed,
		Partial: summary.Partial,
		Diagnostics: diagfmt.BuildDiagnosticsOutput(summary.Bag(ff.maxDiagnostics), summary.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		}),
	}
	for _, res := range summary.Files {
		fr := fileReport{
			Path:    res.Path,
			Changed: res.Changed,
			Written: res.Written,
			Cached:  res.Cached,
			Partial: res.Run != nil && res.Run.Partial(),
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		if showDiffs(ff) {
			d, err := res.Diff()
			if err != nil {
				return err
			}
			fr.Diff = d
		}
		report.Files = append(report.Files, fr)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// printFixerList prints one line per fixer in run order.
func printFixerList(cmd *cobra.Command, fixers []*fixer.Fixer) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, f := range fixer.Order(fixers) {
		flags := f.Traversal.String()
		if f.Explicit {
			flags += ",explicit"
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Priority, flags, firstLine(f.Doc)); err != nil {
			return err
		}
	}
	return w.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
