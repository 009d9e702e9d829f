package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"valign/internal/cache"
	"valign/internal/diag"
	"valign/internal/lint"
	"valign/internal/observ"
	"valign/internal/source"
)

// LintOptions configures a lint run.
type LintOptions struct {
	Rules          []lint.Configured
	MaxDiagnostics int
	// Jobs bounds the number of files processed at once; 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, answers unchanged files from disk. Entries are
	// keyed by Version, Fingerprint and the file content hash.
	Cache       *cache.Store
	Version     string
	Fingerprint string
	Progress    ProgressSink
	Logger      *slog.Logger
	Timings     bool
}

// FileResult is the outcome for one file. Bag holds load, syntax, lint
// and engine diagnostics; Err is set only for failures that stopped the
// file (a cancelled context or a malformed line table).
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	Err    error
	Timing observ.Report
}

// Result is the outcome of LintPaths.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Timer   *observ.Timer
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range r.Files {
		if f.Bag != nil {
			out = append(out, f.Bag.Items()...)
		}
	}
	return out
}

// Bag merges the per-file bags into one sorted bag. maxDiagnostics caps
// it the way a single bag is capped; 0 keeps everything.
func (r *Result) Bag(maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(max(maxDiagnostics, 0))
	for _, d := range r.Diagnostics() {
		bag.Add(d)
	}
	bag.Sort()
	return bag
}

func (opts *LintOptions) logger() *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

// LintFile runs parse and lint on a file already in fs.
func LintFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts LintOptions) FileResult {
	file := fs.Get(id)
	res := FileResult{Path: file.Path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	log := opts.logger().With("file", file.Path)

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	defer func() { res.Timing = timer.Report() }()

	var key cache.Digest
	if opts.Cache != nil {
		key = cache.Key(opts.Version, opts.Fingerprint, cache.Digest(file.Hash))
		entry, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			log.Warn("cache read failed", "err", err)
		case ok:
			log.Debug("cache hit")
			for _, d := range entry.Restore(id) {
				res.Bag.Add(d)
			}
			res.Cached = true
			emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusCached})
			return res
		default:
			log.Debug("cache miss")
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	parseIdx := timer.Begin("parse")
	tree, err := parseFile(file, res.Bag, opts.MaxDiagnostics)
	timer.End(parseIdx, "")
	if err != nil {
		res.Err = err
		return res
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageLint, Status: StatusWorking})
	lintIdx := timer.Begin("lint")
	err = lint.Run(ctx, file, tree, lint.Options{Rules: opts.Rules, Bag: res.Bag})
	timer.End(lintIdx, fmt.Sprintf("diags=%d", res.Bag.Len()))
	if err != nil {
		res.Err = err
		log.Debug("lint stopped", "err", err)
		return res
	}

	if opts.Cache != nil {
		if err := storeResult(opts.Cache, key, fs, id, res.Bag); err != nil {
			log.Warn("cache write failed", "err", err)
		}
	}
	return res
}

func storeResult(store *cache.Store, key cache.Digest, fs *source.FileSet, id source.FileID, bag *diag.Bag) error {
	entry, err := cache.NewEntry(fs.Get(id).Path, id, fs, bag.Items())
	if err != nil {
		return err
	}
	return store.Put(key, entry)
}

// LintSource lints content read from r (stdin) under a display name.
// The cache is not consulted.
func LintSource(ctx context.Context, name string, r io.Reader, opts LintOptions) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	opts.Cache = nil
	fr := LintFile(ctx, fs, id, opts)
	res := &Result{FileSet: fs, Files: []FileResult{fr}}
	if opts.Timings {
		res.Timer = observ.NewTimer()
		res.Timer.Merge(fr.Timing)
	}
	return res, nil
}

// LintPaths loads files into fs and lints them in parallel.
// Load failures become IO5001 diagnostics on the file; only context
// cancellation aborts the run.
func LintPaths(ctx context.Context, fs *source.FileSet, files []string, opts LintOptions) (*Result, error) {
	res := &Result{FileSet: fs, Files: make([]FileResult, len(files))}
	if opts.Timings {
		res.Timer = observ.NewTimer()
	}
	if len(files) == 0 {
		return res, nil
	}

	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	loadIdx := res.Timer.Begin("load")
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = fs.Load(path)
	}
	res.Timer.End(loadIdx, fmt.Sprintf("files=%d", len(files)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()

			if loadErrs[i] != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErrs[i].Error(),
					Primary:  source.Span{File: fs.Add(path, nil, source.FileVirtual)},
				})
				res.Files[i] = FileResult{Path: path, Bag: bag, Err: loadErrs[i]}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErrs[i], Elapsed: time.Since(start)})
				return nil
			}

			fr := LintFile(gctx, fs, ids[i], opts)
			res.Files[i] = fr
			res.Timer.Merge(fr.Timing)
			if errors.Is(fr.Err, context.Canceled) || errors.Is(fr.Err, context.DeadlineExceeded) {
				return fr.Err
			}

			status := StatusDone
			if fr.Err != nil || fr.Bag.HasErrors() {
				status = StatusError
			}
			if fr.Cached {
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status, Err: fr.Err, Elapsed: time.Since(start)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}
