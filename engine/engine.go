// engine.go - the walker/orchestrator (spec.md §4.7)
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package engine drives the recursive, synchronous, pre-order walk over a
// source tree that composes the exclusion matcher, classifier and
// materializer into a single dated snapshot, then updates the "latest"
// pointer and appends a log line.
//
// The walk is single-threaded by design (spec.md §5): unlike the teacher's
// concurrent walk.Walk (walk.go / walk/walk.go in the pack, worker-pool
// dispatched over a channel), this is a plain recursive descent that
// preserves the natural pre-order the teacher's own walkPath/readDir pair
// exposes, just executed synchronously instead of fanned out to goroutines.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/showtak/pdumpfs/exclude"
	"github.com/showtak/pdumpfs/locate"
	"github.com/showtak/pdumpfs/materialize"
	"github.com/showtak/pdumpfs/meta"
	"github.com/showtak/pdumpfs/pathutil"
)

// Config is the plain value the engine runs from: no hidden globals, no
// module-level state (spec.md §9).
type Config struct {
	Source   string
	Dest     string
	BaseName string // defaults to filepath.Base(Source) if empty

	Matcher exclude.Matcher // defaults to exclude.None{}
	Adapter meta.Adapter    // defaults to meta.New()

	DryRun bool

	// LogFile, if non-empty, receives one appended summary line per
	// successful run (spec.md §6's log line format), plus one line per
	// recoverable entry error as the walk finds it. Never opened on dry-run;
	// on abort, warnings already recorded stay but no summary line is added.
	LogFile string

	Report   materialize.Reporter     // per-entry, including skipped/unsupported
	Interval materialize.IntervalFunc // every N blocks and once per entry
	Warn     func(error)              // recoverable EntryError notifications

	// Now supplies the run clock; defaults to time.Now. Exposed for tests.
	Now func() time.Time
}

// Result summarizes a completed run.
type Result struct {
	Today    string
	Latest   string
	HadPrior bool

	BytesWritten int64

	EntriesVisited     int
	EntriesSkipped     int
	EntriesWarned      int
	EntriesUnsupported int

	Duration time.Duration
}

// Run executes one snapshot pass: spec.md §4.7 steps 1-12.
func Run(cfg Config) (*Result, error) {
	start := time.Now()
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	clock := now()

	adapter := cfg.Adapter
	if adapter == nil {
		adapter = meta.New()
	}
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = exclude.None{}
	}

	src, dst, base, err := canonicalize(cfg.Source, cfg.Dest, cfg.BaseName)
	if err != nil {
		return nil, err
	}

	if err := preflightDest(adapter, dst); err != nil {
		return nil, err
	}

	y, m, d := clock.Date()
	dateDir := pathutil.DateDir(y, int(m), d)
	today := filepath.Join(dst, dateDir, base)

	latest, hasLatest, err := locate.Find(dst, base, clock)
	if err != nil {
		return nil, &PreflightError{Op: "locate", Src: dst, Dst: "", Err: err}
	}

	restoreUmask := forceUmask()
	defer restoreUmask()

	var rl *runLogger
	if cfg.LogFile != "" && !cfg.DryRun {
		rl, err = newRunLogger(cfg.LogFile)
		if err != nil {
			return nil, &PreflightError{Op: "open-log", Dst: cfg.LogFile, Err: err}
		}
		defer rl.Close()
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(today, 0770); err != nil {
			return nil, &MaterializationError{Op: "mkdir", Path: today, Err: err}
		}
	}

	mat := &materialize.Materializer{
		Adapter:  adapter,
		DryRun:   cfg.DryRun,
		Report:   cfg.Report,
		Interval: cfg.Interval,
	}

	w := &walker{
		adapter:    adapter,
		matcher:    matcher,
		mat:        mat,
		warn:       cfg.Warn,
		runLog:     rl,
		latestRoot: latest,
		hasLatest:  hasLatest,
	}

	result := &Result{Today: today, Latest: latest, HadPrior: hasLatest}

	if err := w.walk(src, today, ""); err != nil {
		return nil, err
	}

	// Directory metadata restoration is strictly post-order across the
	// whole run, in collection order (spec.md §4.7 step 10, §9). Skipped on
	// dry-run: today was never created, so there is nothing under it to
	// restore metadata onto (spec.md §8 invariant 7).
	if !cfg.DryRun {
		for _, r := range w.dirRestores {
			if err := materialize.RestoreDirMeta(adapter, r.path, r.info); err != nil {
				return nil, &MaterializationError{Op: "restore-dir-meta", Path: r.path, Err: err}
			}
		}
	}

	result.BytesWritten = mat.BytesWritten
	result.EntriesVisited = w.visited
	result.EntriesSkipped = w.skipped
	result.EntriesWarned = w.warned
	result.EntriesUnsupported = w.unsupported

	if !cfg.DryRun {
		relTarget := filepath.Join(dateDir, base)
		latestLink := filepath.Join(dst, "latest")
		if err := adapter.ForceSymlink(latestLink, relTarget); err != nil && err != meta.ErrSymlinkUnsupported {
			return nil, &MaterializationError{Op: "update-latest", Path: latestLink, Err: err}
		}

		result.Duration = time.Since(start)

		if cfg.LogFile != "" {
			if err := appendLogLine(cfg.LogFile, src, today, result.Duration, result.BytesWritten); err != nil {
				return nil, &MaterializationError{Op: "log", Path: cfg.LogFile, Err: err}
			}
		}
	} else {
		result.Duration = time.Since(start)
	}

	return result, nil
}

// canonicalize resolves Source/Dest to absolute, cleaned paths, strips a
// trailing separator from Source, defaults BaseName, and rejects Source ==
// Dest or Source being an ancestor of Dest (spec.md §3, §4.7 step 2-3).
func canonicalize(source, dest, base string) (src, dst, baseName string, err error) {
	if source == "" {
		return "", "", "", &PreflightError{Op: "validate", Src: source, Err: fmt.Errorf("missing source")}
	}
	if dest == "" {
		return "", "", "", &PreflightError{Op: "validate", Dst: dest, Err: fmt.Errorf("missing destination")}
	}

	src, err = filepath.Abs(source)
	if err != nil {
		return "", "", "", &PreflightError{Op: "abspath", Src: source, Err: err}
	}
	dst, err = filepath.Abs(dest)
	if err != nil {
		return "", "", "", &PreflightError{Op: "abspath", Dst: dest, Err: err}
	}
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	if pathutil.IsSameOrBelow(dst, src) {
		return "", "", "", &PreflightError{
			Op: "validate", Src: src, Dst: dst,
			Err: fmt.Errorf("destination must not equal or be inside source"),
		}
	}

	baseName = base
	if baseName == "" {
		baseName = filepath.Base(src)
	}

	return src, dst, baseName, nil
}

func preflightDest(adapter meta.Adapter, dest string) error {
	fi, err := os.Stat(dest)
	if err != nil {
		return &PreflightError{Op: "stat-dest", Dst: dest, Err: err}
	}
	if !fi.IsDir() {
		return &PreflightError{Op: "stat-dest", Dst: dest, Err: fmt.Errorf("not a directory")}
	}

	ok, err := adapter.SupportsHardLinks(dest)
	if err != nil {
		return &PreflightError{Op: "filesystem-type", Dst: dest, Err: err}
	}
	if !ok {
		return &PreflightError{Op: "filesystem-type", Dst: dest, Err: fmt.Errorf("destination filesystem does not support hard links")}
	}

	return nil
}

func appendLogLine(path, src, today string, dur time.Duration, bytesWritten int64) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s: %s -> %s (in %.2f sec, %s written)\n",
		time.Now().Format("2006-01-02T15:04:05"), src, today, dur.Seconds(), humanBytes(bytesWritten))

	_, err = f.WriteString(line)
	return err
}
