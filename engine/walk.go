// walk.go - the synchronous recursive descent over the source tree
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package engine

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/showtak/pdumpfs/classify"
	"github.com/showtak/pdumpfs/exclude"
	"github.com/showtak/pdumpfs/materialize"
	"github.com/showtak/pdumpfs/meta"
)

// statView adapts *meta.Info's Size field to the exclude.Stat interface,
// which needs a Size() method to stay decoupled from meta's concrete type.
type statView struct{ info *meta.Info }

func (s statView) IsRegular() bool { return s.info.IsRegular() }
func (s statView) Size() int64     { return s.info.Size }

// dirRestore records a directory whose metadata must be reapplied once the
// whole walk has finished, after all descendants have been materialized
// (spec.md §4.7 step 10: writing into a directory updates its mtime, so
// directory metadata is restored strictly after the subtree is done).
type dirRestore struct {
	path string
	info *meta.Info
}

// walker carries the state threaded through the recursive descent. Holding
// it as a receiver instead of passing latestRoot/relDir/adapter/... as
// individual parameters down every call keeps the recursive signature small.
type walker struct {
	adapter meta.Adapter
	matcher exclude.Matcher
	mat     *materialize.Materializer
	warn    func(error)
	runLog  *runLogger

	latestRoot string // prior snapshot root, "" if none
	hasLatest  bool

	dirRestores []dirRestore

	visited     int
	skipped     int
	warned      int
	unsupported int
}

// walk descends srcDir (an absolute path) in pre-order, materializing each
// entry under dstDir, and consulting priorDir (computed from latestRoot and
// rel, only when hasLatest) for hard-link reuse and change detection.
func (w *walker) walk(srcDir, dstDir, rel string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		w.reportEntryError(rel, err)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var priorDir string
	if w.hasLatest {
		priorDir = filepath.Join(w.latestRoot, rel)
	}

	srcInfo, err := w.adapter.Lstat(srcDir)
	if err == nil {
		w.dirRestores = append(w.dirRestores, dirRestore{path: dstDir, info: srcInfo})
	}

	for _, ent := range entries {
		name := ent.Name()
		childRel := filepath.Join(rel, name)
		childSrc := filepath.Join(srcDir, name)
		childDst := filepath.Join(dstDir, name)

		srcInfo, err := w.adapter.Lstat(childSrc)
		if err != nil {
			w.reportEntryError(childRel, err)
			continue
		}

		var tag classify.Tag
		var priorPath string

		if w.matcher.Exclude(childSrc, statView{srcInfo}) {
			w.skipped++
			tag = classify.Unsupported
		} else {
			var priorInfo *meta.Info
			if w.hasLatest {
				priorPath = filepath.Join(priorDir, name)
				if pi, err := w.adapter.Lstat(priorPath); err == nil {
					priorInfo = pi
				}
			}
			tag = classify.Classify(srcInfo, priorInfo)
			w.visited++
			if tag == classify.Unsupported {
				w.unsupported++
			}
		}

		if w.mat.Interval != nil {
			w.mat.Interval()
		}

		// Materialize reports the tag (even Unsupported) and, for Unsupported,
		// performs no filesystem mutation; see materialize.Materialize.
		if err := w.mat.Materialize(tag, childSrc, childDst, priorPath, srcInfo); err != nil {
			return err
		}

		if tag == classify.Directory {
			if err := w.walk(childSrc, childDst, childRel); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *walker) reportEntryError(path string, err error) {
	w.warned++
	w.runLog.warn("%s: %s", path, err)
	if w.warn != nil {
		w.warn(&EntryError{Path: path, Err: err})
	}
}
