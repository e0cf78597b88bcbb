// classify.go - assign a materialization tag to a source entry
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package classify implements the decision table of spec.md §4.5: given a
// source entry and an optional counterpart in the prior snapshot, assign one
// of {directory, unchanged, updated, new_file, symlink, unsupported}.
package classify

import "github.com/showtak/pdumpfs/meta"

// Tag is the classification assigned to one source entry.
type Tag int

const (
	Directory Tag = iota
	Unchanged
	Updated
	NewFile
	Symlink
	Unsupported
)

func (t Tag) String() string {
	switch t {
	case Directory:
		return "dir "
	case Unchanged:
		return "=   "
	case Updated:
		return "upd "
	case NewFile:
		return "new "
	case Symlink:
		return "link"
	default:
		return "skip"
	}
}

// Classify implements the decision table. src is the non-excluded source
// entry's metadata; prior is the corresponding entry in the most recent
// snapshot, or nil if there is none (or the walk has no prior snapshot at
// all).
func Classify(src, prior *meta.Info) Tag {
	if src.IsDir() {
		return Directory
	}

	if prior != nil && prior.IsRegular() {
		switch {
		case src.IsRegular():
			if SameFile(src, prior) {
				return Unchanged
			}
			return Updated
		case src.IsSymlink():
			return Symlink
		default:
			return Unsupported
		}
	}

	switch {
	case src.IsRegular():
		return NewFile
	case src.IsSymlink():
		return Symlink
	default:
		return Unsupported
	}
}

// SameFile is the sole identity check governing hard-link reuse: both
// entries must be regular files with matching size and mtime (to the
// resolution the filesystem exposes). No content comparison is performed —
// this is deliberate (spec.md §9): substituting a content hash here would
// change the defining correctness/coverage tradeoff of the whole system.
func SameFile(a, b *meta.Info) bool {
	if !a.IsRegular() || !b.IsRegular() {
		return false
	}
	return a.Size == b.Size && a.Mtime.Equal(b.Mtime)
}
