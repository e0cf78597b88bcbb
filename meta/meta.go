// meta.go - metadata adapter: the platform capability set the engine depends on
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package meta abstracts every platform-specific operation the snapshot
// engine needs: stat/lstat, hard-link and symlink creation, timestamp and
// mode/owner restoration, and filesystem-type queries. The engine depends
// only on the Adapter interface; Unix and Windows each supply a concrete
// implementation selected at compile time via build tags.
package meta

import (
	"fmt"
	"io/fs"
	"time"
)

// Type classifies a filesystem entry the way the engine needs to see it.
type Type int

const (
	TypeFile Type = iota
	TypeDir
	TypeSymlink
	TypeOther
)

func (t Type) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "directory"
	case TypeSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Info is a normalized view of a filesystem entry's metadata: the subset of
// stat(2) the engine's classifier and materializer need, plus extended
// attributes.
type Info struct {
	Path string

	Kind Type
	Size int64
	Mode fs.FileMode

	Atime time.Time
	Mtime time.Time

	Uid, Gid uint32
	Nlink    uint32

	// PreferredBlockSize is the filesystem's reported st_blksize, used by
	// the materializer's copy loop. Zero means "unknown"; callers fall back
	// to 8192.
	PreferredBlockSize int64

	Xattr map[string]string
}

// IsRegular reports whether this entry is a plain file.
func (i *Info) IsRegular() bool { return i.Kind == TypeFile }

// IsDir reports whether this entry is a directory.
func (i *Info) IsDir() bool { return i.Kind == TypeDir }

// IsSymlink reports whether this entry is a symbolic link.
func (i *Info) IsSymlink() bool { return i.Kind == TypeSymlink }

// Adapter is the platform capability set the snapshot engine depends on. It
// has exactly two implementations: unix (meta_unix.go) and windows
// (meta_windows.go), selected by build tag.
type Adapter interface {
	// Lstat stats path without following a trailing symlink.
	Lstat(path string) (*Info, error)
	// Stat stats path, following symlinks.
	Stat(path string) (*Info, error)

	// ForceLink unlinks any existing object at dst, then hard-links dst to
	// the same inode as src.
	ForceLink(dst, src string) error
	// ForceSymlink unlinks any existing object at dst, then creates a
	// symlink at dst whose text is target. On platforms without symlink
	// support it creates nothing and returns ErrSymlinkUnsupported, which
	// callers treat as a silent skip.
	ForceSymlink(dst, target string) error
	// ReadSymlink returns the link text of path.
	ReadSymlink(path string) (string, error)

	// Utime sets access and modification times on path.
	Utime(path string, atime, mtime time.Time) error
	// Chmod sets the mode bits of path.
	Chmod(path string, mode fs.FileMode) error
	// ChownIfRoot applies owner uid and group gid to path; a no-op unless the
	// calling process is privileged. forSymlink selects lchown semantics.
	ChownIfRoot(path string, uid, gid uint32, forSymlink bool) error

	// ApplyXattr replaces path's extended attributes with x. On platforms
	// without xattr support this is a silent no-op.
	ApplyXattr(path string, x map[string]string, forSymlink bool) error

	// FilesystemType returns an opaque filesystem identifier for path.
	FilesystemType(path string) (string, error)
	// SupportsHardLinks reports whether the filesystem containing path can
	// hold POSIX hard links. On Unix this is always true; on Windows it is
	// true only for NTFS volumes.
	SupportsHardLinks(path string) (bool, error)
}

// ErrSymlinkUnsupported is returned by ForceSymlink on platforms where
// symlink creation is not available; its callers swallow it silently.
var ErrSymlinkUnsupported = fmt.Errorf("meta: symlink creation not supported on this platform")

// New returns the Adapter for the running platform.
func New() Adapter {
	return newPlatformAdapter()
}
