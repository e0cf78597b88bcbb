// meta_unix.go - POSIX-like metadata adapter
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build unix

package meta

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

type unixAdapter struct{}

func newPlatformAdapter() Adapter { return unixAdapter{} }

func (unixAdapter) Lstat(path string) (*Info, error) { return statImpl(path, true) }
func (unixAdapter) Stat(path string) (*Info, error)  { return statImpl(path, false) }

func statImpl(path string, lstat bool) (*Info, error) {
	var st syscall.Stat_t
	var err error
	if lstat {
		err = syscall.Lstat(path, &st)
	} else {
		err = syscall.Stat(path, &st)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	mode := os.FileMode(st.Mode & 0777)
	var kind Type
	switch st.Mode & syscall.S_IFMT {
	case syscall.S_IFDIR:
		kind = TypeDir
	case syscall.S_IFLNK:
		kind = TypeSymlink
	case syscall.S_IFREG:
		kind = TypeFile
	default:
		kind = TypeOther
	}

	x, err := readXattr(path, lstat)
	if err != nil {
		// xattr is best-effort metadata; don't fail the whole stat over it
		x = nil
	}

	return &Info{
		Path:               path,
		Kind:               kind,
		Size:               st.Size,
		Mode:               mode,
		Atime:              timespecToTime(st.Atim),
		Mtime:              timespecToTime(st.Mtim),
		Uid:                st.Uid,
		Gid:                st.Gid,
		Nlink:              uint32(st.Nlink),
		PreferredBlockSize: int64(st.Blksize),
		Xattr:              x,
	}, nil
}

func (unixAdapter) ForceLink(dst, src string) error {
	_ = os.Remove(dst)
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("link %s -> %s: %w", dst, src, err)
	}
	return nil
}

func (unixAdapter) ForceSymlink(dst, target string) error {
	_ = os.Remove(dst)
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", dst, target, err)
	}
	return nil
}

func (unixAdapter) ReadSymlink(path string) (string, error) {
	s, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("readlink %s: %w", path, err)
	}
	return s, nil
}

func (unixAdapter) Utime(path string, atime, mtime time.Time) error {
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return fmt.Errorf("utime %s: %w", path, err)
	}
	return nil
}

func (unixAdapter) Chmod(path string, mode fs.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

func (unixAdapter) ChownIfRoot(path string, uid, gid uint32, forSymlink bool) error {
	if os.Geteuid() != 0 {
		return nil
	}

	var err error
	if forSymlink {
		err = os.Lchown(path, int(uid), int(gid))
	} else {
		err = os.Chown(path, int(uid), int(gid))
	}
	if err != nil {
		return fmt.Errorf("chown %s: %w", path, err)
	}
	return nil
}

func (unixAdapter) ApplyXattr(path string, x map[string]string, forSymlink bool) error {
	if len(x) == 0 {
		return nil
	}
	return ReplaceXattr(path, x, forSymlink)
}

func (unixAdapter) FilesystemType(path string) (string, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return "", fmt.Errorf("statfs %s: %w", path, err)
	}
	return strconv.FormatInt(int64(st.Type), 16), nil
}

// SupportsHardLinks is always true on Unix; the spec's hard-link-capable
// filesystem gate exists only for the Windows/NTFS adapter.
func (unixAdapter) SupportsHardLinks(path string) (bool, error) {
	return true, nil
}

func timespecToTime(ts syscall.Timespec) time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

var _ Adapter = unixAdapter{}
