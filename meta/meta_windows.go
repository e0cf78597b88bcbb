// meta_windows.go - link-capable-NTFS-like metadata adapter
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build windows

package meta

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/windows"
)

type windowsAdapter struct{}

func newPlatformAdapter() Adapter { return windowsAdapter{} }

func (windowsAdapter) Lstat(path string) (*Info, error) { return statImpl(path, true) }
func (windowsAdapter) Stat(path string) (*Info, error)  { return statImpl(path, false) }

func statImpl(path string, lstat bool) (*Info, error) {
	stat := os.Stat
	if lstat {
		stat = os.Lstat
	}
	fi, err := stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	kind := TypeOther
	switch {
	case fi.Mode()&fs.ModeSymlink != 0:
		kind = TypeSymlink
	case fi.IsDir():
		kind = TypeDir
	case fi.Mode().IsRegular():
		kind = TypeFile
	}

	return &Info{
		Path:               path,
		Kind:               kind,
		Size:               fi.Size(),
		Mode:               fi.Mode(),
		Atime:              fi.ModTime(),
		Mtime:              fi.ModTime(),
		Nlink:              1,
		PreferredBlockSize: 8192,
	}, nil
}

func (windowsAdapter) ForceLink(dst, src string) error {
	_ = os.Remove(dst)
	dstp, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	srcp, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	if err := windows.CreateHardLink(dstp, srcp, 0); err != nil {
		return fmt.Errorf("link %s -> %s: %w", dst, src, err)
	}
	return nil
}

// ForceSymlink creates an NTFS reparse-point symlink when the calling
// process has SeCreateSymbolicLinkPrivilege (or Developer Mode is on);
// otherwise it returns ErrSymlinkUnsupported so the caller can skip the
// counterpart in the snapshot, per spec.
func (windowsAdapter) ForceSymlink(dst, target string) error {
	_ = os.Remove(dst)
	if err := os.Symlink(target, dst); err != nil {
		return ErrSymlinkUnsupported
	}
	return nil
}

func (windowsAdapter) ReadSymlink(path string) (string, error) {
	s, err := os.Readlink(path)
	if err != nil {
		return "", fmt.Errorf("readlink %s: %w", path, err)
	}
	return s, nil
}

func (windowsAdapter) Utime(path string, atime, mtime time.Time) error {
	// Read-only files refuse SetFileTime unless temporarily made writable.
	if err := os.Chmod(path, 0200); err != nil {
		// best effort; the file may already be writable
		_ = err
	}
	if err := os.Chtimes(path, atime, mtime); err != nil {
		return fmt.Errorf("utime %s: %w", path, err)
	}
	return nil
}

func (windowsAdapter) Chmod(path string, mode fs.FileMode) error {
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// ChownIfRoot is a no-op on Windows: there is no POSIX uid/gid model and
// the spec scopes owner propagation to "if root" semantics that don't apply.
func (windowsAdapter) ChownIfRoot(path string, uid, gid uint32, forSymlink bool) error {
	return nil
}

// ApplyXattr is a no-op: NTFS alternate data streams are not modeled as
// POSIX xattrs, and the stat path never populates Info.Xattr on Windows.
func (windowsAdapter) ApplyXattr(path string, x map[string]string, forSymlink bool) error {
	return nil
}

func (windowsAdapter) FilesystemType(path string) (string, error) {
	root := filepathVolumeName(path)
	rootp, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return "", err
	}

	var fsNameBuf [windows.MAX_PATH + 1]uint16
	if err := windows.GetVolumeInformation(
		rootp, nil, 0, nil, nil, nil,
		&fsNameBuf[0], uint32(len(fsNameBuf)),
	); err != nil {
		return "", fmt.Errorf("getvolumeinformation %s: %w", root, err)
	}

	return strings.ToUpper(windows.UTF16ToString(fsNameBuf[:])), nil
}

// SupportsHardLinks refuses any destination not on an NTFS volume: FAT/exFAT
// have no hard-link facility, and the spec requires the engine to reject
// such destinations up front rather than fail mid-walk.
func (windowsAdapter) SupportsHardLinks(path string) (bool, error) {
	fsType, err := (windowsAdapter{}).FilesystemType(path)
	if err != nil {
		return false, err
	}
	return fsType == "NTFS", nil
}

func filepathVolumeName(path string) string {
	if len(path) >= 2 && path[1] == ':' {
		return path[:2] + `\`
	}
	return path
}

var _ Adapter = windowsAdapter{}
