// xattr.go - extended attribute capture/restore
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

import "github.com/pkg/xattr"

// readXattr returns the extended attributes of path. When lstat is true, it
// reads the attributes of a symlink itself rather than its target.
func readXattr(path string, lstat bool) (map[string]string, error) {
	list, get := xattr.List, xattr.Get
	if lstat {
		list, get = xattr.LList, xattr.LGet
	}

	keys, err := list(path)
	if err != nil {
		return nil, err
	}

	x := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := get(path, k)
		if err != nil {
			continue
		}
		x[k] = string(v)
	}
	return x, nil
}

// ReplaceXattr clears path's current extended attributes and applies x in
// their place. forSymlink selects the l-variant so the call never follows a
// trailing symlink.
func ReplaceXattr(path string, x map[string]string, forSymlink bool) error {
	list, remove, set := xattr.List, xattr.Remove, xattr.Set
	if forSymlink {
		list, remove, set = xattr.LList, xattr.LRemove, xattr.LSet
	}

	keys, err := list(path)
	if err != nil {
		return err
	}
	for _, k := range keys {
		_ = remove(path, k)
	}

	for k, v := range x {
		if err := set(path, k, []byte(v)); err != nil {
			return err
		}
	}
	return nil
}
