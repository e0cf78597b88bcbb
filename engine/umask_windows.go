// umask_windows.go - umask has no meaning on Windows ACLs
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build windows

package engine

// forceUmask is a no-op on Windows: file creation permissions are governed
// by ACLs, not a process umask.
func forceUmask() func() {
	return func() {}
}
