// umask_unix.go - force umask 0077 for the duration of a run
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build unix

package engine

import "golang.org/x/sys/unix"

// forceUmask sets the process umask to 0077 and returns a restore function.
func forceUmask() func() {
	old := unix.Umask(0077)
	return func() { unix.Umask(old) }
}
