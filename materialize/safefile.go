// safefile.go - write-then-rename so a crash never leaves a half-written file
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package materialize

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// safeFile is a *os.File opened under a temporary name in the destination's
// own directory; Close() renames it into place, Abort() discards it. The
// first call to either wins. This mirrors the teacher's SafeFile (safefile.go
// in the pack), trimmed to the write-only path the materializer needs —
// no copy-on-write preload, since every caller here always writes the full
// contents itself.
type safeFile struct {
	*os.File
	name string
	err  error

	// < 0 aborted, > 0 closed, == 0 open
	closed atomic.Int64
}

var errAborted = errors.New("safefile: aborted; file not committed")

// newSafeFile creates the backing temp file for the eventual nm, with the
// given perm.
func newSafeFile(nm string, perm os.FileMode) (*safeFile, error) {
	tmp := fmt.Sprintf("%s.pdumpfs-tmp.%d.%08x", nm, os.Getpid(), randU32())
	fd, err := os.OpenFile(tmp, os.O_CREATE|os.O_RDWR|os.O_EXCL|os.O_TRUNC, perm)
	if err != nil {
		return nil, err
	}
	return &safeFile{File: fd, name: nm}, nil
}

func (sf *safeFile) isOpen() bool { return sf.closed.Load() == 0 }

func (sf *safeFile) Write(b []byte) (int, error) {
	if sf.err != nil {
		return 0, sf.err
	}
	if !sf.isOpen() {
		return 0, fmt.Errorf("safefile: %s is not open", sf.name)
	}

	n, err := fullWrite(sf.File, b)
	if err != nil {
		sf.err = err
	}
	return n, sf.err
}

// Abort discards the temp file. Safe to call unconditionally via defer; it's
// a no-op once Close() has already committed.
func (sf *safeFile) Abort() {
	if n := sf.closed.Load(); n != 0 {
		return
	}
	sf.File.Close()
	os.Remove(sf.File.Name())
	sf.closed.Store(-1)
}

// Close flushes, closes, and atomically renames the temp file into place.
// Returns an error (without renaming) if an earlier Write failed.
func (sf *safeFile) Close() error {
	if sf.err != nil {
		sf.Abort()
		return sf.err
	}

	switch n := sf.closed.Load(); {
	case n < 0:
		return errAborted
	case n > 0:
		return nil
	}

	if err := sf.Sync(); err != nil {
		sf.err = err
		return err
	}
	tmpName := sf.File.Name()
	if err := sf.File.Close(); err != nil {
		sf.err = err
		return err
	}
	if err := os.Rename(tmpName, sf.name); err != nil {
		sf.err = err
		return err
	}

	sf.closed.Store(1)
	return nil
}

func fullWrite(d *os.File, b []byte) (int, error) {
	var total int
	for len(b) > 0 {
		n, err := d.Write(b)
		if err != nil {
			return total, fmt.Errorf("safefile: write: %w", err)
		}
		total += n
		b = b[n:]
	}
	return total, nil
}

func randU32() uint32 {
	var b [4]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(fmt.Sprintf("safefile: can't read random bytes: %s", err))
	}
	return binary.LittleEndian.Uint32(b[:])
}
