// locate.go - find the most recent prior snapshot
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package locate finds the most recent "D/YYYY/MM/DD/<base>" snapshot
// strictly before a given date, per spec.md §4.4.
package locate

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/showtak/pdumpfs/pathutil"
)

// Find returns the path of the most recent snapshot under dest named base,
// strictly before today, or ok=false if none exists.
func Find(dest, base string, today time.Time) (snapshot string, ok bool, err error) {
	candidates, err := yearMonthDayDirs(dest)
	if err != nil {
		return "", false, err
	}

	// Lexicographic descending sort orders newest first: every field is a
	// fixed-width zero-padded component, so string order equals date order.
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	ty, tm, td := today.Date()

	for _, c := range candidates {
		parts := pathutil.SplitAll(c)
		if len(parts) < 3 {
			continue
		}
		tail := parts[len(parts)-3:]

		y, m, d, valid := pathutil.ParseDateTriple(tail)
		if !valid {
			continue
		}

		if !before(y, m, d, ty, int(tm), td) {
			continue
		}

		snap := filepath.Join(c, base)
		st, err := os.Stat(snap)
		if err != nil || !st.IsDir() {
			continue
		}

		return snap, true, nil
	}

	return "", false, nil
}

func before(y, m, d, ty, tm, td int) bool {
	if y != ty {
		return y < ty
	}
	if m != tm {
		return m < tm
	}
	return d < td
}

// yearMonthDayDirs enumerates every path under dest matching the literal
// shape "dest/<4 digits>/<2 digits>/<2 digits>". It does not validate that
// the components form a real calendar date; that's Find's job.
func yearMonthDayDirs(dest string) ([]string, error) {
	years, err := readDirNames(dest)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, y := range years {
		if !isDigits(y, 4) {
			continue
		}
		yp := filepath.Join(dest, y)
		months, err := readDirNames(yp)
		if err != nil {
			continue
		}
		for _, m := range months {
			if !isDigits(m, 2) {
				continue
			}
			mp := filepath.Join(yp, m)
			days, err := readDirNames(mp)
			if err != nil {
				continue
			}
			for _, d := range days {
				if !isDigits(d, 2) {
					continue
				}
				out = append(out, filepath.Join(mp, d))
			}
		}
	}
	return out, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
