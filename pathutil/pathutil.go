// pathutil.go - pure path helpers for the snapshot engine
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package pathutil holds the pure, side-effect-free path arithmetic shared
// by the locator and the engine: building the "YYYY/MM/DD" date directory
// name, stripping a source root off a child path, deciding whether one path
// is the same as or below another, and parsing date components.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DateDir returns the "YYYY/MM/DD" path segment for the given date, using
// the native path separator and exactly 4/2/2 zero-padded components.
func DateDir(year, month, day int) string {
	return filepath.Join(
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", month),
		fmt.Sprintf("%02d", day),
	)
}

// MakeRelative strips one leading occurrence of base (plus an optional
// separator) off child. The result never starts with a separator and is
// empty iff child == base.
func MakeRelative(child, base string) string {
	base = strings.TrimSuffix(base, string(filepath.Separator))
	child = strings.TrimSuffix(child, string(filepath.Separator))

	if child == base {
		return ""
	}

	prefix := base + string(filepath.Separator)
	if strings.HasPrefix(child, prefix) {
		return child[len(prefix):]
	}

	// not actually below base; best effort, return as-is
	return strings.TrimPrefix(child, string(filepath.Separator))
}

// IsSameOrBelow reports whether candidate equals ancestor, or begins with
// ancestor followed by a path separator, after both are cleaned.
func IsSameOrBelow(candidate, ancestor string) bool {
	c := filepath.Clean(candidate)
	a := filepath.Clean(ancestor)

	if c == a {
		return true
	}
	return strings.HasPrefix(c, a+string(filepath.Separator))
}

// SplitAll returns the ordered list of path components from root to leaf,
// excluding any drive/root element. "/a/b/c" -> ["a", "b", "c"].
func SplitAll(path string) []string {
	path = filepath.Clean(path)
	path = strings.TrimPrefix(path, string(filepath.Separator))
	if path == "" || path == "." {
		return nil
	}

	return strings.Split(path, string(filepath.Separator))
}

// ParseDateTriple parses the last three path components of a candidate
// snapshot path ("YYYY", "MM", "DD") into a calendar date. It reports ok=false
// if the triple is not a well-formed, valid calendar date.
func ParseDateTriple(parts []string) (year, month, day int, ok bool) {
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, false
	}

	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, false
	}

	if !isValidCalendarDate(y, m, d) {
		return 0, 0, 0, false
	}

	return y, m, d, true
}

func isValidCalendarDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	return d <= daysInMonth(y, m)
}

func daysInMonth(y, m int) int {
	days := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if m == 2 && isLeapYear(y) {
		return 29
	}
	return days[m-1]
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}
