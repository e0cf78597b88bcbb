package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

func assert(t *testing.T, cond bool, msg string, args ...interface{}) {
	if cond {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "???", 0
	}
	t.Fatalf("%s:%d: assertion failed: "+msg, append([]interface{}{file, line}, args...)...)
}

func TestDateDir(t *testing.T) {
	got := DateDir(2026, 7, 4)
	want := filepath.Join("2026", "07", "04")
	assert(t, got == want, "got %q want %q", got, want)
}

func TestMakeRelative(t *testing.T) {
	base := "/home/src"
	assert(t, MakeRelative("/home/src", base) == "", "self should be empty")
	assert(t, MakeRelative("/home/src/a/b.txt", base) == filepath.Join("a", "b.txt"), "nested mismatch")
	assert(t, MakeRelative("/home/src/", base) == "", "trailing slash self should be empty")
}

func TestIsSameOrBelow(t *testing.T) {
	assert(t, IsSameOrBelow("/x", "/x"), "same path must match")
	assert(t, IsSameOrBelow("/x/backup", "/x"), "/x/backup is below /x")
	assert(t, !IsSameOrBelow("/y", "/x"), "/y is not below /x")
	assert(t, !IsSameOrBelow("/xbackup", "/x"), "prefix must respect separator boundary")
}

func TestSplitAll(t *testing.T) {
	parts := SplitAll("/D/2026/07/04")
	want := []string{"D", "2026", "07", "04"}
	assert(t, len(parts) == len(want), "length mismatch: %v", parts)
	for i := range want {
		assert(t, parts[i] == want[i], "part %d: got %q want %q", i, parts[i], want[i])
	}
}

func TestParseDateTriple(t *testing.T) {
	y, m, d, ok := ParseDateTriple([]string{"2024", "02", "29"})
	assert(t, ok && y == 2024 && m == 2 && d == 29, "leap day should parse")

	_, _, _, ok = ParseDateTriple([]string{"2025", "02", "29"})
	assert(t, !ok, "2025 is not a leap year")

	_, _, _, ok = ParseDateTriple([]string{"26", "02", "29"})
	assert(t, !ok, "2-digit year must be rejected")

	_, _, _, ok = ParseDateTriple([]string{"2026", "13", "01"})
	assert(t, !ok, "month 13 is invalid")
}
