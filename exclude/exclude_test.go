package exclude

import "testing"

type fakeStat struct {
	regular bool
	size    int64
}

func (f fakeStat) IsRegular() bool { return f.regular }
func (f fakeStat) Size() int64     { return f.size }

func TestNoneNeverExcludes(t *testing.T) {
	var m None
	if m.Exclude("/anything", fakeStat{regular: true, size: 1 << 40}) {
		t.Fatal("None matcher must never exclude")
	}
}

func TestCompiledPattern(t *testing.T) {
	m, err := New(Config{Patterns: []string{`\.cache/`}})
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	if !m.Exclude("/src/.cache/foo", fakeStat{}) {
		t.Fatal("expected pattern match to exclude")
	}
	if m.Exclude("/src/keep/foo", fakeStat{}) {
		t.Fatal("unrelated path should not be excluded")
	}
}

func TestCompiledGlobRegularOnly(t *testing.T) {
	m, err := New(Config{Globs: []string{"*.tmp"}})
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	if !m.Exclude("/src/a.tmp", fakeStat{regular: true}) {
		t.Fatal("glob should match regular file basename")
	}
	if m.Exclude("/src/a.tmp", fakeStat{regular: false}) {
		t.Fatal("glob must not apply to non-regular entries")
	}
}

func TestCompiledSizeThreshold(t *testing.T) {
	m, err := New(Config{SizeThreshold: 12})
	if err != nil {
		t.Fatalf("compile: %s", err)
	}
	if !m.Exclude("/src/big", fakeStat{regular: true, size: 12}) {
		t.Fatal("size exactly at threshold should be excluded")
	}
	if m.Exclude("/src/small", fakeStat{regular: true, size: 11}) {
		t.Fatal("size below threshold should not be excluded")
	}
	if m.Exclude("/src/dir", fakeStat{regular: false, size: 1 << 40}) {
		t.Fatal("size threshold must not apply to non-regular entries")
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"12":   12,
		"12k":  12 << 10,
		"12K":  12 << 10,
		"1M":   1 << 20,
		"1g":   1 << 30,
		"2T":   2 << 40,
		"1p":   1 << 50,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %s", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %d want %d", in, got, want)
		}
	}

	if _, err := ParseSize("12X"); err == nil {
		t.Fatal("expected error for unknown suffix")
	}
	if _, err := ParseSize(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}
