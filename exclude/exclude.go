// exclude.go - exclusion matcher for the snapshot walk
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package exclude decides, for each path the walker encounters, whether it
// should be skipped (and, for directories, whether its subtree should be
// pruned). The matching is deliberately simple: full-path regexes,
// basename globs (regular files only) and a size threshold (regular files
// only) combine with any-of semantics.
package exclude

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Stat is the minimal view of a filesystem entry the matcher needs. The
// caller must obtain it via lstat, never following symlinks.
type Stat interface {
	IsRegular() bool
	Size() int64
}

// Matcher decides exclusion for a given full path and its (lstat'd) info.
type Matcher interface {
	Exclude(path string, fi Stat) bool
}

// None is the trivial matcher that never excludes anything.
type None struct{}

// Exclude always returns false.
func (None) Exclude(string, Stat) bool { return false }

var _ Matcher = None{}

// Config describes the configured matcher's criteria. Patterns are regexes
// matched against the full walked path; Globs are shell-style basename globs
// (github.com/bmatcuk/doublestar) applied only to regular files; SizeThreshold,
// if non-zero, excludes regular files whose size is >= the threshold.
type Config struct {
	Patterns      []string
	Globs         []string
	SizeThreshold int64
}

// Compiled is a Config turned into something Exclude() can use cheaply and
// repeatedly; build once per run via New.
type Compiled struct {
	patterns []*regexp.Regexp
	globs    []string
	size     int64
}

// New compiles a Config into a Matcher. Returns a ConfigurationError-flavored
// error if any regex fails to compile or any glob is malformed.
func New(cfg Config) (*Compiled, error) {
	c := &Compiled{size: cfg.SizeThreshold}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude: bad pattern %q: %w", p, err)
		}
		c.patterns = append(c.patterns, re)
	}

	for _, g := range cfg.Globs {
		if _, err := doublestar.Match(g, "probe"); err != nil {
			return nil, fmt.Errorf("exclude: bad glob %q: %w", g, err)
		}
		c.globs = append(c.globs, g)
	}

	return c, nil
}

// Exclude implements Matcher. Order of evaluation is immaterial: any of the
// three criteria matching is sufficient.
func (c *Compiled) Exclude(path string, fi Stat) bool {
	if fi.IsRegular() && c.size > 0 && fi.Size() >= c.size {
		return true
	}

	for _, re := range c.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	if fi.IsRegular() {
		base := basename(path)
		for _, g := range c.globs {
			if ok, _ := doublestar.Match(g, base); ok {
				return true
			}
		}
	}

	return false
}

var _ Matcher = &Compiled{}

func basename(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// ParseSize parses a size expression of the form \d+[KMGTP]? (case
// insensitive), interpreting the suffix as a power of 1024. An absent suffix
// means a multiplier of 1 (bytes). This intentionally does not delegate to a
// generic byte-size parser: the spec's grammar is narrower (single-letter
// suffixes only, strict base-1024) than what general-purpose size parsers in
// the ecosystem accept (they also parse "KB", "KiB", decimal points, etc.),
// and a mismatch there would silently change exclusion behavior.
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("exclude: empty size expression")
	}

	suffix := s[len(s)-1]
	mult := int64(1)
	digits := s

	switch suffix {
	case 'k', 'K':
		mult = 1 << 10
	case 'm', 'M':
		mult = 1 << 20
	case 'g', 'G':
		mult = 1 << 30
	case 't', 'T':
		mult = 1 << 40
	case 'p', 'P':
		mult = 1 << 50
	default:
		if suffix < '0' || suffix > '9' {
			return 0, fmt.Errorf("exclude: unrecognized size suffix in %q", s)
		}
	}

	if mult != 1 {
		digits = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("exclude: invalid size %q: %w", s, err)
	}

	return n * mult, nil
}
