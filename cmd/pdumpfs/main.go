// main.go - pdumpfs CLI front end
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/dustin/go-humanize"
	flag "github.com/opencoff/pflag"

	"github.com/showtak/pdumpfs/classify"
	"github.com/showtak/pdumpfs/engine"
	"github.com/showtak/pdumpfs/exclude"
)

// Version is set at build time via -ldflags; "dev" is the fallback for a
// plain `go build`.
var Version = "dev"

var Z = filepath.Base(os.Args[0])

func main() {
	var (
		patterns   []string
		globs      []string
		sizeSuffix string
		logFile    string
		quiet      bool
		dryRun     bool
		help       bool
		version    bool
		backtrace  bool
	)

	fs := flag.NewFlagSet(Z, flag.ExitOnError)
	fs.StringArrayVarP(&patterns, "exclude", "e", nil, "Exclude paths matching `REGEX` (repeatable)")
	fs.StringVarP(&sizeSuffix, "exclude-by-size", "", "", "Exclude regular files of `SIZE` or larger (e.g. 10M)")
	fs.StringArrayVarP(&globs, "exclude-by-glob", "", nil, "Exclude regular files whose basename matches `GLOB` (repeatable)")
	fs.StringVarP(&logFile, "log-file", "l", "", "Append a summary line to `PATH` on success")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Suppress normal per-entry output")
	fs.BoolVarP(&dryRun, "dry-run", "n", false, "Classify and report only; write nothing")
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit")
	fs.BoolVarP(&version, "version", "v", false, "Show version and exit")
	fs.BoolVarP(&backtrace, "backtrace", "", false, "On a fatal error, print a stack trace")
	fs.SetOutput(os.Stdout)

	if err := fs.Parse(os.Args[1:]); err != nil {
		die(backtrace, "%s", err)
	}

	if help {
		usage(fs)
		os.Exit(0)
	}
	if version {
		fmt.Printf("%s %s\n", Z, Version)
		os.Exit(0)
	}

	args := fs.Args()
	if len(args) < 2 || len(args) > 3 {
		usage(fs)
		os.Exit(1)
	}

	src := args[0]
	dst := args[1]
	base := ""
	if len(args) == 3 {
		base = args[2]
	}

	cfg := exclude.Config{Patterns: patterns, Globs: globs}
	if sizeSuffix != "" {
		sz, err := exclude.ParseSize(sizeSuffix)
		if err != nil {
			die(backtrace, "--exclude-by-size: %s", err)
		}
		cfg.SizeThreshold = sz
	}

	matcher, err := exclude.New(cfg)
	if err != nil {
		die(backtrace, "%s", err)
	}

	out := os.Stdout
	if quiet {
		devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			die(backtrace, "%s", err)
		}
		defer devnull.Close()
		out = devnull
	}

	warnCount := 0
	runCfg := engine.Config{
		Source:  src,
		Dest:    dst,
		Matcher: matcher,
		DryRun:  dryRun,
		LogFile: logFile,
		Report: func(tag classify.Tag, path string) {
			fmt.Fprintf(out, "%s %s\n", tag, path)
		},
		Warn: func(err error) {
			warnCount++
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", Z, err)
		},
	}
	if base != "" {
		runCfg.BaseName = base
	}

	res, err := engine.Run(runCfg)
	if err != nil {
		die(backtrace, "%s", err)
	}

	if !quiet {
		fmt.Fprintf(out, "%s -> %s (%s written, %d warnings)\n",
			src, res.Today, humanize.Bytes(uint64(res.BytesWritten)), warnCount)
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, Z, Z)
	fs.PrintDefaults()
}

func die(backtrace bool, format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(format, v...))
	if backtrace {
		fmt.Fprintln(os.Stderr, string(debug.Stack()))
	}
	os.Exit(1)
}

var usageStr = `%s - daily snapshot backup.

Usage: %s [options] SRC DEST [BASE]

Options:
`
