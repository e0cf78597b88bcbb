// humanbytes.go - the log line's bespoke byte-count formatter
//
// (c) 2026 pdumpfs contributors
//
// Licensing Terms: GPLv2
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package engine

import "fmt"

// humanBytes renders n using the nearest of B/KB/MB/GB with the exact
// thresholds and decimal formats spec.md §6 requires. dustin/go-humanize
// (used elsewhere in the pack, e.g. mutagen's pkg/configuration/size.go) was
// not reused here: its Bytes() function picks base-1000 *or* base-1024 units
// on its own heuristics and always prints one decimal, neither of which
// matches this log line's fixed base-1024 units with a bare-integer byte
// count and tiered thresholds that mix 1024 and 1024*1000.
func humanBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1000:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	case n < 1024*1024*1000:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.1fGB", float64(n)/(1024*1024*1024))
	}
}
