// Package measure is an opt-in byte-accounting facility, gated by the
// MEASURE_SIZES environment variable so that normal runs pay no overhead.
// It is adapted from a sibling project's field/polynomial byte-accounting
// helpers to this module's residue/snapshot domain.
package measure

import (
	"fmt"
	"os"
	"sync"
)

// Enabled reports whether byte accounting is turned on for this process.
var Enabled bool

// Global is the process-wide counter every package-level helper below
// writes into.
var Global Counter

func init() {
	Enabled = os.Getenv("MEASURE_SIZES") == "1"
	Global = Counter{M: make(map[string]int64)}
}

// BytesWords32 returns the on-disk byte size of a residue serialized as
// n 32-bit words, the proof snapshot's native layout.
func BytesWords32(n int) int {
	return n * 4
}

// BytesWords64 returns the byte size of a residue in device word form (n
// 64-bit words).
func BytesWords64(n int) int {
	return n * 8
}

// BytesSnapshot returns a proof snapshot file's total byte size for
// exponent E: the 4-byte CRC header plus ⌈E/32⌉ 32-bit words.
func BytesSnapshot(E uint32) int {
	wordCount := int((E + 31) / 32)
	return 4 + BytesWords32(wordCount)
}

// Human renders a byte count in the largest binary unit (B, KiB, MiB, GiB)
// that does not exceed it: two decimals for GiB, one for KiB and MiB.
func Human(n int64) string {
	const (
		KiB = 1024
		MiB = 1024 * KiB
		GiB = 1024 * MiB
	)
	switch {
	case n >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(n)/float64(GiB))
	case n >= MiB:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(MiB))
	case n >= KiB:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(KiB))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Counter accumulates named byte counts, used to report where a run's disk
// or bandwidth footprint actually goes.
type Counter struct {
	mu sync.Mutex
	M  map[string]int64
}

// Add records n bytes against key. A no-op unless Enabled.
func (c *Counter) Add(key string, n int64) {
	if !Enabled {
		return
	}
	c.mu.Lock()
	c.M[key] += n
	c.mu.Unlock()
}

// SnapshotAndReset returns a copy of the accumulated counts and clears
// them, so repeated reports (e.g. one per proof level) don't double-count.
func (c *Counter) SnapshotAndReset() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.M))
	for k, v := range c.M {
		out[k] = v
	}
	c.M = make(map[string]int64)
	return out
}

// Dump prints every accumulated count, in Human form, to stdout. A no-op
// unless Enabled.
func (c *Counter) Dump() {
	if !Enabled {
		return
	}
	fmt.Println("[measure] Size report:")
	for k, v := range c.M {
		fmt.Printf("[measure] %s = %s\n", k, Human(v))
	}
}

// Section brackets f with begin/end log lines naming it, when Enabled;
// otherwise it just runs f.
func Section(name string, f func()) {
	if !Enabled {
		f()
		return
	}
	fmt.Printf("[measure] Begin %s\n", name)
	f()
	fmt.Printf("[measure] End %s\n", name)
}
