// Package measureutil is a thin facade over measure's global byte counter,
// used by the checkpoint package and the mersproof command so they only need
// to import one small surface instead of reaching into measure.Global directly.
package measureutil

import "mersproof/measure"

// SnapshotAndReset returns the global byte-accounting map and clears it.
func SnapshotAndReset() map[string]int64 {
	return measure.Global.SnapshotAndReset()
}

// Add records n bytes against key on the global counter. A no-op unless
// MEASURE_SIZES=1 is set in the environment.
func Add(key string, n int64) {
	measure.Global.Add(key, n)
}
