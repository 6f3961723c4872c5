// Package checkpoint implements the exponent-parameterized checkpoint
// schedule (which iterations must be snapshotted) and the durable store
// that reads and writes those snapshots plus the live-residue backup files
// consumed on resume. It is the Go counterpart of original_source's
// ProofSet.cpp (schedule + proof snapshots) and BackupManager.cpp (live
// residue / loop file / P-1 stage-2 accumulators).
package checkpoint

import (
	"fmt"
	"math"
	"sort"
)

// guardPoint is the sentinel appended after the real points so range
// lookups never need a bounds check against len(points).
const guardPoint = 0xFFFFFFFF

// Schedule bundles the exponent, the proof level, and the checkpoint point
// set computed once from them, matching the teacher's habit of bundling
// validated parameters into one struct (credential/params.go's Params)
// instead of threading the scalars everywhere.
type Schedule struct {
	E     uint64
	Power int
	// points is sorted ascending, has length 2^Power, contains E, and
	// carries a trailing guard sentinel (see buildPoints).
	points []uint64
}

// NewSchedule validates power and builds the checkpoint point set for E.
func NewSchedule(E uint64, power int) (*Schedule, error) {
	if power < 2 || power > 12 {
		return nil, fmt.Errorf("checkpoint: power %d out of range [2,12]", power)
	}
	if E == 0 || E%2 == 0 {
		return nil, fmt.Errorf("checkpoint: exponent %d must be a positive odd integer", E)
	}

	points := buildPoints(E, power)
	sched := &Schedule{E: E, Power: power, points: points}

	want := 1 << uint(power)
	if len(points)-1 != want { // -1 for the guard entry
		return nil, fmt.Errorf("%w: built %d points, want %d", ErrScheduleInconsistency, len(points)-1, want)
	}
	for _, p := range points[:len(points)-1] {
		if p > E {
			continue
		}
		if !isInPoints(E, power, p) {
			return nil, fmt.Errorf("%w: point %d not recognized by membership test", ErrScheduleInconsistency, p)
		}
	}
	return sched, nil
}

// BestPower derives a recommended proof level from the exponent: one
// additional level per fourfold increase of E, clamped to [2, 12].
//
//	power = clamp(10 + floor(log2(E / 6e7) / 2), 2, 12)
func BestPower(E uint64) int {
	power := 10 + int(math.Floor(math.Log2(float64(E)/60e6)/2))
	if power < 2 {
		power = 2
	}
	if power > 12 {
		power = 12
	}
	return power
}

// Points returns the schedule's checkpoint indices, sorted ascending,
// without the trailing guard sentinel.
func (s *Schedule) Points() []uint64 {
	out := make([]uint64, len(s.points)-1)
	copy(out, s.points[:len(s.points)-1])
	return out
}

// IsCheckpoint reports whether k is a member of the schedule's point set,
// by walking down from the root the same way the bisection that built the
// set would: start at 0 with span = ceil(E/2), and at each of the Power
// levels either step past a span or land exactly on one.
func (s *Schedule) IsCheckpoint(k uint64) bool {
	return isInPoints(s.E, s.Power, k)
}

// DiskUsageGB predicts the proof directory's disk footprint, a heuristic
// used only for operator warnings: ldexp(E, power-33) * 1.05 gigabytes.
func (s *Schedule) DiskUsageGB() float64 {
	return DiskUsageGB(s.E, s.Power)
}

// DiskUsageGB is the free-function form of Schedule.DiskUsageGB, usable by
// diagnostics tooling that wants to sweep power without constructing a full
// Schedule (and therefore without paying for buildPoints) for every value.
func DiskUsageGB(E uint64, power int) float64 {
	if power == 0 {
		return 0
	}
	return math.Ldexp(float64(E), power-33) * 1.05
}

func ceilDiv2(x uint64) uint64 {
	return (x + 1) / 2
}

// buildPoints realizes spec §4.3's bisection construction:
//
//	spans := first `power` values of s_0 = ceil(E/2), s_{i+1} = ceil(s_i/2)
//	points := [0]
//	for each span in spans: points := points ++ [p + span for p in points]
//	replace points[0] with E
//	sort points ascending
//	append the 0xFFFFFFFF guard
func buildPoints(E uint64, power int) []uint64 {
	points := make([]uint64, 1, (1 << uint(power)) + 1)
	points[0] = 0

	span := ceilDiv2(E)
	for p := 0; p < power; p++ {
		n := len(points)
		for i := 0; i < n; i++ {
			points = append(points, points[i]+span)
		}
		span = ceilDiv2(span)
	}

	points[0] = E
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	points = append(points, guardPoint)
	return points
}

// isInPoints is the membership test independent of an already-built point
// slice: it re-derives span sizes on the fly exactly as buildPoints does,
// which is what lets it run without allocating the full 2^power set.
func isInPoints(E uint64, power int, k uint64) bool {
	if k == E {
		return true
	}
	start := uint64(0)
	span := ceilDiv2(E)
	for p := 0; p < power; p++ {
		if k > start+span {
			start += span
		} else if k == start+span {
			return true
		}
		span = ceilDiv2(span)
	}
	return false
}
