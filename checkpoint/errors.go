package checkpoint

import "errors"

// Sentinel errors implementing the taxonomy of spec §7. Wrap with
// fmt.Errorf("...: %w", Err...) at the call site so errors.Is keeps
// working once path/iteration context is attached.
var (
	// ErrCorruptSnapshot is returned when a proof snapshot's CRC does not
	// match its payload, or the file is shorter than expected. Fatal to
	// proof generation.
	ErrCorruptSnapshot = errors.New("checkpoint: corrupt snapshot")

	// ErrMissingSnapshot is returned when a checkpoint index that should
	// have a file on disk does not. Fatal before E; aborts resume beyond
	// the last unbroken prefix otherwise.
	ErrMissingSnapshot = errors.New("checkpoint: missing snapshot")

	// ErrNotCheckpoint is returned when Save/Load is asked to operate on
	// an iteration that is not a member of the schedule's point set.
	ErrNotCheckpoint = errors.New("checkpoint: iteration is not a scheduled checkpoint")

	// ErrScheduleInconsistency indicates the membership test disagrees
	// with the constructed point set — a programming error, not a runtime
	// condition callers can recover from.
	ErrScheduleInconsistency = errors.New("checkpoint: schedule inconsistency")
)
