package revolve

import (
	"errors"
	"fmt"
)

// Sentinel errors for scheduler misuse.
var (
	// ErrContract indicates the host violated the calling contract
	// (check < -1 or capo > fine). Revolve.Err also reports it for any
	// other ActionError that carries no info code 10-15.
	ErrContract = errors.New("scheduler contract violated")

	// ErrNegativeArgument indicates a combinatorics helper was called
	// with a negative parameter.
	ErrNegativeArgument = errors.New("negative argument")
)

// Code identifies the cause of an ActionError, matching the classic
// revolve info codes.
type Code int

const (
	// CodeCheckupExceeded (10): slot index exceeded the CheckUp cap.
	CodeCheckupExceeded Code = 10
	// CodeSnapsExceeded (11): slot index exceeded the configured snaps,
	// or the remaining slot count dropped below one.
	CodeSnapsExceeded Code = 11
	// CodeNumforw (12): the forward-step prediction failed.
	CodeNumforw Code = 12
	// CodeFineGrown (13): fine grew while all slots were in use.
	CodeFineGrown Code = 13
	// CodeSnapsOverCheckup (14): snaps exceeds the CheckUp cap.
	CodeSnapsOverCheckup Code = 14
	// CodeRepsExceeded (15): the repetition count exceeded RepsUp.
	CodeRepsExceeded Code = 15
)

// Category classifies a schedule error for reporting. All categories
// are non-recoverable for the current run.
type Category int

const (
	// CategoryCapacity indicates the problem size exceeds the
	// configured bounds (codes 10, 11, 13, 14).
	CategoryCapacity Category = iota

	// CategoryComputation indicates combinatorial precomputation
	// overflowed its bounds (codes 12, 15).
	CategoryComputation
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCapacity:
		return "capacity"
	case CategoryComputation:
		return "computation"
	default:
		return "unknown"
	}
}

// ScheduleError describes a faulty termination of the schedule.
type ScheduleError struct {
	// Code is the classic revolve info code (10-15).
	Code Code
	// Op is the operation that failed (e.g. "takeshot", "advance").
	Op string
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	return fmt.Sprintf("revolve %s: %s (info %d)", e.Op, e.describe(), e.Code)
}

// Category returns the error's handling category.
func (e *ScheduleError) Category() Category {
	switch e.Code {
	case CodeNumforw, CodeRepsExceeded:
		return CategoryComputation
	default:
		return CategoryCapacity
	}
}

func (e *ScheduleError) describe() string {
	switch e.Code {
	case CodeCheckupExceeded:
		return "number of checkpoints exceeds CheckUp"
	case CodeSnapsExceeded:
		return "number of checkpoints exceeds snaps"
	case CodeNumforw:
		return "forward-step prediction failed"
	case CodeFineGrown:
		return "fine increased with all snapshots in use"
	case CodeSnapsOverCheckup:
		return "snaps exceeds CheckUp"
	case CodeRepsExceeded:
		return "number of reps exceeds RepsUp"
	default:
		return "unknown failure"
	}
}
