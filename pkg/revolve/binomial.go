package revolve

import "log/slog"

// Compile-time bounds of the scheduler family. The host cannot change
// these.
const (
	// CheckUp is the upper bound on the number of snapshot slots.
	CheckUp = 64
	// RepsUp is the upper bound on the binomial repetition count.
	RepsUp = 64
	// MaxInt is the saturation value for binomial ranges.
	MaxInt = 1<<31 - 1
)

// Maxrange returns the binomial coefficient C(ss+tt, tt), the largest
// step count reversible with ss snapshots and tt repetitions. Values
// beyond MaxInt saturate to MaxInt (with a warning on the diagnostic
// sink); negative arguments yield -1.
func Maxrange(ss, tt int) int {
	if tt < 0 || ss < 0 {
		slog.Error("maxrange: negative parameter", slog.Int("snaps", ss), slog.Int("reps", tt))
		return -1
	}
	res := 1.0
	for i := 1; i <= tt; i++ {
		res *= float64(ss + i)
		res /= float64(i)
		if res > MaxInt {
			slog.Warn("maxrange: range exceeds maximal integer, returning MaxInt")
			return MaxInt
		}
	}
	return int(res)
}

// Numforw returns the number of forward steps the binomial schedule
// will execute for steps time steps and snaps snapshot slots. It
// returns -1 when snaps < 1, snaps > CheckUp, or the repetition count
// exceeds RepsUp.
func Numforw(steps, snaps int) int {
	if snaps < 1 {
		slog.Error("numforw: snaps < 1")
		return -1
	}
	if snaps > CheckUp {
		slog.Error("numforw: snaps exceeds CheckUp", slog.Int("snaps", snaps))
		return -1
	}
	reps := 0
	rng := 1
	for rng < steps {
		reps++
		rng = rng * (reps + snaps) / reps
	}
	slog.Debug("numforw", slog.Int("range", rng), slog.Int("reps", reps))
	if reps > RepsUp {
		slog.Error("numforw: reps exceeds RepsUp", slog.Int("reps", reps))
		return -1
	}
	return reps*steps - rng*reps/(snaps+1)
}

// Expense estimates the run-time factor incurred by the schedule for a
// particular snaps, as the ratio Numforw(steps, snaps)/steps. It
// returns -1 when either argument is smaller than 1 or Numforw fails.
func Expense(steps, snaps int) float64 {
	if snaps < 1 {
		slog.Error("expense: snaps < 1")
		return -1
	}
	if steps < 1 {
		slog.Error("expense: steps < 1")
		return -1
	}
	num := Numforw(steps, snaps)
	if num == -1 {
		return -1
	}
	return float64(num) / float64(steps)
}

// Adjust returns a snaps value for which the increase in spatial
// complexity roughly equals the increase in temporal complexity,
// approximately log4(steps).
func Adjust(steps int) int {
	snaps := 1
	reps := 1
	s := 0
	for Maxrange(snaps+s, reps+s) > steps {
		s--
	}
	for Maxrange(snaps+s, reps+s) < steps {
		s++
	}
	snaps += s
	reps += s
	s = -1
	for Maxrange(snaps, reps) >= steps {
		if snaps > reps {
			snaps--
			s = 0
		} else {
			reps--
			s = 1
		}
	}
	if s == 0 {
		snaps++
	}
	if s == 1 {
		reps++
	}
	return snaps
}

// Reps returns the repetition count r the binomial schedule uses for
// steps time steps and snaps slots: the smallest r with
// C(r+snaps, r) >= steps. It returns -1 under the same conditions as
// Numforw.
func Reps(steps, snaps int) int {
	if snaps < 1 {
		slog.Error("reps: snaps < 1")
		return -1
	}
	if snaps > CheckUp {
		slog.Error("reps: snaps exceeds CheckUp", slog.Int("snaps", snaps))
		return -1
	}
	reps := 0
	rng := 1
	for rng < steps {
		reps++
		rng = rng * (reps + snaps) / reps
	}
	if reps > RepsUp {
		slog.Error("reps: reps exceeds RepsUp", slog.Int("reps", reps))
		return -1
	}
	return reps
}
