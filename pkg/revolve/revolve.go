package revolve

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/devitocodes/gorevolve/pkg/revolve/observability"
)

// Revolve owns the checkpoint store and the active scheduling strategy,
// and is the host-facing entry point of the package. It is created in
// one of three modes: offline (step count known), multi-stage (offline
// with RAM/ROM tiering), or online (step count unknown).
//
// Not safe for concurrent use; Step calls must be serial.
type Revolve struct {
	check   int
	capo    int
	fine    int
	oldcapo int
	snaps   int
	steps   int
	info    int
	r       int

	f  schedule
	cp *checkpointStore

	online        bool
	multi         bool
	heuristicTail bool
	whereToPut    bool

	where      []bool
	indizesRAM []int
	indizesROM []int

	err error

	runID   string
	log     *slog.Logger
	metrics observability.MetricsRecorder
}

func newRevolve(snaps int, opts []Option) *Revolve {
	r := &Revolve{
		check:   -1,
		snaps:   snaps,
		cp:      newCheckpointStore(snaps),
		where:   make([]bool, snaps),
		runID:   uuid.NewString(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewOffline creates a scheduler for a known number of time steps.
// All slots live in the single (RAM) tier.
func NewOffline(steps, snaps int, opts ...Option) *Revolve {
	r := newRevolve(snaps, opts)
	r.steps = steps
	r.f = newOffline(steps, snaps, r.cp, r.log)
	for i := range r.where {
		r.where[i] = true
	}
	r.cp.resetCounters()
	return r
}

// NewMultiStage creates an offline scheduler whose slots are split
// across a fast (RAM) and a slow (ROM) storage tier. The snapsRAM
// slots with the highest predicted write+read traffic are assigned to
// RAM; Where, CheckRAM and CheckROM report the tier of the slot
// involved in the last action.
func NewMultiStage(steps, snaps, snapsRAM int, opts ...Option) *Revolve {
	r := newRevolve(snaps, opts)
	r.steps = steps
	r.f = newOffline(steps, snaps, r.cp, r.log)
	r.multi = true
	r.indizesRAM = make([]int, snaps)
	r.indizesROM = make([]int, snaps)

	if snapsRAM < 0 {
		snapsRAM = 0
	}
	if snapsRAM > snaps {
		snapsRAM = snaps
	}
	costs := writeReadCounts(steps, snaps)
	if snapsRAM > 0 {
		sorted := make([]int, snaps)
		copy(sorted, costs)
		sort.Ints(sorted)
		mid := sorted[snaps-snapsRAM]
		num := 0
		for i := snaps - 1; i >= 0; i-- {
			if costs[i] >= mid && num < snapsRAM {
				r.where[i] = true
				num++
			}
		}
	}
	j, k := 0, 0
	for i := 0; i < snaps; i++ {
		if r.where[i] {
			r.indizesRAM[i] = j
			j++
		} else {
			r.indizesROM[i] = k
			k++
		}
	}
	r.cp.resetCounters()
	return r
}

// NewOnline creates a scheduler for an unknown number of time steps.
// The forward sweep runs through an escalating ladder of online
// strategies; call Turn once the host performs its final forward step.
func NewOnline(snaps int, opts ...Option) *Revolve {
	r := newRevolve(snaps, opts)
	r.online = true
	r.r = 2
	r.f = newOnlineR2(snaps, r.cp, r.log)
	r.cp.resetCounters()
	return r
}

// Step advances the schedule by one decision and returns the action
// the host must perform next. During online mode, exhaustion of a
// strategy is handled internally by escalating to the next one; the
// host never observes those transitions.
func (r *Revolve) Step() Action {
	r.oldcapo = r.capo
	a := r.f.revolve()
	if r.online && a == ActionTerminate && r.r == 2 {
		observability.LogHandoff(r.log, r.runID, "online-r2", "online-r3", r.f.getCapo())
		r.f = newOnlineR3(r.snaps, r.cp, r.log)
		a = r.f.revolve()
		r.r++
	}
	if r.online && a == ActionTerminate && r.r == 3 {
		if r.heuristicTail {
			observability.LogHandoff(r.log, r.runID, "online-r3", "arevolve", r.f.getCapo())
			r.f = newArevolve(r.snaps, r.cp, r.log)
		} else {
			observability.LogHandoff(r.log, r.runID, "online-r3", "moin", r.f.getCapo())
			r.f = newMoin(r.snaps, r.cp, r.log)
		}
		a = r.f.revolve()
		r.r++
	}
	r.check = r.f.getCheck()
	r.capo = r.f.getCapo()
	r.fine = r.f.getFine()
	r.info = r.f.getInfo()
	if a == ActionError {
		if r.info >= 10 && r.info <= 15 {
			r.err = &ScheduleError{Code: Code(r.info), Op: "step"}
		} else {
			r.err = ErrContract
		}
	}
	var forward int64
	if a == ActionAdvance {
		forward = int64(r.capo - r.oldcapo)
	}
	r.metrics.RecordAction(context.Background(), a.String(), forward)
	observability.LogAction(r.log, r.runID, a.String(), r.check, r.capo, r.fine)
	if r.check <= -1 {
		return a
	}
	if !r.online {
		r.whereToPut = r.where[r.check]
	}
	return a
}

// Turn ends the forward sweep of an online schedule: the host has
// reached step final-1 and now knows the total step count final. The
// last forward step, final-1 -> final, is performed by the firsturn
// that follows. The active online strategy is frozen into a snapshot, and an
// offline scheduler over its checkpoint layout takes over to drive the
// reverse sweep. No-op for offline construction.
func (r *Revolve) Turn(final int) {
	if !r.online {
		return
	}
	observability.LogHandoff(r.log, r.runID, "online", "offline", final)
	r.fine = final
	r.capo = final - 1
	r.steps = final
	snap := snapshotOnline(r.f)
	r.f = newOfflineFromOnline(r.snaps, r.cp, snap, final, r.log)
	r.online = false
}

// Check returns the slot index involved in the last action: the
// written slot after a takeshot, the read slot after a restore. It is
// -1 before the first takeshot and after terminate.
func (r *Revolve) Check() int { return r.check }

// Capo returns the first step of the sub-range currently processed.
// After an advance the host must run the simulation from OldCapo to
// Capo; after a restore the simulation is positioned at Capo.
func (r *Revolve) Capo() int { return r.capo }

// Fine returns the last step of the sub-range currently processed.
// The r=2, r=3 and moin online strategies report -1 until Turn is
// called; the heuristic tail reports its own running end step.
func (r *Revolve) Fine() int { return r.fine }

// OldCapo returns the value of Capo before the last Step call.
func (r *Revolve) OldCapo() int { return r.oldcapo }

// OldFine returns the step of the last combined forward+adjoint
// action; after a firsturn or youturn it equals Fine.
func (r *Revolve) OldFine() int { return r.fine }

// Info returns the diagnostic code associated with the last action;
// after an ActionError caused by a capacity or computation limit it
// holds one of the codes 10-15. A contract violation sets no code.
func (r *Revolve) Info() int { return r.info }

// SetInfo sets the diagnostic verbosity of the active scheduler.
// Zero silences the prediction and completion summaries.
func (r *Revolve) SetInfo(v int) {
	r.info = v
	if s, ok := r.f.(*offline); ok {
		s.setInfo(v)
	}
}

// Err returns the error behind the last ActionError, or nil.
func (r *Revolve) Err() error { return r.err }

// Where reports the storage tier of the slot involved in the last
// action: true for RAM, false for ROM. Meaningful for multi-stage
// construction only.
func (r *Revolve) Where() bool { return r.whereToPut }

// CheckRAM returns the RAM-tier index of the slot involved in the last
// action. Multi-stage construction only; valid when Where is true.
func (r *Revolve) CheckRAM() int { return r.indizesRAM[r.check] }

// CheckROM returns the ROM-tier index of the slot involved in the last
// action. Multi-stage construction only; valid when Where is false.
func (r *Revolve) CheckROM() int { return r.indizesROM[r.check] }

// Snaps returns the number of snapshot slots.
func (r *Revolve) Snaps() int { return r.snaps }

// Steps returns the total step count; for online construction it is
// zero until Turn.
func (r *Revolve) Steps() int { return r.steps }

// RunID returns the identifier attached to this scheduler's log and
// metric records.
func (r *Revolve) RunID() string { return r.runID }

// Advances returns the forward-step counter. Offline schedules add the
// length of every advance, so a complete offline run ends at
// Numforw(steps, snaps). Turn restarts the counter at final-1; before
// Turn, the online strategies count some multi-step advances as fewer
// steps than they cover.
func (r *Revolve) Advances() int { return r.cp.advances }

// Takeshots returns the number of takeshot actions returned so far.
func (r *Revolve) Takeshots() int { return r.cp.takeshots }

// Commands returns the number of strategy decisions computed so far:
// one per Step call, plus one for each online strategy escalation.
func (r *Revolve) Commands() int { return r.cp.commands }

// NumWrites returns how often slot i has been written during the
// offline schedule.
func (r *Revolve) NumWrites(i int) int { return r.cp.numWrites[i] }

// NumReads returns how often slot i has been read during the offline
// schedule.
func (r *Revolve) NumReads(i int) int { return r.cp.numReads[i] }
