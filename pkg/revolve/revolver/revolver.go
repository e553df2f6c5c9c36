// Package revolver drives a forward/adjoint simulation pair through a
// revolve schedule, managing snapshot storage on the host's behalf.
//
// The host supplies a forward operator, a reverse (adjoint) operator,
// and a State that can snapshot and restore itself; Run executes the
// complete forward sweep and reverse sweep, consulting the scheduler
// for every move and the storage backend for every snapshot.
package revolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devitocodes/gorevolve/pkg/revolve"
	"github.com/devitocodes/gorevolve/pkg/revolve/observability"
	"github.com/devitocodes/gorevolve/pkg/revolve/storage"
)

// Operator applies a simulation over the half-open step range
// [tStart, tEnd). The forward operator advances the primal state; the
// reverse operator consumes one step of the trajectory and accumulates
// adjoints.
type Operator interface {
	Apply(ctx context.Context, tStart, tEnd int) error
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc func(ctx context.Context, tStart, tEnd int) error

// Apply implements Operator.
func (f OperatorFunc) Apply(ctx context.Context, tStart, tEnd int) error {
	return f(ctx, tStart, tEnd)
}

// State is the live simulation state the operators act on. Snapshot
// and Restore move it in and out of slot storage.
type State interface {
	Snapshot() ([]byte, error)
	Restore(data []byte) error
}

// Sentinel errors for revolver construction and execution.
var (
	// ErrTooFewSteps indicates a non-positive step count.
	ErrTooFewSteps = errors.New("step count must be positive")

	// ErrNilOperator indicates a missing forward or reverse operator.
	ErrNilOperator = errors.New("operator cannot be nil")

	// ErrNilState indicates a missing state.
	ErrNilState = errors.New("state cannot be nil")

	// ErrStoreTooSmall indicates the storage backend has fewer slots
	// than the schedule needs.
	ErrStoreTooSmall = errors.New("storage has fewer slots than snaps")
)

// ProtocolError indicates the scheduler returned an action the current
// sweep cannot honor, or a restored snapshot disagreed with the
// scheduler's position.
type ProtocolError struct {
	// Action is the scheduler action that could not be honored.
	Action string
	// Detail describes the mismatch.
	Detail string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("revolver: unexpected %s: %s", e.Action, e.Detail)
}

// Revolver owns a scheduler, a storage backend, and the host's
// operators for one adjoint computation.
type Revolver struct {
	sched *revolve.Revolve
	store storage.Store
	state State
	fwd   Operator
	rev   Operator

	steps int
	snaps int
	runID string

	cfg runConfig
}

// New creates a revolver for a known number of time steps. When no
// snapshot budget is configured, Adjust picks one; when no store is
// configured, snapshots live in memory.
func New(state State, fwd, rev Operator, steps int, opts ...Option) (*Revolver, error) {
	if steps < 1 {
		return nil, ErrTooFewSteps
	}
	if state == nil {
		return nil, ErrNilState
	}
	if fwd == nil || rev == nil {
		return nil, ErrNilOperator
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	snaps := cfg.snaps
	if snaps <= 0 {
		snaps = revolve.Adjust(steps)
		if snaps < 1 {
			snaps = 1
		}
	}
	store := cfg.store
	if store == nil {
		store = storage.NewMemoryStore(snaps)
	}
	if store.Slots() < snaps {
		return nil, ErrStoreTooSmall
	}

	r := &Revolver{
		store: store,
		state: state,
		fwd:   fwd,
		rev:   rev,
		steps: steps,
		snaps: snaps,
		runID: uuid.NewString(),
		cfg:   cfg,
	}
	r.sched = revolve.NewOffline(steps, snaps,
		revolve.WithLogger(cfg.logger),
		revolve.WithMetrics(cfg.metrics),
	)
	return r, nil
}

// RunID returns the identifier attached to this run's log and metric
// records.
func (r *Revolver) RunID() string { return r.runID }

// Snaps returns the snapshot budget in use.
func (r *Revolver) Snaps() int { return r.snaps }

// Scheduler exposes the underlying scheduler, e.g. for counter
// inspection after a run.
func (r *Revolver) Scheduler() *revolve.Revolve { return r.sched }

// Run executes the complete adjoint computation: the forward sweep,
// then the reverse sweep.
func (r *Revolver) Run(ctx context.Context) (runErr error) {
	done := observability.TimedOperation()
	observability.LogRunStart(r.cfg.logger, r.runID, r.steps, r.snaps)

	if r.cfg.tracing {
		runCtx, runSpan := r.cfg.spans.StartRunSpan(ctx, r.runID, r.steps, r.snaps)
		defer func() {
			r.cfg.spans.EndSpanWithError(runSpan, runErr)
		}()
		ctx = runCtx
	}

	if runErr = r.ApplyForward(ctx); runErr == nil {
		runErr = r.ApplyReverse(ctx)
	}

	durationMs := done()
	if runErr != nil {
		observability.LogRunError(r.cfg.logger, r.runID, runErr, durationMs)
		return runErr
	}
	observability.LogRunComplete(r.cfg.logger, r.runID, durationMs,
		r.sched.Advances(), r.sched.Takeshots())
	return nil
}

// ApplyForward executes the forward sweep, storing snapshots as the
// schedule dictates, up to and including the first combined
// forward+adjoint step.
func (r *Revolver) ApplyForward(ctx context.Context) (err error) {
	start := time.Now()
	sweepCtx := ctx
	if r.cfg.tracing {
		spanCtx, sweepSpan := r.cfg.spans.StartSweepSpan(ctx, "forward")
		sweepCtx = spanCtx
		defer func() {
			r.cfg.spans.EndSpanWithError(sweepSpan, err)
		}()
	}
	defer func() {
		r.cfg.metrics.RecordSweep(ctx, "forward", err == nil, time.Since(start))
	}()

	for {
		if err = sweepCtx.Err(); err != nil {
			return err
		}
		switch action := r.sched.Step(); action {
		case revolve.ActionAdvance:
			if err = r.fwd.Apply(sweepCtx, r.sched.OldCapo(), r.sched.Capo()); err != nil {
				return err
			}
		case revolve.ActionTakeshot:
			if err = r.takeshot(sweepCtx); err != nil {
				return err
			}
		case revolve.ActionFirsturn:
			return r.turnStep(sweepCtx)
		case revolve.ActionError:
			return r.sched.Err()
		default:
			return &ProtocolError{Action: action.String(), Detail: "not valid during the forward sweep"}
		}
	}
}

// ApplyReverse executes the reverse sweep. The forward operator is
// re-applied as needed to recompute trajectory sections that were not
// stored during the forward sweep.
func (r *Revolver) ApplyReverse(ctx context.Context) (err error) {
	start := time.Now()
	sweepCtx := ctx
	if r.cfg.tracing {
		spanCtx, sweepSpan := r.cfg.spans.StartSweepSpan(ctx, "reverse")
		sweepCtx = spanCtx
		defer func() {
			r.cfg.spans.EndSpanWithError(sweepSpan, err)
		}()
	}
	defer func() {
		r.cfg.metrics.RecordSweep(ctx, "reverse", err == nil, time.Since(start))
	}()

	for {
		if err = sweepCtx.Err(); err != nil {
			return err
		}
		switch action := r.sched.Step(); action {
		case revolve.ActionAdvance:
			if err = r.fwd.Apply(sweepCtx, r.sched.OldCapo(), r.sched.Capo()); err != nil {
				return err
			}
		case revolve.ActionTakeshot:
			if err = r.takeshot(sweepCtx); err != nil {
				return err
			}
		case revolve.ActionRestore:
			if err = r.restore(); err != nil {
				return err
			}
		case revolve.ActionYouturn:
			if err = r.turnStep(sweepCtx); err != nil {
				return err
			}
		case revolve.ActionTerminate:
			return nil
		case revolve.ActionError:
			return r.sched.Err()
		default:
			return &ProtocolError{Action: action.String(), Detail: "not valid during the reverse sweep"}
		}
	}
}

// takeshot snapshots the live state into the slot named by the
// scheduler.
func (r *Revolver) takeshot(ctx context.Context) error {
	data, err := r.state.Snapshot()
	if err != nil {
		observability.LogSnapshotError(r.cfg.logger, r.runID, r.sched.Check(), "snapshot", err)
		return err
	}
	if err := r.store.Save(r.sched.Check(), r.sched.Capo(), data); err != nil {
		observability.LogSnapshotError(r.cfg.logger, r.runID, r.sched.Check(), "save", err)
		return err
	}
	observability.LogSnapshot(r.cfg.logger, r.runID, r.sched.Check(), r.sched.Capo(), len(data))
	r.cfg.metrics.RecordSnapshot(ctx, r.sched.Check(), int64(len(data)))
	return nil
}

// restore loads the slot named by the scheduler back into the live
// state.
func (r *Revolver) restore() error {
	data, step, err := r.store.Load(r.sched.Check())
	if err != nil {
		observability.LogSnapshotError(r.cfg.logger, r.runID, r.sched.Check(), "load", err)
		return err
	}
	if step != r.sched.Capo() {
		return &ProtocolError{
			Action: revolve.ActionRestore.String(),
			Detail: fmt.Sprintf("slot %d holds step %d, scheduler expects %d", r.sched.Check(), step, r.sched.Capo()),
		}
	}
	return r.state.Restore(data)
}

// turnStep performs one combined forward+adjoint step at OldFine.
func (r *Revolver) turnStep(ctx context.Context) error {
	step := r.sched.OldFine()
	if err := r.fwd.Apply(ctx, step, step+1); err != nil {
		return err
	}
	return r.rev.Apply(ctx, step, step+1)
}
