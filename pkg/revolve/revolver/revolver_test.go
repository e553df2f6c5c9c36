package revolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devitocodes/gorevolve/pkg/revolve"
	"github.com/devitocodes/gorevolve/pkg/revolve/revolver"
	"github.com/devitocodes/gorevolve/pkg/revolve/storage"
)

// lcgState is a deterministic, step-dependent, non-commutative toy
// simulation: each forward step folds the step index into the value.
type lcgState struct {
	Y uint64 `json:"y"`
	T int    `json:"t"`
}

const lcgMult = 6364136223846793005

func (s *lcgState) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

func (s *lcgState) Restore(data []byte) error {
	return json.Unmarshal(data, s)
}

// forwardOp advances the state, checking trajectory continuity: every
// range must start exactly where the state currently is.
func forwardOp(s *lcgState) revolver.OperatorFunc {
	return func(_ context.Context, tStart, tEnd int) error {
		if tStart != s.T {
			return fmt.Errorf("forward from %d but state is at %d", tStart, s.T)
		}
		for t := tStart; t < tEnd; t++ {
			s.Y = s.Y*lcgMult + uint64(t)
		}
		s.T = tEnd
		return nil
	}
}

// reverseOp records the primal value the adjoint step observes.
func reverseOp(s *lcgState, got *[]uint64) revolver.OperatorFunc {
	return func(_ context.Context, tStart, tEnd int) error {
		if tEnd != s.T {
			return fmt.Errorf("reverse at %d but state is at %d", tEnd, s.T)
		}
		*got = append(*got, s.Y)
		return nil
	}
}

// bruteForce computes the primal values the reverse sweep must
// observe: the state after step t, for t = steps-1 down to 0.
func bruteForce(seed uint64, steps int) []uint64 {
	traj := make([]uint64, steps+1)
	traj[0] = seed
	y := seed
	for t := 0; t < steps; t++ {
		y = y*lcgMult + uint64(t)
		traj[t+1] = y
	}
	out := make([]uint64, 0, steps)
	for t := steps - 1; t >= 0; t-- {
		out = append(out, traj[t+1])
	}
	return out
}

func TestRunMatchesBruteForce(t *testing.T) {
	const steps = 33
	state := &lcgState{Y: 42}
	var got []uint64

	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), steps)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, bruteForce(42, steps), got)
	assert.Equal(t, revolve.Numforw(steps, r.Snaps()), r.Scheduler().Advances())
}

func TestRunAcrossBudgets(t *testing.T) {
	for _, snaps := range []int{2, 3, 4, 6} {
		for _, steps := range []int{5, 10, 25, 64} {
			state := &lcgState{Y: 7}
			var got []uint64
			r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), steps,
				revolver.WithSnaps(snaps))
			require.NoError(t, err)
			require.NoError(t, r.Run(context.Background()), "steps=%d snaps=%d", steps, snaps)
			require.Equal(t, bruteForce(7, steps), got, "steps=%d snaps=%d", steps, snaps)
		}
	}
}

func TestRunWithSQLiteStore(t *testing.T) {
	const steps, snaps = 20, 3
	store, err := storage.NewSQLiteStore(":memory:", snaps)
	require.NoError(t, err)

	state := &lcgState{Y: 1}
	var got []uint64
	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), steps,
		revolver.WithSnaps(snaps), revolver.WithStore(store))
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, bruteForce(1, steps), got)
}

func TestRunWithCompressedStore(t *testing.T) {
	const steps, snaps = 20, 3
	store, err := storage.NewCompressedStore(storage.NewMemoryStore(snaps), zstd.SpeedFastest)
	require.NoError(t, err)

	state := &lcgState{Y: 9}
	var got []uint64
	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), steps,
		revolver.WithSnaps(snaps), revolver.WithStore(store))
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, bruteForce(9, steps), got)
}

func TestApplyForwardThenReverse(t *testing.T) {
	const steps = 16
	state := &lcgState{Y: 3}
	var got []uint64
	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), steps,
		revolver.WithSnaps(3))
	require.NoError(t, err)

	require.NoError(t, r.ApplyForward(context.Background()))
	// The first combined forward+adjoint step has run.
	require.Len(t, got, 1)

	require.NoError(t, r.ApplyReverse(context.Background()))
	assert.Equal(t, bruteForce(3, steps), got)
}

func TestConstructionErrors(t *testing.T) {
	state := &lcgState{}
	fwd := forwardOp(state)
	var got []uint64
	rev := reverseOp(state, &got)

	_, err := revolver.New(state, fwd, rev, 0)
	assert.ErrorIs(t, err, revolver.ErrTooFewSteps)

	_, err = revolver.New(nil, fwd, rev, 10)
	assert.ErrorIs(t, err, revolver.ErrNilState)

	_, err = revolver.New(state, nil, rev, 10)
	assert.ErrorIs(t, err, revolver.ErrNilOperator)

	_, err = revolver.New(state, fwd, nil, 10)
	assert.ErrorIs(t, err, revolver.ErrNilOperator)

	_, err = revolver.New(state, fwd, rev, 10,
		revolver.WithSnaps(4), revolver.WithStore(storage.NewMemoryStore(2)))
	assert.ErrorIs(t, err, revolver.ErrStoreTooSmall)
}

func TestDefaultSnapsUsesAdjust(t *testing.T) {
	state := &lcgState{}
	var got []uint64
	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), 100)
	require.NoError(t, err)
	assert.Equal(t, revolve.Adjust(100), r.Snaps())
	assert.NotEmpty(t, r.RunID())
}

func TestOperatorErrorPropagates(t *testing.T) {
	state := &lcgState{}
	boom := errors.New("operator blew up")
	failing := revolver.OperatorFunc(func(_ context.Context, tStart, tEnd int) error {
		if tEnd > 4 {
			return boom
		}
		return forwardOp(state)(context.Background(), tStart, tEnd)
	})
	var got []uint64
	r, err := revolver.New(state, failing, reverseOp(state, &got), 20, revolver.WithSnaps(3))
	require.NoError(t, err)
	assert.ErrorIs(t, r.Run(context.Background()), boom)
}

func TestRunHonorsCancellation(t *testing.T) {
	state := &lcgState{}
	var got []uint64
	r, err := revolver.New(state, forwardOp(state), reverseOp(state, &got), 20, revolver.WithSnaps(3))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}
