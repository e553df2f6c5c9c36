package revolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// maxSchedulerCalls bounds test drive loops; every valid schedule
// terminates well below this.
const maxSchedulerCalls = 2_000_000

// hostRun replays a schedule the way a host simulation would: it
// tracks the simulated position, the slot contents, and the reverse
// sweep, failing the test on any protocol violation.
type hostRun struct {
	slots     map[int]int
	pos       int
	advances  int
	takeshots int
	restores  int
	reversed  []int
	sawFirst  bool
}

// drive pushes a scheduler to terminate, checking the host-facing
// contract at every action.
func drive(t *testing.T, r *Revolve) *hostRun {
	t.Helper()
	h := &hostRun{slots: make(map[int]int)}
	for i := 0; i < maxSchedulerCalls; i++ {
		switch a := r.Step(); a {
		case ActionAdvance:
			require.Equal(t, h.pos, r.OldCapo(), "advance must start at the simulated position")
			require.Greater(t, r.Capo(), r.OldCapo(), "advance must move forward")
			h.advances += r.Capo() - r.OldCapo()
			h.pos = r.Capo()
		case ActionTakeshot:
			require.Equal(t, h.pos, r.Capo(), "takeshot must snapshot the simulated position")
			require.GreaterOrEqual(t, r.Check(), 0)
			require.Less(t, r.Check(), r.Snaps())
			h.slots[r.Check()] = r.Capo()
			h.takeshots++
		case ActionRestore:
			step, ok := h.slots[r.Check()]
			require.True(t, ok, "restore of slot %d that was never written", r.Check())
			require.Equal(t, step, r.Capo(), "restore must land on the stored step")
			h.pos = step
			h.restores++
		case ActionFirsturn:
			require.False(t, h.sawFirst, "firsturn must occur exactly once")
			require.Equal(t, h.pos, r.OldFine())
			h.sawFirst = true
			h.reversed = append(h.reversed, r.OldFine())
		case ActionYouturn:
			require.True(t, h.sawFirst, "youturn before firsturn")
			require.Equal(t, h.pos, r.OldFine())
			h.reversed = append(h.reversed, r.OldFine())
		case ActionTerminate:
			require.Equal(t, -1, r.Check(), "terminate requires check == -1")
			require.Equal(t, r.Fine(), r.Capo(), "terminate requires capo == fine")
			require.NoError(t, r.Err())
			return h
		case ActionError:
			t.Fatalf("scheduler error: info=%d err=%v", r.Info(), r.Err())
		default:
			t.Fatalf("unknown action %v", a)
		}
	}
	t.Fatal("schedule did not terminate")
	return nil
}

// driveOnline replays an online schedule: forward until the host
// reaches step final-1, then Turn and the reverse sweep.
func driveOnline(t *testing.T, r *Revolve, final int) *hostRun {
	t.Helper()
	h := &hostRun{slots: make(map[int]int)}
	for i := 0; i < maxSchedulerCalls; i++ {
		switch a := r.Step(); a {
		case ActionAdvance:
			if r.Capo() >= final-1 {
				// The host hits its last step mid-advance; the
				// scheduler's target is abandoned.
				h.pos = final - 1
				r.Turn(final)
				return h.reverse(t, r)
			}
			h.pos = r.Capo()
		case ActionTakeshot:
			// The heuristic tail folds one forward step into each
			// takeshot; every other strategy snapshots in place.
			require.GreaterOrEqual(t, r.Capo(), h.pos)
			require.LessOrEqual(t, r.Capo()-h.pos, 1)
			h.pos = r.Capo()
			h.slots[r.Check()] = r.Capo()
			h.takeshots++
		case ActionError:
			t.Fatalf("online scheduler error: info=%d err=%v", r.Info(), r.Err())
		default:
			t.Fatalf("unexpected %v during online forward sweep", a)
		}
	}
	t.Fatal("online forward sweep did not reach the final step")
	return nil
}

// reverse continues a turned schedule to terminate.
func (h *hostRun) reverse(t *testing.T, r *Revolve) *hostRun {
	t.Helper()
	for i := 0; i < maxSchedulerCalls; i++ {
		switch a := r.Step(); a {
		case ActionAdvance:
			require.Greater(t, r.Capo(), r.OldCapo())
			h.pos = r.Capo()
		case ActionTakeshot:
			require.Equal(t, h.pos, r.Capo())
			h.slots[r.Check()] = r.Capo()
			h.takeshots++
		case ActionRestore:
			step, ok := h.slots[r.Check()]
			require.True(t, ok, "restore of slot %d that was never written", r.Check())
			require.Equal(t, step, r.Capo())
			h.pos = step
			h.restores++
		case ActionFirsturn:
			require.False(t, h.sawFirst)
			h.sawFirst = true
			h.reversed = append(h.reversed, r.OldFine())
		case ActionYouturn:
			require.True(t, h.sawFirst)
			h.reversed = append(h.reversed, r.OldFine())
		case ActionTerminate:
			require.Equal(t, -1, r.Check())
			return h
		case ActionError:
			t.Fatalf("reverse sweep error: info=%d err=%v", r.Info(), r.Err())
		}
	}
	t.Fatal("reverse sweep did not terminate")
	return nil
}

// descending returns final-1, final-2, ..., 0: the step order a
// complete reverse sweep must produce.
func descending(final int) []int {
	out := make([]int, final)
	for i := range out {
		out[i] = final - 1 - i
	}
	return out
}
