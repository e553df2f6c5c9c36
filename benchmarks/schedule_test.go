package benchmarks

import (
	"testing"

	"github.com/devitocodes/gorevolve/pkg/revolve"
)

// driveToTerminate pushes a scheduler through a complete schedule.
func driveToTerminate(b *testing.B, r *revolve.Revolve) {
	for {
		switch r.Step() {
		case revolve.ActionTerminate:
			return
		case revolve.ActionError:
			b.Fatalf("scheduler error: %v", r.Err())
		}
	}
}

// BenchmarkOfflineSchedule measures a complete offline schedule.
func BenchmarkOfflineSchedule(b *testing.B) {
	for i := 0; i < b.N; i++ {
		driveToTerminate(b, revolve.NewOffline(1000, 10))
	}
}

// BenchmarkOfflineScheduleSmall measures a small schedule, where
// per-Step overhead dominates.
func BenchmarkOfflineScheduleSmall(b *testing.B) {
	for i := 0; i < b.N; i++ {
		driveToTerminate(b, revolve.NewOffline(50, 4))
	}
}

// BenchmarkOnlineLadder measures an online forward sweep through all
// three strategies plus the reverse sweep.
func BenchmarkOnlineLadder(b *testing.B) {
	const snaps = 6
	const final = 2 * (snaps + 3) * (snaps + 2) * (snaps + 1) / 6
	for i := 0; i < b.N; i++ {
		r := revolve.NewOnline(snaps)
		for {
			a := r.Step()
			if a == revolve.ActionAdvance && r.Capo() >= final-1 {
				break
			}
			if a == revolve.ActionError {
				b.Fatalf("scheduler error: %v", r.Err())
			}
		}
		r.Turn(final)
		driveToTerminate(b, r)
	}
}

// BenchmarkNumforw measures the forward-step prediction.
func BenchmarkNumforw(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = revolve.Numforw(100000, 30)
	}
}

// BenchmarkWritePrediction measures the multi-stage write-count
// formula.
func BenchmarkWritePrediction(b *testing.B) {
	for i := 0; i < b.N; i++ {
		for slot := 0; slot < 10; slot++ {
			_ = revolve.NumWritesPredicted(280, 10, slot)
		}
	}
}
