// Package observability provides structured logging, metrics, and
// tracing for revolve schedulers and drivers.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds scheduler context to a logger.
// Returns a new logger with run_id and snaps fields.
func EnrichLogger(logger *slog.Logger, runID string, snaps int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("snaps", snaps),
	)
}

// LogRunStart logs the start of an adjoint run.
func LogRunStart(logger *slog.Logger, runID string, steps, snaps int) {
	if logger == nil {
		return
	}
	logger.Info("adjoint run starting",
		slog.String("run_id", runID),
		slog.Int("steps", steps),
		slog.Int("snaps", snaps),
	)
}

// LogRunComplete logs successful completion of an adjoint run.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, advances, takeshots int) {
	if logger == nil {
		return
	}
	logger.Info("adjoint run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("advances", advances),
		slog.Int("takeshots", takeshots),
	)
}

// LogRunError logs an adjoint run failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("adjoint run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogAction logs a single scheduler decision.
func LogAction(logger *slog.Logger, runID, action string, check, capo, fine int) {
	if logger == nil {
		return
	}
	logger.Debug("scheduler action",
		slog.String("run_id", runID),
		slog.String("action", action),
		slog.Int("check", check),
		slog.Int("capo", capo),
		slog.Int("fine", fine),
	)
}

// LogHandoff logs a strategy transition inside the scheduler ladder.
func LogHandoff(logger *slog.Logger, runID, from, to string, capo int) {
	if logger == nil {
		return
	}
	logger.Info("scheduler handoff",
		slog.String("run_id", runID),
		slog.String("from", from),
		slog.String("to", to),
		slog.Int("capo", capo),
	)
}

// LogSnapshot logs a snapshot save.
func LogSnapshot(logger *slog.Logger, runID string, slot, step, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot saved",
		slog.String("run_id", runID),
		slog.Int("slot", slot),
		slog.Int("step", step),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogSnapshotError logs a snapshot storage failure.
func LogSnapshotError(logger *slog.Logger, runID string, slot int, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot operation failed",
		slog.String("run_id", runID),
		slog.Int("slot", slot),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
