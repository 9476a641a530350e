package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunFinalized is returned when a terminal transition is attempted on a
// run that already reached a terminal state.
var ErrRunFinalized = errors.New("ingest: run already finalized")

// ErrRunNotStarted is returned when a terminal transition is attempted before
// Begin.
var ErrRunNotStarted = errors.New("ingest: run not started")

// RunTracker records the lifecycle of one synchronization pass as a persisted
// state machine: pending until Begin, running once the row is persisted, then
// exactly one of completed, completed_with_errors, failed or interrupted.
//
// In dry-run mode the tracker keeps the same state machine in memory and logs
// the would-be rows, but never touches the store.
type RunTracker struct {
	runs   RunStore
	logger *zap.Logger
	dryRun bool

	runID        string
	entityType   string
	sourceSystem string
	status       string
	startedAt    time.Time
}

// NewRunTracker creates a tracker in the pending state.
func NewRunTracker(runs RunStore, logger *zap.Logger, dryRun bool) *RunTracker {
	return &RunTracker{
		runs:   runs,
		logger: logger,
		dryRun: dryRun,
		status: StatusPending,
	}
}

// RunID returns the run id minted by Begin. Empty before Begin.
func (t *RunTracker) RunID() string {
	return t.runID
}

// Status returns the tracker's current lifecycle state.
func (t *RunTracker) Status() string {
	return t.status
}

// Begin transitions pending -> running, persisting the run row with its start
// time and metadata. In dry-run mode a run id is still minted so downstream
// logging stays correlated, but nothing is written.
func (t *RunTracker) Begin(ctx context.Context, entityType, sourceSystem string, meta RunMetadata) (string, error) {
	if t.status != StatusPending {
		return "", ErrRunFinalized
	}

	t.entityType = entityType
	t.sourceSystem = sourceSystem
	t.startedAt = time.Now()

	if t.dryRun {
		t.runID = uuid.NewString()
		t.logger.Info("Dry-run: would create run row",
			zap.String("run_id", t.runID),
			zap.String("entity_type", entityType),
			zap.String("source_system", sourceSystem),
		)
	} else {
		runID, err := t.runs.CreateRun(ctx, entityType, sourceSystem, meta)
		if err != nil {
			return "", err
		}
		t.runID = runID
	}

	t.status = StatusRunning
	return t.runID, nil
}

// Complete finalizes the run with zero item-level errors.
func (t *RunTracker) Complete(ctx context.Context, stats Stats) error {
	return t.finalize(ctx, StatusCompleted, stats, "")
}

// CompleteWithErrors finalizes a run that finished despite item-level errors.
func (t *RunTracker) CompleteWithErrors(ctx context.Context, stats Stats) error {
	return t.finalize(ctx, StatusCompletedWithErrors, stats, "")
}

// Fail finalizes the run after a fatal error.
func (t *RunTracker) Fail(ctx context.Context, stats Stats, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return t.finalize(ctx, StatusFailed, stats, msg)
}

// Interrupt finalizes the run after an external cancellation signal.
func (t *RunTracker) Interrupt(ctx context.Context, stats Stats) error {
	return t.finalize(ctx, StatusInterrupted, stats, "interrupted by signal")
}

// finalize performs the single allowed terminal transition: status, completion
// time and final counters land in one update.
func (t *RunTracker) finalize(ctx context.Context, status string, stats Stats, errorMessage string) error {
	switch t.status {
	case StatusPending:
		return ErrRunNotStarted
	case StatusRunning:
		// The only state a terminal transition is allowed from.
	default:
		return ErrRunFinalized
	}

	if t.dryRun {
		t.logger.Info("Dry-run: would finalize run row",
			zap.String("run_id", t.runID),
			zap.String("status", status),
			zap.Int("processed", stats.Processed),
			zap.Int("created", stats.Created),
			zap.Int("updated", stats.Updated),
			zap.Int("failed", stats.Failed),
		)
		t.status = status
		return nil
	}

	fin := RunCompletion{
		Status:       status,
		Processed:    stats.Processed,
		Created:      stats.Created,
		Updated:      stats.Updated,
		ErrorMessage: errorMessage,
	}
	if err := t.runs.CompleteRun(ctx, t.runID, fin); err != nil {
		return err
	}
	t.status = status
	return nil
}
