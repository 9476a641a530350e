package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeRunStore is a func-field fake so each test can shape the store's
// behavior without a full mock.
type fakeRunStore struct {
	createFunc   func(ctx context.Context, entityType, sourceSystem string, meta RunMetadata) (string, error)
	completeFunc func(ctx context.Context, runID string, fin RunCompletion) error
	lastFunc     func(ctx context.Context, entityType, sourceSystem string) (*time.Time, error)

	created   []RunMetadata
	completed []RunCompletion
}

func (f *fakeRunStore) CreateRun(ctx context.Context, entityType, sourceSystem string, meta RunMetadata) (string, error) {
	f.created = append(f.created, meta)
	if f.createFunc != nil {
		return f.createFunc(ctx, entityType, sourceSystem, meta)
	}
	return "run-1", nil
}

func (f *fakeRunStore) CompleteRun(ctx context.Context, runID string, fin RunCompletion) error {
	f.completed = append(f.completed, fin)
	if f.completeFunc != nil {
		return f.completeFunc(ctx, runID, fin)
	}
	return nil
}

func (f *fakeRunStore) LastCompletedRun(ctx context.Context, entityType, sourceSystem string) (*time.Time, error) {
	if f.lastFunc != nil {
		return f.lastFunc(ctx, entityType, sourceSystem)
	}
	return nil, nil
}

func TestRunTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Complete", func(t *testing.T) {
		store := &fakeRunStore{}
		tracker := NewRunTracker(store, zap.NewNop(), false)
		assert.Equal(t, StatusPending, tracker.Status())

		runID, err := tracker.Begin(ctx, "user", "helpdesk", RunMetadata{Workers: 8})
		assert.NoError(t, err)
		assert.Equal(t, "run-1", runID)
		assert.Equal(t, StatusRunning, tracker.Status())

		err = tracker.Complete(ctx, Stats{Processed: 10, Created: 3, Updated: 2})
		assert.NoError(t, err)
		assert.Equal(t, StatusCompleted, tracker.Status())

		assert.Len(t, store.completed, 1)
		fin := store.completed[0]
		assert.Equal(t, StatusCompleted, fin.Status)
		assert.Equal(t, 10, fin.Processed)
		assert.Equal(t, 3, fin.Created)
		assert.Equal(t, 2, fin.Updated)
		assert.Empty(t, fin.ErrorMessage)
	})

	t.Run("CompleteWithErrors", func(t *testing.T) {
		store := &fakeRunStore{}
		tracker := NewRunTracker(store, zap.NewNop(), false)
		_, err := tracker.Begin(ctx, "asset", "helpdesk", RunMetadata{})
		assert.NoError(t, err)

		assert.NoError(t, tracker.CompleteWithErrors(ctx, Stats{Processed: 5, Failed: 2}))
		assert.Equal(t, StatusCompletedWithErrors, tracker.Status())
		assert.Equal(t, StatusCompletedWithErrors, store.completed[0].Status)
	})

	t.Run("Fail records the cause", func(t *testing.T) {
		store := &fakeRunStore{}
		tracker := NewRunTracker(store, zap.NewNop(), false)
		_, err := tracker.Begin(ctx, "user", "helpdesk", RunMetadata{})
		assert.NoError(t, err)

		assert.NoError(t, tracker.Fail(ctx, Stats{Processed: 1}, errors.New("insert failed")))
		assert.Equal(t, StatusFailed, tracker.Status())
		assert.Equal(t, "insert failed", store.completed[0].ErrorMessage)
	})

	t.Run("Interrupt", func(t *testing.T) {
		store := &fakeRunStore{}
		tracker := NewRunTracker(store, zap.NewNop(), false)
		_, err := tracker.Begin(ctx, "user", "helpdesk", RunMetadata{})
		assert.NoError(t, err)

		assert.NoError(t, tracker.Interrupt(ctx, Stats{Processed: 4}))
		assert.Equal(t, StatusInterrupted, tracker.Status())
		assert.Equal(t, "interrupted by signal", store.completed[0].ErrorMessage)
	})
}

func TestRunTracker_TerminalIsIrreversible(t *testing.T) {
	ctx := context.Background()
	store := &fakeRunStore{}
	tracker := NewRunTracker(store, zap.NewNop(), false)

	_, err := tracker.Begin(ctx, "user", "helpdesk", RunMetadata{})
	assert.NoError(t, err)
	assert.NoError(t, tracker.Complete(ctx, Stats{}))

	// A second terminal transition of any kind is rejected.
	assert.ErrorIs(t, tracker.Fail(ctx, Stats{}, errors.New("late")), ErrRunFinalized)
	assert.ErrorIs(t, tracker.Interrupt(ctx, Stats{}), ErrRunFinalized)
	assert.ErrorIs(t, tracker.Complete(ctx, Stats{}), ErrRunFinalized)
	assert.Len(t, store.completed, 1)

	// And Begin cannot restart a finished tracker.
	_, err = tracker.Begin(ctx, "user", "helpdesk", RunMetadata{})
	assert.ErrorIs(t, err, ErrRunFinalized)
}

func TestRunTracker_FinalizeBeforeBegin(t *testing.T) {
	tracker := NewRunTracker(&fakeRunStore{}, zap.NewNop(), false)
	assert.ErrorIs(t, tracker.Complete(context.Background(), Stats{}), ErrRunNotStarted)
}

func TestRunTracker_BeginPropagatesStoreError(t *testing.T) {
	store := &fakeRunStore{
		createFunc: func(ctx context.Context, entityType, sourceSystem string, meta RunMetadata) (string, error) {
			return "", errors.New("db down")
		},
	}
	tracker := NewRunTracker(store, zap.NewNop(), false)
	_, err := tracker.Begin(context.Background(), "user", "helpdesk", RunMetadata{})
	assert.Error(t, err)
	assert.Equal(t, StatusPending, tracker.Status())
}

func TestRunTracker_DryRunNeverTouchesStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeRunStore{
		createFunc: func(context.Context, string, string, RunMetadata) (string, error) {
			t.Fatal("CreateRun must not be called in dry-run")
			return "", nil
		},
		completeFunc: func(context.Context, string, RunCompletion) error {
			t.Fatal("CompleteRun must not be called in dry-run")
			return nil
		},
	}

	tracker := NewRunTracker(store, zap.NewNop(), true)
	runID, err := tracker.Begin(ctx, "user", "helpdesk", RunMetadata{DryRun: true})
	assert.NoError(t, err)
	// A run id is still minted so logs stay correlated.
	assert.NotEmpty(t, runID)

	assert.NoError(t, tracker.Complete(ctx, Stats{Processed: 3}))
	assert.Equal(t, StatusCompleted, tracker.Status())
}
