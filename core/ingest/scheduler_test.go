package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func makeItems(n int) []WorkItem {
	items := make([]WorkItem, n)
	for i := range items {
		items[i] = WorkItem{ID: int64(i + 1), ExternalID: fmt.Sprintf("ext-%d", i+1)}
	}
	return items
}

func TestScheduler_BoundedConcurrency(t *testing.T) {
	const workers = 3

	var inFlight, highWater int64
	op := func(ctx context.Context, item WorkItem) (ItemResult, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		// Track the high-water mark of simultaneous calls.
		for {
			hw := atomic.LoadInt64(&highWater)
			if cur <= hw || atomic.CompareAndSwapInt64(&highWater, hw, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionSkipped}, nil
	}

	s := NewScheduler(Options{Workers: workers, PoolSize: 8}, zap.NewNop())
	results, err := s.Run(context.Background(), makeItems(30), op)

	assert.NoError(t, err)
	assert.Len(t, results, 30)
	assert.LessOrEqual(t, atomic.LoadInt64(&highWater), int64(workers))
}

func TestScheduler_PoolCapsConcurrency(t *testing.T) {
	// A pool smaller than the gate is the effective bound.
	var inFlight, highWater int64
	op := func(ctx context.Context, item WorkItem) (ItemResult, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			hw := atomic.LoadInt64(&highWater)
			if cur <= hw || atomic.CompareAndSwapInt64(&highWater, hw, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return ItemResult{ID: item.ID, Action: ActionSkipped}, nil
	}

	s := NewScheduler(Options{Workers: 10, PoolSize: 2}, zap.NewNop())
	results, err := s.Run(context.Background(), makeItems(12), op)

	assert.NoError(t, err)
	assert.Len(t, results, 12)
	assert.LessOrEqual(t, atomic.LoadInt64(&highWater), int64(2))
}

func TestScheduler_ErrorIsolation(t *testing.T) {
	// Item 5 fails; items 1-4 and 6-10 must still complete.
	op := func(ctx context.Context, item WorkItem) (ItemResult, error) {
		if item.ID == 5 {
			return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionError, Message: "boom"}, nil
		}
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionCreated}, nil
	}

	s := NewScheduler(Options{Workers: 4, PoolSize: 4}, zap.NewNop())
	results, err := s.Run(context.Background(), makeItems(10), op)

	assert.NoError(t, err)
	assert.Len(t, results, 10)

	var stats Stats
	for _, r := range results {
		stats.Add(r)
	}
	assert.Equal(t, 10, stats.Processed)
	assert.Equal(t, 9, stats.Created)
	assert.Equal(t, 1, stats.Failed)
	assert.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "boom")
}

func TestScheduler_FatalStopsDispatch(t *testing.T) {
	fatal := errors.New("store write failed")

	var calls int64
	op := func(ctx context.Context, item WorkItem) (ItemResult, error) {
		n := atomic.AddInt64(&calls, 1)
		if n == 3 {
			return ItemResult{}, fatal
		}
		time.Sleep(time.Millisecond)
		return ItemResult{ID: item.ID, Action: ActionCreated}, nil
	}

	s := NewScheduler(Options{Workers: 2, PoolSize: 2}, zap.NewNop())
	results, err := s.Run(context.Background(), makeItems(50), op)

	assert.ErrorIs(t, err, fatal)
	// Dispatch stopped well before the full batch.
	assert.Less(t, len(results), 50)
}

func TestScheduler_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var completed int64
	var once sync.Once
	op := func(ctx context.Context, item WorkItem) (ItemResult, error) {
		if item.ID > 5 {
			once.Do(cancel)
			if ctx.Err() != nil {
				return ItemResult{}, ctx.Err()
			}
		}
		atomic.AddInt64(&completed, 1)
		return ItemResult{ID: item.ID, Action: ActionSkipped}, nil
	}

	s := NewScheduler(Options{Workers: 1, PoolSize: 1}, zap.NewNop())
	results, err := s.Run(ctx, makeItems(100), op)

	assert.ErrorIs(t, err, context.Canceled)
	// Items completed before the signal keep their results.
	assert.Equal(t, int(atomic.LoadInt64(&completed)), len(results))
	assert.Less(t, len(results), 100)
}

func TestScheduler_DelayThrottles(t *testing.T) {
	const delay = 20 * time.Millisecond

	s := NewScheduler(Options{Workers: 1, PoolSize: 1, Delay: delay}, zap.NewNop())
	started := time.Now()
	results, err := s.Run(context.Background(), makeItems(3), func(ctx context.Context, item WorkItem) (ItemResult, error) {
		return ItemResult{ID: item.ID, Action: ActionSkipped}, nil
	})

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.GreaterOrEqual(t, time.Since(started), 3*delay)
}

func TestScheduler_EmptyWorklist(t *testing.T) {
	s := NewScheduler(Options{Workers: 2, PoolSize: 2}, zap.NewNop())
	results, err := s.Run(context.Background(), nil, func(ctx context.Context, item WorkItem) (ItemResult, error) {
		t.Fatal("op must not be called for an empty worklist")
		return ItemResult{}, nil
	})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{59*time.Minute + 59*time.Second, "59m59s"},
		{2*time.Hour + 5*time.Minute, "2h05m"},
		{-time.Second, "0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatETA(tt.in), "input %s", tt.in)
	}
}
