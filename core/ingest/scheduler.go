package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"golang.org/x/sync/semaphore"
)

// ItemFunc processes one work item. The returned ItemResult always describes
// the item's outcome; a failure that should stay confined to the item is
// reported as ActionError inside the result, never as the error return. A
// non-nil error is fatal to the whole run (persistence failures, machinery
// breakage) and stops further dispatch.
type ItemFunc func(ctx context.Context, item WorkItem) (ItemResult, error)

// Scheduler runs many blocking item operations in parallel, bounded by the
// admission gate capacity from Options.Workers and executed on a pool of
// Options.PoolSize background workers. Items are admitted in input order but
// may complete in any order.
type Scheduler struct {
	opts   Options
	logger *zap.Logger
}

// NewScheduler creates a scheduler with the given options. The gate capacity
// and pool size are fixed for every Run performed by this scheduler.
func NewScheduler(opts Options, logger *zap.Logger) *Scheduler {
	return &Scheduler{opts: opts.normalized(), logger: logger}
}

// outcome pairs an item result with an optional fatal error.
type outcome struct {
	result ItemResult
	err    error
}

// Run executes op for every item and collects the results. Progress (with
// throughput and ETA) is logged every ProgressEvery completions.
//
// On a fatal error from op, dispatch stops, in-flight items drain, and the
// first fatal error is returned with the results gathered so far. On external
// cancellation the dispatcher stops admitting items, queued items are
// abandoned uncounted, and ctx.Err() is returned after the in-flight items
// settle; results already collected are kept.
func (s *Scheduler) Run(ctx context.Context, items []WorkItem, op ItemFunc) ([]ItemResult, error) {
	total := len(items)
	if total == 0 {
		return nil, ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gate := semaphore.NewWeighted(int64(s.opts.Workers))
	queue := make(chan WorkItem)
	outcomes := make(chan outcome, total)

	// Worker pool: each worker self-throttles with the configured delay
	// before performing the blocking call, then gives its gate slot back.
	var wg sync.WaitGroup
	for i := 0; i < s.opts.PoolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				if s.opts.Delay > 0 {
					select {
					case <-time.After(s.opts.Delay):
					case <-runCtx.Done():
						// Admitted but not started; abandon uncounted.
						gate.Release(1)
						continue
					}
				}
				result, err := op(runCtx, item)
				gate.Release(1)
				outcomes <- outcome{result: result, err: err}
			}
		}()
	}

	// Dispatcher: admits items in input order through the gate.
	go func() {
		defer close(queue)
		for _, item := range items {
			if err := gate.Acquire(runCtx, 1); err != nil {
				return
			}
			select {
			case queue <- item:
			case <-runCtx.Done():
				gate.Release(1)
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var (
		results   = make([]ItemResult, 0, total)
		fatal     error
		completed int
		started   = time.Now()
	)
	for oc := range outcomes {
		if oc.err != nil {
			if fatal == nil {
				fatal = oc.err
				cancel()
			}
			continue
		}
		results = append(results, oc.result)
		completed++
		if completed%s.opts.ProgressEvery == 0 && completed < total {
			s.logProgress(completed, total, time.Since(started))
		}
	}

	// External cancellation outranks a fatal error observed on the way down.
	if err := ctx.Err(); err != nil {
		return results, err
	}
	if fatal != nil {
		return results, fatal
	}
	return results, nil
}

// logProgress reports completion, throughput and a magnitude-formatted ETA.
func (s *Scheduler) logProgress(completed, total int, elapsed time.Duration) {
	throughput := float64(completed) / elapsed.Seconds()
	var eta time.Duration
	if throughput > 0 {
		eta = time.Duration(float64(total-completed) / throughput * float64(time.Second))
	}
	s.logger.Info("Enrichment progress",
		zap.Int("completed", completed),
		zap.Int("total", total),
		zap.Float64("items_per_second", throughput),
		zap.String("eta", FormatETA(eta)),
	)
}

// FormatETA renders a duration as seconds, minutes or hours by magnitude.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Round(time.Second).Seconds()))
	case d < time.Hour:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		d = d.Round(time.Minute)
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
