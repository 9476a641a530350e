package ingest

import "time"

// WorkItem is one entry of the enrichment worklist: a known entity whose
// latest snapshot is missing the detail-only fields.
type WorkItem struct {
	// ID is the warehouse row id of the latest snapshot (0 for items that
	// have no snapshot yet).
	ID int64 `json:"id"`

	// DisplayName is a human-readable label used in progress logs.
	DisplayName string `json:"display_name"`

	// ExternalID is the stable business key in the source system.
	ExternalID string `json:"external_id"`
}

// Item actions describe the outcome of processing one work item.
const (
	// ActionCreated means a first snapshot was written for the entity.
	ActionCreated = "created"
	// ActionUpdated means a new snapshot was written over a prior one.
	ActionUpdated = "updated"
	// ActionSkipped means the fetched payload hashed identically to the
	// latest stored snapshot, so no new snapshot was written.
	ActionSkipped = "skipped"
	// ActionError means the item failed; Message carries the reason.
	ActionError = "error"
	// ActionWouldCreate / ActionWouldUpdate are the dry-run counterparts of
	// created/updated: counters move, nothing is persisted.
	ActionWouldCreate = "would_create"
	ActionWouldUpdate = "would_update"
)

// ItemResult is the per-item outcome record collected by the scheduler.
type ItemResult struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Action     string `json:"action"`
	Message    string `json:"message,omitempty"`
}

// Run statuses form the run lifecycle state machine. A run starts pending,
// moves to running when its row is persisted, and ends in exactly one of the
// four terminal states. No transition is reversible.
const (
	StatusPending             = "pending"
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
	StatusInterrupted         = "interrupted"
)

// Stats aggregates item results. All fields are associative counts, so the
// totals are independent of completion order.
type Stats struct {
	Processed   int `json:"processed"`
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	WouldCreate int `json:"would_create,omitempty"`
	WouldUpdate int `json:"would_update,omitempty"`

	// Errors holds a capped sample of item-level failure messages.
	Errors []string `json:"errors,omitempty"`
}

// maxErrorSample caps the number of failure messages kept in Stats.Errors.
const maxErrorSample = 5

// Add folds one item result into the stats.
func (s *Stats) Add(r ItemResult) {
	s.Processed++
	switch r.Action {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	case ActionWouldCreate:
		s.WouldCreate++
	case ActionWouldUpdate:
		s.WouldUpdate++
	case ActionError:
		s.Failed++
		if len(s.Errors) < maxErrorSample {
			s.Errors = append(s.Errors, r.ExternalID+": "+r.Message)
		}
	}
}

// Options controls one synchronization run. The values are fixed for the
// lifetime of the run; the admission gate is never resized mid-run.
type Options struct {
	// FullSync ignores the last-run timestamp and rebuilds the whole worklist.
	FullSync bool

	// DryRun suppresses every persistence call while still exercising the
	// remote fetches, so the reported statistics match a live run.
	DryRun bool

	// Workers is the admission gate capacity: the maximum number of items
	// admitted into the pipeline at any instant.
	Workers int

	// PoolSize is the number of background workers performing the blocking
	// remote calls. Effective concurrency is min(Workers, PoolSize).
	PoolSize int

	// Delay is slept by a worker before each remote call. This is cooperative
	// self-throttling, independent of server-side rate limiting.
	Delay time.Duration

	// ProgressEvery logs progress and an ETA after this many completions.
	ProgressEvery int
}

// normalized returns a copy of the options with sane floors applied.
func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.PoolSize <= 0 {
		o.PoolSize = 4
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = 50
	}
	return o
}

// RunMetadata is serialized into the metadata column of the run row.
type RunMetadata struct {
	Workers       int   `json:"workers"`
	PoolSize      int   `json:"pool_size"`
	DelayMs       int64 `json:"delay_ms"`
	ProgressEvery int   `json:"progress_every"`
	DryRun        bool  `json:"dry_run"`
	FullSync      bool  `json:"full_sync"`
}

// Metadata derives the persisted run metadata from the options.
func (o Options) Metadata() RunMetadata {
	return RunMetadata{
		Workers:       o.Workers,
		PoolSize:      o.PoolSize,
		DelayMs:       o.Delay.Milliseconds(),
		ProgressEvery: o.ProgressEvery,
		DryRun:        o.DryRun,
		FullSync:      o.FullSync,
	}
}

// RunCompletion carries the final counters written when a run reaches a
// terminal state.
type RunCompletion struct {
	Status       string
	Processed    int
	Created      int
	Updated      int
	ErrorMessage string
}

// Summary is the orchestrator's return value: one run, fully accounted for.
type Summary struct {
	RunID      string        `json:"run_id"`
	EntityType string        `json:"entity_type"`
	Status     string        `json:"status"`
	Stats      Stats         `json:"stats"`
	Duration   time.Duration `json:"duration"`
}
