package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Orchestrator composes one synchronization run: determine the worklist, open
// the run, discover shallow changes, dispatch the scheduler over the worklist,
// and close the run with final statistics.
type Orchestrator struct {
	store        Store
	runs         RunStore
	source       Source
	adapter      Adapter
	sourceSystem string
	opts         Options
	logger       *zap.Logger
}

// NewOrchestrator wires a run for one entity type. The options are fixed for
// every run started from this orchestrator.
func NewOrchestrator(store Store, runs RunStore, src Source, adapter Adapter, sourceSystem string, opts Options, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		runs:         runs,
		source:       src,
		adapter:      adapter,
		sourceSystem: sourceSystem,
		opts:         opts.normalized(),
		logger:       logger,
	}
}

// Sync performs one full synchronization run.
//
// Item-level failures are recorded and counted but never interrupt sibling
// work; the run then closes as completed_with_errors. A fatal error (store
// failure, machinery breakage) aborts remaining dispatch, closes the run as
// failed and is returned after the run row is safely finalized. External
// cancellation closes the run as interrupted and returns the cancellation
// error after bookkeeping. The Summary is returned in every case so callers
// can report the capped error sample regardless of outcome.
func (o *Orchestrator) Sync(ctx context.Context) (*Summary, error) {
	started := time.Now()
	entityType := o.adapter.EntityType()

	log := o.logger.With(
		zap.String("entity_type", entityType),
		zap.String("source_system", o.sourceSystem),
	)

	// Incremental runs anchor on the start of the last successful run.
	var since *time.Time
	if !o.opts.FullSync {
		last, err := o.runs.LastCompletedRun(ctx, entityType, o.sourceSystem)
		if err != nil {
			return nil, fmt.Errorf("loading last completed run: %w", err)
		}
		since = last
	}

	tracker := NewRunTracker(o.runs, log, o.opts.DryRun)
	runID, err := tracker.Begin(ctx, entityType, o.sourceSystem, o.opts.Metadata())
	if err != nil {
		return nil, fmt.Errorf("opening run: %w", err)
	}
	log = log.With(zap.String("run_id", runID))
	log.Info("Sync run started",
		zap.Bool("full_sync", o.opts.FullSync),
		zap.Bool("dry_run", o.opts.DryRun),
		zap.Int("workers", o.opts.Workers),
		zap.Int("pool_size", o.opts.PoolSize),
	)

	var stats Stats

	// Shallow pass first: page through the list endpoint and append snapshots
	// for unseen records or basic-hash drift. Sequential; the client's own
	// rate limiting is the only throttle here.
	if err := o.discover(ctx, runID, since, &stats, log); err != nil {
		return o.close(ctx, tracker, entityType, started, stats, err, log)
	}

	items, err := o.store.EntitiesNeedingEnrichment(ctx, WorklistQuery{
		EntityType:   entityType,
		SourceSystem: o.sourceSystem,
		FullSync:     o.opts.FullSync,
		Since:        since,
		Probe: func(payload map[string]any, enrichedAt *time.Time) bool {
			return NeedsEnrichment(payload, enrichedAt, o.adapter.Probe())
		},
		DisplayName: o.adapter.DisplayName,
	})
	if err != nil {
		return o.close(ctx, tracker, entityType, started, stats, fmt.Errorf("building worklist: %w", err), log)
	}
	log.Info("Worklist determined", zap.Int("items", len(items)))

	scheduler := NewScheduler(o.opts, log)
	results, fatal := scheduler.Run(ctx, items, func(ctx context.Context, item WorkItem) (ItemResult, error) {
		return o.enrichOne(ctx, runID, item)
	})
	for _, r := range results {
		stats.Add(r)
	}

	return o.close(ctx, tracker, entityType, started, stats, fatal, log)
}

// close finalizes the run row and builds the summary. The terminal state
// depends on how the run ended: cancellation -> interrupted, fatal -> failed,
// item-level errors -> completed_with_errors, otherwise completed.
func (o *Orchestrator) close(ctx context.Context, tracker *RunTracker, entityType string, started time.Time, stats Stats, fatal error, log *zap.Logger) (*Summary, error) {
	// Bookkeeping must survive the canceled context.
	finCtx := context.WithoutCancel(ctx)

	var finErr error
	switch {
	case fatal != nil && (errors.Is(fatal, context.Canceled) || errors.Is(fatal, context.DeadlineExceeded)):
		finErr = tracker.Interrupt(finCtx, stats)
	case fatal != nil:
		finErr = tracker.Fail(finCtx, stats, fatal)
	case stats.Failed > 0:
		finErr = tracker.CompleteWithErrors(finCtx, stats)
	default:
		finErr = tracker.Complete(finCtx, stats)
	}
	if finErr != nil {
		log.Error("Failed to finalize run row", zap.Error(finErr))
		if fatal == nil {
			fatal = finErr
		}
	}

	summary := &Summary{
		RunID:      tracker.RunID(),
		EntityType: entityType,
		Status:     tracker.Status(),
		Stats:      stats,
		Duration:   time.Since(started),
	}
	log.Info("Sync run finished",
		zap.String("status", summary.Status),
		zap.Int("processed", stats.Processed),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", summary.Duration),
	)
	return summary, fatal
}

// discover pages through the source's list endpoint and appends a shallow
// snapshot for every unseen record or basic-hash drift. Unchanged summaries
// are hash-skipped, which keeps re-runs idempotent. Discovery counts created
// and updated snapshots but not Processed; Processed reflects the worklist.
func (o *Orchestrator) discover(ctx context.Context, runID string, since *time.Time, stats *Stats, log *zap.Logger) error {
	entityType := o.adapter.EntityType()
	basicFields := o.adapter.BasicFields()

	seen := 0
	for page := 1; ; page++ {
		records, err := o.source.Search(ctx, SearchQuery{UpdatedSince: since, Page: page})
		if err != nil {
			return fmt.Errorf("discovery search failed: %w", err)
		}
		if len(records) == 0 {
			break
		}
		seen += len(records)

		for _, rec := range records {
			hash := Fingerprint(rec.Fields, basicFields)

			latest, err := o.store.LatestSnapshot(ctx, entityType, o.sourceSystem, rec.ExternalID)
			if err != nil {
				return fmt.Errorf("loading latest snapshot for %s: %w", rec.ExternalID, err)
			}
			if latest != nil && latest.HashBasic == hash {
				continue
			}

			if o.opts.DryRun {
				if latest == nil {
					stats.WouldCreate++
				} else {
					stats.WouldUpdate++
				}
				log.Debug("Dry-run: would write shallow snapshot",
					zap.String("external_id", rec.ExternalID),
					zap.String("display_name", rec.DisplayName),
				)
				continue
			}

			snap := &Snapshot{
				EntityType:   entityType,
				SourceSystem: o.sourceSystem,
				ExternalID:   rec.ExternalID,
				Payload:      rec.Fields,
				HashBasic:    hash,
				RunID:        runID,
				IngestedAt:   time.Now(),
			}
			if _, err := o.store.InsertSnapshot(ctx, snap); err != nil {
				return fmt.Errorf("inserting shallow snapshot for %s: %w", rec.ExternalID, err)
			}
			if latest == nil {
				stats.Created++
			} else {
				stats.Updated++
			}
		}
	}
	log.Info("Discovery finished", zap.Int("records_seen", seen))
	return nil
}

// enrichOne fetches the detail payload for one work item and persists a new
// snapshot when its enriched fingerprint differs from the latest stored one.
// Remote failures and empty payloads stay item-level; store failures are
// fatal.
func (o *Orchestrator) enrichOne(ctx context.Context, runID string, item WorkItem) (ItemResult, error) {
	entityType := o.adapter.EntityType()

	payload, err := o.source.FetchDetail(ctx, item.ExternalID)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation is not the item's fault.
			return ItemResult{}, ctx.Err()
		}
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionError, Message: err.Error()}, nil
	}
	if payload == nil {
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionError, Message: "no data returned"}, nil
	}

	now := time.Now()
	snap := &Snapshot{
		EntityType:   entityType,
		SourceSystem: o.sourceSystem,
		ExternalID:   item.ExternalID,
		Payload:      payload,
		HashBasic:    Fingerprint(payload, o.adapter.BasicFields()),
		HashEnriched: Fingerprint(payload, o.adapter.EnrichedFields()),
		RunID:        runID,
		IngestedAt:   now,
		EnrichedAt:   &now,
	}

	latest, err := o.store.LatestSnapshot(ctx, entityType, o.sourceSystem, item.ExternalID)
	if err != nil {
		return ItemResult{}, fmt.Errorf("loading latest snapshot for %s: %w", item.ExternalID, err)
	}
	if latest != nil && latest.HashEnriched == snap.HashEnriched {
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionSkipped}, nil
	}

	action := ActionCreated
	if latest != nil {
		action = ActionUpdated
	}

	if o.opts.DryRun {
		o.logger.Debug("Dry-run: would write enriched snapshot",
			zap.String("external_id", item.ExternalID),
			zap.String("action", action),
			zap.String("hash", snap.HashEnriched),
		)
		if action == ActionCreated {
			return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionWouldCreate}, nil
		}
		return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: ActionWouldUpdate}, nil
	}

	if _, err := o.store.InsertSnapshot(ctx, snap); err != nil {
		return ItemResult{}, fmt.Errorf("inserting snapshot for %s: %w", item.ExternalID, err)
	}
	return ItemResult{ID: item.ID, ExternalID: item.ExternalID, Action: action}, nil
}
