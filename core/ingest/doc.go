// Package ingest implements the incremental synchronization engine that keeps
// the local snapshot warehouse consistent with the rate-limited source system.
//
// The engine is built from four parts:
//
//  1. Change Detector: Fingerprint computes a deterministic content hash over
//     a fixed field set, and NeedsEnrichment decides whether a stored snapshot
//     must be re-fetched via the detailed per-item operation.
//
//  2. Concurrency Scheduler: runs many blocking remote calls in parallel,
//     bounded by an admission gate (semaphore) and executed on a fixed worker
//     pool, with progress/ETA telemetry. One item's failure never aborts the
//     batch.
//
//  3. Run Tracker: persists the run lifecycle as a state machine
//     (pending -> running -> completed | completed_with_errors | failed |
//     interrupted) with timestamps and final counters.
//
//  4. Orchestrator: composes the above into one run: worklist -> open run ->
//     discovery -> parallel enrichment -> close run -> statistics.
//
// # Collaborators
//
// The engine owns no storage and no transport. It consumes a Store (snapshot
// warehouse), a RunStore (run rows), a Source (remote API with its own
// rate-limit retry), and an Adapter (per-entity-type field sets and probes),
// all narrow interfaces defined in this package.
//
// # Failure model
//
// Item-level failures (remote error after retries, empty payload) are caught
// at the item boundary and recorded as error results. Store failures are
// fatal to the run. External cancellation stops dispatch, finalizes the run
// as interrupted, and propagates after bookkeeping. Dry-run mode performs
// every fetch but replaces writes with logged no-ops, so its statistics are
// representative of a live run.
//
// # Usage
//
//	orch := ingest.NewOrchestrator(store, store, api, adapter, "helpdesk", opts, logg)
//	summary, err := orch.Sync(ctx)
package ingest
