package ingest

import (
	"context"
	"time"
)

// Snapshot is the transient, in-memory copy of one raw entity row: an
// immutable, timestamped capture of an external object's fields. The
// persisted log is append-only; corrections are new snapshots.
type Snapshot struct {
	EntityType   string         `json:"entity_type"`
	SourceSystem string         `json:"source_system"`
	ExternalID   string         `json:"external_id"`
	Payload      map[string]any `json:"payload"`
	HashBasic    string         `json:"content_hash_basic"`
	HashEnriched string         `json:"content_hash_enriched"`
	RunID        string         `json:"run_id"`
	IngestedAt   time.Time      `json:"ingested_at"`
	EnrichedAt   *time.Time     `json:"enriched_at"`
}

// WorklistQuery selects the latest snapshots that need enrichment.
type WorklistQuery struct {
	EntityType   string
	SourceSystem string

	// FullSync ignores Since and considers every latest snapshot.
	FullSync bool

	// Since restricts the incremental worklist to snapshots ingested after
	// this time. Nil means no lower bound.
	Since *time.Time

	// Probe decides whether a latest snapshot still needs the detail fetch.
	// It is applied in-memory over the candidate rows.
	Probe func(payload map[string]any, enrichedAt *time.Time) bool

	// DisplayName extracts a human-readable label from a payload for
	// progress logs.
	DisplayName func(payload map[string]any) string
}

// Store is the persistence collaborator the engine writes snapshots through.
type Store interface {
	// EntitiesNeedingEnrichment returns the worklist for a run.
	EntitiesNeedingEnrichment(ctx context.Context, q WorklistQuery) ([]WorkItem, error)

	// LatestSnapshot returns the most recent snapshot for the key, or
	// (nil, nil) when none exists.
	LatestSnapshot(ctx context.Context, entityType, sourceSystem, externalID string) (*Snapshot, error)

	// InsertSnapshot appends a snapshot to the log and returns its row id.
	InsertSnapshot(ctx context.Context, snap *Snapshot) (int64, error)
}

// RunStore persists the run lifecycle rows the tracker manages.
type RunStore interface {
	// CreateRun persists a new run row in the running state and returns its
	// run id.
	CreateRun(ctx context.Context, entityType, sourceSystem string, meta RunMetadata) (string, error)

	// CompleteRun finalizes a run: terminal status, completion time and the
	// final counters are written in one update.
	CompleteRun(ctx context.Context, runID string, fin RunCompletion) error

	// LastCompletedRun returns the start time of the most recent successful
	// run for the entity type, or (nil, nil) when there is none. It anchors
	// the incremental worklist.
	LastCompletedRun(ctx context.Context, entityType, sourceSystem string) (*time.Time, error)
}

// Source is the remote collaborator. Rate limiting and the single bounded
// retry live entirely inside its implementation; by the time an error reaches
// the engine, retries are exhausted and the failure is item-level.
type Source interface {
	// FetchDetail returns the full payload for one record, or (nil, nil)
	// when the source has no data for the id.
	FetchDetail(ctx context.Context, externalID string) (map[string]any, error)

	// Search returns one page of shallow summary records.
	Search(ctx context.Context, q SearchQuery) ([]SummaryRecord, error)
}

// SearchQuery mirrors the source collaborator's list request.
type SearchQuery struct {
	UpdatedSince *time.Time
	Page         int
	PerPage      int
}

// SummaryRecord is one row of a shallow list fetch.
type SummaryRecord struct {
	ExternalID  string
	DisplayName string
	Fields      map[string]any
}

// Adapter supplies the per-entity-type knowledge the engine needs: which
// fields go into each fingerprint, how to probe for missing enrichment, and
// how to label records.
type Adapter interface {
	EntityType() string
	BasicFields() FieldSet
	EnrichedFields() FieldSet
	Probe() EnrichmentProbe
	DisplayName(payload map[string]any) string
}
